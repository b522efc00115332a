package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/url"
	"testing"
)

type statusErr int

func (s statusErr) Error() string   { return "status" }
func (s statusErr) HTTPStatus() int { return int(s) }

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "status", err: fmt.Errorf("buildings: %w", statusErr(404)), want: "http_404"},
		{name: "deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "canceled", err: &url.Error{Op: "Get", URL: "http://x", Err: context.Canceled}, want: "canceled"},
		{name: "plain", err: goerrors.New("boom"), want: "errors_errorstring"},
		{name: "url error wrapping plain", err: &url.Error{Op: "Get", URL: "http://x", Err: goerrors.New("eof")}, want: "errors_errorstring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
