package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strconv"
	"strings"

	"github.com/gpse/sesam-client/internal/ports"
)

// Classify returns a short, low-cardinality label for err suitable for metric tags.
// HTTP failures become "http_<status>"; timeouts and cancellations get fixed labels;
// anything else is named after its innermost concrete type.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var sc ports.StatusCoder
	if goerrors.As(err, &sc) {
		return "http_" + strconv.Itoa(sc.HTTPStatus())
	}
	if goerrors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if goerrors.Is(err, context.Canceled) {
		return "canceled"
	}
	var ne net.Error
	if goerrors.As(err, &ne) && ne.Timeout() {
		return "timeout"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	name := strings.ToLower(strings.ReplaceAll(t.String(), ".", "_"))
	if name == "" {
		return "unknown"
	}
	return name
}
