// Package metrics turns client events into StatsD metrics.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/gpse/sesam-client/internal/observability/errors"
	"github.com/gpse/sesam-client/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// APICall describes one completed backend request.
type APICall struct {
	Op       string
	Method   string
	Status   int
	Duration time.Duration
	Err      error
}

// EmitAPICall records a request counter and its latency.
func EmitAPICall(sink statsd.Sink, in APICall) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	if in.Err != nil {
		result = ResultError
	}
	tags := map[string]string{
		"op":     in.Op,
		"method": in.Method,
		"result": result,
	}
	if in.Status > 0 {
		tags["status"] = strconv.Itoa(in.Status)
	}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("api.duration", in.Duration, CloneTags(tags))
	}
}

// GuardDecision records the outcome of a navigation check.
func GuardDecision(sink statsd.Sink, route, decision string) {
	if sink == nil {
		return
	}
	sink.Count("navigation.decision", 1, map[string]string{"route": route, "decision": decision})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
