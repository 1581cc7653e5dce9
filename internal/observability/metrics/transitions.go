package metrics

import (
	"time"

	obserrors "github.com/chapelhq/backoffice-go/internal/observability/errors"
	"github.com/chapelhq/backoffice-go/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// TransitionMetric captures details about an admin lifecycle transition for
// metric emission.
type TransitionMetric struct {
	Action   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitLifecycleTransition emits standardised admin lifecycle metrics. A noop
// result marks transitions that were requested but changed nothing, such as
// approving an already approved admin.
func EmitLifecycleTransition(sink statsd.Sink, in TransitionMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"action": in.Action,
		"result": in.Result,
	}

	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("lifecycle.transition", 1, tags)

	if in.Duration > 0 {
		sink.Timing("lifecycle.transition_duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map. Sinks mutate tag maps when
// appending defaults, so shared maps must be cloned before reuse.
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
