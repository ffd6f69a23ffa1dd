package convert

import (
	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/request"
)

// An ErrorConverter counts requests that raised an error, keyed by the
// request's unique name.
type ErrorConverter struct {
	base
}

// NewErrorConverter creates the converter over a finalized request.
func NewErrorConverter(r *request.TrackedRequest) *ErrorConverter {
	return &ErrorConverter{base: newBase(r)}
}

// Call produces a single "Errors/<unique name>" count, or an empty map for
// requests without the error flag.
func (c *ErrorConverter) Call() metric.Map {
	metrics := metric.Map{}

	if !c.req.Errored() {
		return metrics
	}

	id := metric.ID{Name: "Errors/" + c.req.UniqueName()}
	metrics.GetOrCreate(id).Fold(0, 0)

	return metrics
}
