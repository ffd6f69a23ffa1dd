package convert

import (
	"io"
	"log"

	"github.com/tracemark/agent/backtrace"
	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/request"
)

// A SlowJobConverter builds the detailed record retained for an interesting
// background job. Jobs have no URI to check and no scorer; they are scored
// by their own duration.
type SlowJobConverter struct {
	base

	parser    backtrace.Parser
	retention Retention
	logger    *log.Logger
}

// NewSlowJobConverter creates the converter over a finalized job request.
func NewSlowJobConverter(
	r *request.TrackedRequest,
	retention Retention,
	parser backtrace.Parser,
	logger *log.Logger,
) *SlowJobConverter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &SlowJobConverter{
		base:      newBase(r),
		parser:    parser,
		retention: retention,
		logger:    logger,
	}
}

// Call produces the slow-job record, or nil when the job has no scope
// layer.
func (c *SlowJobConverter) Call() *metric.SlowTransaction {
	scope := c.ScopeLayer()
	if scope == nil {
		return nil
	}

	if c.retention != nil {
		c.retention.Stored(c.req)
	}

	metrics := NewMetricsConverter(c.req, c.parser, c.logger).Call()
	total := c.req.Root().TotalTime()

	return &metric.SlowTransaction{
		Name:      scope.MetricName(),
		TotalTime: total,
		Metrics:   metrics,
		Context:   c.req.Annotations(),
		StopTime:  c.req.StopTime(),
		Score:     total.Seconds(),
	}
}
