package convert

import (
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/request"
)

// Headers frontend proxies use to stamp the moment a request entered the
// queue, in "t=<epoch>" or bare epoch form.
var queueStartHeaders = []string{"X-Queue-Start", "X-Request-Start"}

// A QueueTimeConverter measures how long a web request waited between the
// frontend proxy and the application.
type QueueTimeConverter struct {
	base

	logger *log.Logger
}

// NewQueueTimeConverter creates the converter over a finalized request.
func NewQueueTimeConverter(
	r *request.TrackedRequest,
	logger *log.Logger,
) *QueueTimeConverter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &QueueTimeConverter{
		base:   newBase(r),
		logger: logger,
	}
}

// Call produces a "QueueTime/Request" statistic scoped under the request's
// unique name, or an empty map when no queue-start header is present or the
// wait would be negative.
func (c *QueueTimeConverter) Call() metric.Map {
	metrics := metric.Map{}

	headers := c.req.Headers()
	if headers == nil {
		return metrics
	}

	var queuedAt time.Time
	for _, h := range queueStartHeaders {
		if v := headers.Get(h); v != "" {
			queuedAt = parseQueueStart(v)
			break
		}
	}

	if queuedAt.IsZero() {
		return metrics
	}

	wait := c.req.Root().StartTime.Sub(queuedAt)
	if wait <= 0 {
		c.logger.Printf("queue start after request start; dropping queue time")
		return metrics
	}

	id := metric.ID{Name: "QueueTime/Request", Scope: c.req.UniqueName()}
	metrics.GetOrCreate(id).Fold(wait, wait)

	return metrics
}

// parseQueueStart accepts an epoch timestamp in seconds, milliseconds,
// microseconds, or nanoseconds, optionally prefixed with "t=". It returns
// the zero time when the value is unparseable.
func parseQueueStart(v string) time.Time {
	v = strings.TrimPrefix(v, "t=")

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return time.Time{}
	}

	// Pick the unit by magnitude: epoch seconds are ~1e9, milliseconds
	// ~1e12, microseconds ~1e15, nanoseconds ~1e18.
	switch {
	case f < 1e11:
		return time.Unix(0, int64(f*float64(time.Second)))
	case f < 1e14:
		return time.Unix(0, int64(f*float64(time.Millisecond)))
	case f < 1e17:
		return time.Unix(0, int64(f*float64(time.Microsecond)))
	default:
		return time.Unix(0, int64(f))
	}
}
