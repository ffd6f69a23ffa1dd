package convert

import (
	"io"
	"log"
	"regexp"

	"github.com/tracemark/agent/backtrace"
	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/request"
)

// nonWebScore guarantees a non-web request never competes against web
// requests under a max-score retention policy.
const nonWebScore = -1

// A SlowRequestConverter builds the detailed trace record retained for an
// interesting web request.
type SlowRequestConverter struct {
	base

	parser    backtrace.Parser
	retention Retention
	ignore    []*regexp.Regexp
	logger    *log.Logger
	score     float64
}

// NewSlowRequestConverter creates the converter and computes the request's
// retention score up front: the scorer's verdict for web requests, the
// sentinel for everything else. Invalid ignore patterns are dropped with a
// log line.
func NewSlowRequestConverter(
	r *request.TrackedRequest,
	scorer Scorer,
	retention Retention,
	ignorePatterns []string,
	parser backtrace.Parser,
	logger *log.Logger,
) *SlowRequestConverter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	c := &SlowRequestConverter{
		base:      newBase(r),
		parser:    parser,
		retention: retention,
		logger:    logger,
	}

	c.score = nonWebScore
	if r.IsWeb() && scorer != nil {
		c.score = scorer.Score(r)
	}

	for _, p := range ignorePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Printf("invalid ignore pattern %q: %v", p, err)
			continue
		}

		c.ignore = append(c.ignore, re)
	}

	return c
}

// Score returns the retention score computed at construction time.
func (c *SlowRequestConverter) Score() float64 {
	return c.score
}

// Call produces the slow-transaction record, or nil when the request has no
// scope layer or its URI matches an ignore pattern.
func (c *SlowRequestConverter) Call() *metric.SlowTransaction {
	scope := c.ScopeLayer()
	if scope == nil {
		return nil
	}

	if c.retention != nil {
		c.retention.Stored(c.req)
	}

	uri, _ := c.req.Annotation(request.AnnotationURI).(string)
	for _, re := range c.ignore {
		if re.MatchString(uri) {
			c.logger.Printf("ignoring slow transaction for %q", uri)
			return nil
		}
	}

	metrics := NewMetricsConverter(c.req, c.parser, c.logger).Call()

	return &metric.SlowTransaction{
		URI:       uri,
		Name:      scope.MetricName(),
		TotalTime: c.req.Root().TotalTime(),
		Metrics:   metrics,
		Context:   c.req.Annotations(),
		StopTime:  c.req.StopTime(),
		Score:     c.score,
	}
}
