package convert

import (
	"io"
	"log"

	"github.com/tracemark/agent/backtrace"
	"github.com/tracemark/agent/layer"
	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/request"
)

// A MetricsConverter walks the finished tree once and produces the metric
// statistics of every layer, resolved to the right scope.
type MetricsConverter struct {
	base

	parser backtrace.Parser
	logger *log.Logger
}

// NewMetricsConverter creates a converter over a finalized request.
func NewMetricsConverter(
	r *request.TrackedRequest,
	parser backtrace.Parser,
	logger *log.Logger,
) *MetricsConverter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &MetricsConverter{
		base:   newBase(r),
		parser: parser,
		logger: logger,
	}
}

// Call produces the mapping of metric identity to statistics. It returns an
// empty map when the request has no scope layer.
//
// The walk maintains a stack of subscope layers, pushed on entering any
// subscopable layer and popped on leaving it. Only the innermost subscope
// is ever consulted, which is what lets subscopable layers nest without
// explicit depth bookkeeping.
func (c *MetricsConverter) Call() metric.Map {
	metrics := metric.Map{}

	scope := c.ScopeLayer()
	if scope == nil {
		return metrics
	}

	// Backtraces are reattached in a final pass: a later-visited layer can
	// fold into an identity that already carries one, and the overwrite
	// must not drop it.
	captured := make(map[metric.ID][]backtrace.Frame)

	var subscopes []*layer.Layer

	w := layer.NewWalker(c.req.Root())
	w.Before = func(l *layer.Layer) {
		if l.Subscopable {
			subscopes = append([]*layer.Layer{l}, subscopes...)
		}
	}
	w.After = func(l *layer.Layer) {
		if l.Subscopable && len(subscopes) > 0 && subscopes[0] == l {
			subscopes = subscopes[1:]
		}
	}

	w.Walk(func(l *layer.Layer) bool {
		id := metric.ID{
			Name:  l.MetricName(),
			Scope: c.resolveScope(l, subscopes),
			Desc:  l.Desc,
		}
		metrics.GetOrCreate(id).Fold(l.TotalTime(), l.ExclusiveTime())

		// Per-category rollup, independent of naming.
		rollup := metric.ID{Name: l.Type + "/all"}
		metrics.GetOrCreate(rollup).Fold(l.TotalTime(), l.ExclusiveTime())

		if l.Backtrace != nil {
			if frames := c.parser.Parse(l.Backtrace); len(frames) > 0 {
				captured[id] = frames
			} else {
				c.logger.Printf(
					"dropping backtrace of %s: no application frames",
					l.MetricName())
			}
		}

		return false
	})

	for id, frames := range captured {
		if s, ok := metrics[id]; ok {
			s.Frames = frames
		}
	}

	return metrics
}

// A layer inside a subscope is scoped under the innermost subscope's name;
// the overall scope layer is never scoped under itself; everything else is
// scoped under the overall scope layer's name.
func (c *MetricsConverter) resolveScope(
	l *layer.Layer,
	subscopes []*layer.Layer,
) string {
	switch {
	case len(subscopes) > 0 && subscopes[0] != l:
		return subscopes[0].MetricName()
	case l == c.ScopeLayer():
		return ""
	default:
		return c.ScopeLayer().MetricName()
	}
}
