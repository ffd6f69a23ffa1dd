package convert

import (
	"io"
	"log"

	"github.com/tracemark/agent/backtrace"
	"github.com/tracemark/agent/request"
)

// A Dispatcher is the Recorder a TrackedRequest reports to on finalization.
// It runs the converters and forwards their output to the store and the
// response-time histograms.
type Dispatcher struct {
	store     Store
	scorer    Scorer
	retention Retention
	parser    backtrace.Parser
	logger    *log.Logger

	ignorePatterns []string

	allTimeHistogram Histogram
	periodHistogram  Histogram
}

// NewDispatcher creates a dispatcher over the given collaborators.
func NewDispatcher(
	store Store,
	scorer Scorer,
	retention Retention,
	parser backtrace.Parser,
	logger *log.Logger,
) *Dispatcher {
	storeMustNotBeNil(store)

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Dispatcher{
		store:     store,
		scorer:    scorer,
		retention: retention,
		parser:    parser,
		logger:    logger,
	}
}

func storeMustNotBeNil(store Store) {
	if store == nil {
		panic("store must not be nil")
	}
}

// WithIgnorePatterns sets the URI patterns that suppress slow-transaction
// records.
func (d *Dispatcher) WithIgnorePatterns(patterns []string) *Dispatcher {
	d.ignorePatterns = patterns
	return d
}

// WithHistograms sets the all-time and current-period response-time
// histograms.
func (d *Dispatcher) WithHistograms(allTime, period Histogram) *Dispatcher {
	d.allTimeHistogram = allTime
	d.periodHistogram = period
	return d
}

// RecordRequest implements request.Recorder. Metric and error statistics
// are produced for every request; web requests additionally produce queue
// time and a slow-transaction candidate, job requests their job-side
// equivalents. Store failures are not masked here.
func (d *Dispatcher) RecordRequest(r *request.TrackedRequest) {
	metrics := NewMetricsConverter(r, d.parser, d.logger).Call()
	metrics.MergeMap(NewErrorConverter(r).Call())

	switch {
	case r.IsWeb():
		metrics.MergeMap(NewQueueTimeConverter(r, d.logger).Call())
		d.store.Track(metrics)

		slow := NewSlowRequestConverter(
			r, d.scorer, d.retention, d.ignorePatterns,
			d.parser, d.logger,
		).Call()
		if slow != nil {
			slow.RecordedAt = d.store.CurrentTimestamp()
			d.store.TrackSlowTransaction(slow)
		}
	case r.IsJob():
		d.store.TrackJob(metrics)

		slow := NewSlowJobConverter(r, d.retention, d.parser, d.logger).Call()
		if slow != nil {
			slow.RecordedAt = d.store.CurrentTimestamp()
			d.store.TrackSlowJob(slow)
		}
	default:
		d.store.Track(metrics)
	}

	d.updateHistograms(r)
}

func (d *Dispatcher) updateHistograms(r *request.TrackedRequest) {
	name := r.UniqueName()
	if name == request.UnknownName {
		return
	}

	seconds := r.Root().TotalTime().Seconds()

	if d.allTimeHistogram != nil {
		d.allTimeHistogram.Add(name, seconds)
	}

	if d.periodHistogram != nil {
		d.periodHistogram.Add(name, seconds)
	}
}
