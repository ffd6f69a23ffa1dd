// Package convert turns a finalized tracked request into aggregated metric
// statistics and, for interesting requests, a detailed slow-transaction
// record.
package convert

import (
	"time"

	"github.com/tracemark/agent/layer"
	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/request"
)

// A Store is the external sink finished metrics and slow transactions are
// handed to. The converters are pure producers into it; its own
// synchronization and failures are not masked here.
type Store interface {
	Track(metrics metric.Map)
	TrackJob(metrics metric.Map)
	TrackSlowTransaction(t *metric.SlowTransaction)
	TrackSlowJob(t *metric.SlowTransaction)
	CurrentTimestamp() time.Time
}

// A Scorer rates how interesting a request is for retention as a slow
// transaction. Only web requests are scored.
type Scorer interface {
	Score(r *request.TrackedRequest) float64
}

// A Retention policy learns that a request has been offered for retention,
// so later scores for the same name can be discounted.
type Retention interface {
	Stored(r *request.TrackedRequest)
}

// A Histogram accumulates response-time distributions per unique name.
type Histogram interface {
	Add(name string, seconds float64)
}

// base carries the logic shared by all converters: locating the scope layer
// that defines the unique name of the whole request.
type base struct {
	req   *request.TrackedRequest
	scope *layer.Layer

	scopeResolved bool
}

func newBase(r *request.TrackedRequest) base {
	requestMustBeRecordable(r)

	return base{req: r}
}

func requestMustBeRecordable(r *request.TrackedRequest) {
	if r == nil {
		panic("converter request must not be nil")
	}

	if !r.Finalized() {
		panic("converters only walk finalized trees")
	}
}

// ScopeLayer returns the first Controller-typed layer in pre-order, else
// the first Job-typed one, else nil. The result is cached for the life of
// the converter.
func (b *base) ScopeLayer() *layer.Layer {
	if !b.scopeResolved {
		b.scope = layer.FindScope(b.req.Root())
		b.scopeResolved = true
	}

	return b.scope
}
