// Package metric defines the aggregated statistics produced from a finished
// layer tree and the detailed record kept for slow requests.
package metric

import (
	"time"

	"github.com/tracemark/agent/backtrace"
)

// An ID is the identity a statistic aggregates under. Two layers with the
// same name, scope and description fold into the same statistic.
type ID struct {
	Name  string
	Scope string
	Desc  string
}

// Stats holds the cumulative statistics for one metric identity.
type Stats struct {
	CallCount     int
	TotalTime     time.Duration
	ExclusiveTime time.Duration

	// Scoped reports whether the identity carries a non-empty scope.
	Scoped bool

	// Frames holds the parsed application backtrace of one slow or
	// repeated call folded into this statistic, if any was captured.
	Frames []backtrace.Frame
}

// NewStats creates an empty statistic for an identity.
func NewStats(id ID) *Stats {
	return &Stats{Scoped: id.Scope != ""}
}

// Fold adds one layer's timings. The call count increments by one per fold.
func (s *Stats) Fold(total, exclusive time.Duration) {
	s.CallCount++
	s.TotalTime += total
	s.ExclusiveTime += exclusive
}

// Merge folds another statistic for the same identity into this one. Merge
// is commutative and associative over counts and times, so visitation order
// never changes the final aggregate.
func (s *Stats) Merge(o *Stats) {
	s.CallCount += o.CallCount
	s.TotalTime += o.TotalTime
	s.ExclusiveTime += o.ExclusiveTime

	if s.Frames == nil {
		s.Frames = o.Frames
	}
}

// A Map collects statistics by identity.
type Map map[ID]*Stats

// GetOrCreate returns the statistic for id, creating an empty one on first
// use.
func (m Map) GetOrCreate(id ID) *Stats {
	s, ok := m[id]
	if !ok {
		s = NewStats(id)
		m[id] = s
	}

	return s
}

// MergeMap folds every statistic of o into m.
func (m Map) MergeMap(o Map) {
	for id, s := range o {
		m.GetOrCreate(id).Merge(s)
	}
}

// A SlowTransaction is the detailed record retained for one interesting
// request.
type SlowTransaction struct {
	URI        string
	Name       string
	TotalTime  time.Duration
	Metrics    Map
	Context    map[string]any
	StopTime   time.Time
	RecordedAt time.Time

	// Profile is a placeholder for a sampled call profile. Nothing in
	// this core fills it in.
	Profile []backtrace.Frame

	// Score is the retention score computed when the record was built.
	// Non-web requests carry -1 so they never displace a web request
	// under a max-score retention policy.
	Score float64
}
