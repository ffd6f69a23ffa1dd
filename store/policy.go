package store

import (
	"sync"
	"time"

	"github.com/tracemark/agent/request"
)

const (
	// speedPointsPerSecond converts request duration into score points.
	speedPointsPerSecond = 0.25

	// agePointsPerMinute rewards names that have not been captured for a
	// while, so a hot endpoint cannot monopolize the retention set.
	agePointsPerMinute = 0.5

	// maxAgePoints caps the age reward. A name never captured before gets
	// the full cap.
	maxAgePoints = 10.0
)

// A SlowRequestPolicy scores web requests for retention as slow
// transactions and remembers when each unique name was last offered for
// retention.
type SlowRequestPolicy struct {
	mu         sync.Mutex
	clock      request.Clock
	lastStored map[string]time.Time
}

// NewSlowRequestPolicy creates the policy.
func NewSlowRequestPolicy(clock request.Clock) *SlowRequestPolicy {
	if clock == nil {
		panic("clock must not be nil")
	}

	return &SlowRequestPolicy{
		clock:      clock,
		lastStored: make(map[string]time.Time),
	}
}

// Score rates a finalized request: slower is more interesting, and so is a
// name that has not been captured recently.
func (p *SlowRequestPolicy) Score(r *request.TrackedRequest) float64 {
	points := r.Root().TotalTime().Seconds() * speedPointsPerSecond

	p.mu.Lock()
	last, seen := p.lastStored[r.UniqueName()]
	p.mu.Unlock()

	if !seen {
		return points + maxAgePoints
	}

	age := p.clock.CurrentTime().Sub(last).Minutes() * agePointsPerMinute
	if age > maxAgePoints {
		age = maxAgePoints
	}
	if age < 0 {
		age = 0
	}

	return points + age
}

// Stored records that the request's name was offered for retention.
func (p *SlowRequestPolicy) Stored(r *request.TrackedRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastStored[r.UniqueName()] = p.clock.CurrentTime()
}
