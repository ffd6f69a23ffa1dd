package store

import (
	"sync"

	"github.com/tracemark/agent/metric"
)

// DefaultRetainedItems is how many slow-transaction records a set keeps per
// reporting period.
const DefaultRetainedItems = 10

// A ScoredItemSet retains the highest-scoring slow-transaction records of a
// reporting period. Once the set is full, a new record only enters by
// displacing the lowest-scoring one.
type ScoredItemSet struct {
	mu       sync.Mutex
	capacity int
	items    []*metric.SlowTransaction
}

// NewScoredItemSet creates a set retaining at most capacity items.
func NewScoredItemSet(capacity int) *ScoredItemSet {
	capacityMustBePositive(capacity)

	return &ScoredItemSet{capacity: capacity}
}

func capacityMustBePositive(capacity int) {
	if capacity <= 0 {
		panic("scored item set capacity must be positive")
	}
}

// Add offers an item for retention.
func (s *ScoredItemSet) Add(t *metric.SlowTransaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) < s.capacity {
		s.items = append(s.items, t)
		return
	}

	lowest := 0
	for i, item := range s.items {
		if item.Score < s.items[lowest].Score {
			lowest = i
		}
	}

	if t.Score > s.items[lowest].Score {
		s.items[lowest] = t
	}
}

// Items returns the retained items.
func (s *ScoredItemSet) Items() []*metric.SlowTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]*metric.SlowTransaction, len(s.items))
	copy(items, s.items)

	return items
}

// Drain returns the retained items and empties the set.
func (s *ScoredItemSet) Drain() []*metric.SlowTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items
	s.items = nil

	return items
}
