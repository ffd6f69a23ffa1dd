package request

// repeatedCallThreshold is the number of identically-named calls after which
// the N+1 pattern is considered confirmed and worth a backtrace.
const repeatedCallThreshold = 5

// A CallSet counts, per layer name, how often a logically-identical call ran
// within one request. Individually fast but extremely frequent identical
// calls (N+1 queries) are collectively important, so the set flags a name
// for backtrace capture once the repetition threshold is crossed, instead
// of paying for a capture on every occurrence.
type CallSet struct {
	entries map[string]*callEntry
}

type callEntry struct {
	count   int
	capture bool
}

// NewCallSet creates an empty call set.
func NewCallSet() *CallSet {
	return &CallSet{
		entries: make(map[string]*callEntry),
	}
}

// Update counts one more occurrence of name. Crossing the repetition
// threshold turns the capture flag on; the flag never regresses.
func (s *CallSet) Update(name, _ string) {
	e := s.getOrCreate(name)

	e.count++
	if e.count >= repeatedCallThreshold {
		e.capture = true
	}
}

// ShouldCaptureBacktrace reports whether name has been flagged as a
// repeated-call pattern.
func (s *CallSet) ShouldCaptureBacktrace(name string) bool {
	return s.getOrCreate(name).capture
}

// Count returns how many times name has been seen.
func (s *CallSet) Count(name string) int {
	return s.getOrCreate(name).count
}

func (s *CallSet) getOrCreate(name string) *callEntry {
	e, ok := s.entries[name]
	if !ok {
		e = &callEntry{}
		s.entries[name] = e
	}

	return e
}
