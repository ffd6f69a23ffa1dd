package store

import (
	"sort"
	"sync"
)

const defaultHistogramBins = 50

// A NumericHistogram is a streaming histogram with a bounded number of
// bins. Adding a value past the bin limit merges the two closest bins, so
// memory stays constant regardless of how many values arrive.
type NumericHistogram struct {
	maxBins int
	bins    []histogramBin
	total   int
}

type histogramBin struct {
	value float64
	count int
}

// NewNumericHistogram creates a histogram with at most maxBins bins.
func NewNumericHistogram(maxBins int) *NumericHistogram {
	if maxBins <= 0 {
		maxBins = defaultHistogramBins
	}

	return &NumericHistogram{maxBins: maxBins}
}

// Add folds one value into the histogram.
func (h *NumericHistogram) Add(value float64) {
	h.total++

	i := sort.Search(len(h.bins), func(i int) bool {
		return h.bins[i].value >= value
	})

	if i < len(h.bins) && h.bins[i].value == value {
		h.bins[i].count++
		return
	}

	h.bins = append(h.bins, histogramBin{})
	copy(h.bins[i+1:], h.bins[i:])
	h.bins[i] = histogramBin{value: value, count: 1}

	if len(h.bins) > h.maxBins {
		h.mergeClosest()
	}
}

func (h *NumericHistogram) mergeClosest() {
	closest := 0
	smallestGap := h.bins[1].value - h.bins[0].value

	for i := 1; i < len(h.bins)-1; i++ {
		gap := h.bins[i+1].value - h.bins[i].value
		if gap < smallestGap {
			smallestGap = gap
			closest = i
		}
	}

	a, b := h.bins[closest], h.bins[closest+1]
	merged := histogramBin{
		value: (a.value*float64(a.count) + b.value*float64(b.count)) /
			float64(a.count+b.count),
		count: a.count + b.count,
	}

	h.bins[closest] = merged
	h.bins = append(h.bins[:closest+1], h.bins[closest+2:]...)
}

// Count returns how many values have been added.
func (h *NumericHistogram) Count() int {
	return h.total
}

// Quantile returns an approximation of the q-quantile, with q in [0, 1].
// It returns 0 for an empty histogram.
func (h *NumericHistogram) Quantile(q float64) float64 {
	if h.total == 0 {
		return 0
	}

	target := q * float64(h.total)
	seen := 0.0

	for _, bin := range h.bins {
		seen += float64(bin.count)
		if seen >= target {
			return bin.value
		}
	}

	return h.bins[len(h.bins)-1].value
}

// NumericHistograms keeps one NumericHistogram per unique name. It
// implements the Histogram collaborator of the converters.
type NumericHistograms struct {
	mu      sync.Mutex
	maxBins int
	byName  map[string]*NumericHistogram
}

// NewNumericHistograms creates the per-name histogram collection.
func NewNumericHistograms(maxBins int) *NumericHistograms {
	return &NumericHistograms{
		maxBins: maxBins,
		byName:  make(map[string]*NumericHistogram),
	}
}

// Add folds one response time, in seconds, into name's histogram.
func (h *NumericHistograms) Add(name string, seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	hist, ok := h.byName[name]
	if !ok {
		hist = NewNumericHistogram(h.maxBins)
		h.byName[name] = hist
	}

	hist.Add(seconds)
}

// Drain returns the per-name histograms and starts the collection over.
func (h *NumericHistograms) Drain() map[string]*NumericHistogram {
	h.mu.Lock()
	defer h.mu.Unlock()

	drained := h.byName
	h.byName = make(map[string]*NumericHistogram)

	return drained
}

// Quantile returns an approximation of the q-quantile of name's response
// times, or 0 if the name was never seen.
func (h *NumericHistograms) Quantile(name string, q float64) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	hist, ok := h.byName[name]
	if !ok {
		return 0
	}

	return hist.Quantile(q)
}
