// Package store accumulates the metrics and slow transactions of finished
// requests between reporting periods, and persists them through a
// recording.DataRecorder.
package store

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/tracemark/agent/metric"
	"github.com/tracemark/agent/recording"
	"github.com/tracemark/agent/request"
)

const (
	metricsTable          = "metrics"
	slowTransactionsTable = "slow_transactions"
	histogramsTable       = "histograms"
)

// A Store collects the output of many tracked requests. Unlike a
// TrackedRequest, a Store is shared across the whole process and guards
// its state with a mutex.
type Store struct {
	mu sync.Mutex

	clock    request.Clock
	logger   *log.Logger
	recorder recording.DataRecorder

	webMetrics metric.Map
	jobMetrics metric.Map
	slowWeb    *ScoredItemSet
	slowJobs   *ScoredItemSet

	periodHistograms *NumericHistograms

	tablesReady bool
}

// New creates a store. The recorder may be nil, in which case ReportPeriod
// discards the period's data after draining it.
func New(
	clock request.Clock,
	recorder recording.DataRecorder,
	logger *log.Logger,
) *Store {
	if clock == nil {
		panic("clock must not be nil")
	}

	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Store{
		clock:      clock,
		logger:     logger,
		recorder:   recorder,
		webMetrics: metric.Map{},
		jobMetrics: metric.Map{},
		slowWeb:    NewScoredItemSet(DefaultRetainedItems),
		slowJobs:   NewScoredItemSet(DefaultRetainedItems),
	}
}

// WithPeriodHistograms sets the per-period response-time histograms. Their
// quantile summaries are persisted and the histograms start over on every
// reporting period.
func (s *Store) WithPeriodHistograms(h *NumericHistograms) *Store {
	s.periodHistograms = h
	return s
}

// Track merges one request's metric statistics into the current period.
func (s *Store) Track(metrics metric.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.webMetrics.MergeMap(metrics)
}

// TrackJob merges one job's metric statistics into the current period.
func (s *Store) TrackJob(metrics metric.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobMetrics.MergeMap(metrics)
}

// TrackSlowTransaction offers a slow-transaction record for retention.
func (s *Store) TrackSlowTransaction(t *metric.SlowTransaction) {
	s.slowWeb.Add(t)
}

// TrackSlowJob offers a slow-job record for retention.
func (s *Store) TrackSlowJob(t *metric.SlowTransaction) {
	s.slowJobs.Add(t)
}

// CurrentTimestamp returns the store's notion of now.
func (s *Store) CurrentTimestamp() time.Time {
	return s.clock.CurrentTime()
}

// SlowTransactions returns the currently retained slow-transaction records.
func (s *Store) SlowTransactions() []*metric.SlowTransaction {
	return s.slowWeb.Items()
}

// ReportPeriod drains the current period and persists it through the
// recorder. The store mutex is held for the whole drain-and-persist
// sequence: trackers, the reporting ticker, and the final flush on shutdown
// all funnel through it.
func (s *Store) ReportPeriod() {
	s.mu.Lock()
	defer s.mu.Unlock()

	webMetrics := s.webMetrics
	jobMetrics := s.jobMetrics
	s.webMetrics = metric.Map{}
	s.jobMetrics = metric.Map{}

	slowWeb := s.slowWeb.Drain()
	slowJobs := s.slowJobs.Drain()

	var histograms map[string]*NumericHistogram
	if s.periodHistograms != nil {
		histograms = s.periodHistograms.Drain()
	}

	if s.recorder == nil {
		return
	}

	s.ensureTables()

	now := s.clock.CurrentTime().Unix()

	for id, stats := range webMetrics {
		s.recorder.InsertData(metricsTable, metricRow(id, stats, "web", now))
	}

	for id, stats := range jobMetrics {
		s.recorder.InsertData(metricsTable, metricRow(id, stats, "job", now))
	}

	for _, t := range append(slowWeb, slowJobs...) {
		s.recorder.InsertData(slowTransactionsTable, slowTransactionRow(t, now))
	}

	for name, hist := range histograms {
		s.recorder.InsertData(histogramsTable, histogramRow(name, hist, now))
	}

	s.recorder.Flush()
}

func (s *Store) ensureTables() {
	if s.tablesReady {
		return
	}

	s.recorder.CreateTable(metricsTable, MetricRow{})
	s.recorder.CreateTable(slowTransactionsTable, SlowTransactionRow{})
	s.recorder.CreateTable(histogramsTable, HistogramRow{})
	s.tablesReady = true
}

// A MetricRow is the persisted form of one metric statistic.
type MetricRow struct {
	Name             string
	Scope            string
	Desc             string
	Kind             string
	CallCount        int
	TotalSeconds     float64
	ExclusiveSeconds float64
	RecordedAt       int64
}

// A SlowTransactionRow is the persisted form of one slow-transaction
// record.
type SlowTransactionRow struct {
	Name         string
	URI          string
	TotalSeconds float64
	Score        float64
	StopTime     int64
	RecordedAt   int64
}

func metricRow(id metric.ID, stats *metric.Stats, kind string, now int64) MetricRow {
	return MetricRow{
		Name:             id.Name,
		Scope:            id.Scope,
		Desc:             id.Desc,
		Kind:             kind,
		CallCount:        stats.CallCount,
		TotalSeconds:     stats.TotalTime.Seconds(),
		ExclusiveSeconds: stats.ExclusiveTime.Seconds(),
		RecordedAt:       now,
	}
}

// A HistogramRow is the persisted quantile summary of one name's
// response-time histogram over one reporting period.
type HistogramRow struct {
	Name       string
	CallCount  int
	P50        float64
	P95        float64
	P99        float64
	RecordedAt int64
}

func histogramRow(name string, h *NumericHistogram, now int64) HistogramRow {
	return HistogramRow{
		Name:       name,
		CallCount:  h.Count(),
		P50:        h.Quantile(0.5),
		P95:        h.Quantile(0.95),
		P99:        h.Quantile(0.99),
		RecordedAt: now,
	}
}

func slowTransactionRow(t *metric.SlowTransaction, now int64) SlowTransactionRow {
	return SlowTransactionRow{
		Name:         t.Name,
		URI:          t.URI,
		TotalSeconds: t.TotalTime.Seconds(),
		Score:        t.Score,
		StopTime:     t.StopTime.Unix(),
		RecordedAt:   now,
	}
}
