// Package agent assembles the tracing core, the store, and the diagnostics
// monitor into one running APM agent.
package agent

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/tracemark/agent/backtrace"
	"github.com/tracemark/agent/config"
	"github.com/tracemark/agent/convert"
	"github.com/tracemark/agent/monitoring"
	"github.com/tracemark/agent/recording"
	"github.com/tracemark/agent/request"
	"github.com/tracemark/agent/store"
)

const histogramBins = 50

// An Agent owns the process-wide collaborators every tracked request
// reports into.
type Agent struct {
	cfg    config.Config
	logger *log.Logger
	clock  request.Clock

	recorder   recording.DataRecorder
	store      *store.Store
	policy     *store.SlowRequestPolicy
	dispatcher *convert.Dispatcher
	monitor    *monitoring.Monitor

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates an agent from the given configuration.
func New(cfg config.Config, logger *log.Logger) *Agent {
	if logger == nil {
		logger = log.New(os.Stderr, "tracemark: ", log.LstdFlags)
	}

	clock := request.WallClock{}
	recorder := newRecorder(cfg, logger)
	policy := store.NewSlowRequestPolicy(clock)

	allTime := store.NewNumericHistograms(histogramBins)
	period := store.NewNumericHistograms(histogramBins)

	// The store rotates the period histograms: it persists their quantile
	// summaries and resets them on every reporting period.
	st := store.New(clock, recorder, logger).
		WithPeriodHistograms(period)

	dispatcher := convert.NewDispatcher(
		st, policy, policy, &backtrace.AppParser{}, logger).
		WithIgnorePatterns(cfg.IgnorePatterns).
		WithHistograms(allTime, period)

	a := &Agent{
		cfg:        cfg,
		logger:     logger,
		clock:      clock,
		recorder:   recorder,
		store:      st,
		policy:     policy,
		dispatcher: dispatcher,
		stop:       make(chan struct{}),
	}

	if cfg.MonitorEnabled {
		a.monitor = monitoring.NewMonitor().
			WithPortNumber(cfg.MonitorPort)
		a.monitor.RegisterStore(st)
	}

	return a
}

// newRecorder picks the persistence backend: a shared ClickHouse warehouse
// when configured, the local SQLite file otherwise. A failed warehouse
// connection falls back to SQLite so the agent never refuses to start over
// its own diagnostics.
func newRecorder(cfg config.Config, logger *log.Logger) recording.DataRecorder {
	if cfg.ClickHouseAddr != "" {
		r, err := recording.NewClickHouse(recording.ClickHouseOptions{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUser,
			Password: cfg.ClickHousePassword,
		})
		if err == nil {
			return r
		}

		logger.Printf("clickhouse unavailable, falling back to sqlite: %v", err)
	}

	return recording.NewSQLite(cfg.DatabasePath)
}

// Store returns the agent's metric store.
func (a *Agent) Store() *store.Store {
	return a.store
}

// Monitor returns the diagnostics monitor, or nil when disabled.
func (a *Agent) Monitor() *monitoring.Monitor {
	return a.monitor
}

// StartRequest creates the tracked request for one unit of work. The
// request reports back into the agent when it finalizes.
func (a *Agent) StartRequest() *request.TrackedRequest {
	r := request.New(a.clock, &agentRecorder{a: a}, a.logger)

	if a.monitor != nil {
		a.monitor.RegisterRequest(r)
	}

	return r
}

// Start launches the diagnostics server and the periodic reporting loop.
func (a *Agent) Start() {
	if a.monitor != nil {
		a.monitor.StartServer()
	}

	go a.reportLoop()
}

// Stop ends the reporting loop and persists the final period. Calling it
// again is a no-op.
func (a *Agent) Stop() {
	a.stopOnce.Do(func() {
		close(a.stop)

		a.store.ReportPeriod()
		if err := a.recorder.Close(); err != nil {
			a.logger.Printf("closing recorder: %v", err)
		}
	})
}

func (a *Agent) reportLoop() {
	ticker := time.NewTicker(a.cfg.ReportingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.store.ReportPeriod()
		case <-a.stop:
			return
		}
	}
}

// agentRecorder runs the conversion dispatch and clears the request from
// the monitor's active view.
type agentRecorder struct {
	a *Agent
}

func (r *agentRecorder) RecordRequest(req *request.TrackedRequest) {
	r.a.dispatcher.RecordRequest(req)

	if r.a.monitor != nil {
		r.a.monitor.CompleteRequest(req)
	}
}
