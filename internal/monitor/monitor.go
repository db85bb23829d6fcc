package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"fping-monitor/internal/models"
)

// Cycle outcomes reported to the Recorder
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Recorder receives cycle level telemetry
type Recorder interface {
	ObserveCycle(outcome string, took time.Duration)
	ObserveSinkError(sink string)
}

// NamedSink is a sink with a name used in logs and metrics
type NamedSink struct {
	Name string
	models.Sink
}

// Config holds the monitor schedule
type Config struct {
	Interval            time.Duration
	Timeout             time.Duration
	Retention           time.Duration
	MaintenanceInterval time.Duration
}

// Monitor runs probe cycles on a fixed interval and fans messages out to the sinks
type Monitor struct {
	config     Config
	prober     models.Prober
	sinks      []NamedSink
	maintainer models.Maintainer
	recorder   Recorder
	clock      clockwork.Clock
	logger     *zerolog.Logger
	wg         sync.WaitGroup
	cancel     context.CancelFunc
}

// New creates a new Monitor. maintainer and recorder may be nil.
func New(
	cfg Config,
	prober models.Prober,
	sinks []NamedSink,
	maintainer models.Maintainer,
	recorder Recorder,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) *Monitor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	if cfg.MaintenanceInterval <= 0 {
		cfg.MaintenanceInterval = time.Hour
	}
	return &Monitor{
		config:     cfg,
		prober:     prober,
		sinks:      sinks,
		maintainer: maintainer,
		recorder:   recorder,
		clock:      clock,
		logger:     logger,
	}
}

// Start begins the monitoring process
func (m *Monitor) Start(ctx context.Context) error {
	ctx, m.cancel = context.WithCancel(ctx)

	m.logger.Info().
		Dur("interval", m.config.Interval).
		Dur("timeout", m.config.Timeout).
		Int("sinks", len(m.sinks)).
		Msg("Starting monitor")

	m.wg.Add(1)
	go m.probeWorker(ctx)

	if m.maintainer != nil {
		m.wg.Add(1)
		go m.maintenanceWorker(ctx)
	}

	return nil
}

// Stop gracefully stops the monitor
func (m *Monitor) Stop() {
	m.logger.Info().Msg("Stopping monitor")
	if m.cancel != nil {
		m.cancel()
	}
}

// Wait blocks until all goroutines finish
func (m *Monitor) Wait() {
	m.wg.Wait()
	m.logger.Info().Msg("Monitor stopped")
}
