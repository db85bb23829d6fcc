package monitor

import (
	"context"
	"time"

	"fping-monitor/internal/models"
)

// probeWorker runs one cycle immediately, then one per interval.
// Cycles run on this goroutine only, so they never overlap.
func (m *Monitor) probeWorker(ctx context.Context) {
	defer m.wg.Done()

	ticker := m.clock.NewTicker(m.config.Interval)
	defer ticker.Stop()

	m.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.RunCycle(ctx)
		}
	}
}

// RunCycle probes once and hands the message, if any, to every sink
func (m *Monitor) RunCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	started := m.clock.Now()
	msg, err := m.prober.Probe(cycleCtx)
	took := m.clock.Since(started)

	switch {
	case err != nil:
		m.logger.Error().Err(err).Msg("Probe cycle failed")
		m.observeCycle(OutcomeError, took)
		return
	case msg == nil:
		m.observeCycle(OutcomeEmpty, took)
		return
	}

	m.observeCycle(OutcomeOK, took)
	m.logger.Debug().Int("results", len(msg.Data)).Dur("took", took).Msg("Probe cycle finished")
	m.emit(ctx, msg)
}

func (m *Monitor) emit(ctx context.Context, msg *models.Message) {
	for _, sink := range m.sinks {
		if err := sink.Emit(ctx, msg); err != nil {
			m.logger.Error().Err(err).Str("sink", sink.Name).Msg("Failed to emit message")
			if m.recorder != nil {
				m.recorder.ObserveSinkError(sink.Name)
			}
		}
	}
}

func (m *Monitor) observeCycle(outcome string, took time.Duration) {
	if m.recorder != nil {
		m.recorder.ObserveCycle(outcome, took)
	}
}
