package monitor

import (
	"context"
)

// maintenanceWorker runs periodic maintenance tasks
func (m *Monitor) maintenanceWorker(ctx context.Context) {
	defer m.wg.Done()

	ticker := m.clock.NewTicker(m.config.MaintenanceInterval)
	defer ticker.Stop()

	// Run immediately on start
	m.performMaintenance()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			m.performMaintenance()
		}
	}
}

// performMaintenance runs maintenance tasks
func (m *Monitor) performMaintenance() {
	m.logger.Debug().Dur("retention", m.config.Retention).Msg("Running maintenance tasks")

	if err := m.maintainer.ArchiveOldData(m.config.Retention); err != nil {
		m.logger.Error().Err(err).Msg("Failed to archive old data")
		return
	}

	m.logger.Debug().Msg("Maintenance complete")
}
