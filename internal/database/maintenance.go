package database

import (
	"time"

	"github.com/pkg/errors"
)

// ArchiveOldData rolls raw results older than retention up into hourly_stats
// and deletes them
func (db *DB) ArchiveOldData(retention time.Duration) error {
	if err := db.ArchiveBefore(time.Now().UTC().Add(-retention)); err != nil {
		return err
	}

	// Vacuum to reclaim space (run occasionally)
	if time.Now().Day() == 1 {
		_, err := db.Exec("VACUUM")
		return err
	}

	return nil
}

// ArchiveBefore archives the complete hours that ended before cutoff.
// The hour holding cutoff stays raw until a later pass, so every hour is
// rolled up exactly once.
func (db *DB) ArchiveBefore(cutoff time.Time) error {
	cutoff = cutoff.UTC().Truncate(time.Hour)

	archiveQuery := `
        INSERT OR IGNORE INTO hourly_stats (hour, host, cycles, sent, received, avg_rtt_ms, max_rtt_ms, min_rtt_ms, packet_loss_percent)
        SELECT
            strftime('%Y-%m-%d %H:00:00', timestamp) as hour,
            host,
            COUNT(*) as cycles,
            SUM(sent) as sent,
            SUM(received) as received,
            AVG(avg_ms) as avg_rtt_ms,
            MAX(max_ms) as max_rtt_ms,
            MIN(min_ms) as min_rtt_ms,
            ROUND((1.0 - (CAST(SUM(received) AS REAL) / MAX(SUM(sent), 1))) * 100, 2) as packet_loss_percent
        FROM probe_results
        WHERE timestamp < ?
        GROUP BY hour, host
    `
	if _, err := db.Exec(archiveQuery, cutoff); err != nil {
		return errors.Wrap(err, "failed to archive hourly stats")
	}

	if _, err := db.Exec(`DELETE FROM probe_results WHERE timestamp < ?`, cutoff); err != nil {
		return errors.Wrap(err, "failed to delete archived results")
	}

	return nil
}
