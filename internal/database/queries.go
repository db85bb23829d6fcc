package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"fping-monitor/internal/models"
)

func nullable(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// Emit stores every result of the message in one transaction
func (db *DB) Emit(ctx context.Context, msg *models.Message) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() // nolint: errcheck

	query := `
        INSERT INTO probe_results (timestamp, source, host, sent, received, loss, min_ms, max_ms, avg_ms, last_ms, samples)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	for _, result := range msg.Data {
		samples := result.Samples
		if samples == nil {
			samples = []float64{}
		}
		encoded, err := json.Marshal(samples)
		if err != nil {
			return errors.Wrapf(err, "failed to encode samples of %s", result.Host)
		}
		_, err = tx.ExecContext(ctx, query,
			msg.Timestamp.UTC(),
			msg.Source,
			result.Host,
			result.Count,
			result.Received(),
			result.Loss,
			nullable(result.Min()),
			nullable(result.Max()),
			nullable(result.Avg()),
			nullable(result.Last()),
			string(encoded),
		)
		if err != nil {
			return errors.Wrapf(err, "failed to save result of %s", result.Host)
		}
	}

	return tx.Commit()
}

// GetRecent retrieves recent probe results
func (db *DB) GetRecent(hours int) ([]models.StoredResult, error) {
	query := `
        SELECT timestamp, source, host, sent, loss, samples
        FROM probe_results
        WHERE timestamp > ?
        ORDER BY timestamp DESC, id DESC
        LIMIT 10000
    `

	rows, err := db.Query(query, since(hours))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.StoredResult
	for rows.Next() {
		var r models.StoredResult
		var samples string
		err := rows.Scan(&r.Timestamp, &r.Source, &r.Host, &r.Count, &r.Loss, &samples)
		if err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(samples), &r.Samples); err != nil {
			continue
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// GetStats retrieves aggregated statistics
func (db *DB) GetStats(hours int) ([]models.HostStats, error) {
	query := `
        SELECT
            host,
            COUNT(*) as cycles,
            SUM(sent) as sent,
            SUM(received) as received,
            AVG(avg_ms) as avg_rtt,
            MAX(max_ms) as max_rtt,
            MIN(min_ms) as min_rtt,
            ROUND((1.0 - (CAST(SUM(received) AS REAL) / MAX(SUM(sent), 1))) * 100, 2) as packet_loss
        FROM probe_results
        WHERE timestamp > ?
        GROUP BY host
        ORDER BY host
    `

	rows, err := db.Query(query, since(hours))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.HostStats
	for rows.Next() {
		var s models.HostStats
		var avgRTT, maxRTT, minRTT sql.NullFloat64
		err := rows.Scan(&s.Host, &s.Cycles, &s.Sent, &s.Received,
			&avgRTT, &maxRTT, &minRTT, &s.PacketLoss)
		if err != nil {
			continue
		}
		s.AvgRTT = avgRTT.Float64
		s.MaxRTT = maxRTT.Float64
		s.MinRTT = minRTT.Float64
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

func since(hours int) time.Time {
	return time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
}
