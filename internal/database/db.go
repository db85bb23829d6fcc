package database

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// DB wraps sql.DB with additional methods
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(path string) (*DB, error) {
	// store timestamps in a layout sqlite date functions understand
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_time_format=sqlite"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "database open failed")
	}

	// Enable WAL mode for better concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS probe_results (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp DATETIME NOT NULL,
        source TEXT NOT NULL,
        host TEXT NOT NULL,
        sent INTEGER NOT NULL,
        received INTEGER NOT NULL,
        loss REAL NOT NULL,
        min_ms REAL,
        max_ms REAL,
        avg_ms REAL,
        last_ms REAL,
        samples TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE INDEX IF NOT EXISTS idx_timestamp ON probe_results(timestamp);
    CREATE INDEX IF NOT EXISTS idx_host_timestamp ON probe_results(host, timestamp);

    CREATE TABLE IF NOT EXISTS hourly_stats (
        hour DATETIME NOT NULL,
        host TEXT NOT NULL,
        cycles INTEGER,
        sent INTEGER,
        received INTEGER,
        avg_rtt_ms REAL,
        max_rtt_ms REAL,
        min_rtt_ms REAL,
        packet_loss_percent REAL,
        PRIMARY KEY (hour, host)
    );
    `

	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "schema creation failed")
	}

	return nil
}
