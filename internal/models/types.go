package models

import (
	"context"
	"time"
)

// Sink receives the message produced by every probe cycle that has data
type Sink interface {
	Emit(ctx context.Context, msg *Message) error
}

// Prober runs one probe cycle. A nil message means the cycle produced no data.
type Prober interface {
	Probe(ctx context.Context) (*Message, error)
}

// Store defines read operations over persisted probe results
type Store interface {
	GetRecent(hours int) ([]StoredResult, error)
	GetStats(hours int) ([]HostStats, error)
}

// Maintainer defines periodic housekeeping of persisted data
type Maintainer interface {
	ArchiveOldData(retention time.Duration) error
}
