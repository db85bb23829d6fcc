package models

import (
	"encoding/json"
	"time"
)

// StoredResult is a probe result read back from the store
type StoredResult struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	ProbeResult
}

// MarshalJSON flattens the stored result into one record mapping
func (s StoredResult) MarshalJSON() ([]byte, error) {
	rec := s.Record()
	rec["timestamp"] = s.Timestamp
	rec["source"] = s.Source
	return json.Marshal(rec)
}

// HostStats represents aggregated statistics for a host
type HostStats struct {
	Host       string  `json:"host"`
	Cycles     int     `json:"cycles"`
	Sent       int     `json:"sent"`
	Received   int     `json:"received"`
	AvgRTT     float64 `json:"avg_rtt"`
	MaxRTT     float64 `json:"max_rtt"`
	MinRTT     float64 `json:"min_rtt"`
	PacketLoss float64 `json:"packet_loss"` // percentage
}
