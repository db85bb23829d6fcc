package models

import (
	"encoding/json"
	"time"
)

// ProbeResult is the outcome of probing one host during one cycle.
// Min, Max, Avg and Last are derived from Samples and never stored.
type ProbeResult struct {
	Host    string
	Count   int       // probes sent, including unanswered ones
	Loss    float64   // fraction in [0,1]
	Samples []float64 // received latencies in milliseconds, in emission order
}

// NewProbeResult builds a result and computes its loss from count and samples
func NewProbeResult(host string, count int, samples []float64) ProbeResult {
	loss := 0.0
	if count > 0 {
		loss = float64(count-len(samples)) / float64(count)
	}
	return ProbeResult{
		Host:    host,
		Count:   count,
		Loss:    loss,
		Samples: samples,
	}
}

// Received returns the number of answered probes
func (r ProbeResult) Received() int {
	return len(r.Samples)
}

// Min returns the smallest latency
func (r ProbeResult) Min() (float64, bool) {
	if len(r.Samples) == 0 {
		return 0, false
	}
	m := r.Samples[0]
	for _, s := range r.Samples[1:] {
		if s < m {
			m = s
		}
	}
	return m, true
}

// Max returns the largest latency
func (r ProbeResult) Max() (float64, bool) {
	if len(r.Samples) == 0 {
		return 0, false
	}
	m := r.Samples[0]
	for _, s := range r.Samples[1:] {
		if s > m {
			m = s
		}
	}
	return m, true
}

// Avg returns the arithmetic mean latency
func (r ProbeResult) Avg() (float64, bool) {
	if len(r.Samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range r.Samples {
		sum += s
	}
	return sum / float64(len(r.Samples)), true
}

// Last returns the most recent received latency. An unanswered final probe
// does not clear it: the previous answered probe is reported instead.
func (r ProbeResult) Last() (float64, bool) {
	if len(r.Samples) == 0 {
		return 0, false
	}
	return r.Samples[len(r.Samples)-1], true
}

// Record returns the result as a plain mapping for message payloads
func (r ProbeResult) Record() map[string]any {
	samples := r.Samples
	if samples == nil {
		samples = []float64{}
	}
	rec := map[string]any{
		"host": r.Host,
		"cnt":  r.Count,
		"loss": r.Loss,
		"data": samples,
	}
	if v, ok := r.Min(); ok {
		rec["min"] = v
	}
	if v, ok := r.Max(); ok {
		rec["max"] = v
	}
	if v, ok := r.Avg(); ok {
		rec["avg"] = v
	}
	if v, ok := r.Last(); ok {
		rec["last"] = v
	}
	return rec
}

// MarshalJSON encodes the result using the record mapping
func (r ProbeResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Record())
}

// UnmarshalJSON decodes a record mapping. Derived fields are ignored and
// recomputed from the samples.
func (r *ProbeResult) UnmarshalJSON(data []byte) error {
	var rec struct {
		Host    string    `json:"host"`
		Count   int       `json:"cnt"`
		Loss    float64   `json:"loss"`
		Samples []float64 `json:"data"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*r = ProbeResult{
		Host:    rec.Host,
		Count:   rec.Count,
		Loss:    rec.Loss,
		Samples: rec.Samples,
	}
	return nil
}

// Message is the envelope handed to sinks once per probe cycle
type Message struct {
	Type      string        `json:"type"`
	Source    string        `json:"source"`
	Timestamp time.Time     `json:"ts"`
	Data      []ProbeResult `json:"data"`
}
