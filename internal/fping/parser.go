package fping

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"fping-monitor/internal/models"
)

const (
	separator = " : "
	sentinel  = "-"
)

// ParseLine parses one line of fping -C output, e.g.
//
//	8.8.8.8 : 12.10 - 11.95
//
// Every token is one probe: a latency in milliseconds or "-" for no reply.
func ParseLine(line string) (models.ProbeResult, error) {
	line = strings.TrimRight(line, "\r\n")
	host, pings, ok := strings.Cut(line, separator)
	if !ok {
		return models.ProbeResult{}, errors.Wrap(ErrLineParse, "missing separator")
	}

	host = strings.TrimSpace(host)
	if host == "" {
		return models.ProbeResult{}, errors.Wrap(ErrLineParse, "empty host")
	}

	tokens := strings.Fields(pings)
	if len(tokens) == 0 {
		return models.ProbeResult{}, errors.Wrap(ErrLineParse, "no probe values")
	}

	samples := make([]float64, 0, len(tokens))
	for _, token := range tokens {
		if token == sentinel {
			continue
		}
		latency, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return models.ProbeResult{}, errors.Wrapf(ErrLineParse, "invalid value %q", token)
		}
		if math.IsNaN(latency) || math.IsInf(latency, 0) || latency < 0 {
			return models.ProbeResult{}, errors.Wrapf(ErrLineParse, "invalid latency %q", token)
		}
		samples = append(samples, latency)
	}

	return models.NewProbeResult(host, len(tokens), samples), nil
}
