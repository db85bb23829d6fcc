package monitor

import (
	"context"

	"github.com/rs/zerolog"

	"fping-monitor/internal/models"
)

// LogSink writes one log line per probed host
type LogSink struct {
	logger *zerolog.Logger
}

func NewLogSink(logger *zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(_ context.Context, msg *models.Message) error {
	for _, result := range msg.Data {
		event := s.logger.Info().
			Str("source", msg.Source).
			Str("host", result.Host).
			Int("sent", result.Count).
			Int("received", result.Received()).
			Float64("loss", result.Loss)
		if v, ok := result.Min(); ok {
			event = event.Float64("min", v)
		}
		if v, ok := result.Avg(); ok {
			event = event.Float64("avg", v)
		}
		if v, ok := result.Max(); ok {
			event = event.Float64("max", v)
		}
		if v, ok := result.Last(); ok {
			event = event.Float64("last", v)
		}
		event.Msg("Probe result")
	}
	return nil
}
