package fping

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"fping-monitor/internal/models"
)

// MessageType is the type set on every message produced by the prober
const MessageType = "fping"

// Config holds the settings of one fping probe
type Config struct {
	Name    string
	Command string
	Count   int // probes per host per cycle
	Period  int // milliseconds between probes to one host
	Groups  []models.Group
}

// Prober runs fping against the configured hosts, one cycle per Probe call.
// The host list and dialect are fixed when the prober is created.
type Prober struct {
	cfg     Config
	hosts   []string
	dialect Dialect
	runner  *Runner
	clock   clockwork.Clock
	logger  *zerolog.Logger
	busy    chan struct{}
}

// New checks that fping is installed, detects its dialect and resolves the hosts
func New(
	ctx context.Context,
	cfg Config,
	executor Executor,
	clock clockwork.Clock,
	logger *zerolog.Logger,
) (*Prober, error) {
	if _, err := executor.LookPath(cfg.Command); err != nil {
		logger.WithLevel(zerolog.FatalLevel).
			Str("command", cfg.Command).
			Msg("missing fping, install it or set `command` in the fping config")
		return nil, errors.Wrap(ErrUnavailable, cfg.Command)
	}

	dialect, err := DetectDialect(ctx, executor, cfg.Command, logger)
	if err != nil {
		return nil, err
	}

	hosts := ResolveHosts(cfg.Groups)
	logger.Debug().
		Stringer("dialect", dialect).
		Int("hosts", len(hosts)).
		Msg("Detected fping dialect")

	return &Prober{
		cfg:     cfg,
		hosts:   hosts,
		dialect: dialect,
		runner:  NewRunner(executor, logger, maxLineLength(cfg.Count)),
		clock:   clock,
		logger:  logger,
		busy:    make(chan struct{}, 1),
	}, nil
}

// maxLineLength bounds one -C output line: a host name of up to 255 bytes,
// the separator, and count values no wider than 16 bytes each
func maxLineLength(count int) int {
	return max(DefaultMaxLine, 255+len(separator)+count*16)
}

// Dialect returns the dialect detected at creation
func (p *Prober) Dialect() Dialect {
	return p.dialect
}

// Hosts returns the resolved host list
func (p *Prober) Hosts() []string {
	return append([]string(nil), p.hosts...)
}

// Probe runs one cycle. It returns a nil message when the cycle produced no
// data, and an error only when fping could not be launched.
func (p *Prober) Probe(ctx context.Context) (*models.Message, error) {
	select {
	case p.busy <- struct{}{}:
		defer func() { <-p.busy }()
	default:
		return nil, ErrCycleInProgress
	}

	data, err := p.run(ctx)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		p.logger.Warn().Msg("No valid data returned from fping process")
		return nil, nil
	}

	return &models.Message{
		Type:      MessageType,
		Source:    p.cfg.Name,
		Timestamp: p.clock.Now(),
		Data:      data,
	}, nil
}

func (p *Prober) run(ctx context.Context) ([]models.ProbeResult, error) {
	args := BuildArgs(p.cfg.Count, p.cfg.Period, p.dialect, p.hosts)

	run, err := p.runner.Start(ctx, p.cfg.Command, args)
	if err != nil {
		p.logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("fping command could not be launched")
		return nil, err
	}

	data := make([]models.ProbeResult, 0, len(p.hosts))
	for line := range run.Lines() {
		p.logger.Debug().Str("line", line).Msg("fping output")
		result, err := ParseLine(line)
		if err != nil {
			p.logger.Error().Err(err).Str("line", strings.TrimSpace(line)).Msg("Failed to parse fping line")
			continue
		}
		data = append(data, result)
	}

	code, err := run.Wait()
	if err == nil && ctx.Err() != nil {
		err = errors.Wrap(ErrCycleIO, ctx.Err().Error())
	}
	if err != nil {
		p.logger.Error().Err(err).Msg("Error running or processing fping")
		return nil, nil
	}

	if code != 0 {
		p.logger.Warn().Int("exit_code", code).Int("results", len(data)).Msg("fping process exited with non-zero code")
	}
	return data, nil
}
