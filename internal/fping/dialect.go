package fping

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Dialect is the output generation of the installed fping
type Dialect int

const (
	DialectLegacy Dialect = iota // fping 4 and older
	DialectModern                // fping 5
)

const (
	versionFlag    = "-v"
	versionMarker  = "fping: Version 5"
	versionTimeout = 5 * time.Second
)

func (d Dialect) String() string {
	switch d {
	case DialectModern:
		return "modern"
	default:
		return "legacy"
	}
}

// DetectDialect asks fping for its version. A missing binary is reported
// as ErrUnavailable; any other failure falls back to DialectLegacy.
func DetectDialect(ctx context.Context, executor Executor, command string, logger *zerolog.Logger) (Dialect, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	proc, err := executor.Start(ctx, command, versionFlag)
	if err != nil {
		if isNotFound(err) {
			logger.WithLevel(zerolog.FatalLevel).Str("command", command).Msg("fping command not found")
			return DialectLegacy, errors.Wrap(ErrUnavailable, command)
		}
		logger.Error().Err(err).Msg("Failed to detect fping version, defaulting to legacy")
		return DialectLegacy, nil
	}

	out, readErr := io.ReadAll(proc.Output())
	if _, err := proc.Wait(); err != nil && readErr == nil {
		readErr = err
	}
	if readErr != nil {
		logger.Error().Err(readErr).Msg("Failed to detect fping version, defaulting to legacy")
		return DialectLegacy, nil
	}
	if ctx.Err() != nil {
		logger.Error().Err(ctx.Err()).Msg("Timed out detecting fping version, defaulting to legacy")
		return DialectLegacy, nil
	}

	if strings.Contains(string(out), versionMarker) {
		return DialectModern, nil
	}
	return DialectLegacy, nil
}
