package logging

import (
	"io"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	ErrInvalidLogOutput = errors.New("logging: unknown output format")
	ErrInvalidLogLevel  = errors.New("logging: unknown level")
)

// Config selects the level, format and optional file of the log
type Config struct {
	Level  string
	Output string
	File   string
}

// New builds the application logger and sets the global level
func New(cfg Config) (*zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.CallerMarshalFunc = ShortCallerFormatter

	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || lvl == zerolog.NoLevel {
		return nil, errors.Wrap(ErrInvalidLogLevel, cfg.Level)
	}
	zerolog.SetGlobalLevel(lvl)

	output, err := newWriter(cfg.Output, os.Stdout)
	if err != nil {
		return nil, err
	}

	if cfg.File != "" {
		output = zerolog.MultiLevelWriter(output, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	logger := zerolog.New(output).With().Timestamp().Caller().Logger()
	log.Logger = logger
	return &logger, nil
}

// newWriter wraps out in the writer for the named output format
func newWriter(format string, out io.Writer) (io.Writer, error) {
	switch format {
	case "console", "":
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}, nil
	case "stdout":
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}, nil
	case "json":
		return out, nil
	default:
		return nil, errors.Wrap(ErrInvalidLogOutput, format)
	}
}

// ShortCallerFormatter trims the caller path down to the file name
func ShortCallerFormatter(_ uintptr, file string, line int) string {
	short := file
	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			short = file[i+1:]
			break
		}
	}
	return short + ":" + strconv.Itoa(line)
}
