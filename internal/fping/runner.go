package fping

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	lineBuffer = 64
	// DefaultMaxLine is the longest output line a Runner accepts unless told otherwise
	DefaultMaxLine = 64 * 1024
)

// Runner launches fping and streams its output line by line
type Runner struct {
	exec    Executor
	logger  *zerolog.Logger
	maxLine int
}

// NewRunner creates a new Runner. Lines longer than maxLine bytes are logged
// and dropped; a non-positive maxLine selects DefaultMaxLine.
func NewRunner(exec Executor, logger *zerolog.Logger, maxLine int) *Runner {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	return &Runner{exec: exec, logger: logger, maxLine: maxLine}
}

// Run is one running fping process
type Run struct {
	proc    Process
	lines   chan string
	done    chan struct{}
	readErr error
	maxLine int
	logger  *zerolog.Logger
}

// Start launches the command. Lines become available on Run.Lines as the
// process emits them; the channel is closed when the output ends.
func (r *Runner) Start(ctx context.Context, command string, args []string) (*Run, error) {
	r.logger.Debug().Str("command", command).Strs("args", args).Msg("Running fping command")

	proc, err := r.exec.Start(ctx, command, args...)
	if err != nil {
		return nil, errors.Wrapf(ErrLaunch, "%s: %v", command, err)
	}

	run := &Run{
		proc:    proc,
		lines:   make(chan string, lineBuffer),
		done:    make(chan struct{}),
		maxLine: r.maxLine,
		logger:  r.logger,
	}
	go run.read(ctx)
	return run, nil
}

func (run *Run) read(ctx context.Context) {
	defer close(run.done)
	defer close(run.lines)

	reader := bufio.NewReaderSize(run.proc.Output(), run.maxLine)
	for {
		chunk, err := reader.ReadSlice('\n')
		tooLong := false
		for errors.Is(err, bufio.ErrBufferFull) {
			tooLong = true
			_, err = reader.ReadSlice('\n')
		}
		if err != nil && !errors.Is(err, io.EOF) {
			run.readErr = err
			return
		}

		switch {
		case tooLong:
			run.logger.Error().
				Err(errors.Wrapf(ErrLineParse, "line longer than %d bytes", run.maxLine)).
				Msg("Dropping fping line")
		case len(chunk) > 0:
			select {
			case run.lines <- strings.TrimRight(string(chunk), "\r\n"):
			case <-ctx.Done():
				run.readErr = ctx.Err()
				return
			}
		}

		if err != nil {
			return
		}
	}
}

// Lines returns the output stream
func (run *Run) Lines() <-chan string {
	return run.lines
}

// Wait drains the output, then waits for the process to exit.
// A failed read is reported as ErrCycleIO; a non-zero exit is only reported by the code.
func (run *Run) Wait() (int, error) {
	for range run.lines {
		// discard whatever the caller did not consume
	}
	<-run.done

	if run.readErr != nil {
		_ = run.proc.Kill()
		_, _ = run.proc.Wait()
		return -1, errors.Wrap(ErrCycleIO, run.readErr.Error())
	}

	code, err := run.proc.Wait()
	if err != nil {
		return code, errors.Wrap(ErrCycleIO, err.Error())
	}
	return code, nil
}

// Kill terminates the process
func (run *Run) Kill() error {
	return run.proc.Kill()
}
