package fping

import (
	"context"
	"io"
	"io/fs"
	"os/exec"

	"github.com/pkg/errors"
)

// Process is a started external command
type Process interface {
	// Output returns the merged stdout and stderr of the process
	Output() io.Reader
	// Wait blocks until the process exits. A non-zero exit is reported
	// through the exit code, not the error.
	Wait() (int, error)
	Kill() error
}

// Executor starts external commands
type Executor interface {
	LookPath(name string) (string, error)
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// ExecExecutor runs commands with os/exec
type ExecExecutor struct{}

// LookPath resolves the command on the search path
func (ExecExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Start launches the command with stderr sharing the stdout pipe.
// Cancelling ctx kills the process.
func (ExecExecutor) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &execProcess{cmd: cmd, output: stdout}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	output io.Reader
}

func (p *execProcess) Output() io.Reader {
	return p.output
}

func (p *execProcess) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// isNotFound reports whether a start failure means the binary does not exist
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}
