package fping

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type fakeProcess struct {
	output   io.Reader
	exitCode int
	waitErr  error

	mu     sync.Mutex
	killed bool
}

func (p *fakeProcess) Output() io.Reader {
	return p.output
}

func (p *fakeProcess) Wait() (int, error) {
	return p.exitCode, p.waitErr
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	return nil
}

// hangingReader behaves like the pipe of a process killed on cancellation:
// it blocks until ctx is done, then reports end of output
type hangingReader struct {
	ctx context.Context
}

func (r *hangingReader) Read([]byte) (int, error) {
	<-r.ctx.Done()
	return 0, io.EOF
}

type fakeExecutor struct {
	lookErr    error
	versionOut string
	versionErr error
	hangs      bool // version output ends only when the context is done
	startErr   error
	proc       *fakeProcess
	started    chan struct{}

	mu    sync.Mutex
	calls [][]string
}

func (e *fakeExecutor) LookPath(name string) (string, error) {
	if e.lookErr != nil {
		return "", e.lookErr
	}
	return "/usr/bin/" + name, nil
}

func (e *fakeExecutor) Start(ctx context.Context, name string, args ...string) (Process, error) {
	e.mu.Lock()
	e.calls = append(e.calls, append([]string{name}, args...))
	e.mu.Unlock()

	if len(args) == 1 && args[0] == versionFlag {
		if e.versionErr != nil {
			return nil, e.versionErr
		}
		if e.hangs {
			return &fakeProcess{output: &hangingReader{ctx: ctx}, exitCode: -1}, nil
		}
		return &fakeProcess{output: strings.NewReader(e.versionOut)}, nil
	}

	if e.started != nil {
		e.started <- struct{}{}
	}
	if e.startErr != nil {
		return nil, e.startErr
	}
	return e.proc, nil
}

func (e *fakeExecutor) Calls() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]string(nil), e.calls...)
}

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
