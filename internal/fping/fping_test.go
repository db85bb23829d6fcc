package fping

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fping-monitor/internal/models"
)

func newTestProber(t *testing.T, executor *fakeExecutor, groups ...models.Group) *Prober {
	t.Helper()
	cfg := Config{
		Name:    "latency",
		Command: "fping",
		Count:   3,
		Period:  20,
		Groups:  groups,
	}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	prober, err := New(context.Background(), cfg, executor, clock, nopLogger())
	require.NoError(t, err)
	return prober
}

func TestNew_MissingBinary(t *testing.T) {
	executor := &fakeExecutor{lookErr: exec.ErrNotFound}
	_, err := New(context.Background(), Config{Command: "fping"}, executor, clockwork.NewFakeClock(), nopLogger())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Empty(t, executor.Calls())
}

func TestNew_DetectsDialectOnce(t *testing.T) {
	executor := &fakeExecutor{
		versionOut: "fping: Version 5.0",
		proc:       &fakeProcess{output: strings.NewReader("a : 1.0 2.0 3.0\n")},
	}
	prober := newTestProber(t, executor, plainGroup("g", "a"))
	assert.Equal(t, DialectModern, prober.Dialect())

	_, err := prober.Probe(context.Background())
	require.NoError(t, err)

	calls := executor.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"fping", "-v"}, calls[0])
	assert.Equal(t, []string{"fping", "-u", "-C3", "-p20", "-e", "-q", "a"}, calls[1])
}

func TestProbe_CollectsResultsInOrder(t *testing.T) {
	output := strings.Join([]string{
		"b : 1.2 - 3.4",
		"a : - - -",
		"c : 0.5 0.6 0.7",
	}, "\n")
	executor := &fakeExecutor{proc: &fakeProcess{output: strings.NewReader(output)}}
	prober := newTestProber(t, executor, plainGroup("g", "b", "a", "c"))

	msg, err := prober.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)

	assert.Equal(t, MessageType, msg.Type)
	assert.Equal(t, "latency", msg.Source)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), msg.Timestamp)
	require.Len(t, msg.Data, 3)
	assert.Equal(t, "b", msg.Data[0].Host)
	assert.Equal(t, "a", msg.Data[1].Host)
	assert.Equal(t, "c", msg.Data[2].Host)
	assert.InDelta(t, 1.0, msg.Data[1].Loss, 1e-9)
}

func TestProbe_DropsMalformedLines(t *testing.T) {
	output := strings.Join([]string{
		"a : 1.0 2.0 3.0",
		"garbage without separator",
		"b : 1.0 oops 3.0",
		"c : - 2.0 -",
	}, "\n")
	executor := &fakeExecutor{proc: &fakeProcess{output: strings.NewReader(output)}}
	prober := newTestProber(t, executor, plainGroup("g", "a", "b", "c"))

	msg, err := prober.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Len(t, msg.Data, 2)
	assert.Equal(t, "a", msg.Data[0].Host)
	assert.Equal(t, "c", msg.Data[1].Host)
}

// longLine returns a -C output line for host with count replies
func longLine(host string, count int) string {
	return host + " : " + strings.TrimSpace(strings.Repeat("12.34 ", count))
}

func TestProbe_OverlongLineIsDroppedAlone(t *testing.T) {
	output := strings.Join([]string{
		"a : 1.0 2.0 3.0",
		longLine("b", 12000),
		"c : 4.0 5.0 6.0",
	}, "\n")
	require.Greater(t, len(longLine("b", 12000)), DefaultMaxLine)

	executor := &fakeExecutor{proc: &fakeProcess{output: strings.NewReader(output)}}
	prober := newTestProber(t, executor, plainGroup("g", "a", "b", "c"))

	msg, err := prober.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Len(t, msg.Data, 2)
	assert.Equal(t, "a", msg.Data[0].Host)
	assert.Equal(t, "c", msg.Data[1].Host)
}

func TestProbe_LineLimitFollowsCount(t *testing.T) {
	line := longLine("b", 11000)
	require.Greater(t, len(line), DefaultMaxLine)
	output := line + "\n"
	executor := &fakeExecutor{proc: &fakeProcess{output: strings.NewReader(output)}}
	cfg := Config{Name: "latency", Command: "fping", Count: 11000, Period: 20, Groups: []models.Group{plainGroup("g", "b")}}

	prober, err := New(context.Background(), cfg, executor, clockwork.NewFakeClock(), nopLogger())
	require.NoError(t, err)

	msg, err := prober.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Len(t, msg.Data, 1)
	assert.Equal(t, 11000, msg.Data[0].Count)
	assert.Zero(t, msg.Data[0].Loss)
}

func TestMaxLineLength(t *testing.T) {
	assert.Equal(t, DefaultMaxLine, maxLineLength(5))
	assert.Greater(t, maxLineLength(10000), len(longLine("host.example.com", 10000)))
}

func TestProbe_NoParseableLinesMeansNoData(t *testing.T) {
	executor := &fakeExecutor{proc: &fakeProcess{output: strings.NewReader("nothing useful\n")}}
	prober := newTestProber(t, executor, plainGroup("g", "a"))

	msg, err := prober.Probe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestProbe_NonZeroExitKeepsPartialResults(t *testing.T) {
	executor := &fakeExecutor{proc: &fakeProcess{
		output:   strings.NewReader("a : 1.0 - -\nb : - - -\n"),
		exitCode: 1,
	}}
	prober := newTestProber(t, executor, plainGroup("g", "a", "b"))

	msg, err := prober.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Len(t, msg.Data, 2)
}

func TestProbe_LaunchFailureIsPropagated(t *testing.T) {
	executor := &fakeExecutor{startErr: &exec.Error{Name: "fping", Err: exec.ErrNotFound}}
	prober := newTestProber(t, executor, plainGroup("g", "a"))

	msg, err := prober.Probe(context.Background())
	assert.ErrorIs(t, err, ErrLaunch)
	assert.Nil(t, msg)

	// the prober stays usable for later cycles
	executor.startErr = nil
	executor.proc = &fakeProcess{output: strings.NewReader("a : 1.0\n")}
	msg, err = prober.Probe(context.Background())
	require.NoError(t, err)
	require.NotNil(t, msg)
}

func TestProbe_ReadFailureYieldsNoData(t *testing.T) {
	output := io.MultiReader(
		strings.NewReader("a : 1.0 2.0 3.0\n"),
		iotest.ErrReader(errors.New("connection reset")),
	)
	executor := &fakeExecutor{proc: &fakeProcess{output: output}}
	prober := newTestProber(t, executor, plainGroup("g", "a"))

	msg, err := prober.Probe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestProbe_CancelledCycleYieldsNoData(t *testing.T) {
	reader, writer := io.Pipe()
	executor := &fakeExecutor{proc: &fakeProcess{output: reader}}
	prober := newTestProber(t, executor, plainGroup("g", "a"))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, _ = writer.Write([]byte("a : 1.0 2.0 3.0\n"))
		cancel()
		_ = writer.Close()
	}()

	msg, err := prober.Probe(ctx)
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestProbe_RejectsOverlappingCycles(t *testing.T) {
	reader, writer := io.Pipe()
	executor := &fakeExecutor{
		proc:    &fakeProcess{output: reader},
		started: make(chan struct{}, 1),
	}
	prober := newTestProber(t, executor, plainGroup("g", "a"))

	done := make(chan *models.Message)
	go func() {
		msg, _ := prober.Probe(context.Background())
		done <- msg
	}()

	<-executor.started
	_, err := prober.Probe(context.Background())
	assert.ErrorIs(t, err, ErrCycleInProgress)

	_, _ = writer.Write([]byte("a : 1.0 2.0 3.0\n"))
	_ = writer.Close()

	msg := <-done
	require.NotNil(t, msg)
	assert.Len(t, msg.Data, 1)
}
