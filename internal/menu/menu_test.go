package menu

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var errReported = errors.New("already shown")

type recorder struct {
	calls []string
}

func (r *recorder) option(key, label string, err error) Option {
	return Option{Key: key, Label: label, Run: func(context.Context) error {
		r.calls = append(r.calls, key)
		return err
	}}
}

func newTestMenu(input string, opts ...Option) (*Menu, *bytes.Buffer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	out := &bytes.Buffer{}
	m := New(Config{
		Title:      "Tool All In One",
		In:         strings.NewReader(input),
		Out:        out,
		Options:    opts,
		IsReported: func(err error) bool { return errors.Is(err, errReported) },
		Logger:     zap.New(core),
	})
	return m, out, logs
}

func TestRun_DispatchesUntilExit(t *testing.T) {
	rec := &recorder{}
	m, out, _ := newTestMenu("1\n3\n2\n0\n1\n",
		rec.option("1", "Create files", nil),
		rec.option("2", "Import outbound (DCG) files", nil),
		rec.option("3", "Import inbound (DCT) files", nil),
	)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{"1", "3", "2"}, rec.calls)
	assert.Contains(t, out.String(), "Tool All In One")
	assert.Contains(t, out.String(), "2. Import outbound (DCG) files")
	assert.Contains(t, out.String(), "0. Exit")
	assert.Contains(t, out.String(), "Exiting.")
}

func TestRun_InvalidOption(t *testing.T) {
	rec := &recorder{}
	m, out, _ := newTestMenu("9\n\nabc\n1\n0\n", rec.option("1", "Create files", nil))

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{"1"}, rec.calls)
	assert.Equal(t, 3, strings.Count(out.String(), "Invalid option"))
}

func TestRun_EOFExits(t *testing.T) {
	rec := &recorder{}
	m, out, _ := newTestMenu("1", rec.option("1", "Create files", nil))

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{"1"}, rec.calls)
	assert.Contains(t, out.String(), "Exiting.")
}

func TestRun_UnexpectedErrorIsLoggedAndLoopContinues(t *testing.T) {
	rec := &recorder{}
	m, out, logs := newTestMenu("1\n2\n0\n",
		rec.option("1", "Create files", errors.New("disk full")),
		rec.option("2", "Import outbound (DCG) files", nil),
	)

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, []string{"1", "2"}, rec.calls)
	assert.Contains(t, out.String(), GenericNotice)

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Action failed", entries[0].Message)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
}

func TestRun_ReportedErrorIsNotRepeated(t *testing.T) {
	rec := &recorder{}
	m, out, logs := newTestMenu("1\n0\n", rec.option("1", "Create files", errReported))

	require.NoError(t, m.Run(context.Background()))
	assert.NotContains(t, out.String(), GenericNotice)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRun_PanicIsRecovered(t *testing.T) {
	calls := 0
	m, out, logs := newTestMenu("1\n1\n0\n", Option{Key: "1", Label: "Create files", Run: func(context.Context) error {
		calls++
		panic("index out of range")
	}})

	require.NoError(t, m.Run(context.Background()))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, strings.Count(out.String(), GenericNotice))

	entries := logs.FilterMessage("Action panicked").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[0].ContextMap()["panic_stack"], "safeRun")
}

func TestRun_CancelledContext(t *testing.T) {
	rec := &recorder{}
	m, _, _ := newTestMenu("1\n", rec.option("1", "Create files", nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.Run(ctx))
	assert.Empty(t, rec.calls)
}
