package fold

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, observed := observer.New(zapcore.DebugLevel)
	return NewLogger(zap.New(core)), observed
}

func TestLogger_FoldCreated(t *testing.T) {
	logger, observed := newObservedLogger()

	logger.FoldCreated(context.Background(), "/home/u/notes.txt", 120, 340, "chapter one")

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "fold created", logs[0].Message)
	assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	assert.Equal(t, "fold", logs[0].LoggerName)

	fields := logs[0].ContextMap()
	assert.Equal(t, "/home/u/notes.txt", fields["document"])
	assert.Equal(t, int64(120), fields["start"])
	assert.Equal(t, int64(340), fields["end"])
	assert.Equal(t, "chapter one", fields["header"])
}

func TestLogger_Unfolded(t *testing.T) {
	logger, observed := newObservedLogger()

	logger.Unfolded(context.Background(), "/home/u/notes.txt", []Span{{Start: 120, End: 340}})

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "unfolded", logs[0].Message)
	assert.Equal(t, int64(1), logs[0].ContextMap()["count"])
}

func TestLogger_Refolded(t *testing.T) {
	logger, observed := newObservedLogger()

	logger.Refolded(context.Background(), "/home/u/notes.txt", 2, 1)

	logs := observed.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, int64(2), fields["restored"])
	assert.Equal(t, int64(1), fields["skipped"])
}

func TestLogger_NothingToUnfold(t *testing.T) {
	logger, observed := newObservedLogger()

	logger.NothingToUnfold(context.Background(), "/home/u/notes.txt", 42)
	logger.NothingToRefold(context.Background(), "/home/u/notes.txt")

	logs := observed.All()
	require.Len(t, logs, 2)
	assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	assert.Equal(t, "nothing to unfold", logs[0].Message)
	assert.Equal(t, "nothing to refold", logs[1].Message)
}

func TestLogger_Error(t *testing.T) {
	logger, observed := newObservedLogger()

	logger.Error(context.Background(), "refold skipped span", errors.New("boom"), zap.Int("start", 7))

	logs := observed.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	assert.Equal(t, "boom", logs[0].ContextMap()["error"])
	assert.Equal(t, int64(7), logs[0].ContextMap()["start"])
}

func TestLogger_NilSafe(t *testing.T) {
	ctx := context.Background()

	var nilLogger *Logger
	nilLogger.FoldCreated(ctx, "doc", 0, 1, "h")
	nilLogger.Unfolded(ctx, "doc", nil)
	nilLogger.Refolded(ctx, "doc", 0, 0)
	nilLogger.NothingToUnfold(ctx, "doc", 0)
	nilLogger.NothingToRefold(ctx, "doc")
	nilLogger.Error(ctx, "msg", errors.New("x"))
	nilLogger.Debug(ctx, "msg")

	// A logger built from nil degrades to a no-op, not a panic.
	noop := NewLogger(nil)
	noop.FoldCreated(ctx, "doc", 0, 1, "h")
	noop.Debug(ctx, "msg")
}
