package progress_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/progress"
)

func TestOrNop(t *testing.T) {
	assert.Equal(t, progress.Nop{}, progress.OrNop(nil))

	var got []progress.Event
	f := progress.Func(func(_ context.Context, ev progress.Event) { got = append(got, ev) })
	progress.OrNop(f).Report(context.Background(), progress.Event{Phase: "schema", Message: "page 1"})
	require.Len(t, got, 1)
	assert.Equal(t, "schema", got[0].Phase)
}

func TestMulti(t *testing.T) {
	var a, b int
	m := progress.Multi{
		progress.Func(func(context.Context, progress.Event) { a++ }),
		nil,
		progress.Func(func(context.Context, progress.Event) { b++ }),
	}
	m.Report(context.Background(), progress.Event{})
	m.Report(context.Background(), progress.Event{})
	assert.Equal(t, 2, a)
	assert.Equal(t, 2, b)
}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	progress.Log{}.Report(ctx, progress.Event{Phase: "schema", Message: "Scanning page", Current: 2, Total: 5})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Scanning page", entry.Message)
	assert.EqualValues(t, 5, entry.ContextMap()["total"])
}
