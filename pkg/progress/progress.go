// Package progress carries fire-and-forget scan progress events.
package progress

import (
	"context"

	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/pkg/logger"
)

// Event is one progress notification.
type Event struct {
	Phase   string `json:"phase"`
	Message string `json:"message"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// Sink receives progress events synchronously between steps.
type Sink interface {
	Report(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Report(context.Context, Event) {}

// Func adapts a plain function to a Sink.
type Func func(ctx context.Context, ev Event)

func (f Func) Report(ctx context.Context, ev Event) { f(ctx, ev) }

// Log writes events to the context logger at info level.
type Log struct{}

func (Log) Report(ctx context.Context, ev Event) {
	fields := []zap.Field{zap.String("phase", ev.Phase)}
	if ev.Total > 0 {
		fields = append(fields, zap.Int("current", ev.Current), zap.Int("total", ev.Total))
	}
	logger.Info(ctx, ev.Message, fields...)
}

// OrNop returns s, or a Nop sink when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}

	return s
}

// Multi fans events out to several sinks in order.
type Multi []Sink

func (m Multi) Report(ctx context.Context, ev Event) {
	for _, s := range m {
		if s != nil {
			s.Report(ctx, ev)
		}
	}
}
