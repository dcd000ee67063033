package devlog

import (
	"context"
	"log/slog"

	"github.com/tracelight/tracelight/pkg/registry"
)

// Sink is the developer-log listener: every dispatched entry is written to an
// slog.Logger with the message as the primary text, the channel as a name
// tag, the encoded data as an extra attribute, and the entry's level and
// captured stack threaded through.
type Sink struct {
	logger *slog.Logger
}

// NewSink creates a Sink writing to logger; nil means slog.Default at call
// time.
func NewSink(logger *slog.Logger) *Sink {
	return &Sink{logger: logger}
}

// HandleEntry writes one entry to the developer log.
func (s *Sink) HandleEntry(e *registry.Entry) {
	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := make([]slog.Attr, 0, 3)
	attrs = append(attrs, slog.String("channel", e.Channel))
	if e.Data != nil {
		attrs = append(attrs, slog.String("data", string(e.Data)))
	}
	if len(e.Stack) > 0 {
		attrs = append(attrs, slog.String("stack", string(e.Stack)))
	}

	logger.LogAttrs(context.Background(), e.Level, e.Message, attrs...)
}
