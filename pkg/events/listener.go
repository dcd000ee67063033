package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tracelight/tracelight/pkg/registry"
)

const listenerLogPrefix = "events:listener"

// PublisherListener adapts an EntryPublisher to the registry's Listener
// interface, so the entry stream is just another sink in the fan-out.
// Publish failures are logged, not propagated; a broken stream must not
// abort dispatch for sinks after it.
type PublisherListener struct {
	publisher EntryPublisher
}

// NewPublisherListener creates a listener forwarding to the publisher.
func NewPublisherListener(pub EntryPublisher) *PublisherListener {
	return &PublisherListener{publisher: pub}
}

// HandleEntry converts the entry and publishes it.
func (l *PublisherListener) HandleEntry(e *registry.Entry) {
	event := &EntryEvent{
		Channel:   e.Channel,
		Message:   e.Message,
		Data:      e.Data,
		Level:     e.Level.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := l.publisher.PublishEntry(context.Background(), event); err != nil {
		slog.Error(fmt.Sprintf("%s - publish entry for channel %s: %v", listenerLogPrefix, e.Channel, err))
	}
}
