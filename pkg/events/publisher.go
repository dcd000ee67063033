package events

import "context"

// EntryPublisher is the interface for publishing dispatched log entries.
type EntryPublisher interface {
	PublishEntry(ctx context.Context, event *EntryEvent) error
}

// NoOpPublisher is an EntryPublisher that does nothing (for in-process usage
// without a stream).
type NoOpPublisher struct{}

// PublishEntry is a no-op.
func (p *NoOpPublisher) PublishEntry(_ context.Context, _ *EntryEvent) error {
	return nil
}

// CallbackPublisher is an EntryPublisher that calls a callback function (for
// testing).
type CallbackPublisher struct {
	callback func(ctx context.Context, event *EntryEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *EntryEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// PublishEntry calls the callback.
func (p *CallbackPublisher) PublishEntry(ctx context.Context, event *EntryEvent) error {
	return p.callback(ctx, event)
}
