package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	comms "github.com/nats-io/nats.go"

	"github.com/tracelight/tracelight/pkg/commsutil"
)

const commsPublisherLogPrefix = "events:comms_publisher"

// CommsPublisherOpts configures CommsPublisher. Nil or zero values use
// defaults.
type CommsPublisherOpts struct {
	// GlobalEntrySubject overrides the global entry stream subject (e.g. from
	// ENTRY_STREAM_SUBJECT).
	GlobalEntrySubject string
}

// CommsPublisher publishes entry events to COMMS subjects: one granular
// subject per channel plus a global subject carrying every entry.
type CommsPublisher struct {
	nc                 *comms.Conn
	globalEntrySubject string
}

// NewCommsPublisher creates a new CommsPublisher. Pass nil for opts to use
// defaults.
func NewCommsPublisher(nc *comms.Conn, opts *CommsPublisherOpts) *CommsPublisher {
	globalSubject := commsutil.SubjectEntries
	if opts != nil && opts.GlobalEntrySubject != "" {
		globalSubject = opts.GlobalEntrySubject
	}
	return &CommsPublisher{nc: nc, globalEntrySubject: globalSubject}
}

// PublishEntry publishes an EntryEvent to both the per-channel and global
// subjects.
func (p *CommsPublisher) PublishEntry(_ context.Context, event *EntryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s - failed to encode event: %w", commsPublisherLogPrefix, err)
	}

	granularSubject := commsutil.BuildEntrySubject(event.Channel)
	if err := p.nc.Publish(granularSubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, granularSubject, err))
		return err
	}

	if err := p.nc.Publish(p.globalEntrySubject, data); err != nil {
		slog.Error(fmt.Sprintf("%s - failed to publish to %s: %v", commsPublisherLogPrefix, p.globalEntrySubject, err))
		return err
	}

	slog.Debug(fmt.Sprintf("%s - Published entry for channel %s", commsPublisherLogPrefix, event.Channel))
	return nil
}
