// Package registry implements the channel registry and dispatch engine:
// named logging channels that are independently enabled and disabled at
// runtime, with message construction deferred so disabled channels cost a
// single map lookup.
package registry

import (
	"encoding/json"
	"log/slog"
)

// Error codes returned by registry operations.
const (
	CodeDuplicateChannel = "DUPLICATE_CHANNEL"
	CodeNotRegistered    = "NOT_REGISTERED"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
)

// ChannelError is a structured error from the registry.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ChannelError) Error() string {
	return e.Code + ": " + e.Message
}

// NewChannelError creates a new ChannelError.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}

// ChannelInfo describes one registered channel.
type ChannelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Entry is one dispatched log entry. Entries are ephemeral: produced once per
// Log call on an enabled channel, handed to every listener synchronously, and
// never stored by the registry.
type Entry struct {
	Channel string
	Message string
	// Data is the JSON-encoded data payload, nil when no data thunk was
	// supplied.
	Data  json.RawMessage
	Level slog.Level
	// Stack is a captured call stack, nil unless requested via LogInput.
	Stack []byte
}

// Listener receives every dispatched entry regardless of channel. Listener
// identity is the interface value itself; adding the same value twice is a
// no-op.
type Listener interface {
	HandleEntry(e *Entry)
}

// MessageThunk produces the log message. It is invoked only when the channel
// is enabled.
type MessageThunk func() any

// DataThunk produces the structured data payload. Like MessageThunk, it is
// invoked only when the channel is enabled.
type DataThunk func() any

// Encoder converts a data value into something the default JSON serializer
// can handle. It runs on the resolved data value before marshaling.
type Encoder func(v any) any

// InstallHandler is a one-shot activation callback consulted when a channel
// is enabled. Returning true claims the name; a claiming handler is removed
// and never runs again.
type InstallHandler func(name string) bool

// LogInput holds the deferred parts of a Log call.
type LogInput struct {
	// Message is required.
	Message MessageThunk
	// Data is optional; when set its result is JSON-encoded into Entry.Data.
	Data DataThunk
	// Encoder is applied to the resolved data value before encoding.
	Encoder Encoder
	// Level defaults to slog.LevelInfo (the slog zero value).
	Level slog.Level
	// CaptureStack attaches the caller's stack to the entry.
	CaptureStack bool
}
