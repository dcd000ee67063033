// Package events defines the entry stream: dispatched log entries published
// for out-of-process inspectors.
package events

import "encoding/json"

// EntryEvent is the wire form of one dispatched log entry.
type EntryEvent struct {
	Channel   string          `json:"channel"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Level     string          `json:"level"`
	Timestamp string          `json:"timestamp"`
}
