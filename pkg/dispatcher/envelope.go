// Package dispatcher routes incoming diagnostic requests to registry methods.
package dispatcher

import "encoding/json"

// DiagnosticRequest is the JSON envelope for incoming diagnostic requests.
type DiagnosticRequest struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// DiagnosticResponse is the JSON envelope for diagnostic responses.
type DiagnosticResponse struct {
	ID     string       `json:"id"`
	Ok     bool         `json:"ok"`
	Result interface{}  `json:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail is the structured fault shape crossing the diagnostic boundary.
// Internal errors and panics are converted into it so a failing call never
// propagates a raw fault to the remote inspector.
type ErrorDetail struct {
	Exception string `json:"exception"`
	Stack     string `json:"stack"`
	Method    string `json:"method"`
}

// SetChannelParams holds the string parameters of the setChannel method.
type SetChannelParams struct {
	Channel string `json:"channel"`
	Enable  string `json:"enable"`
}

// ChannelDescription is one channel's entry in the listChannels result.
// Enabled is the string "true" or "false"; Description is empty when the
// channel was registered without one.
type ChannelDescription struct {
	Enabled     string `json:"enabled"`
	Description string `json:"description"`
}

// ListChannelsResult is the listChannels result payload.
type ListChannelsResult struct {
	Channels map[string]ChannelDescription `json:"channels"`
}
