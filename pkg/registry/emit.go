package registry

import (
	"encoding/json"
	"fmt"
	"runtime/debug"
)

const emitLogPrefix = "registry:emit"

// Log dispatches one entry on the named channel. When the channel is disabled
// (or unregistered) neither the message thunk nor the data thunk is invoked
// and the call costs one map lookup. When enabled, the message is resolved
// (non-strings are formatted with fmt.Sprint), the data payload is resolved
// and JSON-encoded, and the entry is handed to every listener in registration
// order, synchronously, on the caller's goroutine.
//
// Encoding failures propagate to the caller. Listener panics are not
// recovered: a panicking listener aborts the dispatch for listeners after it.
func (r *Registry) Log(name string, in *LogInput) error {
	if in == nil || in.Message == nil {
		return NewChannelError(CodeInvalidArgument, "log input requires a message thunk")
	}

	r.mu.RLock()
	st, ok := r.channels[name]
	enabled := ok && st.enabled
	var listeners []Listener
	if enabled {
		listeners = make([]Listener, len(r.listeners))
		copy(listeners, r.listeners)
	}
	r.mu.RUnlock()

	if !enabled {
		return nil
	}

	entry := &Entry{
		Channel: name,
		Message: resolveMessage(in.Message()),
		Level:   in.Level,
	}

	if in.Data != nil {
		v := in.Data()
		if in.Encoder != nil {
			v = in.Encoder(v)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("%s - encode data for channel %q: %w", emitLogPrefix, name, err)
		}
		entry.Data = data
	}

	if in.CaptureStack {
		entry.Stack = debug.Stack()
	}

	for _, l := range listeners {
		l.HandleEntry(entry)
	}
	return nil
}

// LogMessage is the message-only convenience form of Log.
func (r *Registry) LogMessage(name string, msg MessageThunk) error {
	return r.Log(name, &LogInput{Message: msg})
}

func resolveMessage(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
