package registry

import "sync"

// channelState is the stored per-channel record.
type channelState struct {
	description string
	enabled     bool
}

// installEntry pairs an install handler with a stable id so one-shot removal
// survives concurrent registration. running marks an entry whose handler is
// currently being invoked; concurrent enables skip running entries, which is
// what keeps the one-shot guarantee under concurrent SetEnabled calls.
type installEntry struct {
	id      int64
	fn      InstallHandler
	running bool
}

// Registry owns all channel, listener, and install-handler state. It is safe
// for concurrent use; dispatch and install handlers run outside the lock on
// the calling goroutine.
type Registry struct {
	mu       sync.RWMutex
	channels map[string]*channelState
	// provisional records SetEnabled calls for names not yet registered
	// (lenient variant). The flag is consumed by a later Register.
	provisional map[string]bool
	listeners   []Listener
	installers  []*installEntry
	nextInstall int64
}

// NewRegistryParams holds dependencies for NewRegistry.
type NewRegistryParams struct {
	// Listeners are attached in order before the registry is returned.
	Listeners []Listener
}

// NewRegistry creates a new Registry instance.
func NewRegistry(params NewRegistryParams) *Registry {
	r := &Registry{
		channels:    make(map[string]*channelState),
		provisional: make(map[string]bool),
	}
	for _, l := range params.Listeners {
		r.AddListener(l)
	}
	return r
}
