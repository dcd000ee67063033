package registry

import (
	"fmt"
	"sort"
)

// Register stores a new channel as disabled unless a provisional enable was
// recorded for the name before registration, in which case that state takes
// effect now. Registering an existing name fails with DUPLICATE_CHANNEL and
// leaves the first registration untouched.
func (r *Registry) Register(name, description string) error {
	if name == "" {
		return NewChannelError(CodeInvalidArgument, "channel name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.channels[name]; ok {
		return NewChannelError(CodeDuplicateChannel, fmt.Sprintf("channel already registered: %s", name))
	}

	st := &channelState{description: description}
	if enabled, ok := r.provisional[name]; ok {
		st.enabled = enabled
		delete(r.provisional, name)
	}
	r.channels[name] = st
	return nil
}

// Lookup returns the channel's info, or NOT_REGISTERED for unknown names.
// Callers that want strict enablement checks use this before SetEnabled.
func (r *Registry) Lookup(name string) (ChannelInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.channels[name]
	if !ok {
		return ChannelInfo{}, NewChannelError(CodeNotRegistered, fmt.Sprintf("channel not registered: %s", name))
	}
	return ChannelInfo{Name: name, Description: st.description, Enabled: st.enabled}, nil
}

// List returns all registered channels sorted by name. Provisional enables
// for names that were never registered are not listed.
func (r *Registry) List() []ChannelInfo {
	r.mu.RLock()
	infos := make([]ChannelInfo, 0, len(r.channels))
	for name, st := range r.channels {
		infos = append(infos, ChannelInfo{Name: name, Description: st.description, Enabled: st.enabled})
	}
	r.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
