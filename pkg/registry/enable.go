package registry

// SetEnabled flips a channel's enabled flag. Unknown names never fail: the
// desired state is recorded provisionally and applied by a later Register
// call. Enabling (registered or provisional) runs pending install handlers;
// disabling never does.
func (r *Registry) SetEnabled(name string, enable bool) {
	r.mu.Lock()
	if st, ok := r.channels[name]; ok {
		st.enabled = enable
	} else {
		r.provisional[name] = enable
	}
	r.mu.Unlock()

	if enable {
		r.runInstallHandlers(name)
	}
}

// ShouldLog reports whether the named channel is registered and enabled.
// Unknown names are disabled, never an error; a provisional enable reports
// false until the channel is actually registered.
func (r *Registry) ShouldLog(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.channels[name]
	return ok && st.enabled
}
