package registry

// RegisterInstallHandler adds a one-shot activation handler. Handlers are
// consulted in registration order on every enabling SetEnabled call; the
// first time a handler claims a name it is removed and never runs again.
func (r *Registry) RegisterInstallHandler(h InstallHandler) {
	if h == nil {
		return
	}
	r.mu.Lock()
	r.nextInstall++
	r.installers = append(r.installers, &installEntry{id: r.nextInstall, fn: h})
	r.mu.Unlock()
}

// runInstallHandlers invokes pending handlers for an enabling channel name.
// Handlers run outside the lock so they may call back into the registry
// (register channels, log, add listeners). Each entry is marked running
// under the lock before its handler is invoked; a concurrent enable that
// finds an entry already running skips it, so no handler can fire twice for
// one claim even when two SetEnabled calls race.
func (r *Registry) runInstallHandlers(name string) {
	r.mu.Lock()
	var pending []*installEntry
	for _, e := range r.installers {
		if !e.running {
			e.running = true
			pending = append(pending, e)
		}
	}
	r.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	var claimed []int64
	for _, e := range pending {
		if e.fn(name) {
			claimed = append(claimed, e.id)
		}
	}

	r.mu.Lock()
	for _, e := range pending {
		e.running = false
	}
	if len(claimed) > 0 {
		kept := r.installers[:0]
		for _, e := range r.installers {
			if !containsID(claimed, e.id) {
				kept = append(kept, e)
			}
		}
		r.installers = kept
	}
	r.mu.Unlock()
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
