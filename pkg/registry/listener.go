package registry

// AddListener attaches a listener to the dispatch fan-out. Adding a listener
// that is already present is a no-op, so callers need not track whether they
// attached before.
func (r *Registry) AddListener(l Listener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.listeners {
		if existing == l {
			return
		}
	}
	r.listeners = append(r.listeners, l)
}

// RemoveListener detaches a listener. Removed listeners stop receiving future
// dispatches; entries already being dispatched are unaffected.
func (r *Registry) RemoveListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.listeners {
		if existing == l {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// FuncListener adapts a plain function to the Listener interface. Each
// FuncListener pointer is its own identity for duplicate-add purposes.
type FuncListener struct {
	fn func(e *Entry)
}

// NewFuncListener wraps fn as a Listener.
func NewFuncListener(fn func(e *Entry)) *FuncListener {
	return &FuncListener{fn: fn}
}

// HandleEntry invokes the wrapped function.
func (l *FuncListener) HandleEntry(e *Entry) {
	l.fn(e)
}
