package httptrace

import (
	"sync"

	"github.com/tracelight/tracelight/pkg/registry"
)

// Factory is the process-wide source of HTTP clients. It starts out handing
// back real clients; once instrumentation is installed every subsequent
// NewClient call returns a logging proxy instead, until Uninstall. The
// factory is an explicit injected object, not ambient global state, so tests
// and embedders can each own one.
type Factory struct {
	mu         sync.RWMutex
	reg        *registry.Registry
	instrument bool
}

// NewFactory creates a factory producing uninstrumented clients.
func NewFactory(reg *registry.Registry) *Factory {
	return &Factory{reg: reg}
}

// NewClient returns a client according to the current interception state.
func (f *Factory) NewClient() Client {
	f.mu.RLock()
	instrument := f.instrument
	f.mu.RUnlock()

	if instrument {
		return NewLoggingClient(f.reg)
	}
	return NewRealClient()
}

// Install switches the factory to producing logging proxies.
func (f *Factory) Install() {
	f.mu.Lock()
	f.instrument = true
	f.mu.Unlock()
}

// Uninstall restores real clients for subsequent creations. Clients already
// handed out keep their behavior.
func (f *Factory) Uninstall() {
	f.mu.Lock()
	f.instrument = false
	f.mu.Unlock()
}

// Installed reports whether NewClient currently returns logging proxies.
func (f *Factory) Installed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.instrument
}

// InstallOnEnable registers the one-shot install handler that activates the
// factory's interception the first time the http channel is enabled, so the
// swap is deferred until HTTP logging is actually requested.
func InstallOnEnable(reg *registry.Registry, f *Factory) {
	reg.RegisterInstallHandler(func(name string) bool {
		if name != ChannelName {
			return false
		}
		f.Install()
		return true
	})
}
