//go:build !tracedebug

package registry

// DebugBuild reports whether debug emission is compiled in.
const DebugBuild = false

// Debug is a no-op without the tracedebug build tag; the thunks inside in are
// never invoked and the call is eliminated by the compiler.
func Debug(_ *Registry, _ string, _ *LogInput) {}
