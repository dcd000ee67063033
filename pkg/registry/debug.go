//go:build tracedebug

package registry

// DebugBuild reports whether debug emission is compiled in.
const DebugBuild = true

// Debug dispatches like Registry.Log. In builds without the tracedebug tag
// the whole call, enablement check included, compiles to nothing.
func Debug(r *Registry, name string, in *LogInput) {
	_ = r.Log(name, in)
}
