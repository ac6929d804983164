// Package host declares the interfaces this subsystem needs from the
// hosting render engine: node lookup in the render graph, parameter
// access and the log stream. The engine side of these interfaces is out
// of scope; MemoryUniverse provides an in-process stand-in for tests
// and the command-line driver.
package host

// Node is a node in the host's render graph. Handles obtained through
// Universe are non-owning: the graph owns its nodes, the bridge never
// releases them.
type Node interface {
	// Name returns the node's logical name in the graph.
	Name() string
	// Str reads a declared string parameter, "" when unset.
	Str(param string) string
	// Bool reads a declared boolean parameter, false when unset.
	Bool(param string) bool
	// HasUserParam reports whether an undeclared user parameter exists
	// on the node. The legacy ABI exposes "verbose" this way.
	HasUserParam(param string) bool
	// Params returns the node's parameter values keyed by name.
	Params() map[string]any
}

// Universe is the host's render-graph registry.
type Universe interface {
	// Options returns the global options node, or nil if the host has
	// none (a defensive case, not a normal one).
	Options() Node
	// LookupNode resolves a node by name, nil when absent.
	LookupNode(name string) Node
}

// Option parameter names read from the host's global options node.
const (
	OptProceduralSearchPath = "procedural_searchpath"
	OptPluginSearchPath     = "plugin_searchpath"
)
