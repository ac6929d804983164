package host

import "sync"

// MemoryNode is a map-backed Node implementation.
type MemoryNode struct {
	name       string
	params     map[string]any
	userParams map[string]bool
}

// NewNode creates a node with the given declared parameters.
func NewNode(name string, params map[string]any) *MemoryNode {
	if params == nil {
		params = make(map[string]any)
	}
	return &MemoryNode{
		name:       name,
		params:     params,
		userParams: make(map[string]bool),
	}
}

func (n *MemoryNode) Name() string { return n.name }

func (n *MemoryNode) Str(param string) string {
	if v, ok := n.params[param].(string); ok {
		return v
	}
	return ""
}

func (n *MemoryNode) Bool(param string) bool {
	if v, ok := n.params[param].(bool); ok {
		return v
	}
	return false
}

func (n *MemoryNode) HasUserParam(param string) bool {
	return n.userParams[param]
}

func (n *MemoryNode) Params() map[string]any {
	out := make(map[string]any, len(n.params))
	for k, v := range n.params {
		out[k] = v
	}
	return out
}

// SetUserParam attaches an undeclared user parameter, legacy-ABI style.
func (n *MemoryNode) SetUserParam(param string, value any) {
	n.userParams[param] = true
	n.params[param] = value
}

// MemoryUniverse is a map-backed Universe for tests and the CLI driver.
// Safe for concurrent lookup.
type MemoryUniverse struct {
	mu      sync.RWMutex
	options *MemoryNode
	nodes   map[string]*MemoryNode
}

func NewMemoryUniverse() *MemoryUniverse {
	return &MemoryUniverse{
		options: NewNode("options", nil),
		nodes:   make(map[string]*MemoryNode),
	}
}

func (u *MemoryUniverse) Options() Node {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.options == nil {
		return nil
	}
	return u.options
}

// SetOption sets a parameter on the global options node.
func (u *MemoryUniverse) SetOption(param string, value any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.options.params[param] = value
}

// ClearOptions removes the options node entirely. Tests use this to
// exercise the hostless defensive path.
func (u *MemoryUniverse) ClearOptions() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.options = nil
}

// Declare adds a node to the graph and returns it.
func (u *MemoryUniverse) Declare(name string, params map[string]any) *MemoryNode {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := NewNode(name, params)
	u.nodes[name] = n
	return n
}

func (u *MemoryUniverse) LookupNode(name string) Node {
	u.mu.RLock()
	defer u.mu.RUnlock()
	n, ok := u.nodes[name]
	if !ok {
		// A typed nil inside the interface would not compare equal to nil.
		return nil
	}
	return n
}
