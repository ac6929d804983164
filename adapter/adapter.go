// Package adapter exposes the bridge to the host's procedural callback
// slots. Two host ABI revisions exist, differing in callback
// registration, in how per-node parameters are read and in whether the
// plugin search path joins the procedural one; the revision is selected
// once at registration, not scattered through the call paths.
//
// Bridges live behind opaque handles: the host carries the handle
// returned by Init through NumNodes/GetNode and back into Cleanup, one
// handle per in-flight expansion.
package adapter

import (
	"sync"
	"sync/atomic"

	"github.com/mitchellh/mapstructure"

	"github.com/charbray/luaproc/bridge"
	"github.com/charbray/luaproc/host"
	"github.com/charbray/luaproc/interp"
	"github.com/charbray/luaproc/searchpath"
)

// Revision selects the host ABI the adapter speaks.
type Revision int

const (
	// RevisionLegacy reads the script locator from the "data" string
	// parameter and "verbose" only when declared as a user parameter.
	RevisionLegacy Revision = iota + 1
	// RevisionCurrent reads typed "script" and "verbose" parameters and
	// prepends the plugin search path to the procedural one.
	RevisionCurrent
)

// Handle identifies one in-flight expansion. Zero is never issued.
type Handle uint64

// Adapter routes host callback slots to bridge instances.
type Adapter struct {
	in       *interp.Interpreter
	universe host.Universe
	log      host.Logger
	rev      Revision

	mu      sync.RWMutex
	bridges map[Handle]*bridge.Bridge
	next    atomic.Uint64
}

func New(in *interp.Interpreter, universe host.Universe, log host.Logger, rev Revision) *Adapter {
	if log == nil {
		log = host.NopLogger()
	}
	return &Adapter{
		in:       in,
		universe: universe,
		log:      log,
		rev:      rev,
		bridges:  make(map[Handle]*bridge.Bridge),
	}
}

type legacyParams struct {
	Data    string `mapstructure:"data"`
	Verbose bool   `mapstructure:"verbose"`
}

type currentParams struct {
	Script  string `mapstructure:"script"`
	Verbose bool   `mapstructure:"verbose"`
}

// Init builds the effective search path from the host's global options,
// reads the node's parameters per the active revision, constructs a
// bridge and runs its Init. The returned handle is 0 when the bridge
// could not be constructed; otherwise it stays live until Cleanup even
// if the script's own Init reported failure, because the host will
// still route its Cleanup call here.
func (a *Adapter) Init(node host.Node) (Handle, int) {
	if !a.in.Running() {
		a.log.Warning("[luaproc] Init: runtime not initialized")
		return 0, 0
	}

	opts := a.universe.Options()
	if opts == nil {
		a.log.Warning("[luaproc] no 'options' node")
		return 0, 0
	}

	path := opts.Str(host.OptProceduralSearchPath)
	if a.rev >= RevisionCurrent {
		path = opts.Str(host.OptPluginSearchPath) + searchpath.ListSeparator + path
	}

	p := bridge.Params{
		NodeName: node.Name(),
		Path:     path,
	}
	switch a.rev {
	case RevisionLegacy:
		var lp legacyParams
		if err := mapstructure.Decode(node.Params(), &lp); err != nil {
			a.log.Warning("[luaproc] Init: bad parameters on %q: %v", node.Name(), err)
			return 0, 0
		}
		p.Script = lp.Data
		if node.HasUserParam("verbose") {
			p.Verbose = lp.Verbose
		}
	default:
		var cp currentParams
		if err := mapstructure.Decode(node.Params(), &cp); err != nil {
			a.log.Warning("[luaproc] Init: bad parameters on %q: %v", node.Name(), err)
			return 0, 0
		}
		p.Script = cp.Script
		p.Verbose = cp.Verbose
	}

	b := bridge.New(a.in, a.universe, a.log, p)
	if !b.Valid() {
		return 0, 0
	}

	h := Handle(a.next.Add(1))
	a.mu.Lock()
	a.bridges[h] = b
	a.mu.Unlock()

	return h, b.Init()
}

// NumNodes routes to the bridge behind h. Dead runtime or unknown
// handle answer 0.
func (a *Adapter) NumNodes(h Handle) int {
	if !a.in.Running() {
		a.log.Warning("[luaproc] NumNodes: runtime not initialized")
		return 0
	}
	b := a.get(h)
	if b == nil {
		a.log.Warning("[luaproc] NumNodes: unknown handle %d", h)
		return 0
	}
	return b.NumNodes()
}

// GetNode routes to the bridge behind h. Nil means no node produced at
// this index.
func (a *Adapter) GetNode(h Handle, i int) host.Node {
	if !a.in.Running() {
		a.log.Warning("[luaproc] GetNode: runtime not initialized")
		return nil
	}
	b := a.get(h)
	if b == nil {
		a.log.Warning("[luaproc] GetNode: unknown handle %d", h)
		return nil
	}
	return b.GetNode(i)
}

// Cleanup routes to the bridge behind h and retires the handle.
func (a *Adapter) Cleanup(h Handle) int {
	if !a.in.Running() {
		a.log.Warning("[luaproc] Cleanup: runtime not initialized")
		return 0
	}
	b := a.take(h)
	if b == nil {
		a.log.Warning("[luaproc] Cleanup: unknown handle %d", h)
		return 0
	}
	return b.Cleanup()
}

func (a *Adapter) get(h Handle) *bridge.Bridge {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bridges[h]
}

func (a *Adapter) take(h Handle) *bridge.Bridge {
	a.mu.Lock()
	defer a.mu.Unlock()
	b := a.bridges[h]
	delete(a.bridges, h)
	return b
}
