package adapter

import (
	"github.com/charbray/luaproc"
	"github.com/charbray/luaproc/host"
	"github.com/charbray/luaproc/interp"
)

// FuncTable is the legacy ABI's callback table: four slots stamped with
// a version string, filled by RegisterLegacy.
type FuncTable struct {
	Init     func(node host.Node) (Handle, int)
	Cleanup  func(h Handle) int
	NumNodes func(h Handle) int
	GetNode  func(h Handle, i int) host.Node
	Version  string
}

// RegisterLegacy fills the host's callback table for the legacy ABI and
// returns the adapter behind it.
func RegisterLegacy(in *interp.Interpreter, universe host.Universe, log host.Logger, vt *FuncTable) *Adapter {
	a := New(in, universe, log, RevisionLegacy)
	vt.Init = a.Init
	vt.Cleanup = a.Cleanup
	vt.NumNodes = a.NumNodes
	vt.GetNode = a.GetNode
	vt.Version = luaproc.Version
	return a
}

// ParamDecl declares one node parameter for the current ABI.
type ParamDecl struct {
	Name     string
	Type     string
	Default  any
	FilePath bool
}

// Methods holds the current ABI's named callbacks.
type Methods struct {
	Init     func(node host.Node) (Handle, int)
	NumNodes func(h Handle) int
	GetNode  func(h Handle, i int) host.Node
	Cleanup  func(h Handle) int
}

// NodeDecl is the current ABI's node declaration: a procedural shape
// with no direct output type, exporting the method table.
type NodeDecl struct {
	Name       string
	NodeType   string
	OutputType string
	Version    string
	Parameters []ParamDecl
	Methods    Methods
}

// RegisterCurrent declares the luaproc node for slot i of the host's
// node loader. Only slot 0 exists; higher slots return nil like the
// loader contract expects.
func RegisterCurrent(in *interp.Interpreter, universe host.Universe, log host.Logger, i int) (*NodeDecl, *Adapter) {
	if i > 0 {
		return nil, nil
	}

	a := New(in, universe, log, RevisionCurrent)
	decl := &NodeDecl{
		Name:       "luaproc",
		NodeType:   "shape_procedural",
		OutputType: "none",
		Version:    luaproc.Version,
		Parameters: []ParamDecl{
			{Name: "script", Type: "string", Default: "", FilePath: true},
			{Name: "verbose", Type: "bool", Default: false},
		},
		Methods: Methods{
			Init:     a.Init,
			NumNodes: a.NumNodes,
			GetNode:  a.GetNode,
			Cleanup:  a.Cleanup,
		},
	}
	return decl, a
}
