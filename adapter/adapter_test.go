package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charbray/luaproc"
	"github.com/charbray/luaproc/host"
	"github.com/charbray/luaproc/interp"
	"github.com/charbray/luaproc/searchpath"
)

const stubScript = `
function Init(name)
  return 1, { count = 2, nodes = { "A", "B" } }
end
function NumNodes(ctx) return ctx.count end
function GetNode(ctx, i) return ctx.nodes[i + 1] end
function Cleanup(ctx) return 1 end
`

func newTestInterp(t *testing.T) *interp.Interpreter {
	t.Helper()
	in := interp.New(interp.Config{})
	require.NoError(t, in.Begin())
	t.Cleanup(in.End)
	return in
}

func writeStub(t *testing.T, name string) (dir string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(stubScript), 0o644))
	return dir
}

func declaredUniverse(t *testing.T, procPath string) *host.MemoryUniverse {
	t.Helper()
	u := host.NewMemoryUniverse()
	u.SetOption(host.OptProceduralSearchPath, procPath)
	u.Declare("A", nil)
	u.Declare("B", nil)
	return u
}

func TestAdapter_CurrentRevision(t *testing.T) {
	in := newTestInterp(t)
	dir := writeStub(t, "stub.lua")
	u := declaredUniverse(t, dir)

	decl, a := RegisterCurrent(in, u, host.NopLogger(), 0)
	require.NotNil(t, decl)
	assert.Equal(t, "luaproc", decl.Name)
	assert.Equal(t, "shape_procedural", decl.NodeType)
	assert.Equal(t, "none", decl.OutputType)
	assert.Equal(t, luaproc.Version, decl.Version)
	require.Len(t, decl.Parameters, 2)
	assert.True(t, decl.Parameters[0].FilePath)

	node := host.NewNode("proc1", map[string]any{"script": "stub.lua", "verbose": false})
	h, status := decl.Methods.Init(node)
	require.NotZero(t, h)
	assert.Equal(t, 1, status)

	assert.Equal(t, 2, decl.Methods.NumNodes(h))
	n := decl.Methods.GetNode(h, 0)
	require.NotNil(t, n)
	assert.Equal(t, "A", n.Name())
	assert.Equal(t, 1, decl.Methods.Cleanup(h))

	// Handle retired after cleanup.
	assert.Equal(t, 0, a.NumNodes(h))
}

func TestRegisterCurrent_OnlySlotZero(t *testing.T) {
	in := newTestInterp(t)
	u := host.NewMemoryUniverse()

	decl, a := RegisterCurrent(in, u, host.NopLogger(), 1)
	assert.Nil(t, decl)
	assert.Nil(t, a)
}

func TestAdapter_LegacyRevision(t *testing.T) {
	in := newTestInterp(t)
	dir := writeStub(t, "stub.lua")
	u := declaredUniverse(t, dir)

	var vt FuncTable
	RegisterLegacy(in, u, host.NopLogger(), &vt)
	assert.Equal(t, luaproc.Version, vt.Version)

	// Legacy reads the locator from "data"; "verbose" counts only when
	// declared as a user parameter.
	node := host.NewNode("proc1", map[string]any{"data": "stub.lua"})
	node.SetUserParam("verbose", true)

	h, status := vt.Init(node)
	require.NotZero(t, h)
	assert.Equal(t, 1, status)
	assert.Equal(t, 2, vt.NumNodes(h))
	assert.Equal(t, 1, vt.Cleanup(h))
}

func TestAdapter_LegacyIgnoresScriptParam(t *testing.T) {
	in := newTestInterp(t)
	dir := writeStub(t, "stub.lua")
	u := declaredUniverse(t, dir)

	var vt FuncTable
	RegisterLegacy(in, u, host.NopLogger(), &vt)

	// "script" is a current-revision parameter; legacy nodes carry the
	// locator in "data" only.
	node := host.NewNode("proc1", map[string]any{"script": "stub.lua"})
	h, status := vt.Init(node)
	assert.Zero(t, h)
	assert.Equal(t, 0, status)
}

func TestAdapter_CurrentPrependsPluginSearchPath(t *testing.T) {
	in := newTestInterp(t)
	pluginDir := writeStub(t, "stub.lua")

	u := host.NewMemoryUniverse()
	u.SetOption(host.OptProceduralSearchPath, "/definitely/missing")
	u.SetOption(host.OptPluginSearchPath, pluginDir)
	u.Declare("A", nil)

	decl, _ := RegisterCurrent(in, u, host.NopLogger(), 0)
	node := host.NewNode("proc1", map[string]any{"script": "stub.lua"})

	h, status := decl.Methods.Init(node)
	require.NotZero(t, h, "script must resolve through plugin_searchpath")
	assert.Equal(t, 1, status)
	decl.Methods.Cleanup(h)
}

func TestAdapter_LegacyDoesNotUsePluginSearchPath(t *testing.T) {
	in := newTestInterp(t)
	pluginDir := writeStub(t, "stub.lua")

	u := host.NewMemoryUniverse()
	u.SetOption(host.OptProceduralSearchPath, "/definitely/missing")
	u.SetOption(host.OptPluginSearchPath, pluginDir)

	var vt FuncTable
	RegisterLegacy(in, u, host.NopLogger(), &vt)
	node := host.NewNode("proc1", map[string]any{"data": "stub.lua"})

	h, _ := vt.Init(node)
	assert.Zero(t, h, "legacy revision must not search plugin_searchpath")
}

func TestAdapter_UnresolvedScriptNeverInitializes(t *testing.T) {
	in := newTestInterp(t)
	os.Unsetenv("ENVX")

	u := host.NewMemoryUniverse()
	u.SetOption(host.OptProceduralSearchPath, "/missing"+searchpath.ListSeparator+"[ENVX]")

	decl, _ := RegisterCurrent(in, u, host.NopLogger(), 0)
	node := host.NewNode("proc1", map[string]any{"script": "ghost.lua"})

	h, status := decl.Methods.Init(node)
	assert.Zero(t, h)
	assert.Equal(t, 0, status)
}

func TestAdapter_NoOptionsNode(t *testing.T) {
	in := newTestInterp(t)
	u := host.NewMemoryUniverse()
	u.ClearOptions()

	decl, _ := RegisterCurrent(in, u, host.NopLogger(), 0)
	node := host.NewNode("proc1", map[string]any{"script": "stub.lua"})

	h, status := decl.Methods.Init(node)
	assert.Zero(t, h)
	assert.Equal(t, 0, status)
}

func TestAdapter_TeardownRace(t *testing.T) {
	in := newTestInterp(t)
	dir := writeStub(t, "stub.lua")
	u := declaredUniverse(t, dir)

	decl, _ := RegisterCurrent(in, u, host.NopLogger(), 0)
	node := host.NewNode("proc1", map[string]any{"script": "stub.lua"})
	h, status := decl.Methods.Init(node)
	require.NotZero(t, h)
	require.Equal(t, 1, status)

	// Runtime goes away while the expansion is mid-flight. Every entry
	// point must answer neutrally without touching the bridge.
	in.End()

	assert.Equal(t, 0, decl.Methods.NumNodes(h))
	assert.Nil(t, decl.Methods.GetNode(h, 0))
	assert.Equal(t, 0, decl.Methods.Cleanup(h))
}

func TestAdapter_UnknownHandle(t *testing.T) {
	in := newTestInterp(t)
	u := host.NewMemoryUniverse()

	a := New(in, u, host.NopLogger(), RevisionCurrent)
	assert.Equal(t, 0, a.NumNodes(Handle(42)))
	assert.Nil(t, a.GetNode(Handle(42), 0))
	assert.Equal(t, 0, a.Cleanup(Handle(42)))
}
