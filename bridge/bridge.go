// Package bridge drives the four-call procedural protocol against one
// user script. Each Bridge exclusively owns the module its script loads
// into and the opaque context the script's Init hands back; both are
// released exactly once, at Cleanup. A Bridge never owns host nodes.
package bridge

import (
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/charbray/luaproc"
	"github.com/charbray/luaproc/errors"
	"github.com/charbray/luaproc/host"
	"github.com/charbray/luaproc/interp"
	"github.com/charbray/luaproc/searchpath"
)

type state int

const (
	stateInvalid state = iota
	stateResolved
	stateInitialized
	stateCleaned
)

func (s state) String() string {
	switch s {
	case stateInvalid:
		return "invalid"
	case stateResolved:
		return "resolved"
	case stateInitialized:
		return "initialized"
	case stateCleaned:
		return "cleaned"
	}
	return "unknown"
}

// Params describes one procedural expansion.
type Params struct {
	// NodeName is the procedural node's logical name, passed to the
	// script's Init.
	NodeName string
	// Script is either a path to an existing file or a bare filename
	// resolved against Path.
	Script string
	// Path is the effective search path (see package searchpath).
	Path string
	// Verbose enables Info-level progress diagnostics.
	Verbose bool
}

// Bridge is one procedural expansion in flight. Not safe for unguarded
// concurrent use of a single instance; the host drives each instance
// from one expansion at a time, and every method body runs under the
// interpreter lock domain regardless.
type Bridge struct {
	in       *interp.Interpreter
	universe host.Universe
	log      host.Logger

	nodeName string
	script   string
	modName  string
	verbose  bool

	st      state
	module  *lua.LTable
	userCtx lua.LValue
}

// New resolves the script location and returns the bridge. When the
// locator is not an existing file it is searched in p.Path; failure
// leaves the bridge invalid (Valid reports false), logged as a warning.
// No script is loaded until Init.
func New(in *interp.Interpreter, universe host.Universe, log host.Logger, p Params) *Bridge {
	if log == nil {
		log = host.NopLogger()
	}
	b := &Bridge{
		in:       in,
		universe: universe,
		log:      log,
		nodeName: p.NodeName,
		verbose:  p.Verbose,
		st:       stateInvalid,
	}

	script := p.Script
	if !searchpath.IsRegularFile(script) {
		if b.verbose {
			b.log.Info("[luaproc] searching procedural %q in search path", script)
		}
		resolved, err := searchpath.Resolve(p.Path, script)
		if err != nil {
			b.log.Warning("[luaproc] procedural %q not found in path", script)
			return b
		}
		script = resolved
	}

	b.script = searchpath.Normalize(script)
	b.st = stateResolved
	if b.verbose {
		b.log.Info("[luaproc] resolved script path %q", b.script)
	}
	return b
}

// Valid reports whether the script location resolved. Invalid bridges
// never proceed past construction.
func (b *Bridge) Valid() bool {
	return b.script != ""
}

// ModuleName derives the name a script's chunk is registered under:
// basename, extension stripped, fixed prefix prepended. Pure function
// of the basename; scripts sharing a basename in different directories
// collide. Documented limitation, kept as is.
func ModuleName(script string) string {
	base := filepath.Base(searchpath.Normalize(script))
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return luaproc.ModulePrefix + base
}

// run executes f under the interpreter lock. Lock-level failures (dead
// runtime, contained panics) are logged, never propagated.
func (b *Bridge) run(op string, f func(L *lua.LState)) {
	if err := b.in.Do(func(L *lua.LState) error {
		f(L)
		return nil
	}); err != nil {
		b.log.Warning("[luaproc] %s: %v", op, err)
	}
}

// Init loads the resolved script as a module and invokes its Init
// function with the node's logical name. The script must return
// (status, context); the context is retained until Cleanup. Returns the
// script's status, or 0 on any failure. Failures are logged and
// contained, never raised to the host.
func (b *Bridge) Init() int {
	status := 0
	b.run("init", func(L *lua.LState) {
		if b.st != stateResolved {
			b.log.Error("[luaproc] %v", errors.InvalidState("init", b.st.String()))
			return
		}

		b.modName = ModuleName(b.script)
		if b.verbose {
			b.log.Info("[luaproc] loading procedural module %q", b.modName)
		}

		fn, err := L.LoadFile(b.script)
		if err != nil {
			b.log.Error("[luaproc] %v", errors.Load(b.script, err))
			return
		}

		// The chunk runs in a fresh environment that falls back to the
		// globals, so scripts see the stdlib but never each other.
		env := L.NewTable()
		mt := L.NewTable()
		L.SetField(mt, "__index", L.G.Global)
		L.SetMetatable(env, mt)
		L.SetFEnv(fn, env)

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
			b.log.Error("[luaproc] %v", errors.Load(b.script, err))
			return
		}

		// Register under the derived name. A same-basename script loaded
		// later replaces this entry; the bridge keeps its own reference
		// so the collision affects the cache only.
		if loaded := b.in.Loaded(); loaded != nil {
			loaded.RawSetString(b.modName, env)
		}
		b.module = env

		initFn := L.GetField(env, luaproc.FuncInit)
		if initFn.Type() != lua.LTFunction {
			b.log.Error("[luaproc] %v", errors.MissingFunction(b.script, luaproc.FuncInit))
			return
		}

		if err := L.CallByParam(lua.P{Fn: initFn, NRet: 2, Protect: true}, lua.LString(b.nodeName)); err != nil {
			b.log.Error("[luaproc] %v", errors.ScriptError(b.script, luaproc.FuncInit, err))
			return
		}
		stv := L.Get(-2)
		ctx := L.Get(-1)
		L.Pop(2)

		n, ok := stv.(lua.LNumber)
		if !ok {
			b.log.Error("[luaproc] %v", errors.BadReturn(b.script, luaproc.FuncInit, "(integer, context)"))
			return
		}

		b.userCtx = ctx
		b.st = stateInitialized
		status = int(n)
	})
	return status
}

// NumNodes asks the script how many nodes this expansion produces.
// Only meaningful between Init and Cleanup; anything else is a
// defensive error answered with 0.
func (b *Bridge) NumNodes() int {
	count := 0
	b.run("numNodes", func(L *lua.LState) {
		if b.st != stateInitialized {
			b.log.Error("[luaproc] %v", errors.InvalidState("numNodes", b.st.String()))
			return
		}

		fn := L.GetField(b.module, luaproc.FuncNumNodes)
		if fn.Type() != lua.LTFunction {
			b.log.Error("[luaproc] %v", errors.MissingFunction(b.script, luaproc.FuncNumNodes))
			return
		}

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, b.userCtx); err != nil {
			b.log.Error("[luaproc] %v", errors.ScriptError(b.script, luaproc.FuncNumNodes, err))
			return
		}
		rv := L.Get(-1)
		L.Pop(1)

		n, ok := rv.(lua.LNumber)
		if !ok {
			b.log.Error("[luaproc] %v", errors.BadReturn(b.script, luaproc.FuncNumNodes, "integer"))
			return
		}
		count = int(n)
	})
	return count
}

// GetNode asks the script to name the i-th produced node and resolves
// that name in the host's render graph. Nil means no node produced at
// this index: wrong return type, script error and unknown name all land
// here, each logged.
func (b *Bridge) GetNode(i int) host.Node {
	var node host.Node
	b.run("getNode", func(L *lua.LState) {
		if b.st != stateInitialized {
			b.log.Error("[luaproc] %v", errors.InvalidState("getNode", b.st.String()))
			return
		}

		fn := L.GetField(b.module, luaproc.FuncGetNode)
		if fn.Type() != lua.LTFunction {
			b.log.Error("[luaproc] %v", errors.MissingFunction(b.script, luaproc.FuncGetNode))
			return
		}

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, b.userCtx, lua.LNumber(i)); err != nil {
			b.log.Error("[luaproc] %v", errors.ScriptError(b.script, luaproc.FuncGetNode, err))
			return
		}
		rv := L.Get(-1)
		L.Pop(1)

		name, ok := rv.(lua.LString)
		if !ok {
			b.log.Error("[luaproc] %v", errors.BadReturn(b.script, luaproc.FuncGetNode, "string"))
			return
		}

		node = b.universe.LookupNode(string(name))
		if node == nil {
			b.log.Error("[luaproc] %v", errors.UnknownNode(b.script, string(name)))
		}
	})
	return node
}

// Cleanup invokes the script's Cleanup with the context, coerces its
// result to an integer status (0 on any error) and releases the module
// and context exactly once. Safe on a bridge whose Init never ran or
// never succeeded; it releases only what was actually acquired.
func (b *Bridge) Cleanup() int {
	status := 0
	b.run("cleanup", func(L *lua.LState) {
		if b.st == stateCleaned {
			b.log.Error("[luaproc] %v", errors.InvalidState("cleanup", b.st.String()))
			return
		}

		if b.st == stateInitialized {
			fn := L.GetField(b.module, luaproc.FuncCleanup)
			if fn.Type() != lua.LTFunction {
				b.log.Error("[luaproc] %v", errors.MissingFunction(b.script, luaproc.FuncCleanup))
			} else if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, b.userCtx); err != nil {
				b.log.Error("[luaproc] %v", errors.ScriptError(b.script, luaproc.FuncCleanup, err))
			} else {
				rv := L.Get(-1)
				L.Pop(1)
				if n, ok := rv.(lua.LNumber); ok {
					status = int(n)
				} else {
					b.log.Error("[luaproc] %v", errors.BadReturn(b.script, luaproc.FuncCleanup, "integer"))
				}
			}
		}

		b.release(L)
		b.st = stateCleaned
	})
	return status
}

// release drops the module and context references. Runs under the
// interpreter lock; idempotence is guaranteed by the state machine.
func (b *Bridge) release(L *lua.LState) {
	if b.module != nil {
		if loaded := b.in.Loaded(); loaded != nil {
			loaded.RawSetString(b.modName, lua.LNil)
		}
		b.module = nil
	}
	b.userCtx = nil
}
