// Package interp owns the process-wide embedded Lua runtime. The host
// process may already carry a runtime of its own; Begin attaches to it
// without stealing ownership, or performs full embedding when none
// exists. Either way every later call into the runtime must go through
// Do, the single mutual-exclusion domain serializing interpreter
// access across the host's worker threads.
package interp

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/charbray/luaproc"
	"github.com/charbray/luaproc/errors"
	"github.com/charbray/luaproc/host"
	"github.com/charbray/luaproc/searchpath"
)

// Config controls how Begin embeds or attaches.
type Config struct {
	// Existing is a runtime the hosting process already initialized.
	// When set, Begin attaches instead of embedding and End restores
	// the host's ownership token instead of finalizing.
	Existing *lua.LState

	// Locker is the host's lock domain guarding Existing, when the
	// host already activated one. Nil means the thread subsystem is
	// not active yet and the interpreter activates its own.
	Locker sync.Locker

	// Log receives startup and shutdown diagnostics. Nil discards.
	Log host.Logger
}

// Interpreter is the single process-wide interpreter context. Create
// one with New, call Begin before any bridge method and End after all
// bridges are gone. Both are idempotent.
type Interpreter struct {
	cfg Config
	log host.Logger

	// lifeMu guards the begin/end transitions and the running flag.
	// mu is the interpreter lock domain itself.
	lifeMu sync.Mutex
	mu     sync.Locker

	state *lua.LState

	// mainToken is non-nil when this subsystem performed the embedding
	// and must finalize the runtime at End. restoreToken is the host's
	// saved ownership token, handed back verbatim when only attached.
	mainToken    *lua.LState
	restoreToken *lua.LState

	loaded  *lua.LTable
	running bool
}

// At most one interpreter context exists per process.
var (
	activeMu sync.Mutex
	active   *Interpreter
)

func New(cfg Config) *Interpreter {
	log := cfg.Log
	if log == nil {
		log = host.NopLogger()
	}
	return &Interpreter{cfg: cfg, log: log}
}

// Begin embeds or attaches to the runtime. Safe to call repeatedly;
// only the first call does work. Must precede any bridge method.
func (in *Interpreter) Begin() error {
	in.lifeMu.Lock()
	defer in.lifeMu.Unlock()

	if in.running {
		return nil
	}

	activeMu.Lock()
	if active != nil && active != in {
		activeMu.Unlock()
		return errors.InvalidState("begin", "another interpreter active")
	}
	active = in
	activeMu.Unlock()

	in.debugDumpPaths()

	if in.cfg.Existing != nil {
		in.log.Info("[luaproc] runtime already initialized")

		if in.cfg.Locker == nil {
			in.log.Info("[luaproc] activating interpreter lock domain")
			in.mu = &sync.Mutex{}
		} else {
			// The host holds the runtime right now. Save its token and
			// release it into the shared lock domain; End restores it
			// untouched.
			in.mu = in.cfg.Locker
			in.restoreToken = in.cfg.Existing
		}
		in.state = in.cfg.Existing
		in.mainToken = nil
	} else {
		in.log.Info("[luaproc] initializing runtime")

		st := lua.NewState()
		st.SetGlobal("_PROGNAME", lua.LString("luaproc"))
		in.mu = &sync.Mutex{}
		in.state = st
		in.mainToken = st
	}

	in.mu.Lock()
	err := in.bootstrap(in.state)
	in.mu.Unlock()
	if err != nil {
		if in.mainToken != nil {
			in.mainToken.Close()
			in.mainToken = nil
		}
		in.restoreToken = nil
		in.teardownLocked()
		return err
	}

	in.running = true
	return nil
}

// End shuts the interpreter down. A runtime this subsystem embedded is
// finalized; a host-owned runtime is handed back through the saved
// token without finalizing anything. No-op when not running.
func (in *Interpreter) End() {
	in.lifeMu.Lock()
	defer in.lifeMu.Unlock()

	if !in.running {
		return
	}

	if in.mainToken != nil {
		in.log.Info("[luaproc] finalizing runtime")
		// Finalize under the lock domain so no call-out is mid-flight.
		in.mu.Lock()
		in.mainToken.Close()
		in.mu.Unlock()
		in.mainToken = nil
	} else if in.restoreToken != nil {
		// Restore the host's thread-ownership token verbatim.
		in.restoreToken = nil
	}

	in.teardownLocked()
	in.running = false
}

func (in *Interpreter) teardownLocked() {
	in.state = nil
	in.loaded = nil
	activeMu.Lock()
	if active == in {
		active = nil
	}
	activeMu.Unlock()
}

// Running reports whether the runtime is alive. Protocol entry points
// check this before touching any bridge to guard teardown races.
func (in *Interpreter) Running() bool {
	in.lifeMu.Lock()
	defer in.lifeMu.Unlock()
	return in.running
}

// Do runs fn with the interpreter lock held for fn's full duration and
// released on every exit path, including panics raised inside foreign
// call-outs. Everything that touches the runtime or its objects goes
// through here.
func (in *Interpreter) Do(fn func(L *lua.LState) error) (err error) {
	in.lifeMu.Lock()
	mu, st := in.mu, in.state
	in.lifeMu.Unlock()

	if mu == nil || st == nil {
		return errors.NotRunning("interpreter")
	}

	mu.Lock()
	defer mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(errors.PhaseCall, errors.KindScriptError,
				fmt.Errorf("%v", r), "runtime panic contained")
		}
	}()

	return fn(st)
}

// Loaded returns the private table caching procedurally loaded chunks.
// Only valid under Do. Chunks are cached here rather than in
// package.loaded so host modules never observe them and a later
// expansion reloads from disk.
func (in *Interpreter) Loaded() *lua.LTable {
	return in.loaded
}

// bootstrap runs the fixed embedding routine under the lock: create the
// private module cache and normalize the module search path on the
// Windows platform family.
func (in *Interpreter) bootstrap(L *lua.LState) error {
	in.loaded = L.NewTable()

	if runtime.GOOS == "windows" {
		const chunk = `
if package ~= nil and type(package.path) == "string" then
  package.path = string.gsub(package.path, "/", "\\")
end
`
		if err := L.DoString(chunk); err != nil {
			return errors.Wrap(errors.PhaseBootstrap, errors.KindScriptError,
				err, "normalize module search path")
		}
	}

	return nil
}

// debugDumpPaths logs the module and dynamic-library search paths when
// LUAPROC_DEBUG is set to a nonzero integer.
func (in *Interpreter) debugDumpPaths() {
	raw := os.Getenv(luaproc.DebugEnvVar)
	if raw == "" {
		return
	}
	if n, err := strconv.Atoi(raw); err != nil || n == 0 {
		return
	}

	var libVar string
	switch runtime.GOOS {
	case "windows":
		libVar = "PATH"
	case "darwin":
		// Frameworks, not DYLD_LIBRARY_PATH, locate the runtime here.
		libVar = ""
	default:
		libVar = "LD_LIBRARY_PATH"
	}

	if libVar != "" {
		if libpath := os.Getenv(libVar); libpath != "" {
			in.log.Info("[luaproc] LIBPATH:")
			for _, seg := range searchpath.Split(libpath) {
				in.log.Info("[luaproc]   %s", seg)
			}
		}
	}

	if luapath := os.Getenv("LUA_PATH"); luapath != "" {
		in.log.Info("[luaproc] LUA_PATH:")
		for _, seg := range searchpath.Split(luapath) {
			in.log.Info("[luaproc]   %s", seg)
		}
	}
}
