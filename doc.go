// Package luaproc bridges a host 3-D rendering engine to user-authored
// Lua scripts that generate geometry on demand. A "procedural"
// placeholder node in the host's render graph, when expanded, delegates
// to a script which answers the fixed four-call protocol:
//
//	Init(name)          -> status, context
//	NumNodes(context)   -> count
//	GetNode(context, i) -> node name
//	Cleanup(context)    -> status
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	luaproc/        Root package with the script protocol contract
//	├── interp/     Process-wide embedded Lua interpreter lifecycle
//	├── bridge/     Per-expansion protocol driver owning module + context
//	├── adapter/    Host-facing entry points for both host ABI revisions
//	├── searchpath/ Script resolution with [VAR] environment indirection
//	├── host/       Interfaces to the host's registry and log stream
//	└── errors/     Structured error types for diagnostics
//
// # Quick Start
//
//	in := interp.New(interp.Config{})
//	if err := in.Begin(); err != nil {
//	    log.Fatal(err)
//	}
//	defer in.End()
//
//	b := bridge.New(in, universe, logger, bridge.Params{
//	    NodeName: "my_proc",
//	    Script:   "emitter.lua",
//	    Path:     "/shaders/procs:[LUA_PROC_PATH]",
//	})
//	if b.Valid() && b.Init() != 0 {
//	    for i := 0; i < b.NumNodes(); i++ {
//	        node := b.GetNode(i)
//	        // ...
//	    }
//	}
//	b.Cleanup()
//
// # Thread Safety
//
// The host may drive many bridges from many worker threads at once.
// Every call into the embedded runtime runs under a single
// interpreter-wide lock domain held for the full call body and
// released on every exit path. Bridges never share modules or
// contexts.
//
// # Failure Containment
//
// No script failure crosses the host boundary. Load errors, missing
// protocol functions, wrong return shapes and runtime errors inside a
// script are logged through the host's log facility and mapped to
// neutral results: the procedural silently contributes zero geometry.
package luaproc
