// Package errors provides structured error types for the luaproc bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind
// (error category). The Error type carries the script path, the protocol
// function involved and a cause chain.
//
// Use the convenience constructors for common patterns:
//
//	err := errors.MissingFunction("/procs/emitter.lua", "NumNodes")
//	err := errors.BadReturn("/procs/emitter.lua", "GetNode", "string")
//
// All errors implement the standard error interface and support
// errors.Is/As. None of them is ever raised across the host boundary;
// callers format them into the host's log stream and return neutral
// values instead.
package errors
