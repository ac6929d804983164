package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve   Phase = "resolve"   // script location on disk
	PhaseBootstrap Phase = "bootstrap" // interpreter embedding/attachment
	PhaseLoad      Phase = "load"      // module loading
	PhaseCall      Phase = "call"      // call-out into script code
	PhaseLifecycle Phase = "lifecycle" // begin/end and protocol ordering
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindMissingFunction Kind = "missing_function"
	KindBadReturn       Kind = "bad_return"
	KindScriptError     Kind = "script_error"
	KindNotRunning      Kind = "not_running"
	KindInvalidState    Kind = "invalid_state"
	KindUnknownNode     Kind = "unknown_node"
)

// Error is the structured error type used throughout the bridge.
// Errors are diagnostics only: they are logged through the host's log
// facility and mapped to neutral return values, never raised across the
// host boundary.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Script string
	Func   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Func != "" {
		b.WriteString(": function ")
		b.WriteString(fmt.Sprintf("%q", e.Func))
	}
	if e.Script != "" {
		if e.Func != "" {
			b.WriteString(" in module ")
		} else {
			b.WriteString(": module ")
		}
		b.WriteString(fmt.Sprintf("%q", e.Script))
	}

	if e.Detail != "" {
		if e.Func != "" || e.Script != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// NotFound reports a script that could not be located on disk or in the
// search path.
func NotFound(script, searchPath string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindNotFound,
		Script: script,
		Detail: fmt.Sprintf("not found in path %q", searchPath),
	}
}

// MissingFunction reports a script lacking one of the required protocol
// functions.
func MissingFunction(script, fn string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindMissingFunction,
		Script: script,
		Func:   fn,
	}
}

// BadReturn reports a protocol function returning the wrong shape or type.
func BadReturn(script, fn, want string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindBadReturn,
		Script: script,
		Func:   fn,
		Detail: "want " + want,
	}
}

// ScriptError wraps an error raised inside script code.
func ScriptError(script, fn string, cause error) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindScriptError,
		Script: script,
		Func:   fn,
		Cause:  cause,
	}
}

// NotRunning reports a protocol call arriving while the embedded
// runtime is not alive.
func NotRunning(op string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindNotRunning,
		Detail: op,
	}
}

// InvalidState reports a protocol call arriving out of order.
func InvalidState(op, state string) *Error {
	return &Error{
		Phase:  PhaseLifecycle,
		Kind:   KindInvalidState,
		Detail: fmt.Sprintf("%s called in state %s", op, state),
	}
}

// UnknownNode reports a node name that does not resolve in the host's
// render-graph registry.
func UnknownNode(script, name string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindUnknownNode,
		Script: script,
		Detail: fmt.Sprintf("node %q not in host registry", name),
	}
}

// Load reports a module that failed to load.
func Load(script string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindScriptError,
		Script: script,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
