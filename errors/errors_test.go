package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseCall,
				Kind:   KindBadReturn,
				Script: "/procs/emitter.lua",
				Func:   "GetNode",
				Detail: "want string",
			},
			contains: []string{"[call]", "bad_return", "GetNode", "emitter.lua", "want string"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseResolve,
				Kind:  KindNotFound,
			},
			contains: []string{"[resolve]", "not_found"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindScriptError,
				Script: "bad.lua",
				Cause:  errors.New("parse error near 'end'"),
			},
			contains: []string{"[load]", "script_error", "bad.lua", "caused by", "parse error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ScriptError("a.lua", "Init", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should match the wrapped cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is(t *testing.T) {
	a := NotRunning("numNodes")
	b := NotRunning("getNode")
	c := InvalidState("getNode", "cleaned")

	if !errors.Is(a, b) {
		t.Error("same phase+kind should match")
	}
	if errors.Is(a, c) {
		t.Error("different kind should not match")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err  *Error
		kind Kind
	}{
		{NotFound("x.lua", "/a:/b"), KindNotFound},
		{MissingFunction("x.lua", "Init"), KindMissingFunction},
		{BadReturn("x.lua", "NumNodes", "integer"), KindBadReturn},
		{ScriptError("x.lua", "Init", errors.New("boom")), KindScriptError},
		{NotRunning("init"), KindNotRunning},
		{InvalidState("numNodes", "unresolved"), KindInvalidState},
		{UnknownNode("x.lua", "ghost"), KindUnknownNode},
		{Load("x.lua", errors.New("no such file")), KindScriptError},
	}
	for _, tt := range tests {
		if tt.err.Kind != tt.kind {
			t.Errorf("got kind %s, want %s", tt.err.Kind, tt.kind)
		}
	}
}
