package host

import "testing"

func TestMemoryNode_Params(t *testing.T) {
	n := NewNode("proc1", map[string]any{"script": "a.lua", "verbose": true})

	if got := n.Str("script"); got != "a.lua" {
		t.Errorf("Str(script) = %q", got)
	}
	if !n.Bool("verbose") {
		t.Error("Bool(verbose) = false")
	}
	if n.Str("missing") != "" || n.Bool("missing") {
		t.Error("unset parameters must read as zero values")
	}
	if n.HasUserParam("verbose") {
		t.Error("declared parameter reported as user parameter")
	}

	n.SetUserParam("verbose2", false)
	if !n.HasUserParam("verbose2") {
		t.Error("user parameter not recorded")
	}
}

func TestMemoryUniverse_Lookup(t *testing.T) {
	u := NewMemoryUniverse()
	u.Declare("A", nil)

	if u.LookupNode("A") == nil {
		t.Error("declared node not found")
	}
	if n := u.LookupNode("ghost"); n != nil {
		t.Errorf("missing node must be nil, got %v", n)
	}
}

func TestMemoryUniverse_Options(t *testing.T) {
	u := NewMemoryUniverse()
	u.SetOption(OptProceduralSearchPath, "/procs")

	if got := u.Options().Str(OptProceduralSearchPath); got != "/procs" {
		t.Errorf("option = %q", got)
	}

	u.ClearOptions()
	if u.Options() != nil {
		t.Error("options must be nil after ClearOptions")
	}
}
