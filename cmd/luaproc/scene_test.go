package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charbray/luaproc/host"
)

func TestLoadScene(t *testing.T) {
	const doc = `
options:
  procedural_searchpath: "/procs"
nodes:
  - name: A
  - name: B
    params:
      radius: 2.5
procedural:
  name: proc1
  params:
    script: grid.lua
    verbose: true
`
	p := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(p, []byte(doc), 0o644))

	s, err := loadScene(p)
	require.NoError(t, err)
	assert.Equal(t, "proc1", s.Procedural.Name)
	assert.Equal(t, "grid.lua", s.Procedural.Params["script"])

	u := s.universe()
	assert.Equal(t, "/procs", u.Options().Str(host.OptProceduralSearchPath))
	require.NotNil(t, u.LookupNode("A"))
	require.NotNil(t, u.LookupNode("B"))
	assert.Nil(t, u.LookupNode("C"))
}

func TestLoadScene_DefaultsProceduralName(t *testing.T) {
	p := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(p, []byte("options: {}\n"), 0o644))

	s, err := loadScene(p)
	require.NoError(t, err)
	assert.Equal(t, "luaproc1", s.Procedural.Name)
}

func TestLoadScene_Missing(t *testing.T) {
	_, err := loadScene(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
