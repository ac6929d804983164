package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/charbray/luaproc/host"
)

// Scene is the YAML stand-in for the host's render graph: global
// options, pre-declared nodes the scripts may name, and the procedural
// node to expand.
type Scene struct {
	Options    map[string]any `yaml:"options"`
	Nodes      []SceneNode    `yaml:"nodes"`
	Procedural SceneNode      `yaml:"procedural"`
}

type SceneNode struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

func loadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	if s.Procedural.Name == "" {
		s.Procedural.Name = "luaproc1"
	}
	return &s, nil
}

// universe builds the in-memory host graph the expansion runs against.
func (s *Scene) universe() *host.MemoryUniverse {
	u := host.NewMemoryUniverse()
	for k, v := range s.Options {
		u.SetOption(k, v)
	}
	for _, n := range s.Nodes {
		u.Declare(n.Name, n.Params)
	}
	return u
}
