// Command luaproc expands a procedural node outside the render engine:
// it embeds the interpreter, registers the host callbacks and drives
// the full Init/NumNodes/GetNode/Cleanup sequence against a scene
// described in YAML. Useful for validating procedural scripts before
// handing them to the renderer.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/charbray/luaproc/adapter"
	"github.com/charbray/luaproc/host"
	"github.com/charbray/luaproc/interp"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	nodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))
)

func main() {
	var (
		sceneFile   = flag.String("scene", "", "Path to scene yaml")
		script      = flag.String("script", "", "Script override (path or bare filename)")
		searchPath  = flag.String("path", "", "Procedural search path override")
		legacy      = flag.Bool("legacy", false, "Drive the legacy host ABI")
		verbose     = flag.Bool("v", false, "Verbose bridge diagnostics")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *sceneFile == "" && *script == "" {
		fmt.Fprintln(os.Stderr, "Usage: luaproc -scene <scene.yaml> [-legacy] [-v]")
		fmt.Fprintln(os.Stderr, "       luaproc -script <proc.lua> [-path dir1:dir2] [-v]")
		fmt.Fprintln(os.Stderr, "       luaproc -scene <scene.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*sceneFile, *script, *searchPath, *legacy, *verbose, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(sceneFile, script, searchPath string, legacy, verbose, interactive bool) error {
	scene := &Scene{}
	if sceneFile != "" {
		loaded, err := loadScene(sceneFile)
		if err != nil {
			return err
		}
		scene = loaded
	}
	if scene.Procedural.Params == nil {
		scene.Procedural.Params = make(map[string]any)
	}
	if script != "" {
		scene.Procedural.Params["script"] = script
		scene.Procedural.Params["data"] = script
	}
	if searchPath != "" {
		if scene.Options == nil {
			scene.Options = make(map[string]any)
		}
		scene.Options["procedural_searchpath"] = searchPath
	}
	if scene.Procedural.Name == "" {
		scene.Procedural.Name = "luaproc1"
	}
	if verbose {
		scene.Procedural.Params["verbose"] = true
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer zl.Sync()
	log := host.NewZapLogger(zl)

	universe := scene.universe()

	in := interp.New(interp.Config{Log: log})
	if err := in.Begin(); err != nil {
		return fmt.Errorf("begin interpreter: %w", err)
	}
	defer in.End()

	if interactive {
		return runInteractive(in, universe, scene, log)
	}

	node := host.NewNode(scene.Procedural.Name, scene.Procedural.Params)

	var (
		handle   adapter.Handle
		status   int
		numNodes func(adapter.Handle) int
		getNode  func(adapter.Handle, int) host.Node
		cleanup  func(adapter.Handle) int
	)
	if legacy {
		var vt adapter.FuncTable
		adapter.RegisterLegacy(in, universe, log, &vt)
		if v, ok := scene.Procedural.Params["verbose"]; ok {
			if b, ok := v.(bool); ok && b {
				node.SetUserParam("verbose", true)
			}
		}
		handle, status = vt.Init(node)
		numNodes, getNode, cleanup = vt.NumNodes, vt.GetNode, vt.Cleanup
	} else {
		decl, _ := adapter.RegisterCurrent(in, universe, log, 0)
		handle, status = decl.Methods.Init(node)
		numNodes, getNode, cleanup = decl.Methods.NumNodes, decl.Methods.GetNode, decl.Methods.Cleanup
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	if handle == 0 || status == 0 {
		fmt.Println(render(styled, failStyle, "init failed: procedural contributes no geometry"))
		if handle != 0 {
			cleanup(handle)
		}
		return nil
	}

	fmt.Println(render(styled, okStyle, fmt.Sprintf("init ok (status %d)", status)))

	count := numNodes(handle)
	fmt.Printf("nodes: %d\n", count)
	for i := 0; i < count; i++ {
		n := getNode(handle, i)
		if n == nil {
			fmt.Printf("  [%d] %s\n", i, render(styled, failStyle, "<none>"))
			continue
		}
		fmt.Printf("  [%d] %s\n", i, render(styled, nodeStyle, n.Name()))
	}

	fmt.Printf("cleanup status: %d\n", cleanup(handle))
	return nil
}

func render(styled bool, st lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return st.Render(s)
}
