package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/charbray/luaproc/adapter"
	"github.com/charbray/luaproc/host"
	"github.com/charbray/luaproc/interp"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type expandModel struct {
	in       *interp.Interpreter
	universe host.Universe
	scene    *Scene
	log      host.Logger

	decl    *adapter.NodeDecl
	handle  adapter.Handle
	status  int
	count   int
	input   textinput.Model
	results []string
	err     error
	loaded  bool
}

type expandedMsg struct {
	decl   *adapter.NodeDecl
	handle adapter.Handle
	status int
	count  int
	err    error
}

func newExpandModel(in *interp.Interpreter, universe host.Universe, scene *Scene, log host.Logger) *expandModel {
	ti := textinput.New()
	ti.Placeholder = "node index"
	ti.CharLimit = 8
	ti.Width = 12
	ti.Focus()

	return &expandModel{
		in:       in,
		universe: universe,
		scene:    scene,
		log:      log,
		input:    ti,
	}
}

func (m *expandModel) Init() tea.Cmd {
	return m.expand
}

func (m *expandModel) expand() tea.Msg {
	decl, _ := adapter.RegisterCurrent(m.in, m.universe, m.log, 0)
	node := host.NewNode(m.scene.Procedural.Name, m.scene.Procedural.Params)

	handle, status := decl.Methods.Init(node)
	if handle == 0 {
		return expandedMsg{err: fmt.Errorf("procedural did not initialize")}
	}

	return expandedMsg{
		decl:   decl,
		handle: handle,
		status: status,
		count:  decl.Methods.NumNodes(handle),
	}
}

func (m *expandModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case expandedMsg:
		m.err = msg.err
		m.decl = msg.decl
		m.handle = msg.handle
		m.status = msg.status
		m.count = msg.count
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.decl != nil && m.handle != 0 {
				m.decl.Methods.Cleanup(m.handle)
				m.handle = 0
			}
			return m, tea.Quit

		case "enter":
			if m.decl == nil || m.handle == 0 {
				return m, nil
			}
			i, err := strconv.Atoi(m.input.Value())
			if err != nil {
				m.results = append(m.results, errorStyle.Render("not an index: "+m.input.Value()))
				m.input.SetValue("")
				return m, nil
			}
			n := m.decl.Methods.GetNode(m.handle, i)
			if n == nil {
				m.results = append(m.results, errorStyle.Render(fmt.Sprintf("[%d] <none>", i)))
			} else {
				m.results = append(m.results, resultStyle.Render(fmt.Sprintf("[%d] %s", i, n.Name())))
			}
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *expandModel) View() string {
	s := titleStyle.Render("luaproc expansion") + "\n\n"

	if m.err != nil {
		s += errorStyle.Render(m.err.Error()) + "\n"
		s += helpStyle.Render("q: quit") + "\n"
		return s
	}
	if !m.loaded {
		return s + "expanding...\n"
	}

	s += fmt.Sprintf("procedural: %s\n", m.scene.Procedural.Name)
	s += fmt.Sprintf("init status: %d\n", m.status)
	s += fmt.Sprintf("num nodes: %d\n\n", m.count)

	for _, r := range m.results {
		s += r + "\n"
	}
	s += "\n" + m.input.View() + "\n"
	s += helpStyle.Render("enter: query index • q: quit") + "\n"
	return s
}

func runInteractive(in *interp.Interpreter, universe host.Universe, scene *Scene, log host.Logger) error {
	p := tea.NewProgram(newExpandModel(in, universe, scene, log))
	_, err := p.Run()
	return err
}
