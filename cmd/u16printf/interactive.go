package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/textcodec/format"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	fieldTemplate = iota
	fieldArgs
)

type interactiveModel struct {
	err      error
	f        *format.Formatter
	result   []byte
	args     []typedArg
	inputs   []textinput.Model
	focusIdx int
	wide     bool
	arena    bool
}

type renderedMsg struct {
	err    error
	result []byte
	args   []typedArg
}

func newInteractiveModel(f *format.Formatter, opts options) *interactiveModel {
	tmpl := textinput.New()
	tmpl.Prompt = "template: "
	tmpl.Placeholder = "Test%s%d%o,test"
	tmpl.Width = 60
	tmpl.SetValue(opts.template)
	tmpl.Focus()

	args := textinput.New()
	args.Prompt = "args:     "
	args.Placeholder = "str16:tester str8:test u32:13"
	args.Width = 60
	args.SetValue(strings.Join(opts.args, " "))

	return &interactiveModel{
		f:      f,
		inputs: []textinput.Model{tmpl, args},
		wide:   opts.wide,
		arena:  opts.arena,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.render())
}

// render snapshots the fields and formats them off the update loop.
func (m *interactiveModel) render() tea.Cmd {
	f, wide, arena := m.f, m.wide, m.arena
	tmpl := m.inputs[fieldTemplate].Value()
	specs := strings.Fields(m.inputs[fieldArgs].Value())

	return func() tea.Msg {
		if tmpl == "" {
			return renderedMsg{}
		}
		args, err := parseArgs(specs, f.Codec())
		if err != nil {
			return renderedMsg{err: err}
		}
		out, err := render(context.Background(), f, format.Template(tmpl), formatArgs(args), wide, arena)
		return renderedMsg{result: out, err: err, args: args}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			m.inputs[m.focusIdx].Blur()
			m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
			m.inputs[m.focusIdx].Focus()
			return m, nil

		case "enter":
			return m, m.render()

		case "ctrl+w":
			m.wide = !m.wide
			return m, m.render()

		case "ctrl+a":
			m.arena = !m.arena
			return m, m.render()
		}

	case renderedMsg:
		m.result = msg.result
		m.err = msg.err
		m.args = msg.args
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	// re-render on every keystroke
	cmds = append(cmds, m.render())
	return m, tea.Batch(cmds...)
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	loc := m.f.Codec().Locale()
	b.WriteString(titleStyle.Render("u16printf"))
	b.WriteString(" ")
	b.WriteString(typeStyle.Render(fmt.Sprintf("%s (%s, max %d bytes/unit)", loc.Name, loc.Charset, loc.MaxLen)))
	b.WriteString("\n\n")

	for _, input := range m.inputs {
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	for i, a := range m.args {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  [%d] ", i)))
		b.WriteString(a.spec)
		b.WriteString(": ")
		b.WriteString(typeStyle.Render(witTypeStr(a.typ)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	sinkKind := "8-bit sink"
	if m.wide {
		sinkKind = "16-bit sink"
	}
	if m.arena {
		sinkKind += " in linear memory"
	}
	b.WriteString(labelStyle.Render(sinkKind))
	b.WriteString("\n")
	b.WriteString(resultStyle.Render(string(m.result)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("% x", m.result)))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab next field • ctrl+w 8/16-bit • ctrl+a linear memory • esc quit"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("kinds: " + strings.Join(kindNames(), " ")))

	return b.String()
}

func runInteractive(f *format.Formatter, opts options) error {
	p := tea.NewProgram(newInteractiveModel(f, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
