package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/il2cpp-runtime/resolver"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	foundStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	stubbedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD866"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// pageSize is the number of list rows shown at once.
const pageSize = 20

type modelState int

const (
	stateImages modelState = iota
	stateClasses
	stateMethods
	stateResult
)

type interactiveModel struct {
	r        *resolver.Resolver
	images   []imageRow
	classes  []classRow
	methods  []methodRow
	image    imageRow
	class    classRow
	query    resolver.Query
	result   resolver.MethodResult
	filter   textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(r *resolver.Resolver) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter"
	ti.Width = 40
	return &interactiveModel{
		r:      r,
		images: imageRows(r),
		filter: ti,
		state:  stateImages,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// visible returns the number of rows in the current filtered list.
func (m *interactiveModel) visible() int {
	f := m.filter.Value()
	switch m.state {
	case stateImages:
		return len(filterRows(m.images, f, func(r imageRow) string { return r.name }))
	case stateClasses:
		return len(filterRows(m.classes, f, func(r classRow) string { return r.name }))
	case stateMethods:
		return len(filterRows(m.methods, f, func(r methodRow) string { return r.signature }))
	}
	return 0
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filter.Focused() {
		switch key.String() {
		case "enter", "esc":
			m.filter.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.selected = 0
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "/":
		if m.state != stateResult {
			m.filter.Focus()
			return m, textinput.Blink
		}

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < m.visible()-1 {
			m.selected++
		}

	case "enter":
		m.open()

	case "esc", "backspace":
		m.back()
	}
	return m, nil
}

func (m *interactiveModel) open() {
	f := m.filter.Value()
	switch m.state {
	case stateImages:
		rows := filterRows(m.images, f, func(r imageRow) string { return r.name })
		if m.selected >= len(rows) {
			return
		}
		m.image = rows[m.selected]
		m.classes = classRows(m.r, m.image.image)
		m.state = stateClasses

	case stateClasses:
		rows := filterRows(m.classes, f, func(r classRow) string { return r.name })
		if m.selected >= len(rows) {
			return
		}
		m.class = rows[m.selected]
		m.methods = methodRows(m.r, m.class.class)
		m.state = stateMethods

	case stateMethods:
		rows := filterRows(m.methods, f, func(r methodRow) string { return r.signature })
		if m.selected >= len(rows) {
			return
		}
		m.query = queryOf(m.r, rows[m.selected].method)
		m.result = m.r.Method(m.class.class, m.query)
		m.state = stateResult
		return

	case stateResult:
		m.state = stateMethods
		return
	}
	m.selected = 0
	m.filter.Reset()
}

func (m *interactiveModel) back() {
	switch m.state {
	case stateClasses:
		m.state = stateImages
	case stateMethods:
		m.state = stateClasses
	case stateResult:
		m.state = stateMethods
		return
	default:
		return
	}
	m.selected = 0
	m.filter.Reset()
}

func (m *interactiveModel) View() string {
	if len(m.images) == 0 {
		return errorStyle.Render("No images registered.\n\nPress q to quit.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("IL2CPP Inspector"))
	b.WriteString(" ")
	b.WriteString(m.breadcrumb())
	b.WriteString("\n\n")

	f := m.filter.Value()
	switch m.state {
	case stateImages:
		rows := filterRows(m.images, f, func(r imageRow) string { return r.name })
		m.list(&b, len(rows), func(i int) string {
			return nameStyle.Render(rows[i].name) + " " + typeStyle.Render(fmt.Sprintf("(%d classes)", rows[i].classes))
		})
	case stateClasses:
		rows := filterRows(m.classes, f, func(r classRow) string { return r.name })
		m.list(&b, len(rows), func(i int) string { return nameStyle.Render(rows[i].name) })
	case stateMethods:
		rows := filterRows(m.methods, f, func(r methodRow) string { return r.signature })
		m.list(&b, len(rows), func(i int) string { return rows[i].signature })
	case stateResult:
		m.viewResult(&b)
		return b.String()
	}

	b.WriteString("\n")
	if m.filter.Focused() || f != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑/↓ select • enter open • / filter • esc back • q quit"))
	return b.String()
}

func (m *interactiveModel) list(b *strings.Builder, n int, row func(i int) string) {
	start := 0
	if m.selected >= pageSize {
		start = m.selected - pageSize + 1
	}
	end := min(start+pageSize, n)
	for i := start; i < end; i++ {
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(row(i))
		b.WriteString("\n")
	}
	if n == 0 {
		b.WriteString(helpStyle.Render("  (empty)\n"))
	}
}

func (m *interactiveModel) viewResult(b *strings.Builder) {
	fmt.Fprintf(b, "Requested: %s\n", nameStyle.Render(m.query.String()))

	style := foundStyle
	switch m.result.Outcome {
	case resolver.Stubbed:
		style = stubbedStyle
	case resolver.Missing:
		style = errorStyle
	}
	fmt.Fprintf(b, "Outcome:   %s\n", style.Render(m.result.Outcome.String()))

	if m.result.Resolved() {
		fmt.Fprintf(b, "Method:    %s\n", m.r.Describe(m.result.Handle))
		fmt.Fprintf(b, "Token:     0x%08x\n", m.r.Runtime().MethodGetToken(m.result.Handle))
	} else {
		fmt.Fprintf(b, "Key:       %s\n", m.result.Key)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter/esc back • q quit"))
}

func (m *interactiveModel) breadcrumb() string {
	parts := []string{}
	if m.state >= stateClasses {
		parts = append(parts, m.image.name)
	}
	if m.state >= stateMethods {
		parts = append(parts, m.class.name)
	}
	return strings.Join(parts, " › ")
}

func runInteractive(r *resolver.Resolver) error {
	p := tea.NewProgram(newInteractiveModel(r), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
