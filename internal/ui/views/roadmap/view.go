package roadmap

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	roadmapdto "kgview/internal/modules/roadmap/dto"
	"kgview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type RoadmapPort interface {
	Generate(ctx context.Context, query string) (roadmapdto.RoadmapOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type GeneratedMsg struct {
	Out roadmapdto.RoadmapOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type roadmapItem struct {
	item roadmapdto.ItemOutput
}

func (i roadmapItem) FilterValue() string { return i.item.Entity + " " + i.item.Relationship }

// itemDelegate draws each step with a chip in its priority colour.
type itemDelegate struct{}

func (itemDelegate) Height() int { return 2 }

func (itemDelegate) Spacing() int { return 1 }

func (itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (itemDelegate) Render(w io.Writer, m list.Model, index int, li list.Item) {
	it, ok := li.(roadmapItem)
	if !ok {
		return
	}
	chip := theme.Swatch.Background(lipgloss.Color(it.item.Color)).Render(fmt.Sprintf("P%d", it.item.Priority))
	cursor := "  "
	title := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if index == m.Index() {
		cursor = theme.Hot.Render("→ ")
		title = title.Foreground(theme.Peach)
	}
	step := theme.Muted.Render(fmt.Sprintf("%2d.", index+1))
	fmt.Fprintf(w, "%s%s %s %s\n       %s", cursor, step, chip, title.Render(it.item.Entity),
		theme.Muted.Render(it.item.Relationship))
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    RoadmapPort
	input   textinput.Model
	list    list.Model
	spinner spinner.Model
	loading bool
	query   string
	err     error
	width   int
	height  int
}

func New(port RoadmapPort) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter a subject (e.g. computer science)"
	ti.CharLimit = 200
	ti.Prompt = "› "

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.Title = "Roadmap"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	return Model{port: port, input: ti, list: l, spinner: sp}
}

// Generate requests a roadmap for query. Blank queries are ignored.
func (m *Model) Generate(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if query == "" || m.loading {
		return nil
	}
	m.input.SetValue(query)
	m.input.Blur()
	m.query = query
	m.loading = true
	m.err = nil
	port := m.port
	load := func() tea.Msg {
		if port == nil {
			return GeneratedMsg{Err: fmt.Errorf("roadmap adapter not configured")}
		}
		out, err := port.Generate(context.Background(), query)
		return GeneratedMsg{Out: out, Err: err}
	}
	return tea.Batch(load, m.spinner.Tick)
}

// FocusInput starts editing the query.
func (m *Model) FocusInput() tea.Cmd {
	return m.input.Focus()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 6
		m.list.SetSize(msg.Width, msg.Height-3)
		return m, nil

	case GeneratedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		items := make([]list.Item, len(msg.Out.Items))
		for i, it := range msg.Out.Items {
			items[i] = roadmapItem{item: it}
		}
		m.list.Title = "Roadmap · " + msg.Out.Query
		cmd := m.list.SetItems(items)
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.input.Focused() {
			switch msg.String() {
			case "enter":
				cmd := m.Generate(m.input.Value())
				return m, cmd
			case "esc":
				m.input.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		if msg.String() == "/" || msg.String() == "i" {
			cmd := m.FocusInput()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := m.input.View()
	var body string
	switch {
	case m.loading:
		body = lipgloss.Place(m.width, m.height-3, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Generating your learning roadmap…")
	case m.err != nil:
		body = theme.Error.Render("Failed to generate roadmap: " + m.err.Error())
	case len(m.list.Items()) == 0:
		body = lipgloss.Place(m.width, m.height-3, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Press / and enter a subject to generate a learning roadmap."))
	default:
		body = m.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body)
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Loading() bool { return m.loading }

// Typing reports whether keys should go to the query input.
func (m Model) Typing() bool { return m.input.Focused() }
