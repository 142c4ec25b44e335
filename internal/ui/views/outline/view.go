package outline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kgview/internal/modules/graph/domain"
	"kgview/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// FocusMsg asks the graph view to centre on a node.
type FocusMsg struct{ ID string }

// ─── list item ───────────────────────────────────────────────────────────────

type nodeItem struct {
	node domain.GraphNode
}

func (i nodeItem) Title() string {
	label := i.node.Label
	if label == "" {
		label = "(untitled)"
	}
	return strings.Repeat("  ", i.node.Depth) + label
}

func (i nodeItem) Description() string {
	desc := strings.Join(strings.Fields(i.node.Description), " ")
	indent := strings.Repeat("  ", i.node.Depth)
	if desc == "" {
		return indent + i.node.ID
	}
	return indent + desc
}

func (i nodeItem) FilterValue() string { return i.node.Label + " " + i.node.Description }

// ─── model ───────────────────────────────────────────────────────────────────

// Model lists the flattened nodes in emission order, indented by depth.
type Model struct {
	list   list.Model
	width  int
	height int
}

func New() Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Green).BorderForeground(theme.Green)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Green)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Outline"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{list: l}
}

// SetScene replaces the listed nodes.
func (m *Model) SetScene(scene domain.Scene) tea.Cmd {
	items := make([]list.Item, len(scene.Nodes))
	for i, n := range scene.Nodes {
		items[i] = nodeItem{node: n}
	}
	m.list.Title = fmt.Sprintf("Outline · %s", scene.Title)
	m.list.ResetFilter()
	m.list.Select(0)
	return m.list.SetItems(items)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if id, ok := m.SelectedID(); ok {
				return m, func() tea.Msg { return FocusMsg{ID: id} }
			}
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Load a graph to see its outline."))
	}
	return m.list.View()
}

func (m Model) SelectedID() (string, bool) {
	item, ok := m.list.SelectedItem().(nodeItem)
	if !ok {
		return "", false
	}
	return item.node.ID, true
}

func (m Model) Len() int { return len(m.list.Items()) }

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
