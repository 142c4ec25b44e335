package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kgview/internal/ui/components"
	"kgview/internal/ui/theme"
	graphview "kgview/internal/ui/views/graph"
	outlineview "kgview/internal/ui/views/outline"
	roadmapview "kgview/internal/ui/views/roadmap"
)

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabGraph tabID = iota
	tabOutline
	tabRoadmap
	tabCount
)

var tabLabels = [tabCount]string{
	"Graph", "Outline", "Roadmap",
}

// rows taken by the tab bar above the active view
const headerHeight = 2

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	Pan     key.Binding
	Focus   key.Binding
	Query   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset view")),
		Pan:     key.NewBinding(key.WithKeys("left", "right", "up", "down"), key.WithHelp("←↑↓→/drag", "pan")),
		Focus:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus node (outline)")),
		Query:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "roadmap query")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Reset, k.Pan},
		{k.Tab, k.Focus, k.Query},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help
// overlay and the command palette; the views do the rest.
type Model struct {
	graphView   graphview.Model
	outlineView outlineview.Model
	roadmapView roadmapview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(graph graphview.GraphPort, roadmap roadmapview.RoadmapPort, opts graphview.Options) Model {
	return Model{
		graphView:   graphview.New(graph, opts),
		outlineView: outlineview.New(),
		roadmapView: roadmapview.New(roadmap),
		activeTab:   tabGraph,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return m.graphView.Init()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case graphview.SceneLoadedMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.graphView, cmd = m.graphView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err != nil {
			m.status = "load failed: " + msg.Err.Error()
		} else {
			scene := msg.Scene.Scene
			m.status = fmt.Sprintf("loaded %s (%d nodes)", scene.Title, len(scene.Nodes))
			cmds = append(cmds, m.outlineView.SetScene(scene))
		}
		return m, tea.Batch(cmds...)

	case graphview.ExportedMsg:
		if msg.Err != nil {
			m.status = "export failed: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("exported %s (%d bytes)", msg.Out.Path, msg.Out.Bytes)
		}
		return m, nil

	case components.FrameMsg:
		var cmd tea.Cmd
		m.graphView, cmd = m.graphView.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var gCmd, rCmd tea.Cmd
		m.graphView, gCmd = m.graphView.Update(msg)
		m.roadmapView, rCmd = m.roadmapView.Update(msg)
		return m, tea.Batch(gCmd, rCmd)

	case outlineview.FocusMsg:
		m.activeTab = tabGraph
		cmd := m.graphView.Focus(msg.ID)
		return m, cmd

	case roadmapview.GeneratedMsg:
		if msg.Err != nil {
			m.status = "roadmap failed: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("roadmap for %q: %d steps", msg.Out.Query, len(msg.Out.Items))
		}
		var cmd tea.Cmd
		m.roadmapView, cmd = m.roadmapView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.MouseMsg:
		if m.activeTab != tabGraph || m.showHelp || m.palette.Visible() {
			return m, nil
		}
		msg.Y -= headerHeight
		var cmd tea.Cmd
		m.graphView, cmd = m.graphView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the active view while it takes free text.
		if m.subViewTyping() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var cmd tea.Cmd
	switch m.activeTab {
	case tabGraph:
		m.graphView, cmd = m.graphView.Update(msg)
	case tabOutline:
		m.outlineView, cmd = m.outlineView.Update(msg)
	case tabRoadmap:
		m.roadmapView, cmd = m.roadmapView.Update(msg)
	}
	return m, cmd
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.contentHeight()

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabGraph:
		return m.graphView.View()
	case tabOutline:
		return m.outlineView.View()
	case tabRoadmap:
		return m.roadmapView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "kgview  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	cmd := components.ParseCommand(input)
	if cmd.Name == "" {
		return m, nil
	}

	switch cmd.Name {
	case "open":
		if cmd.Rest == "" {
			m.status = "usage: open <source>"
			return m, nil
		}
		m.activeTab = tabGraph
		m.status = "loading " + cmd.Rest
		c := m.graphView.Open(cmd.Rest)
		return m, c

	case "zoom:in":
		m.activeTab = tabGraph
		c := m.graphView.ZoomIn()
		return m, c

	case "zoom:out":
		m.activeTab = tabGraph
		c := m.graphView.ZoomOut()
		return m, c

	case "view:reset":
		m.activeTab = tabGraph
		c := m.graphView.ResetView()
		return m, c

	case "focus":
		if len(cmd.Args) != 1 {
			m.status = "usage: focus <node-id>"
			return m, nil
		}
		c := m.graphView.Focus(cmd.Args[0])
		if c == nil {
			m.status = "no node " + cmd.Args[0]
			return m, nil
		}
		m.activeTab = tabGraph
		return m, c

	case "export:svg", "export:png":
		format := strings.TrimPrefix(cmd.Name, "export:")
		m.status = "exporting " + format
		return m, m.graphView.Export(format, cmd.Rest)

	case "roadmap":
		if cmd.Rest == "" {
			m.status = "usage: roadmap <query>"
			return m, nil
		}
		m.activeTab = tabRoadmap
		m.status = "generating roadmap for " + cmd.Rest
		c := m.roadmapView.Generate(cmd.Rest)
		return m, c

	default:
		m.status = "unknown command: " + cmd.Name
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewTyping reports whether the active tab is taking free text, in
// which case global key bindings must yield.
func (m Model) subViewTyping() bool {
	switch m.activeTab {
	case tabOutline:
		return m.outlineView.Filtering()
	case tabRoadmap:
		return m.roadmapView.Typing()
	}
	return false
}

func (m Model) contentHeight() int {
	h := m.height - headerHeight - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.graphView, _ = m.graphView.Update(sz)
	m.outlineView, _ = m.outlineView.Update(sz)
	m.roadmapView, _ = m.roadmapView.Update(sz)
}

// ActiveTab returns the label of the visible tab.
func (m Model) ActiveTab() string { return tabLabels[m.activeTab] }

func (m Model) Status() string { return m.status }
