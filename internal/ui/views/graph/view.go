package graph

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"kgview/internal/modules/graph/domain"
	graphdto "kgview/internal/modules/graph/dto"
	graphin "kgview/internal/modules/graph/port/in"
	"kgview/internal/ui/components"
	"kgview/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type GraphPort interface {
	LoadScene(ctx context.Context, source string) (graphdto.LoadedScene, error)
	Draw(surface graphin.Surface, input graphdto.DrawInput)
	Export(ctx context.Context, input graphdto.ExportInput) (graphdto.ExportOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type SceneLoadedMsg struct {
	Scene graphdto.LoadedScene
	Err   error
}

type ExportedMsg struct {
	Out graphdto.ExportOutput
	Err error
}

// ─── options ─────────────────────────────────────────────────────────────────

type Options struct {
	Source        string
	Style         domain.Style
	Viewport      domain.ViewportConfig
	FrameInterval time.Duration
	// WheelStep is the wheel delta one scroll notch reports.
	WheelStep   float64
	ExportWidth int
}

const (
	cardWidth    = 36
	minCardTotal = 80
	keyPanCells  = 4
)

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port GraphPort
	opts Options

	source  string
	scene   domain.Scene
	loaded  bool
	loading bool
	err     error

	camera  *domain.Viewport
	pointer *domain.Interaction
	hover   domain.Hover
	anim    components.Animator

	// last pointer cell inside the canvas, for re-hit-testing after the
	// camera moves under a still pointer
	pointerIn bool
	pointerX  int
	pointerY  int

	spinner  spinner.Model
	card     viewport.Model
	markdown *glamour.TermRenderer
	width    int
	height   int
}

func New(port GraphPort, opts Options) Model {
	if opts.WheelStep == 0 {
		opts.WheelStep = 40
	}
	if opts.ExportWidth <= 0 {
		opts.ExportWidth = 1600
	}
	if len(opts.Style.Palette) == 0 {
		opts.Style = domain.DefaultStyle()
	}
	if opts.Viewport.Initial.Width <= 0 {
		opts.Viewport = domain.DefaultViewportConfig()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	cam := domain.NewViewport(opts.Viewport)
	return Model{
		port:    port,
		opts:    opts,
		source:  opts.Source,
		loading: opts.Source != "" && port != nil,
		camera:  cam,
		pointer: domain.NewInteraction(cam),
		anim:    components.NewAnimator(opts.FrameInterval),
		spinner: sp,
		card:    viewport.New(0, 0),
	}
}

func (m Model) Init() tea.Cmd {
	if !m.loading {
		return nil
	}
	return tea.Batch(m.loadCmd(m.source), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case SceneLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		if msg.Scene.Source != m.source || !m.loaded {
			m.camera = domain.NewViewport(m.opts.Viewport)
			m.pointer = domain.NewInteraction(m.camera)
			m.anim.Stop()
		}
		m.source = msg.Scene.Source
		m.scene = msg.Scene.Scene
		m.loaded = true
		m.hover.Clear()
		m.updateHover()
		m.refreshCard()

	case components.FrameMsg:
		if !m.anim.Accept(msg) {
			return m, nil
		}
		settled := m.camera.Tick()
		m.updateHover()
		if settled {
			m.anim.Stop()
			return m, nil
		}
		return m, m.anim.Next()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading "+m.source+"…")
	}
	if !m.loaded {
		msg := theme.Muted.Render("No graph loaded. Press : and run open <source>.")
		if m.err != nil {
			msg = theme.Error.Render(m.err.Error()) + "\n\n" + msg
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	cols, rows := m.canvasSize()
	canvas := components.NewCanvas(cols, rows)
	m.port.Draw(canvas, graphdto.DrawInput{
		Scene:     m.scene,
		Camera:    m.camera.Current(),
		HoveredID: m.hover.ID(),
	})
	body := canvas.Render()
	if w := m.cardWidth(); w > 0 {
		card := theme.Pane.Width(w - 2).Height(rows - 2).Render(m.card.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, card)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine())
}

// ─── commands used by the app model ──────────────────────────────────────────

// Open loads source, replacing the current scene when it succeeds.
func (m *Model) Open(source string) tea.Cmd {
	source = strings.TrimSpace(source)
	if source == "" || m.port == nil {
		return nil
	}
	m.loading = true
	if source != m.source {
		m.loaded = false
	}
	m.source = source
	return tea.Batch(m.loadCmd(source), m.spinner.Tick)
}

func (m *Model) ZoomIn() tea.Cmd {
	m.camera.ZoomIn()
	return m.anim.Start()
}

func (m *Model) ZoomOut() tea.Cmd {
	m.camera.ZoomOut()
	return m.anim.Start()
}

func (m *Model) ResetView() tea.Cmd {
	m.camera.Reset()
	return m.anim.Start()
}

// Focus centres the view on a node and shows its card.
func (m *Model) Focus(id string) tea.Cmd {
	n, ok := m.scene.Node(id)
	if !ok {
		return nil
	}
	m.camera.CenterOn(m.scene.Positions[id])
	m.hover.Enter(n)
	m.refreshCard()
	return m.anim.Start()
}

// Export saves the view the camera is heading to. The image keeps the
// camera's aspect ratio.
func (m Model) Export(format, path string) tea.Cmd {
	if !m.loaded {
		return func() tea.Msg { return ExportedMsg{Err: fmt.Errorf("no graph loaded")} }
	}
	cam := m.camera.Target()
	width := m.opts.ExportWidth
	height := int(math.Round(float64(width) * cam.Height / cam.Width))
	input := graphdto.ExportInput{
		Source:    m.source,
		Format:    format,
		Path:      path,
		Width:     width,
		Height:    height,
		HoveredID: m.hover.ID(),
		Camera:    &cam,
	}
	port := m.port
	return func() tea.Msg {
		out, err := port.Export(context.Background(), input)
		return ExportedMsg{Out: out, Err: err}
	}
}

func (m Model) Scene() (domain.Scene, bool) { return m.scene, m.loaded }

func (m Model) Source() string { return m.source }

func (m Model) Camera() domain.Camera { return m.camera.Current() }

func (m Model) TargetCamera() domain.Camera { return m.camera.Target() }

func (m Model) HoveredID() string { return m.hover.ID() }

func (m Model) Animating() bool { return m.anim.Running() }

// ScalePercent is the zoom shown in the status line.
func (m Model) ScalePercent() int {
	return int(math.Round(m.camera.Current().Scale * 100))
}

// ─── input ───────────────────────────────────────────────────────────────────

func (m *Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.loaded {
		return *m, nil
	}
	var cmd tea.Cmd
	switch msg.String() {
	case "+", "=":
		cmd = m.ZoomIn()
	case "-", "_":
		cmd = m.ZoomOut()
	case "0":
		cmd = m.ResetView()
	case "left", "h":
		cmd = m.panCells(keyPanCells, 0)
	case "right", "l":
		cmd = m.panCells(-keyPanCells, 0)
	case "up", "k":
		cmd = m.panCells(0, keyPanCells/2)
	case "down", "j":
		cmd = m.panCells(0, -keyPanCells/2)
	case "pgup", "pgdown":
		m.card, cmd = m.card.Update(msg)
	}
	return *m, cmd
}

// panCells moves the content as if dragged by the given number of cells.
func (m *Model) panCells(dc, dr int) tea.Cmd {
	kx, ky := m.pointerScale()
	m.camera.Pan(float64(dc)*kx, float64(dr)*ky)
	return m.anim.Start()
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.loaded {
		return nil
	}
	cols, rows := m.canvasSize()
	if msg.X < 0 || msg.Y < 0 || msg.X >= cols || msg.Y >= rows {
		m.pointer.Leave()
		if m.pointerIn && m.hover.ID() != "" {
			m.hover.Clear()
			m.refreshCard()
		}
		m.pointerIn = false
		return nil
	}
	m.pointerIn, m.pointerX, m.pointerY = true, msg.X, msg.Y

	moved := false
	kx, ky := m.pointerScale()
	x, y := float64(msg.X)*kx, float64(msg.Y)*ky
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.pointer.Wheel(-m.opts.WheelStep)
		moved = true
	case msg.Button == tea.MouseButtonWheelDown:
		m.pointer.Wheel(m.opts.WheelStep)
		moved = true
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pointer.Press(x, y)
	case msg.Action == tea.MouseActionRelease:
		m.pointer.Release()
	case msg.Action == tea.MouseActionMotion:
		moved = m.pointer.Move(x, y)
	}
	m.updateHover()
	if moved {
		return m.anim.Start()
	}
	return nil
}

// pointerScale converts cells into pointer units such that dragging by one
// cell moves the content by one cell at any zoom level.
func (m Model) pointerScale() (float64, float64) {
	cols, rows := m.canvasSize()
	cfg := m.camera.Config()
	speed := cfg.PanSpeed
	if speed <= 0 {
		speed = 1
	}
	scale := cfg.Initial.Scale
	if scale <= 0 {
		scale = 1
	}
	kx := cfg.Initial.Width * scale / (float64(cols) * speed)
	ky := cfg.Initial.Height * scale / (float64(rows) * speed)
	return kx, ky
}

// updateHover hit-tests the cell under the pointer. A node focused from the
// outline keeps its card until the pointer moves over the canvas.
func (m *Model) updateHover() {
	if !m.loaded || !m.pointerIn {
		return
	}
	cols, rows := m.canvasSize()
	at := domain.Position{X: float64(m.pointerX) + 0.5, Y: float64(m.pointerY*2) + 1}
	p := domain.ScreenToScene(m.camera.Current(), at, float64(cols), float64(rows*2))
	if n, ok := m.scene.HitTest(p, m.opts.Style); ok {
		if m.hover.Enter(n) {
			m.refreshCard()
		}
		return
	}
	if id := m.hover.ID(); id != "" && m.hover.Leave(id) {
		m.refreshCard()
	}
}

// ─── layout ──────────────────────────────────────────────────────────────────

func (m Model) cardWidth() int {
	if m.width < minCardTotal {
		return 0
	}
	return cardWidth
}

func (m Model) canvasSize() (int, int) {
	cols := m.width - m.cardWidth()
	rows := m.height - 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

func (m *Model) resize() {
	_, rows := m.canvasSize()
	w := m.cardWidth()
	if w == 0 {
		m.markdown = nil
		return
	}
	m.card.Width = w - 4
	m.card.Height = rows - 2
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(w-6),
	)
	if err == nil {
		m.markdown = r
	}
	m.refreshCard()
}

func (m *Model) refreshCard() {
	m.card.SetContent(m.renderCard())
	m.card.GotoTop()
}

func (m Model) renderCard() string {
	n, ok := m.hover.Node()
	if !ok {
		if !m.loaded {
			return ""
		}
		return theme.Title.Render(m.scene.Title) + "\n\n" +
			theme.Muted.Render(fmt.Sprintf("%d nodes, depth %d\n\nHover a node for details.",
				len(m.scene.Nodes), domain.MaxDepth(m.scene.Nodes)))
	}
	var sb strings.Builder
	label := n.Label
	if label == "" {
		label = "(untitled)"
	}
	sb.WriteString(theme.Title.Render(label) + "\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%s · depth %d", n.ID, n.Depth)) + "\n")
	if n.Description == "" {
		return sb.String()
	}
	desc := n.Description
	if m.markdown != nil {
		if rendered, err := m.markdown.Render(n.Description); err == nil {
			desc = strings.Trim(rendered, "\n")
		}
	}
	sb.WriteString("\n" + desc)
	return sb.String()
}

func (m Model) statusLine() string {
	left := fmt.Sprintf("%s · %d nodes · %d%%", m.scene.Title, len(m.scene.Nodes), m.ScalePercent())
	if n, ok := m.hover.Node(); ok {
		left += " · " + theme.Hot.Render(n.Label)
	}
	right := theme.Muted.Render("drag:pan  wheel/+/-:zoom  0:reset")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) loadCmd(source string) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		if port == nil {
			return SceneLoadedMsg{Err: fmt.Errorf("graph adapter not configured")}
		}
		scene, err := port.LoadScene(context.Background(), source)
		return SceneLoadedMsg{Scene: scene, Err: err}
	}
}
