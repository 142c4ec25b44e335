package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is one animation tick. Ticks from a stopped or restarted
// animation carry an old generation and are ignored.
type FrameMsg struct {
	generation int
}

// Animator drives a frame loop with tea.Tick while it runs. At most one
// tick is in flight per generation.
type Animator struct {
	interval   time.Duration
	generation int
	running    bool
}

func NewAnimator(interval time.Duration) Animator {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return Animator{interval: interval}
}

func (a Animator) Running() bool { return a.running }

// Start begins a frame loop unless one is already running.
func (a *Animator) Start() tea.Cmd {
	if a.running {
		return nil
	}
	a.running = true
	a.generation++
	return a.tick()
}

func (a *Animator) Stop() {
	if !a.running {
		return
	}
	a.running = false
	a.generation++
}

// Accept reports whether msg belongs to the running loop.
func (a Animator) Accept(msg FrameMsg) bool {
	return a.running && msg.generation == a.generation
}

// Next schedules the following frame of the running loop.
func (a Animator) Next() tea.Cmd {
	if !a.running {
		return nil
	}
	return a.tick()
}

func (a Animator) tick() tea.Cmd {
	gen := a.generation
	return tea.Tick(a.interval, func(time.Time) tea.Msg {
		return FrameMsg{generation: gen}
	})
}
