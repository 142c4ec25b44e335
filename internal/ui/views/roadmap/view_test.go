package roadmap_test

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	roadmapdto "kgview/internal/modules/roadmap/dto"
	"kgview/internal/ui/views/roadmap"
)

type fakePort struct {
	queries []string
	err     error
}

func (p *fakePort) Generate(_ context.Context, query string) (roadmapdto.RoadmapOutput, error) {
	p.queries = append(p.queries, query)
	if p.err != nil {
		return roadmapdto.RoadmapOutput{}, p.err
	}
	return roadmapdto.RoadmapOutput{Query: query, Items: []roadmapdto.ItemOutput{
		{Entity: "Sets", Relationship: "foundation", Priority: 1, Color: "#FF4086"},
		{Entity: "Graphs", Relationship: "built on sets", Priority: 2, Color: "#FF5E86"},
	}}, nil
}

// run executes cmd and returns the first GeneratedMsg it yields.
func run(t *testing.T, cmd tea.Cmd) roadmap.GeneratedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case roadmap.GeneratedMsg:
		return msg
	case tea.BatchMsg:
		for _, c := range msg {
			if c == nil {
				continue
			}
			if out, ok := c().(roadmap.GeneratedMsg); ok {
				return out
			}
		}
	}
	t.Fatal("no GeneratedMsg")
	return roadmap.GeneratedMsg{}
}

func sized(port roadmap.RoadmapPort) roadmap.Model {
	m := roadmap.New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return m
}

func TestGenerateListsItems(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := sized(port)

	cmd := m.Generate("  computer science ")
	assert.True(t, m.Loading())
	m, _ = m.Update(run(t, cmd))

	assert.Equal(t, []string{"computer science"}, port.queries)
	assert.False(t, m.Loading())
	assert.Equal(t, 2, m.Len())
	view := m.View()
	assert.Contains(t, view, "Roadmap · computer science")
	assert.Contains(t, view, "P1")
	assert.Contains(t, view, "Graphs")
}

func TestBlankQueryIsIgnored(t *testing.T) {
	t.Parallel()
	m := sized(&fakePort{})
	assert.Nil(t, m.Generate("   "))
	assert.False(t, m.Loading())
}

func TestTypingAndSubmit(t *testing.T) {
	t.Parallel()
	port := &fakePort{}
	m := sized(port)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	require.True(t, m.Typing())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("go")})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Typing())

	m, _ = m.Update(run(t, cmd))
	assert.Equal(t, []string{"go"}, port.queries)
	assert.Equal(t, 2, m.Len())
}

func TestErrorIsShown(t *testing.T) {
	t.Parallel()
	m := sized(&fakePort{err: errors.New("upstream returned 500")})

	cmd := m.Generate("x")
	m, _ = m.Update(run(t, cmd))
	assert.Contains(t, m.View(), "Failed to generate roadmap: upstream returned 500")
}
