package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgview/internal/modules/graph/domain"
	"kgview/internal/modules/graph/service"
)

func sampleScene() domain.Scene {
	raw := domain.RawTree{Key: "k", Value: decode(`{"subject":"CS","topics":[{"title":"AI"},{"title":"Systems Design"}]}`)}
	return domain.BuildScene(raw, "", domain.DefaultLayoutConfig())
}

func TestDrawOrdersEdgesNodesLabels(t *testing.T) {
	t.Parallel()
	r := service.NewRenderer(domain.DefaultStyle(), service.DefaultTheme())
	s := &recordingSurface{}
	cam := domain.DefaultViewportConfig().Initial

	r.Draw(s, sampleScene(), cam, "")

	assert.Equal(t, []string{"clear", "line", "line", "circle", "circle", "circle", "text", "text", "text"}, s.kinds())
	assert.Equal(t, cam, s.view)
}

func TestDrawSkipsUnresolvableParent(t *testing.T) {
	t.Parallel()
	scene := sampleScene()
	orphan := domain.GraphNode{ID: "x", Label: "X", ParentIDs: []string{"missing"}, Depth: 1}
	scene.Nodes = append(scene.Nodes, orphan)
	scene.Positions["x"] = domain.Position{X: 10, Y: 10}

	s := &recordingSurface{}
	service.NewRenderer(domain.DefaultStyle(), service.DefaultTheme()).Draw(s, scene, domain.Camera{Width: 1, Height: 1, Scale: 1}, "")

	lines, circles := 0, 0
	for _, o := range s.ops {
		switch o.kind {
		case "line":
			lines++
		case "circle":
			circles++
		}
	}
	assert.Equal(t, 2, lines)
	assert.Equal(t, 4, circles)
}

func TestDrawDarkensOnlyHoveredNode(t *testing.T) {
	t.Parallel()
	style := domain.DefaultStyle()
	scene := sampleScene()
	s := &recordingSurface{}
	service.NewRenderer(style, service.DefaultTheme()).Draw(s, scene, domain.DefaultViewportConfig().Initial, scene.Nodes[1].ID)

	var fills []string
	for _, o := range s.ops {
		if o.kind == "circle" {
			fills = append(fills, o.fill)
		}
	}
	require.Len(t, fills, 3)
	assert.Equal(t, style.ColorForDepth(0), fills[0])
	assert.Equal(t, service.Shade(style.ColorForDepth(1), 0.8), fills[1])
	assert.Equal(t, style.ColorForDepth(1), fills[2])
}

func TestDrawWrapsLabels(t *testing.T) {
	t.Parallel()
	s := &recordingSurface{}
	service.NewRenderer(domain.DefaultStyle(), service.DefaultTheme()).Draw(s, sampleScene(), domain.DefaultViewportConfig().Initial, "")
	last := s.ops[len(s.ops)-1]
	assert.Equal(t, []string{"Systems", "Design"}, last.lines)
}

func TestShade(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "#cc336b", service.Shade("#FF4086", 0.8))
	assert.Equal(t, "not-a-colour", service.Shade("not-a-colour", 0.8))
}
