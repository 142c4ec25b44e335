package service

import (
	"github.com/lucasb-eyer/go-colorful"

	"kgview/internal/modules/graph/domain"
	graphout "kgview/internal/modules/graph/port/out"
)

type Theme struct {
	Background  string
	Edge        string
	EdgeWidth   float64
	NodeStroke  string
	StrokeWidth float64
	Label       string
	// HoverShade scales the brightness of the hovered node's fill.
	HoverShade float64
}

func DefaultTheme() Theme {
	return Theme{
		Background:  "#111827",
		Edge:        "#FFFFFF",
		EdgeWidth:   2,
		NodeStroke:  "#FFFFFF",
		StrokeWidth: 2,
		Label:       "#FFFFFF",
		HoverShade:  0.8,
	}
}

// Renderer redraws a whole scene per frame: edges, then nodes, then labels.
type Renderer struct {
	style domain.Style
	theme Theme
}

func NewRenderer(style domain.Style, theme Theme) Renderer {
	return Renderer{style: style, theme: theme}
}

func (r Renderer) Style() domain.Style { return r.style }

func (r Renderer) Theme() Theme { return r.theme }

func (r Renderer) Draw(s graphout.Surface, scene domain.Scene, cam domain.Camera, hoveredID string) {
	s.Clear(cam, r.theme.Background)

	for _, n := range scene.Nodes {
		to, ok := scene.Positions[n.ID]
		if !ok {
			continue
		}
		for _, pid := range n.ParentIDs {
			from, ok := scene.Positions[pid]
			if !ok {
				continue
			}
			s.Line(from, to, r.theme.Edge, r.theme.EdgeWidth)
		}
	}

	for _, n := range scene.Nodes {
		pos, ok := scene.Positions[n.ID]
		if !ok {
			continue
		}
		fill := r.style.ColorForDepth(n.Depth)
		if hoveredID != "" && n.ID == hoveredID {
			fill = Shade(fill, r.theme.HoverShade)
		}
		s.Circle(pos, r.style.SizeForDepth(n.Depth), fill, r.theme.NodeStroke, r.theme.StrokeWidth)
	}

	for _, n := range scene.Nodes {
		pos, ok := scene.Positions[n.ID]
		if !ok || n.Label == "" {
			continue
		}
		block := domain.WrapLabel(n.Label, pos, r.style.SizeForDepth(n.Depth))
		s.Text(block, pos.X, r.theme.Label)
	}
}

// Shade scales the HSV value of a hex colour. Unparseable input is
// returned unchanged.
func Shade(hex string, factor float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	h, s, v := c.Hsv()
	return colorful.Hsv(h, s, v*factor).Clamped().Hex()
}
