package domain

import "math"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Positions map[string]Position

type LayoutConfig struct {
	Width       float64
	Height      float64
	RingSpacing float64
}

func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{Width: 2000, Height: 1500, RingSpacing: 800}
}

func (c LayoutConfig) Center() Position {
	return Position{X: c.Width / 2, Y: c.Height / 2}
}

// Layout places the root at the canvas centre and every other depth on a
// ring of radius depth*RingSpacing, spaced evenly in emission order.
// Siblings are not kept in their parent's angular sector: nodes of
// different parents interleave on a shared ring.
func Layout(nodes []GraphNode, cfg LayoutConfig) Positions {
	center := cfg.Center()
	positions := make(Positions, len(nodes))

	rings := map[int][]string{}
	depths := make([]int, 0)
	for _, node := range nodes {
		if node.Depth <= 0 {
			positions[node.ID] = center
			continue
		}
		if _, ok := rings[node.Depth]; !ok {
			depths = append(depths, node.Depth)
		}
		rings[node.Depth] = append(rings[node.Depth], node.ID)
	}

	for _, depth := range depths {
		ids := rings[depth]
		radius := float64(depth) * cfg.RingSpacing
		step := 2 * math.Pi / float64(len(ids))
		for i, id := range ids {
			angle := float64(i) * step
			positions[id] = Position{
				X: center.X + radius*math.Cos(angle),
				Y: center.Y + radius*math.Sin(angle),
			}
		}
	}
	return positions
}
