package domain

import "math"

type Style struct {
	RootSize float64
	BaseSize float64
	Decay    float64
	MinSize  float64
	Palette  []string
}

func DefaultStyle() Style {
	return Style{
		RootSize: 150,
		BaseSize: 120,
		Decay:    0.8,
		MinSize:  8,
		Palette: []string{
			"#FF4086",
			"#FF5E86",
			"#FF7C86",
			"#FF9A86",
			"#FFB886",
			"#FFCB86",
		},
	}
}

// SizeForDepth is the node radius in scene units. It never increases with
// depth and never drops below MinSize.
func (s Style) SizeForDepth(depth int) float64 {
	if depth <= 0 {
		return s.RootSize
	}
	size := s.BaseSize * math.Pow(s.Decay, float64(depth-1))
	if size < s.MinSize || math.IsNaN(size) {
		return s.MinSize
	}
	return size
}

// ColorForDepth clamps to the last palette entry for deep nodes.
func (s Style) ColorForDepth(depth int) string {
	if len(s.Palette) == 0 {
		return "#FFFFFF"
	}
	idx := depth
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.Palette)-1 {
		idx = len(s.Palette) - 1
	}
	return s.Palette[idx]
}
