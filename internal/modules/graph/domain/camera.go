package domain

import "math"

// Camera is the visible scene-space rectangle. Width and Height shrink as
// Scale grows so on-screen content size stays consistent across zoom.
type Camera struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Scale  float64 `json:"scale"`
}

func (c Camera) Center() Position {
	return Position{X: c.X + c.Width/2, Y: c.Y + c.Height/2}
}

type ViewportConfig struct {
	Initial         Camera
	MinScale        float64
	MaxScale        float64
	ZoomStep        float64
	ZoomSpeed       float64
	Smoothing       float64
	PositionEpsilon float64
	ScaleEpsilon    float64
	PanSpeed        float64
}

func DefaultViewportConfig() ViewportConfig {
	return ViewportConfig{
		Initial:         Camera{X: 0, Y: 0, Width: 2000, Height: 1500, Scale: 1},
		MinScale:        0.1,
		MaxScale:        5,
		ZoomStep:        2,
		ZoomSpeed:       0.005,
		Smoothing:       0.3,
		PositionEpsilon: 0.1,
		ScaleEpsilon:    0.001,
		PanSpeed:        10,
	}
}

// smallest factor a single wheel event may scale by
const minWheelFactor = 0.01

// Viewport owns the current and target cameras. Commands only move the
// target; Tick moves current toward it.
type Viewport struct {
	cfg     ViewportConfig
	current Camera
	target  Camera
}

func NewViewport(cfg ViewportConfig) *Viewport {
	return &Viewport{cfg: cfg, current: cfg.Initial, target: cfg.Initial}
}

func (v *Viewport) Current() Camera { return v.current }

func (v *Viewport) Target() Camera { return v.target }

func (v *Viewport) Config() ViewportConfig { return v.cfg }

// Settled reports whether current has reached target.
func (v *Viewport) Settled() bool { return v.current == v.target }

// Pan moves the target by a pointer delta, scaled inversely by the current
// scale. Dragging right moves the content right.
func (v *Viewport) Pan(dx, dy float64) {
	scale := v.current.Scale
	if scale <= 0 {
		scale = 1
	}
	v.target.X -= dx / scale * v.cfg.PanSpeed
	v.target.Y -= dy / scale * v.cfg.PanSpeed
}

func (v *Viewport) ZoomIn() {
	v.zoomTo(v.target.Scale * v.cfg.ZoomStep)
}

func (v *Viewport) ZoomOut() {
	v.zoomTo(v.target.Scale / v.cfg.ZoomStep)
}

// Wheel zooms by a wheel delta. Negative deltas (scrolling up) zoom in.
func (v *Viewport) Wheel(deltaY float64) {
	factor := 1 - deltaY*v.cfg.ZoomSpeed
	if factor < minWheelFactor {
		factor = minWheelFactor
	}
	v.zoomTo(v.target.Scale * factor)
}

// CenterOn moves the target so p sits in the middle of the view.
func (v *Viewport) CenterOn(p Position) {
	v.target.X = p.X - v.target.Width/2
	v.target.Y = p.Y - v.target.Height/2
}

func (v *Viewport) Reset() {
	v.target = v.cfg.Initial
}

// zoomTo keeps the target centre fixed. Out-of-range scales are clamped.
func (v *Viewport) zoomTo(scale float64) {
	scale = clamp(scale, v.cfg.MinScale, v.cfg.MaxScale)
	old := v.target.Scale
	if old <= 0 || scale == old {
		return
	}
	factor := scale / old
	center := v.target.Center()
	v.target.Width /= factor
	v.target.Height /= factor
	v.target.X = center.X - v.target.Width/2
	v.target.Y = center.Y - v.target.Height/2
	v.target.Scale = scale
}

// Tick advances current one animation frame toward target. Position moves
// at half the rate of size and scale. It reports true once current has
// been snapped to target.
func (v *Viewport) Tick() bool {
	cur, tgt, s := v.current, v.target, v.cfg.Smoothing
	dx := (tgt.X - cur.X) * s
	dy := (tgt.Y - cur.Y) * s
	dw := (tgt.Width - cur.Width) * s
	dh := (tgt.Height - cur.Height) * s
	ds := (tgt.Scale - cur.Scale) * s

	eps := v.cfg.PositionEpsilon
	if math.Abs(dx) < eps && math.Abs(dy) < eps &&
		math.Abs(dw) < eps && math.Abs(dh) < eps &&
		math.Abs(ds) < v.cfg.ScaleEpsilon {
		v.current = tgt
		return true
	}

	v.current = Camera{
		X:      cur.X + dx/2,
		Y:      cur.Y + dy/2,
		Width:  cur.Width + dw,
		Height: cur.Height + dh,
		Scale:  cur.Scale + ds,
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
