package out

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"kgview/internal/modules/graph/domain"
	graphout "kgview/internal/modules/graph/port/out"
)

// labels smaller than this many pixels are not drawn
const minLabelPixels = 4

var labelFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(gobold.TTF)
})

type PNGExporter struct{}

func NewPNGExporter() PNGExporter { return PNGExporter{} }

func (PNGExporter) Format() string { return "png" }

func (PNGExporter) ContentType() string { return "image/png" }

func (PNGExporter) NewSurface(width, height int) graphout.ExportSurface {
	return NewPNGSurface(width, height)
}

// PNGSurface rasterises onto an RGBA image, mapping scene coordinates
// through the camera set by Clear.
type PNGSurface struct {
	img   *image.RGBA
	view  domain.Camera
	z     *vector.Rasterizer
	faces map[int]font.Face
}

func NewPNGSurface(width, height int) *PNGSurface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &PNGSurface{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		z:     vector.NewRasterizer(width, height),
		faces: map[int]font.Face{},
	}
}

func (s *PNGSurface) Image() *image.RGBA { return s.img }

func (s *PNGSurface) Clear(view domain.Camera, background string) {
	s.view = view
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(parseColor(background)), image.Point{}, draw.Src)
}

func (s *PNGSurface) size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func (s *PNGSurface) toPixels(p domain.Position) domain.Position {
	w, h := s.size()
	return domain.SceneToScreen(s.view, p, w, h)
}

// scale returns pixels per scene unit on each axis.
func (s *PNGSurface) scale() (float64, float64) {
	w, h := s.size()
	if s.view.Width <= 0 || s.view.Height <= 0 {
		return 0, 0
	}
	return w / s.view.Width, h / s.view.Height
}

// unit is the mean pixel size of one scene unit, used for stroke widths.
func (s *PNGSurface) unit() float64 {
	sx, sy := s.scale()
	return (sx + sy) / 2
}

func (s *PNGSurface) visible(minX, minY, maxX, maxY float64) bool {
	w, h := s.size()
	return maxX >= 0 && maxY >= 0 && minX <= w && minY <= h
}

func (s *PNGSurface) Line(from, to domain.Position, stroke string, width float64) {
	a, b := s.toPixels(from), s.toPixels(to)
	if !s.visible(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Max(a.X, b.X), math.Max(a.Y, b.Y)) {
		return
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := math.Max(width*s.unit()/2, 0.5)
	nx, ny := -dy/length*half, dx/length*half

	s.begin()
	s.z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	s.z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	s.z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	s.z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	s.z.ClosePath()
	s.fill(stroke)
}

func (s *PNGSurface) Circle(center domain.Position, radius float64, fill, stroke string, strokeWidth float64) {
	sx, sy := s.scale()
	c := s.toPixels(center)
	rx, ry := radius*sx, radius*sy
	if rx <= 0 || ry <= 0 || !s.visible(c.X-rx, c.Y-ry, c.X+rx, c.Y+ry) {
		return
	}
	s.begin()
	s.ellipse(c, rx, ry, false)
	s.fill(fill)

	if strokeWidth <= 0 || stroke == "" {
		return
	}
	half := strokeWidth * s.unit() / 2
	s.begin()
	s.ellipse(c, rx+half, ry+half, false)
	if rx > half && ry > half {
		s.ellipse(c, rx-half, ry-half, true)
	}
	s.fill(stroke)
}

func (s *PNGSurface) Text(block domain.LabelBlock, x float64, fill string) {
	_, sy := s.scale()
	px := int(math.Round(block.FontSize * sy))
	if px < minLabelPixels || len(block.Lines) == 0 {
		return
	}
	face := s.face(px)
	if face == nil {
		return
	}
	metrics := face.Metrics()
	shift := (metrics.Ascent - metrics.Descent) / 2
	d := font.Drawer{Dst: s.img, Src: image.NewUniform(parseColor(fill)), Face: face}
	for i, line := range block.Lines {
		p := s.toPixels(domain.Position{X: x, Y: block.StartY + float64(i)*block.FontSize})
		width := d.MeasureString(line)
		d.Dot = fixed.Point26_6{
			X: fixed.I(int(math.Round(p.X))) - width/2,
			Y: fixed.I(int(math.Round(p.Y))) + shift,
		}
		d.DrawString(line)
	}
}

func (s *PNGSurface) Encode(w io.Writer) error {
	return png.Encode(w, s.img)
}

func (s *PNGSurface) begin() {
	b := s.img.Bounds()
	s.z.Reset(b.Dx(), b.Dy())
	s.z.DrawOp = draw.Over
}

func (s *PNGSurface) fill(hex string) {
	s.z.Draw(s.img, s.img.Bounds(), image.NewUniform(parseColor(hex)), image.Point{})
}

// kappa places cubic control points so four segments approximate a
// quarter ellipse each.
const kappa = 0.5522847498

// ellipse adds a closed ellipse path. reverse winds it the other way so it
// cuts a hole in a path already added.
func (s *PNGSurface) ellipse(c domain.Position, rx, ry float64, reverse bool) {
	kx, ky := rx*kappa, ry*kappa
	f := func(v float64) float32 { return float32(v) }
	if !reverse {
		s.z.MoveTo(f(c.X+rx), f(c.Y))
		s.z.CubeTo(f(c.X+rx), f(c.Y+ky), f(c.X+kx), f(c.Y+ry), f(c.X), f(c.Y+ry))
		s.z.CubeTo(f(c.X-kx), f(c.Y+ry), f(c.X-rx), f(c.Y+ky), f(c.X-rx), f(c.Y))
		s.z.CubeTo(f(c.X-rx), f(c.Y-ky), f(c.X-kx), f(c.Y-ry), f(c.X), f(c.Y-ry))
		s.z.CubeTo(f(c.X+kx), f(c.Y-ry), f(c.X+rx), f(c.Y-ky), f(c.X+rx), f(c.Y))
	} else {
		s.z.MoveTo(f(c.X+rx), f(c.Y))
		s.z.CubeTo(f(c.X+rx), f(c.Y-ky), f(c.X+kx), f(c.Y-ry), f(c.X), f(c.Y-ry))
		s.z.CubeTo(f(c.X-kx), f(c.Y-ry), f(c.X-rx), f(c.Y-ky), f(c.X-rx), f(c.Y))
		s.z.CubeTo(f(c.X-rx), f(c.Y+ky), f(c.X-kx), f(c.Y+ry), f(c.X), f(c.Y+ry))
		s.z.CubeTo(f(c.X+kx), f(c.Y+ry), f(c.X+rx), f(c.Y+ky), f(c.X+rx), f(c.Y))
	}
	s.z.ClosePath()
}

func (s *PNGSurface) face(px int) font.Face {
	if face, ok := s.faces[px]; ok {
		return face
	}
	f, err := labelFont()
	if err != nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(px), DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil
	}
	s.faces[px] = face
	return face
}

func parseColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
