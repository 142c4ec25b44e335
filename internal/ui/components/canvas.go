package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"kgview/internal/modules/graph/domain"
)

const halfBlock = "▀"

// Canvas is a drawing surface made of terminal cells. Every cell holds two
// square pixels stacked vertically and rendered with an upper half block,
// so a cols x rows canvas has cols x 2*rows pixels.
type Canvas struct {
	cols   int
	rows   int
	view   domain.Camera
	pixels []string
	text   []textCell
}

// textCell holds one label glyph. A double-width glyph occupies its cell
// and the next one, which is marked cont and renders nothing.
type textCell struct {
	r    rune
	fill string
	wide bool
	cont bool
}

func NewCanvas(cols, rows int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Canvas{
		cols:   cols,
		rows:   rows,
		pixels: make([]string, cols*rows*2),
		text:   make([]textCell, cols*rows),
	}
}

func (c *Canvas) Cols() int { return c.cols }

func (c *Canvas) Rows() int { return c.rows }

// PixelSize is the surface size used for screen/scene transforms.
func (c *Canvas) PixelSize() (float64, float64) {
	return float64(c.cols), float64(c.rows * 2)
}

// CellCenter returns the pixel coordinates of the middle of a cell.
func (c *Canvas) CellCenter(col, row int) domain.Position {
	return domain.Position{X: float64(col) + 0.5, Y: float64(row*2) + 1}
}

func (c *Canvas) Pixel(x, y int) string {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return ""
	}
	return c.pixels[y*c.cols+x]
}

// Rune returns the label character drawn over a cell, or 0.
func (c *Canvas) Rune(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0
	}
	return c.text[row*c.cols+col].r
}

func (c *Canvas) Clear(view domain.Camera, background string) {
	c.view = view
	for i := range c.pixels {
		c.pixels[i] = background
	}
	for i := range c.text {
		c.text[i] = textCell{}
	}
}

func (c *Canvas) toScreen(p domain.Position) domain.Position {
	w, h := c.PixelSize()
	return domain.SceneToScreen(c.view, p, w, h)
}

// scaleX converts a scene length along x into pixels.
func (c *Canvas) scaleX(v float64) float64 {
	if c.view.Width <= 0 {
		return 0
	}
	return v * float64(c.cols) / c.view.Width
}

func (c *Canvas) scaleY(v float64) float64 {
	if c.view.Height <= 0 {
		return 0
	}
	return v * float64(c.rows*2) / c.view.Height
}

func (c *Canvas) set(x, y int, color string) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return
	}
	c.pixels[y*c.cols+x] = color
}

// Line draws a one-pixel line; widths under a pixel still show.
func (c *Canvas) Line(from, to domain.Position, stroke string, _ float64) {
	a, b := c.toScreen(from), c.toScreen(to)
	w, h := c.PixelSize()
	x0, y0, x1, y1, ok := clipSegment(a.X, a.Y, b.X, b.Y, w, h)
	if !ok {
		return
	}
	steps := int(math.Ceil(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))))
	if steps == 0 {
		c.set(int(x0), int(y0), stroke)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.set(int(x0+(x1-x0)*t), int(y0+(y1-y0)*t), stroke)
	}
}

// Circle fills the ellipse the circle maps to. The outline is only drawn
// once it is at least half a pixel wide.
func (c *Canvas) Circle(center domain.Position, radius float64, fill, stroke string, strokeWidth float64) {
	p := c.toScreen(center)
	rx, ry := c.scaleX(radius), c.scaleY(radius)
	if rx < 0.5 && ry < 0.5 {
		c.set(int(math.Floor(p.X)), int(math.Floor(p.Y)), fill)
		return
	}
	sw := c.scaleX(strokeWidth)
	drawStroke := stroke != "" && sw >= 0.5
	if drawStroke {
		sw = math.Max(1, math.Round(sw))
	}

	minX := int(math.Max(0, math.Floor(p.X-rx)))
	maxX := int(math.Min(float64(c.cols-1), math.Ceil(p.X+rx)))
	minY := int(math.Max(0, math.Floor(p.Y-ry)))
	maxY := int(math.Min(float64(c.rows*2-1), math.Ceil(p.Y+ry)))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			dx, dy := (float64(x)+0.5-p.X)/rx, (float64(y)+0.5-p.Y)/ry
			d := dx*dx + dy*dy
			if d > 1 {
				continue
			}
			color := fill
			if drawStroke {
				ix, iy := (rx-sw)/rx, (ry-sw)/ry
				if ix <= 0 || iy <= 0 || (dx*dx)/(ix*ix)+(dy*dy)/(iy*iy) > 1 {
					color = stroke
				}
			}
			c.set(x, y, color)
		}
	}
}

// Text writes a label when its font is at least one cell tall. Line i is
// centred on (x, StartY + i*FontSize).
func (c *Canvas) Text(block domain.LabelBlock, x float64, fill string) {
	if len(block.Lines) == 0 || c.scaleY(block.FontSize) < 2 {
		return
	}
	for i, line := range block.Lines {
		p := c.toScreen(domain.Position{X: x, Y: block.StartY + float64(i)*block.FontSize})
		row := int(math.Floor(p.Y / 2))
		if row < 0 || row >= c.rows {
			continue
		}
		col := int(math.Round(p.X - float64(runewidth.StringWidth(line))/2))
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if col >= 0 && col+w <= c.cols {
				c.putText(row, col, textCell{r: r, fill: fill, wide: w > 1})
			}
			col += w
		}
	}
}

func (c *Canvas) putText(row, col int, cell textCell) {
	c.clearText(row, col)
	c.text[row*c.cols+col] = cell
	if cell.wide {
		c.clearText(row, col+1)
		c.text[row*c.cols+col+1] = textCell{fill: cell.fill, cont: true}
	}
}

// clearText empties a cell along with the other half of any wide glyph it
// belongs to.
func (c *Canvas) clearText(row, col int) {
	i := row*c.cols + col
	switch {
	case c.text[i].cont && col > 0:
		c.text[i-1] = textCell{}
	case c.text[i].wide && col+1 < c.cols:
		c.text[i+1] = textCell{}
	}
	c.text[i] = textCell{}
}

// Render returns the canvas as rows of styled cells. Runs of identical
// cells share one style call.
func (c *Canvas) Render() string {
	var out strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle lipgloss.Style
		runKey := ""
		flush := func() {
			if run.Len() > 0 {
				out.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		for col := 0; col < c.cols; col++ {
			top := c.pixels[(row*2)*c.cols+col]
			bottom := c.pixels[(row*2+1)*c.cols+col]
			glyph, key := halfBlock, "b"+top+bottom
			style := lipgloss.NewStyle()
			tc := c.text[row*c.cols+col]
			if tc.cont {
				continue
			}
			if tc.r != 0 {
				glyph, key = string(tc.r), "t"+tc.fill+top
				style = style.Bold(true).Foreground(lipgloss.Color(tc.fill))
				if top != "" {
					style = style.Background(lipgloss.Color(top))
				}
			} else {
				if top != "" {
					style = style.Foreground(lipgloss.Color(top))
				}
				if bottom != "" {
					style = style.Background(lipgloss.Color(bottom))
				}
			}
			if key != runKey {
				flush()
				runKey, runStyle = key, style
			}
			run.WriteString(glyph)
		}
		flush()
	}
	return out.String()
}

// clipSegment clips a segment to [0,w)x[0,h) (Liang-Barsky).
func clipSegment(x0, y0, x1, y1, w, h float64) (float64, float64, float64, float64, bool) {
	maxX, maxY := w-1e-9, h-1e-9
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
