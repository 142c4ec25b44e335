package out

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"kgview/internal/modules/graph/domain"
	graphout "kgview/internal/modules/graph/port/out"
)

type SVGExporter struct{}

func NewSVGExporter() SVGExporter { return SVGExporter{} }

func (SVGExporter) Format() string { return "svg" }

func (SVGExporter) ContentType() string { return "image/svg+xml" }

func (SVGExporter) NewSurface(width, height int) graphout.ExportSurface {
	return &SVGSurface{width: width, height: height}
}

// SVGSurface writes scene coordinates straight into the document and lets
// the viewBox apply the camera, stretching each axis independently.
type SVGSurface struct {
	width      int
	height     int
	view       domain.Camera
	background string
	body       bytes.Buffer
}

func (s *SVGSurface) Clear(view domain.Camera, background string) {
	s.view = view
	s.background = background
	s.body.Reset()
}

func (s *SVGSurface) Line(from, to domain.Position, stroke string, width float64) {
	fmt.Fprintf(&s.body, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		num(from.X), num(from.Y), num(to.X), num(to.Y), attr(stroke), num(width))
}

func (s *SVGSurface) Circle(center domain.Position, radius float64, fill, stroke string, strokeWidth float64) {
	fmt.Fprintf(&s.body, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s" stroke-width="%s"/>`+"\n",
		num(center.X), num(center.Y), num(radius), attr(fill), attr(stroke), num(strokeWidth))
}

func (s *SVGSurface) Text(block domain.LabelBlock, x float64, fill string) {
	if len(block.Lines) == 0 {
		return
	}
	fmt.Fprintf(&s.body, `<text text-anchor="middle" dominant-baseline="middle" fill="%s" font-weight="bold" font-size="%spx">`,
		attr(fill), num(block.FontSize))
	for i, line := range block.Lines {
		y := block.StartY + float64(i)*block.FontSize
		fmt.Fprintf(&s.body, `<tspan x="%s" y="%s">%s</tspan>`, num(x), num(y), attr(line))
	}
	s.body.WriteString("</text>\n")
}

func (s *SVGSurface) Encode(w io.Writer) error {
	if _, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%s %s %s %s" preserveAspectRatio="none">`+"\n",
		s.width, s.height, num(s.view.X), num(s.view.Y), num(s.view.Width), num(s.view.Height)); err != nil {
		return err
	}
	if s.background != "" {
		if _, err := fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
			num(s.view.X), num(s.view.Y), num(s.view.Width), num(s.view.Height), attr(s.background)); err != nil {
			return err
		}
	}
	if _, err := w.Write(s.body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</svg>\n")
	return err
}

func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func attr(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
