package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

var (
	Brand  = color.New(color.FgHiMagenta, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

func Banner(w io.Writer, title, subtitle string) {
	_, _ = fmt.Fprintf(w, "%s %s\n\n", Brand.Sprint(title), Subtle.Sprint("· "+subtitle))
}

// Table prints an aligned table. Cells may carry colour codes; widths are
// measured on the visible text.
func Table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		_, _ = Subtle.Fprintln(w, "  (empty)")
		return
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], visibleWidth(cell))
			}
		}
	}

	var header, sep strings.Builder
	header.WriteString("  ")
	sep.WriteString("  ")
	for i, h := range headers {
		header.WriteString(pad(h, widths[i]))
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	_, _ = Subtle.Fprintln(w, strings.TrimRight(header.String(), " "))
	_, _ = Subtle.Fprintln(w, strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		line.WriteString("  ")
		for i, cell := range row {
			if i < len(widths) {
				line.WriteString(pad(cell, widths[i]))
			}
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// Swatch prints hex in its own colour. Invalid colours print as-is.
func Swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	r, g, b := c.RGB255()
	return color.RGB(int(r), int(g), int(b)).Sprint("●") + " " + hex
}

func pad(cell string, width int) string {
	return cell + strings.Repeat(" ", max(0, width-visibleWidth(cell))) + "  "
}

func visibleWidth(s string) int {
	return runewidth.StringWidth(stripANSI(s))
}

func stripANSI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
