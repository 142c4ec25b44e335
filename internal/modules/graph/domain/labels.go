package domain

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	minFontSize = 12
	// average glyph width as a fraction of the font size
	charWidthRatio = 0.3
)

// LabelBlock is a wrapped label. Line i is centred vertically at
// StartY + i*FontSize.
type LabelBlock struct {
	Lines    []string
	FontSize float64
	StartY   float64
}

func (b LabelBlock) Height() float64 {
	return float64(len(b.Lines)) * b.FontSize
}

func FontSizeForRadius(radius float64) float64 {
	return math.Max(minFontSize, radius/4)
}

// LineBudget is the maximum number of characters per wrapped line for a
// node of the given radius.
func LineBudget(radius float64) int {
	fontSize := FontSizeForRadius(radius)
	budget := int(math.Floor(radius / (fontSize * charWidthRatio)))
	if budget < 1 {
		return 1
	}
	return budget
}

// WrapLabel greedily packs words into lines of at most LineBudget runes and
// centres the block on center. A single word longer than the budget gets
// a line of its own.
func WrapLabel(label string, center Position, radius float64) LabelBlock {
	fontSize := FontSizeForRadius(radius)
	budget := LineBudget(radius)

	var lines []string
	line := ""
	for _, word := range strings.Fields(label) {
		switch {
		case line == "":
			line = word
		case utf8.RuneCountInString(line)+1+utf8.RuneCountInString(word) > budget:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}

	startY := center.Y
	if len(lines) > 1 {
		startY -= float64(len(lines)-1) * fontSize / 2
	}
	return LabelBlock{Lines: lines, FontSize: fontSize, StartY: startY}
}
