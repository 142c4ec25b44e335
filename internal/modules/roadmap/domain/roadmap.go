package domain

import (
	"fmt"
	"strings"
)

const (
	MinPriority = 1
	MaxPriority = 6
	// DefaultColor is used for priorities outside the palette.
	DefaultColor = "#FF4086"
)

// Item is one step of a learning roadmap. Lower priority values come first
// in the learning order and take the stronger palette colours.
type Item struct {
	Entity       string
	Relationship string
	Priority     int
}

type Roadmap struct {
	Query string
	Items []Item
}

// ValidPriority reports whether p is one of the priorities the generation
// service emits.
func ValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

// ColorFor picks palette[priority-1]. Unknown priorities fall back to
// DefaultColor rather than being clamped.
func ColorFor(priority int, palette []string) string {
	if !ValidPriority(priority) || priority > len(palette) {
		return DefaultColor
	}
	return palette[priority-1]
}

// Markdown renders the roadmap as an ordered list in the order the service
// returned it.
func (r Roadmap) Markdown() string {
	var b strings.Builder
	if r.Query != "" {
		fmt.Fprintf(&b, "### Roadmap: %s\n\n", r.Query)
	}
	if len(r.Items) == 0 {
		b.WriteString("_No roadmap items._\n")
		return b.String()
	}
	for i, item := range r.Items {
		fmt.Fprintf(&b, "%d. **%s**", i+1, oneLine(item.Entity))
		if rel := oneLine(item.Relationship); rel != "" {
			fmt.Fprintf(&b, ": %s", rel)
		}
		fmt.Fprintf(&b, " (priority %d)\n", item.Priority)
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
