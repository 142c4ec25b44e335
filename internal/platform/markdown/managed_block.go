package markdown

import "strings"

// Block is a region of a note delimited by marker lines. Content between
// the markers is owned by the program; the rest of the note is the user's.
type Block struct {
	Start string
	End   string
}

func (b Block) span(body string) (int, int, bool) {
	start := strings.Index(body, b.Start)
	if start < 0 {
		return 0, 0, false
	}
	end := strings.Index(body[start:], b.End)
	if end < 0 {
		return 0, 0, false
	}
	return start, start + end + len(b.End), true
}

// Extract returns the text between the markers.
func (b Block) Extract(body string) (string, bool) {
	start, end, ok := b.span(body)
	if !ok {
		return "", false
	}
	inner := body[start+len(b.Start) : end-len(b.End)]
	return strings.Trim(inner, "\n"), true
}

// Replace swaps the block's content for generated, appending a new block
// after the existing text when the note has none.
func (b Block) Replace(body, generated string) string {
	block := b.Start + "\n" + strings.Trim(generated, "\n") + "\n" + b.End

	if start, end, ok := b.span(body); ok {
		return body[:start] + block + body[end:]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
