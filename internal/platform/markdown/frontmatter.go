package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Note is a markdown document split into its yaml frontmatter and body.
type Note struct {
	Meta map[string]any
	Body string
}

// Parse splits content on a leading "---" fence. Content without one is
// all body. CRLF line endings are accepted and the closing fence may end
// the file.
func Parse(content string) (Note, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := content[len(fence)+1:]
	var raw, body string
	switch {
	case strings.HasPrefix(rest, fence+"\n"):
		body = rest[len(fence)+1:]
	case rest == fence:
	default:
		idx := strings.Index(rest, "\n"+fence+"\n")
		if idx < 0 {
			if !strings.HasSuffix(rest, "\n"+fence) {
				return Note{}, fmt.Errorf("invalid frontmatter: missing closing %q", fence)
			}
			idx = len(rest) - len(fence) - 1
			raw = rest[:idx]
		} else {
			raw = rest[:idx]
			body = rest[idx+len(fence)+2:]
		}
	}

	meta := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
			return Note{}, fmt.Errorf("unmarshal frontmatter: %w", err)
		}
	}
	return Note{Meta: meta, Body: body}, nil
}

// Heading returns the text of the first level-one heading in the body.
func (n Note) Heading() string {
	for _, line := range strings.Split(n.Body, "\n") {
		if h, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return strings.TrimSpace(h)
		}
	}
	return ""
}

func (n Note) Render() (string, error) {
	var buf bytes.Buffer
	buf.WriteString(fence + "\n")
	if len(n.Meta) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(n.Meta); err != nil {
			return "", fmt.Errorf("marshal frontmatter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("marshal frontmatter: %w", err)
		}
	}
	buf.WriteString(fence + "\n")
	if n.Body != "" && !strings.HasPrefix(n.Body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}
