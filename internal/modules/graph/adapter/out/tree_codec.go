package out

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperrors "kgview/internal/platform/errors"
	"kgview/internal/platform/markdown"
)

const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatTOML     = "toml"
	FormatMarkdown = "markdown"
)

// TreeCodec reads and writes tree documents as JSON, YAML, TOML, or
// markdown whose frontmatter holds the tree.
type TreeCodec struct{}

func NewTreeCodec() TreeCodec { return TreeCodec{} }

// FormatOf maps a file name, extension, MIME type or bare format name to
// a format constant. It returns "" for an empty hint.
func FormatOf(hint string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return "", true
	}
	if i := strings.Index(h, ";"); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}
	if strings.Contains(h, "/") && !strings.ContainsAny(h, `.\`) {
		switch {
		case strings.HasSuffix(h, "json"):
			return FormatJSON, true
		case strings.HasSuffix(h, "yaml"), strings.HasSuffix(h, "yml"):
			return FormatYAML, true
		case strings.HasSuffix(h, "toml"):
			return FormatTOML, true
		case strings.HasSuffix(h, "markdown"):
			return FormatMarkdown, true
		case h == "text/plain", h == "application/octet-stream":
			return "", true
		}
		return "", false
	}
	if ext := filepath.Ext(h); ext != "" {
		h = ext
	}
	switch strings.TrimPrefix(h, ".") {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "toml":
		return FormatTOML, true
	case "md", "markdown":
		return FormatMarkdown, true
	}
	return "", false
}

func (TreeCodec) Decode(hint string, data []byte) (any, error) {
	format, ok := FormatOf(hint)
	if !ok {
		return nil, fmt.Errorf("%w: tree document %q", apperrors.ErrUnsupportedFormat, hint)
	}
	var value any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("%w: decode json tree: %v", apperrors.ErrInvalidInput, err)
		}
	case FormatTOML:
		table := map[string]any{}
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("%w: decode toml tree: %v", apperrors.ErrInvalidInput, err)
		}
		value = table
	case FormatMarkdown:
		note, err := markdown.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("%w: decode markdown tree: %v", apperrors.ErrInvalidInput, err)
		}
		meta := note.Meta
		if _, ok := meta["title"]; !ok {
			if h := note.Heading(); h != "" {
				meta["title"] = h
			}
		}
		if _, ok := meta["description"]; !ok && strings.TrimSpace(note.Body) != "" {
			meta["description"] = strings.TrimSpace(note.Body)
		}
		value = meta
	default:
		// JSON is a subset of YAML.
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, fmt.Errorf("%w: decode yaml tree: %v", apperrors.ErrInvalidInput, err)
		}
	}
	return value, nil
}

func (TreeCodec) Encode(hint string, value any) ([]byte, error) {
	format, ok := FormatOf(hint)
	if !ok {
		return nil, fmt.Errorf("%w: tree document %q", apperrors.ErrUnsupportedFormat, hint)
	}
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode yaml tree: %w", err)
		}
		return data, nil
	case FormatTOML:
		table, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: toml needs a table at the top level", apperrors.ErrUnsupportedFormat)
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(table); err != nil {
			return nil, fmt.Errorf("encode toml tree: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMarkdown:
		meta, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: markdown needs a mapping at the top level", apperrors.ErrUnsupportedFormat)
		}
		doc, err := markdown.Note{Meta: meta}.Render()
		if err != nil {
			return nil, err
		}
		return []byte(doc), nil
	default:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json tree: %w", err)
		}
		return append(data, '\n'), nil
	}
}
