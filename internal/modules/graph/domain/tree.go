package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type DocumentKind string

const (
	// DocumentSubject is a {subject, topics} wrapper; the root is synthesised.
	DocumentSubject DocumentKind = "subject"
	// DocumentSentinel is a titled tree whose title is the configured root marker.
	DocumentSentinel DocumentKind = "sentinel"
	// DocumentTitled is a titled tree whose top node is itself the root.
	DocumentTitled DocumentKind = "titled"
)

// Topic is the single canonical tree shape every producer format is
// normalised into before flattening.
type Topic struct {
	Label       string
	Description string
	Children    []Topic
}

type Document struct {
	Kind DocumentKind
	Root Topic
}

// RawTree is a decoded, not yet normalised, input tree as returned by a
// tree source. Digest identifies the content so unchanged trees are not
// flattened twice.
type RawTree struct {
	Key    string
	Digest string
	Value  any
}

// Normalize converts any decoded JSON/YAML/TOML value into a Document.
// It never fails: unexpected shapes degrade to empty labels and leaves.
func Normalize(raw any, sentinel string) Document {
	if v := asMap(raw); v != nil {
		if subject, ok := v["subject"]; ok {
			return Document{
				Kind: DocumentSubject,
				Root: Topic{Label: asLabel(subject), Children: topicList(v["topics"])},
			}
		}
		root := normalizeTopic(v)
		if sentinel != "" && root.Label == sentinel {
			return Document{Kind: DocumentSentinel, Root: root}
		}
		return Document{Kind: DocumentTitled, Root: root}
	}
	if items, ok := asList(raw); ok {
		return Document{Kind: DocumentSubject, Root: Topic{Children: topicList(items)}}
	}
	return Document{Kind: DocumentTitled, Root: normalizeEntry(raw)}
}

func normalizeEntry(raw any) Topic {
	if m := asMap(raw); m != nil {
		return normalizeTopic(m)
	}
	return Topic{Label: asString(raw)}
}

func normalizeTopic(m map[string]any) Topic {
	t := Topic{Label: firstString(m, "title", "topic", "name")}
	def := asMap(m["definition"])
	if def != nil {
		t.Description = firstString(def, "title", "description")
	}
	if t.Description == "" {
		t.Description = asString(m["description"])
	}
	var children []any
	if def != nil {
		if items, ok := asList(def["topics"]); ok {
			children = items
		}
	}
	if children == nil {
		if items, ok := asList(m["topics"]); ok {
			children = items
		}
	}
	t.Children = topicList(children)
	return t
}

func topicList(raw any) []Topic {
	items, ok := asList(raw)
	if !ok || len(items) == 0 {
		return nil
	}
	out := make([]Topic, 0, len(items))
	for _, item := range items {
		out = append(out, normalizeEntry(item))
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asLabel(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case fmt.Stringer:
		return strings.TrimSpace(s.String())
	default:
		return ""
	}
}

// asLabel is asString plus numbers and booleans under a label key. Zero
// numbers and false count as missing so the next candidate key is tried.
func asLabel(v any) string {
	switch s := v.(type) {
	case float64:
		if s == 0 || math.IsNaN(s) {
			return ""
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return nonZero(int64(s))
	case int64:
		return nonZero(s)
	case uint64:
		if s == 0 {
			return ""
		}
		return strconv.FormatUint(s, 10)
	case bool:
		if !s {
			return ""
		}
		return "true"
	default:
		return asString(v)
	}
}

func nonZero(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}

// asMap accepts the map flavours produced by encoding/json, yaml.v3 and
// BurntSushi/toml.
func asMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out
	default:
		return nil
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, true
	case []string:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, true
	default:
		return nil, false
	}
}

// Digest is the content hash sources attach to a RawTree.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
