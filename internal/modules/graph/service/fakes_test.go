package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"kgview/internal/modules/graph/domain"
	graphout "kgview/internal/modules/graph/port/out"
	apperrors "kgview/internal/platform/errors"
)

type op struct {
	kind  string
	fill  string
	lines []string
	from  domain.Position
	to    domain.Position
}

type recordingSurface struct {
	ops  []op
	view domain.Camera
}

func (s *recordingSurface) Clear(view domain.Camera, _ string) {
	s.view = view
	s.ops = append(s.ops, op{kind: "clear"})
}

func (s *recordingSurface) Line(from, to domain.Position, _ string, _ float64) {
	s.ops = append(s.ops, op{kind: "line", from: from, to: to})
}

func (s *recordingSurface) Circle(_ domain.Position, _ float64, fill, _ string, _ float64) {
	s.ops = append(s.ops, op{kind: "circle", fill: fill})
}

func (s *recordingSurface) Text(block domain.LabelBlock, _ float64, _ string) {
	s.ops = append(s.ops, op{kind: "text", lines: block.Lines})
}

func (s *recordingSurface) Encode(w io.Writer) error {
	_, err := fmt.Fprintf(w, "ops=%d", len(s.ops))
	return err
}

func (s *recordingSurface) kinds() []string {
	out := make([]string, 0, len(s.ops))
	for _, o := range s.ops {
		out = append(out, o.kind)
	}
	return out
}

type fakeExporter struct {
	format string
	last   *recordingSurface
}

func (e *fakeExporter) Format() string      { return e.format }
func (e *fakeExporter) ContentType() string { return "text/plain" }
func (e *fakeExporter) NewSurface(int, int) graphout.ExportSurface {
	e.last = &recordingSurface{}
	return e.last
}

type memorySource struct {
	trees   map[string]domain.RawTree
	fetches int
}

func (m *memorySource) Supports(source string) bool { return strings.HasPrefix(source, "mem:") }

func (m *memorySource) Fetch(_ context.Context, source string) (domain.RawTree, error) {
	m.fetches++
	tree, ok := m.trees[source]
	if !ok {
		return domain.RawTree{}, fmt.Errorf("%w: %s", apperrors.ErrNotFound, source)
	}
	return tree, nil
}

type jsonCodec struct{}

func (jsonCodec) Decode(_ string, data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return v, nil
}

func (jsonCodec) Encode(_ string, value any) ([]byte, error) {
	return json.Marshal(value)
}

type memoryArtifacts struct {
	saved map[string][]byte
}

func (m *memoryArtifacts) Save(_ context.Context, path string, data []byte) (string, error) {
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[path] = data
	return path, nil
}

type fakeProbe struct {
	pages int
	err   error
}

func (p fakeProbe) PageCount(string) (int, error) { return p.pages, p.err }

type fakeGenerator struct {
	tree  domain.RawTree
	calls int
}

func (g *fakeGenerator) Generate(context.Context, string) (domain.RawTree, error) {
	g.calls++
	return g.tree, nil
}

func decode(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		panic(err)
	}
	return v
}

// sourceStore writes into a memorySource so imports can be read back.
type sourceStore struct{ src *memorySource }

func (s sourceStore) Supports(ref string) bool { return strings.HasPrefix(ref, "mem:") }

func (s sourceStore) Put(_ context.Context, ref string, value any) error {
	s.src.trees[ref] = domain.RawTree{Digest: "imported", Value: value}
	return nil
}
