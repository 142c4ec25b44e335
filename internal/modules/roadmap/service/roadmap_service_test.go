package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgview/internal/modules/roadmap/domain"
	"kgview/internal/modules/roadmap/service"
	apperrors "kgview/internal/platform/errors"
)

type fakeSource struct {
	calls []string
	items []domain.Item
	err   error
}

func (f *fakeSource) Generate(_ context.Context, query string) (domain.Roadmap, error) {
	f.calls = append(f.calls, query)
	if f.err != nil {
		return domain.Roadmap{}, f.err
	}
	return domain.Roadmap{Items: f.items}, nil
}

type memoryNotes struct{ files map[string]string }

func (m *memoryNotes) Read(_ context.Context, path string) (string, error) {
	return m.files[path], nil
}

func (m *memoryNotes) Write(_ context.Context, path, content string) (string, error) {
	m.files[path] = content
	return "/notes/" + path, nil
}

func items() []domain.Item {
	return []domain.Item{
		{Entity: "Sets", Relationship: "basis", Priority: 1},
		{Entity: "Graphs", Relationship: "built on sets", Priority: 2},
	}
}

func TestGenerateTrimsQuery(t *testing.T) {
	t.Parallel()
	src := &fakeSource{items: items()}
	svc := service.NewRoadmapService(src, nil, nil, nil)

	r, err := svc.Generate(context.Background(), "  discrete math ")
	require.NoError(t, err)
	assert.Equal(t, []string{"discrete math"}, src.calls)
	assert.Equal(t, "discrete math", r.Query)
	assert.Len(t, r.Items, 2)
}

func TestGenerateRejectsBlankQuery(t *testing.T) {
	t.Parallel()
	src := &fakeSource{}
	svc := service.NewRoadmapService(src, nil, nil, nil)

	_, err := svc.Generate(context.Background(), "   ")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, src.calls)
}

func TestGeneratePropagatesUpstreamError(t *testing.T) {
	t.Parallel()
	upstream := errors.Join(apperrors.ErrUpstream, errors.New("503"))
	svc := service.NewRoadmapService(&fakeSource{err: upstream}, nil, nil, nil)

	_, err := svc.Generate(context.Background(), "x")
	require.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestExportWritesManagedBlockIntoNewNote(t *testing.T) {
	t.Parallel()
	notes := &memoryNotes{files: map[string]string{}}
	svc := service.NewRoadmapService(&fakeSource{items: items()}, notes, nil, nil)

	path, r, err := svc.Export(context.Background(), "Discrete Math", "")
	require.NoError(t, err)
	assert.Equal(t, "/notes/discrete-math-roadmap.md", path)
	assert.Len(t, r.Items, 2)

	content := notes.files["discrete-math-roadmap.md"]
	assert.True(t, strings.HasPrefix(content, "<!-- kgview:roadmap:start -->\n### Roadmap: Discrete Math"))
	assert.Contains(t, content, "2. **Graphs**: built on sets (priority 2)\n<!-- kgview:roadmap:end -->")
}

func TestExportKeepsSurroundingNote(t *testing.T) {
	t.Parallel()
	notes := &memoryNotes{files: map[string]string{
		"study.md": "# Study\n\n<!-- kgview:roadmap:start -->\nold\n<!-- kgview:roadmap:end -->\n\nmy notes\n",
	}}
	svc := service.NewRoadmapService(&fakeSource{items: items()}, notes, nil, nil)

	_, _, err := svc.Export(context.Background(), "sets", "study.md")
	require.NoError(t, err)

	content := notes.files["study.md"]
	assert.True(t, strings.HasPrefix(content, "# Study\n\n<!-- kgview:roadmap:start -->\n### Roadmap: sets"))
	assert.True(t, strings.HasSuffix(content, "<!-- kgview:roadmap:end -->\n\nmy notes\n"))
	assert.NotContains(t, content, "old")
}
