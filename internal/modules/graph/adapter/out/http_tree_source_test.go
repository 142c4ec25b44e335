package out_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphadapter "kgview/internal/modules/graph/adapter/out"
	"kgview/internal/modules/graph/domain"
	apperrors "kgview/internal/platform/errors"
)

func TestHTTPTreeSourceFetch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tree":
			w.Header().Set("Content-Type", "application/x-yaml")
			_, _ = io.WriteString(w, "subject: CS\ntopics: [{title: AI}]\n")
		case "/tree.json":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = io.WriteString(w, `{"title":"Go"}`)
		default:
			http.Error(w, "boom", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)

	src := graphadapter.NewHTTPTreeSource(srv.Client(), graphadapter.NewTreeCodec())
	assert.True(t, src.Supports(srv.URL))
	assert.False(t, src.Supports("cs.json"))

	raw, err := src.Fetch(context.Background(), srv.URL+"/tree")
	require.NoError(t, err)
	assert.Len(t, domain.Flatten(domain.Normalize(raw.Value, "")), 2)

	raw, err = src.Fetch(context.Background(), srv.URL+"/tree.json")
	require.NoError(t, err)
	assert.Equal(t, "Go", domain.Normalize(raw.Value, "").Root.Label)

	_, err = src.Fetch(context.Background(), srv.URL+"/fail")
	assert.ErrorIs(t, err, apperrors.ErrUpstream)
}

func TestHTTPGraphGeneratorUploadsMultipart(t *testing.T) {
	t.Parallel()
	pdfPath := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4 fake"), 0o644))

	var gotName string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotName = header.Filename
		gotBody, _ = io.ReadAll(file)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"title":"The Brain","topics":[{"title":"Cells"}]}`)
	}))
	t.Cleanup(srv.Close)

	gen := graphadapter.NewHTTPGraphGenerator(srv.URL, srv.Client(), graphadapter.NewTreeCodec())
	raw, err := gen.Generate(context.Background(), pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "notes.pdf", gotName)
	assert.Equal(t, "%PDF-1.4 fake", string(gotBody))
	assert.Len(t, domain.Flatten(domain.Normalize(raw.Value, "The Brain")), 2)
}

func TestHTTPGraphGeneratorUpstreamFailure(t *testing.T) {
	t.Parallel()
	pdfPath := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF"), 0o644))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	gen := graphadapter.NewHTTPGraphGenerator(srv.URL, srv.Client(), graphadapter.NewTreeCodec())
	_, err := gen.Generate(context.Background(), pdfPath)
	assert.ErrorIs(t, err, apperrors.ErrUpstream)

	_, err = graphadapter.NewHTTPGraphGenerator("", nil, graphadapter.NewTreeCodec()).Generate(context.Background(), pdfPath)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
