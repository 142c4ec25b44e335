package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgview/internal/platform/config"
	"kgview/internal/platform/logging"
)

func TestConfigMapping(t *testing.T) {
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 1000, 800
	cfg.Layout.RingSpacing = 300
	cfg.Style.Background = "#000000"

	layout := Layout(cfg)
	assert.Equal(t, 1000.0, layout.Width)
	assert.Equal(t, 300.0, layout.RingSpacing)

	vp := Viewport(cfg)
	assert.Equal(t, 1000.0, vp.Initial.Width)
	assert.Equal(t, 800.0, vp.Initial.Height)
	assert.Equal(t, 1.0, vp.Initial.Scale)
	assert.Equal(t, cfg.Viewport.ZoomStep, vp.ZoomStep)

	style := Style(cfg)
	style.Palette[0] = "#123456"
	assert.Equal(t, "#FF4086", cfg.Style.Palette[0])

	assert.Equal(t, "#000000", Theme(cfg).Background)
}

func TestNewWiresServer(t *testing.T) {
	cfg := config.Default()
	cfg.Export.Dir = t.TempDir()
	cfg.Log.Dir = filepath.Join(t.TempDir(), "logs")
	logger, err := logging.New(logging.Config{Level: "debug", Dir: cfg.Log.Dir})
	require.NoError(t, err)

	app, err := New(cfg, logger)
	require.NoError(t, err)
	defer app.Close()

	srv := NewServer(app, "127.0.0.1:0")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
