package server_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgview/internal/platform/clock"
	"kgview/internal/server"
)

type fixedIDs struct{}

func (fixedIDs) New() string { return "00000000-0000-4000-8000-000000000001" }

type echoRoutes struct{}

func (echoRoutes) Register(r gin.IRouter) {
	r.GET("/v1/echo", func(c *gin.Context) { c.String(http.StatusOK, "echo") })
	r.GET("/v1/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })
	r.GET("/v1/panic", func(*gin.Context) { panic("render blew up") })
}

func newServer(t *testing.T) (*server.Server, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	return server.New(server.Options{IDs: fixedIDs{}, Registry: reg}, echoRoutes{}), reg
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "00000000-0000-4000-8000-000000000001", w.Header().Get(server.RequestIDHeader))
}

func TestRequestIDIsKeptWhenValid(t *testing.T) {
	t.Parallel()
	srv, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	req.Header.Set(server.RequestIDHeader, "6f1c1a4e-8f5e-4a6b-9d2e-1b2c3d4e5f60")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "6f1c1a4e-8f5e-4a6b-9d2e-1b2c3d4e5f60", w.Header().Get(server.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/v1/echo", nil)
	req.Header.Set(server.RequestIDHeader, "bogus\nid")
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, "00000000-0000-4000-8000-000000000001", w.Header().Get(server.RequestIDHeader))
}

func TestMetricsCountRequestsByRoute(t *testing.T) {
	t.Parallel()
	srv, reg := newServer(t)

	for _, path := range []string{"/v1/echo", "/v1/echo", "/v1/fail", "/missing"} {
		srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "kgview_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			counts[labels["route"]+" "+labels["code"]] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, counts["/v1/echo 200"])
	assert.Equal(t, 1.0, counts["/v1/fail 502"])
	assert.Equal(t, 1.0, counts["unmatched 404"])

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "kgview_http_request_duration_seconds"))
}

func TestDurationUsesClock(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	clk := clock.NewStepped(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 250*time.Millisecond)
	srv := server.New(server.Options{IDs: fixedIDs{}, Registry: reg, Clock: clk}, echoRoutes{})

	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/echo", nil))

	families, err := reg.Gather()
	require.NoError(t, err)
	var sum float64
	var count uint64
	for _, mf := range families {
		if mf.GetName() != "kgview_http_request_duration_seconds" {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetHistogram().GetSampleSum()
			count += m.GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(1), count)
	assert.InDelta(t, 0.25, sum, 1e-9)
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	srv, _ := newServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestPanickingHandlerIsRecordedAs500(t *testing.T) {
	t.Parallel()
	srv, reg := newServer(t)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	var requests, inFlight float64
	for _, mf := range families {
		switch mf.GetName() {
		case "kgview_http_requests_total":
			for _, m := range mf.GetMetric() {
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "code" && lp.GetValue() == "500" {
						requests += m.GetCounter().GetValue()
					}
				}
			}
		case "kgview_http_requests_in_flight":
			for _, m := range mf.GetMetric() {
				inFlight += m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 1.0, requests)
	assert.Zero(t, inFlight)
}
