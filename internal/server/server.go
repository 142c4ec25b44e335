// Package server hosts the HTTP render service: module routes plus health,
// metrics and request-id middleware.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"kgview/internal/platform/clock"
	"kgview/internal/platform/id"
)

const RequestIDHeader = "X-Request-ID"

// Routes is implemented by module HTTP adapters.
type Routes interface {
	Register(r gin.IRouter)
}

type Options struct {
	Addr            string
	Logger          *slog.Logger
	Clock           clock.Clock
	IDs             id.Generator
	Registry        *prometheus.Registry
	ShutdownTimeout time.Duration
}

type Server struct {
	opts    Options
	engine  *gin.Engine
	metrics *Metrics
}

func New(opts Options, routes ...Routes) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = id.UUID{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{opts: opts, metrics: NewMetrics(opts.Registry)}

	engine := gin.New()
	// Recovery runs inside observe so panicking handlers are counted as 500s.
	engine.Use(s.requestID(), s.observe(), gin.Recovery())
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	for _, r := range routes {
		r.Register(engine)
	}
	s.engine = engine
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.opts.Logger.Info("render service listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.opts.Logger.Info("render service shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if !id.Valid(requestID) {
			requestID = s.opts.IDs.New()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.opts.Clock.Now()
		s.metrics.inFlight.Inc()
		defer s.metrics.inFlight.Dec()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := s.opts.Clock.Now().Sub(start)
		code := c.Writer.Status()
		s.metrics.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(code)).Inc()
		s.metrics.duration.WithLabelValues(route).Observe(elapsed.Seconds())

		level := slog.LevelInfo
		if code >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.opts.Logger.Log(c.Request.Context(), level, "request",
			"request_id", c.GetString("request_id"),
			"method", c.Request.Method,
			"route", route,
			"status", code,
			"bytes", c.Writer.Size(),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
