package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"kgview/internal/modules/graph/domain"
	graphout "kgview/internal/modules/graph/port/out"
	apperrors "kgview/internal/platform/errors"
	"kgview/internal/platform/slug"
)

type Ports struct {
	Sources   []graphout.TreeSource
	Exporters []graphout.Exporter
	Codec     graphout.TreeCodec
	Artifacts graphout.ArtifactStore
	Generator graphout.GraphGenerator
	Probe     graphout.DocumentProbe
	Store     graphout.TreeStore
}

// DefaultMaxRenderPixels bounds a rendered frame when Options leaves
// MaxRenderPixels unset.
const DefaultMaxRenderPixels = 40_000_000

type Options struct {
	Sentinel    string
	Layout      domain.LayoutConfig
	Viewport    domain.ViewportConfig
	MaxPDFPages int
	// MaxRenderPixels caps width*height of one rendered frame.
	MaxRenderPixels int
	Logger          *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Sentinel:        "The Brain",
		Layout:          domain.DefaultLayoutConfig(),
		Viewport:        domain.DefaultViewportConfig(),
		MaxRenderPixels: DefaultMaxRenderPixels,
	}
}

// RenderOptions frames one exported image: Zoom counts zoom-in (positive)
// or zoom-out (negative) steps from the initial view. A non-nil Camera
// overrides Zoom and FocusID.
type RenderOptions struct {
	Format    string
	Width     int
	Height    int
	Zoom      int
	FocusID   string
	HoveredID string
	Camera    *domain.Camera
}

type GraphService struct {
	sources   []graphout.TreeSource
	exporters map[string]graphout.Exporter
	codec     graphout.TreeCodec
	artifacts graphout.ArtifactStore
	generator graphout.GraphGenerator
	probe     graphout.DocumentProbe
	store     graphout.TreeStore
	renderer  Renderer
	opts      Options
	logger    *slog.Logger

	mu    sync.Mutex
	cache map[string]domain.Scene
}

func NewGraphService(ports Ports, renderer Renderer, opts Options) *GraphService {
	exporters := make(map[string]graphout.Exporter, len(ports.Exporters))
	for _, exp := range ports.Exporters {
		exporters[strings.ToLower(exp.Format())] = exp
	}
	if opts.MaxRenderPixels <= 0 {
		opts.MaxRenderPixels = DefaultMaxRenderPixels
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GraphService{
		sources:   ports.Sources,
		exporters: exporters,
		codec:     ports.Codec,
		artifacts: ports.Artifacts,
		generator: ports.Generator,
		probe:     ports.Probe,
		store:     ports.Store,
		renderer:  renderer,
		opts:      opts,
		logger:    logger,
		cache:     map[string]domain.Scene{},
	}
}

func (s *GraphService) Renderer() Renderer { return s.renderer }

// Scene fetches source and returns its scene. Flatten and layout only run
// when the source content changed since the last call.
func (s *GraphService) Scene(ctx context.Context, source string) (domain.Scene, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return domain.Scene{}, fmt.Errorf("%w: source is required", apperrors.ErrInvalidInput)
	}
	src, err := s.sourceFor(source)
	if err != nil {
		return domain.Scene{}, err
	}
	raw, err := s.fetch(ctx, src, source)
	if err != nil {
		return domain.Scene{}, err
	}
	return s.build(raw), nil
}

func (s *GraphService) fetch(ctx context.Context, src graphout.TreeSource, source string) (domain.RawTree, error) {
	raw, err := src.Fetch(ctx, source)
	if err != nil {
		s.logger.Warn("fetch tree failed", "source", source, "error", err)
		return domain.RawTree{}, err
	}
	if raw.Key == "" {
		raw.Key = source
	}
	return raw, nil
}

// Import copies the tree behind source into the tree store under target
// and returns the scene read back from the store.
func (s *GraphService) Import(ctx context.Context, source, target string) (domain.Scene, error) {
	if s.store == nil {
		return domain.Scene{}, fmt.Errorf("%w: no tree store configured", apperrors.ErrInvalidInput)
	}
	source, target = strings.TrimSpace(source), strings.TrimSpace(target)
	if source == "" || target == "" {
		return domain.Scene{}, fmt.Errorf("%w: source and target are required", apperrors.ErrInvalidInput)
	}
	src, err := s.sourceFor(source)
	if err != nil {
		return domain.Scene{}, err
	}
	raw, err := s.fetch(ctx, src, source)
	if err != nil {
		return domain.Scene{}, err
	}
	if err := s.store.Put(ctx, target, raw.Value); err != nil {
		return domain.Scene{}, err
	}
	s.logger.Info("tree imported", "source", source, "target", target)
	return s.Scene(ctx, target)
}

func (s *GraphService) sourceFor(source string) (graphout.TreeSource, error) {
	for _, src := range s.sources {
		if src.Supports(source) {
			return src, nil
		}
	}
	return nil, fmt.Errorf("%w: no tree source for %q", apperrors.ErrUnsupportedFormat, source)
}

func (s *GraphService) build(raw domain.RawTree) domain.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[raw.Key]; ok && raw.Digest != "" && cached.Digest == raw.Digest {
		return cached
	}
	scene := domain.BuildScene(raw, s.opts.Sentinel, s.opts.Layout)
	s.cache[raw.Key] = scene
	s.logger.Debug("scene built",
		"key", raw.Key,
		"nodes", len(scene.Nodes),
		"depth", domain.MaxDepth(scene.Nodes),
	)
	return scene
}

// Document builds a scene from an in-memory tree document. Documents are
// not cached.
func (s *GraphService) Document(hint string, body []byte) (domain.Scene, error) {
	if len(body) == 0 {
		return domain.Scene{}, fmt.Errorf("%w: empty document", apperrors.ErrInvalidInput)
	}
	if s.codec == nil {
		return domain.Scene{}, fmt.Errorf("%w: no tree codec", apperrors.ErrUnsupportedFormat)
	}
	value, err := s.codec.Decode(hint, body)
	if err != nil {
		return domain.Scene{}, err
	}
	digest := domain.Digest(body)
	raw := domain.RawTree{Key: "document:" + digest, Digest: digest, Value: value}
	return domain.BuildScene(raw, s.opts.Sentinel, s.opts.Layout), nil
}

// Frame returns the settled camera for an export: Zoom button presses from
// the initial view, then centred on FocusID when it names a node.
func (s *GraphService) Frame(scene domain.Scene, zoom int, focusID string) domain.Camera {
	vp := domain.NewViewport(s.opts.Viewport)
	for i := 0; i < zoom; i++ {
		vp.ZoomIn()
	}
	for i := 0; i > zoom; i-- {
		vp.ZoomOut()
	}
	if focusID != "" {
		if pos, ok := scene.Positions[focusID]; ok {
			vp.CenterOn(pos)
		}
	}
	return vp.Target()
}

func (s *GraphService) Draw(surface graphout.Surface, scene domain.Scene, cam domain.Camera, hoveredID string) {
	s.renderer.Draw(surface, scene, cam, hoveredID)
}

// Render draws one frame of scene and encodes it. It returns the encoded
// image and its MIME type.
func (s *GraphService) Render(scene domain.Scene, opts RenderOptions) ([]byte, string, error) {
	exp, ok := s.exporters[strings.ToLower(strings.TrimSpace(opts.Format))]
	if !ok {
		return nil, "", fmt.Errorf("%w: render format %q", apperrors.ErrUnsupportedFormat, opts.Format)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, "", fmt.Errorf("%w: render size %dx%d", apperrors.ErrInvalidInput, opts.Width, opts.Height)
	}
	if opts.Width > s.opts.MaxRenderPixels/opts.Height {
		return nil, "", fmt.Errorf("%w: render size %dx%d exceeds %d pixels",
			apperrors.ErrInvalidInput, opts.Width, opts.Height, s.opts.MaxRenderPixels)
	}
	cam := s.Frame(scene, opts.Zoom, opts.FocusID)
	if opts.Camera != nil && opts.Camera.Width > 0 && opts.Camera.Height > 0 {
		cam = *opts.Camera
	}
	surface := exp.NewSurface(opts.Width, opts.Height)
	s.renderer.Draw(surface, scene, cam, opts.HoveredID)

	var buf bytes.Buffer
	if err := surface.Encode(&buf); err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", exp.Format(), err)
	}
	return buf.Bytes(), exp.ContentType(), nil
}

// Export renders source and saves the image. An empty path derives the
// file name from the scene title.
func (s *GraphService) Export(ctx context.Context, source, path string, opts RenderOptions) (string, int, domain.Scene, error) {
	scene, err := s.Scene(ctx, source)
	if err != nil {
		return "", 0, domain.Scene{}, err
	}
	data, _, err := s.Render(scene, opts)
	if err != nil {
		return "", 0, domain.Scene{}, err
	}
	if path == "" {
		path = slug.File(scene.Title, opts.Format)
	}
	saved, err := s.artifacts.Save(ctx, path, data)
	if err != nil {
		return "", 0, domain.Scene{}, err
	}
	s.logger.Info("scene exported", "source", source, "path", saved, "bytes", len(data))
	return saved, len(data), scene, nil
}

type Generated struct {
	Pages int
	Path  string
	Scene domain.Scene
}

// Generate uploads a PDF to the generation service after checking it opens
// and is within the page limit, then saves the returned tree.
func (s *GraphService) Generate(ctx context.Context, pdfPath, outPath string) (Generated, error) {
	if s.generator == nil || s.probe == nil {
		return Generated{}, fmt.Errorf("%w: graph generation is not configured", apperrors.ErrInvalidInput)
	}
	pdfPath = strings.TrimSpace(pdfPath)
	if pdfPath == "" {
		return Generated{}, fmt.Errorf("%w: pdf path is required", apperrors.ErrInvalidInput)
	}
	pages, err := s.probe.PageCount(pdfPath)
	if err != nil {
		return Generated{}, err
	}
	if pages == 0 {
		return Generated{}, fmt.Errorf("%w: %s has no pages", apperrors.ErrInvalidInput, pdfPath)
	}
	if s.opts.MaxPDFPages > 0 && pages > s.opts.MaxPDFPages {
		return Generated{}, fmt.Errorf("%w: %s has %d pages, limit is %d", apperrors.ErrInvalidInput, pdfPath, pages, s.opts.MaxPDFPages)
	}

	raw, err := s.generator.Generate(ctx, pdfPath)
	if err != nil {
		s.logger.Error("graph generation failed", "pdf", pdfPath, "error", err)
		return Generated{}, err
	}
	scene := domain.BuildScene(raw, s.opts.Sentinel, s.opts.Layout)
	if outPath == "" {
		outPath = slug.File(scene.Title, "json")
	}
	saved, err := s.saveTree(ctx, outPath, raw.Value)
	if err != nil {
		return Generated{}, err
	}
	s.logger.Info("graph generated", "pdf", pdfPath, "pages", pages, "path", saved, "nodes", len(scene.Nodes))
	return Generated{Pages: pages, Path: saved, Scene: scene}, nil
}

// saveTree writes value to the tree store when it owns ref, otherwise
// encodes it as a file named ref.
func (s *GraphService) saveTree(ctx context.Context, ref string, value any) (string, error) {
	if s.store != nil && s.store.Supports(ref) {
		if err := s.store.Put(ctx, ref, value); err != nil {
			return "", err
		}
		return ref, nil
	}
	if s.codec == nil || s.artifacts == nil {
		return "", fmt.Errorf("%w: no artifact store configured", apperrors.ErrInvalidInput)
	}
	data, err := s.codec.Encode(ref, value)
	if err != nil {
		return "", err
	}
	return s.artifacts.Save(ctx, ref, data)
}
