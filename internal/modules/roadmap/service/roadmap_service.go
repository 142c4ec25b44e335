package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"kgview/internal/modules/roadmap/domain"
	roadmapout "kgview/internal/modules/roadmap/port/out"
	apperrors "kgview/internal/platform/errors"
	"kgview/internal/platform/markdown"
	"kgview/internal/platform/slug"
)

var roadmapBlock = markdown.Block{
	Start: "<!-- kgview:roadmap:start -->",
	End:   "<!-- kgview:roadmap:end -->",
}

type RoadmapService struct {
	source  roadmapout.RoadmapSource
	notes   roadmapout.NoteStore
	palette []string
	logger  *slog.Logger
}

func NewRoadmapService(source roadmapout.RoadmapSource, notes roadmapout.NoteStore, palette []string, logger *slog.Logger) *RoadmapService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &RoadmapService{source: source, notes: notes, palette: palette, logger: logger}
}

func (s *RoadmapService) Palette() []string { return s.palette }

// Generate asks the roadmap service for query. Items with a priority
// outside 1..6 are kept; they render with the default colour.
func (s *RoadmapService) Generate(ctx context.Context, query string) (domain.Roadmap, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Roadmap{}, fmt.Errorf("%w: roadmap query is required", apperrors.ErrInvalidInput)
	}
	if s.source == nil {
		return domain.Roadmap{}, fmt.Errorf("%w: roadmap source is not configured", apperrors.ErrInvalidInput)
	}
	r, err := s.source.Generate(ctx, query)
	if err != nil {
		s.logger.Warn("roadmap generation failed", "query", query, "error", err)
		return domain.Roadmap{}, err
	}
	r.Query = query
	s.logger.Debug("roadmap generated", "query", query, "items", len(r.Items))
	return r, nil
}

// Export generates the roadmap and replaces the managed block of the note
// at path with it. An empty path derives the note name from the query.
func (s *RoadmapService) Export(ctx context.Context, query, path string) (string, domain.Roadmap, error) {
	if s.notes == nil {
		return "", domain.Roadmap{}, fmt.Errorf("%w: note store is not configured", apperrors.ErrInvalidInput)
	}
	r, err := s.Generate(ctx, query)
	if err != nil {
		return "", domain.Roadmap{}, err
	}
	if path == "" {
		path = slug.File(r.Query+" roadmap", "md")
	}
	existing, err := s.notes.Read(ctx, path)
	if err != nil {
		return "", domain.Roadmap{}, err
	}
	_, replacing := roadmapBlock.Extract(existing)
	content := roadmapBlock.Replace(existing, r.Markdown())
	saved, err := s.notes.Write(ctx, path, content)
	if err != nil {
		return "", domain.Roadmap{}, err
	}
	s.logger.Info("roadmap exported", "query", r.Query, "path", saved, "items", len(r.Items), "replaced", replacing)
	return saved, r, nil
}
