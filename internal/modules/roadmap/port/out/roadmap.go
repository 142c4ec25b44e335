package out

import (
	"context"

	"kgview/internal/modules/roadmap/domain"
)

type RoadmapSource interface {
	Generate(ctx context.Context, query string) (domain.Roadmap, error)
}

// NoteStore reads and writes markdown notes. Read returns "" and no error
// for a note that does not exist yet.
type NoteStore interface {
	Read(ctx context.Context, path string) (string, error)
	Write(ctx context.Context, path, content string) (string, error)
}
