package out

import (
	"context"
	"io"

	"kgview/internal/modules/graph/domain"
)

// TreeSource resolves one family of source strings (file path, sqlite
// reference, URL) to a decoded tree.
type TreeSource interface {
	Supports(source string) bool
	Fetch(ctx context.Context, source string) (domain.RawTree, error)
}

// Surface is an immediate-mode drawing target addressed in scene
// coordinates. Clear fixes the camera for every later call of the frame.
type Surface interface {
	Clear(view domain.Camera, background string)
	Line(from, to domain.Position, stroke string, width float64)
	Circle(center domain.Position, radius float64, fill, stroke string, strokeWidth float64)
	Text(block domain.LabelBlock, x float64, fill string)
}

type ExportSurface interface {
	Surface
	Encode(w io.Writer) error
}

type Exporter interface {
	Format() string
	ContentType() string
	NewSurface(width, height int) ExportSurface
}

type DocumentProbe interface {
	PageCount(path string) (int, error)
}

// GraphGenerator submits a document to the knowledge-graph generation
// service and returns the tree it produced.
type GraphGenerator interface {
	Generate(ctx context.Context, pdfPath string) (domain.RawTree, error)
}

// TreeCodec converts between tree documents and decoded values. The hint
// is a file name, an extension, a MIME type or a bare format name; an
// empty hint means JSON or YAML.
type TreeCodec interface {
	Decode(hint string, data []byte) (any, error)
	Encode(hint string, value any) ([]byte, error)
}

// TreeStore persists a decoded tree under a store reference such as
// "sqlite:<db>#<tree>".
type TreeStore interface {
	Supports(ref string) bool
	Put(ctx context.Context, ref string, value any) error
}

type ArtifactStore interface {
	Save(ctx context.Context, path string, data []byte) (string, error)
}
