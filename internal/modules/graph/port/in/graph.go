package in

import (
	"context"

	"kgview/internal/modules/graph/dto"
	graphout "kgview/internal/modules/graph/port/out"
)

// Surface is the drawing target callers hand to Draw.
type Surface = graphout.Surface

type Usecase interface {
	LoadScene(ctx context.Context, source string) (dto.LoadedScene, error)
	Flatten(ctx context.Context, source string) (dto.SceneOutput, error)
	Layout(ctx context.Context, source string) (dto.SceneOutput, error)
	Draw(surface Surface, input dto.DrawInput)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
	FlattenDocument(ctx context.Context, body []byte, contentType string) (dto.SceneOutput, error)
	RenderDocument(ctx context.Context, input dto.RenderDocumentInput) (dto.RenderOutput, error)
	Generate(ctx context.Context, input dto.GenerateInput) (dto.GenerateOutput, error)
	Import(ctx context.Context, input dto.ImportInput) (dto.SceneOutput, error)
}
