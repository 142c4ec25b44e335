package in

import (
	"context"

	"kgview/internal/modules/roadmap/dto"
)

type Usecase interface {
	Generate(ctx context.Context, input dto.GenerateInput) (dto.RoadmapOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
