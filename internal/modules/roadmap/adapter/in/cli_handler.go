package in

import (
	"context"

	"kgview/internal/modules/roadmap/dto"
	roadmapin "kgview/internal/modules/roadmap/port/in"
)

type CLIHandler struct {
	usecase roadmapin.Usecase
}

func NewCLIHandler(usecase roadmapin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Generate(ctx context.Context, query string) (dto.RoadmapOutput, error) {
	return h.usecase.Generate(ctx, dto.GenerateInput{Query: query})
}

func (h CLIHandler) Export(ctx context.Context, query, path string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{Query: query, Path: path})
}
