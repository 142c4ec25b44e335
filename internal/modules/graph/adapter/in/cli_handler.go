package in

import (
	"context"

	"kgview/internal/modules/graph/dto"
	graphin "kgview/internal/modules/graph/port/in"
)

type CLIHandler struct {
	usecase graphin.Usecase
}

func NewCLIHandler(usecase graphin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Flatten(ctx context.Context, source string) (dto.SceneOutput, error) {
	return h.usecase.Flatten(ctx, source)
}

func (h CLIHandler) Layout(ctx context.Context, source string) (dto.SceneOutput, error) {
	return h.usecase.Layout(ctx, source)
}

func (h CLIHandler) Render(ctx context.Context, source, format, path string, width, height, zoom int, focusID string) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, dto.ExportInput{
		Source:  source,
		Format:  format,
		Path:    path,
		Width:   width,
		Height:  height,
		Zoom:    zoom,
		FocusID: focusID,
	})
}

func (h CLIHandler) Generate(ctx context.Context, pdfPath, outPath string) (dto.GenerateOutput, error) {
	return h.usecase.Generate(ctx, dto.GenerateInput{PDFPath: pdfPath, OutPath: outPath})
}

func (h CLIHandler) Import(ctx context.Context, source, target string) (dto.SceneOutput, error) {
	return h.usecase.Import(ctx, dto.ImportInput{Source: source, Target: target})
}
