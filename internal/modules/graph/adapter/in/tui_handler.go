package in

import (
	"context"

	"kgview/internal/modules/graph/dto"
	graphin "kgview/internal/modules/graph/port/in"
)

type TUIHandler struct {
	usecase graphin.Usecase
}

func NewTUIHandler(usecase graphin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) LoadScene(ctx context.Context, source string) (dto.LoadedScene, error) {
	return h.usecase.LoadScene(ctx, source)
}

func (h TUIHandler) Draw(surface graphin.Surface, input dto.DrawInput) {
	h.usecase.Draw(surface, input)
}

// Export saves the frame the user is looking at: zoom steps and focus are
// taken from the live view by the caller.
func (h TUIHandler) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx, input)
}
