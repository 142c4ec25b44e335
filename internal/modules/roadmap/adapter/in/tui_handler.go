package in

import (
	"context"

	"kgview/internal/modules/roadmap/dto"
	roadmapin "kgview/internal/modules/roadmap/port/in"
)

type TUIHandler struct {
	usecase roadmapin.Usecase
}

func NewTUIHandler(usecase roadmapin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Generate(ctx context.Context, query string) (dto.RoadmapOutput, error) {
	return h.usecase.Generate(ctx, dto.GenerateInput{Query: query})
}
