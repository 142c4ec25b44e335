package usecase

import (
	"context"

	"kgview/internal/modules/roadmap/domain"
	"kgview/internal/modules/roadmap/dto"
	roadmapin "kgview/internal/modules/roadmap/port/in"
	"kgview/internal/modules/roadmap/service"
)

type Interactor struct {
	svc *service.RoadmapService
}

func NewInteractor(svc *service.RoadmapService) roadmapin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Generate(ctx context.Context, input dto.GenerateInput) (dto.RoadmapOutput, error) {
	r, err := i.svc.Generate(ctx, input.Query)
	if err != nil {
		return dto.RoadmapOutput{}, err
	}
	return i.mapRoadmap(r), nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	path, r, err := i.svc.Export(ctx, input.Query, input.Path)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, Items: len(r.Items)}, nil
}

func (i *Interactor) mapRoadmap(r domain.Roadmap) dto.RoadmapOutput {
	items := make([]dto.ItemOutput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, dto.ItemOutput{
			Entity:       item.Entity,
			Relationship: item.Relationship,
			Priority:     item.Priority,
			Color:        domain.ColorFor(item.Priority, i.svc.Palette()),
		})
	}
	return dto.RoadmapOutput{Query: r.Query, Items: items, Markdown: r.Markdown()}
}
