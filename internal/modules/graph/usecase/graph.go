package usecase

import (
	"context"
	"fmt"
	"strings"

	"kgview/internal/modules/graph/domain"
	"kgview/internal/modules/graph/dto"
	graphin "kgview/internal/modules/graph/port/in"
	"kgview/internal/modules/graph/service"
	apperrors "kgview/internal/platform/errors"
)

type Interactor struct {
	svc *service.GraphService
}

func NewInteractor(svc *service.GraphService) graphin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) LoadScene(ctx context.Context, source string) (dto.LoadedScene, error) {
	scene, err := i.svc.Scene(ctx, source)
	if err != nil {
		return dto.LoadedScene{}, err
	}
	return dto.LoadedScene{Source: source, Scene: scene}, nil
}

// Flatten returns the nodes without positions.
func (i *Interactor) Flatten(ctx context.Context, source string) (dto.SceneOutput, error) {
	scene, err := i.svc.Scene(ctx, source)
	if err != nil {
		return dto.SceneOutput{}, err
	}
	out := i.mapScene(source, scene)
	for n := range out.Nodes {
		out.Nodes[n].X, out.Nodes[n].Y = 0, 0
	}
	return out, nil
}

func (i *Interactor) Layout(ctx context.Context, source string) (dto.SceneOutput, error) {
	scene, err := i.svc.Scene(ctx, source)
	if err != nil {
		return dto.SceneOutput{}, err
	}
	return i.mapScene(source, scene), nil
}

func (i *Interactor) Draw(surface graphin.Surface, input dto.DrawInput) {
	i.svc.Draw(surface, input.Scene, input.Camera, input.HoveredID)
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	format := strings.ToLower(strings.TrimSpace(input.Format))
	if format == "" {
		return dto.ExportOutput{}, fmt.Errorf("%w: export format is required", apperrors.ErrInvalidInput)
	}
	path, size, scene, err := i.svc.Export(ctx, input.Source, input.Path, service.RenderOptions{
		Format:    format,
		Width:     input.Width,
		Height:    input.Height,
		Zoom:      input.Zoom,
		FocusID:   input.FocusID,
		HoveredID: input.HoveredID,
		Camera:    input.Camera,
	})
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Path: path, Format: format, Bytes: size, Nodes: len(scene.Nodes)}, nil
}

func (i *Interactor) FlattenDocument(_ context.Context, body []byte, contentType string) (dto.SceneOutput, error) {
	scene, err := i.svc.Document(contentType, body)
	if err != nil {
		return dto.SceneOutput{}, err
	}
	return i.mapScene("", scene), nil
}

func (i *Interactor) RenderDocument(_ context.Context, input dto.RenderDocumentInput) (dto.RenderOutput, error) {
	scene, err := i.svc.Document(input.ContentType, input.Body)
	if err != nil {
		return dto.RenderOutput{}, err
	}
	data, contentType, err := i.svc.Render(scene, service.RenderOptions{
		Format:  input.Format,
		Width:   input.Width,
		Height:  input.Height,
		Zoom:    input.Zoom,
		FocusID: input.FocusID,
	})
	if err != nil {
		return dto.RenderOutput{}, err
	}
	return dto.RenderOutput{ContentType: contentType, Data: data, Nodes: len(scene.Nodes)}, nil
}

func (i *Interactor) Generate(ctx context.Context, input dto.GenerateInput) (dto.GenerateOutput, error) {
	res, err := i.svc.Generate(ctx, input.PDFPath, input.OutPath)
	if err != nil {
		return dto.GenerateOutput{}, err
	}
	return dto.GenerateOutput{
		PDFPath: input.PDFPath,
		Pages:   res.Pages,
		OutPath: res.Path,
		Nodes:   len(res.Scene.Nodes),
		Title:   res.Scene.Title,
	}, nil
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) (dto.SceneOutput, error) {
	scene, err := i.svc.Import(ctx, input.Source, input.Target)
	if err != nil {
		return dto.SceneOutput{}, err
	}
	return i.mapScene(input.Target, scene), nil
}

func (i *Interactor) mapScene(source string, scene domain.Scene) dto.SceneOutput {
	style := i.svc.Renderer().Style()
	nodes := make([]dto.NodeOutput, 0, len(scene.Nodes))
	for _, n := range scene.Nodes {
		pos := scene.Positions[n.ID]
		nodes = append(nodes, dto.NodeOutput{
			ID:          n.ID,
			Label:       n.Label,
			Description: n.Description,
			ParentIDs:   n.ParentIDs,
			Depth:       n.Depth,
			X:           pos.X,
			Y:           pos.Y,
			Radius:      style.SizeForDepth(n.Depth),
			Color:       style.ColorForDepth(n.Depth),
		})
	}
	return dto.SceneOutput{
		Source:   source,
		Digest:   scene.Digest,
		Title:    scene.Title,
		Width:    scene.Width,
		Height:   scene.Height,
		MaxDepth: domain.MaxDepth(scene.Nodes),
		Nodes:    nodes,
	}
}
