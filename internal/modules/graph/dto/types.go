package dto

import "kgview/internal/modules/graph/domain"

type NodeOutput struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	ParentIDs   []string `json:"parent_ids"`
	Depth       int      `json:"depth"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Radius      float64  `json:"radius"`
	Color       string   `json:"color"`
}

type SceneOutput struct {
	Source   string       `json:"source"`
	Digest   string       `json:"digest"`
	Title    string       `json:"title"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	MaxDepth int          `json:"max_depth"`
	Nodes    []NodeOutput `json:"nodes"`
}

// LoadedScene carries the engine-level scene to interactive views.
type LoadedScene struct {
	Source string
	Scene  domain.Scene
}

type DrawInput struct {
	Scene     domain.Scene
	Camera    domain.Camera
	HoveredID string
}

// ExportInput frames the export with Zoom and FocusID unless Camera is
// set, in which case that exact view is drawn.
type ExportInput struct {
	Source    string
	Format    string
	Path      string
	Width     int
	Height    int
	Zoom      int
	FocusID   string
	HoveredID string
	Camera    *domain.Camera
}

type ExportOutput struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Bytes  int    `json:"bytes"`
	Nodes  int    `json:"nodes"`
}

// RenderDocumentInput renders a tree posted as a JSON, YAML or TOML body.
type RenderDocumentInput struct {
	Body        []byte
	ContentType string
	Format      string
	Width       int
	Height      int
	Zoom        int
	FocusID     string
}

type RenderOutput struct {
	ContentType string
	Data        []byte
	Nodes       int
}

type ImportInput struct {
	Source string
	Target string
}

type GenerateInput struct {
	PDFPath string
	OutPath string
}

type GenerateOutput struct {
	PDFPath string `json:"pdf_path"`
	Pages   int    `json:"pages"`
	OutPath string `json:"out_path"`
	Nodes   int    `json:"nodes"`
	Title   string `json:"title"`
}
