package dto

type ItemOutput struct {
	Entity       string `json:"entity"`
	Relationship string `json:"relationship"`
	Priority     int    `json:"priority"`
	Color        string `json:"color"`
}

type RoadmapOutput struct {
	Query    string       `json:"query"`
	Items    []ItemOutput `json:"items"`
	Markdown string       `json:"-"`
}

type GenerateInput struct {
	Query string
}

// ExportInput writes the roadmap for Query into the managed block of the
// markdown note at Path, keeping the rest of the note.
type ExportInput struct {
	Query string
	Path  string
}

type ExportOutput struct {
	Path  string `json:"path"`
	Items int    `json:"items"`
}
