package domain

// Scene is one flatten+layout pass over a tree. It is rebuilt whole when
// the tree changes and never patched.
type Scene struct {
	Key       string
	Digest    string
	Title     string
	Width     float64
	Height    float64
	Nodes     []GraphNode
	Positions Positions
}

func BuildScene(raw RawTree, sentinel string, cfg LayoutConfig) Scene {
	doc := Normalize(raw.Value, sentinel)
	nodes := Flatten(doc)
	return Scene{
		Key:       raw.Key,
		Digest:    raw.Digest,
		Title:     doc.Root.Label,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Nodes:     nodes,
		Positions: Layout(nodes, cfg),
	}
}

func (s Scene) Node(id string) (GraphNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return GraphNode{}, false
}

// HitTest returns the topmost node whose circle contains p. Nodes later in
// the list are drawn on top, so the search runs backwards.
func (s Scene) HitTest(p Position, style Style) (GraphNode, bool) {
	for i := len(s.Nodes) - 1; i >= 0; i-- {
		n := s.Nodes[i]
		pos, ok := s.Positions[n.ID]
		if !ok {
			continue
		}
		r := style.SizeForDepth(n.Depth)
		dx, dy := p.X-pos.X, p.Y-pos.Y
		if dx*dx+dy*dy <= r*r {
			return n, true
		}
	}
	return GraphNode{}, false
}
