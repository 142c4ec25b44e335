package domain

import "strconv"

const (
	RootID     = "root"
	rootPrefix = "topic"
)

// GraphNode is one flattened tree entry. ParentIDs holds zero entries for
// the root and exactly one otherwise.
type GraphNode struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	ParentIDs   []string `json:"parent_ids"`
	Depth       int      `json:"depth"`
}

func (n GraphNode) ParentID() (string, bool) {
	if len(n.ParentIDs) == 0 {
		return "", false
	}
	return n.ParentIDs[0], true
}

func (n GraphNode) IsRoot() bool {
	return n.Depth == 0 && len(n.ParentIDs) == 0
}

// Flatten emits nodes parent-major, child-minor. Ids are "<prefix>:<label>"
// where prefix is the index path; the prefix never contains ':' so ids stay
// unique whatever the labels are.
func Flatten(doc Document) []GraphNode {
	f := &flattener{}
	if doc.Kind == DocumentTitled {
		f.visit(doc.Root, "", rootPrefix, 0)
		return f.nodes
	}
	desc := doc.Root.Description
	if doc.Kind == DocumentSubject {
		desc = ""
	}
	f.nodes = append(f.nodes, GraphNode{
		ID:          RootID,
		Label:       doc.Root.Label,
		Description: desc,
		ParentIDs:   []string{},
		Depth:       0,
	})
	for i, child := range doc.Root.Children {
		f.visit(child, RootID, childPrefix(rootPrefix, i), 1)
	}
	return f.nodes
}

type flattener struct {
	nodes []GraphNode
}

func (f *flattener) visit(t Topic, parentID, prefix string, depth int) {
	id := prefix + ":" + t.Label
	parents := []string{}
	if parentID != "" {
		parents = []string{parentID}
	}
	f.nodes = append(f.nodes, GraphNode{
		ID:          id,
		Label:       t.Label,
		Description: t.Description,
		ParentIDs:   parents,
		Depth:       depth,
	})
	for i, child := range t.Children {
		f.visit(child, id, childPrefix(prefix, i), depth+1)
	}
}

func childPrefix(prefix string, index int) string {
	return prefix + "-" + strconv.Itoa(index)
}

// MaxDepth returns the deepest depth present in nodes.
func MaxDepth(nodes []GraphNode) int {
	deepest := 0
	for _, n := range nodes {
		if n.Depth > deepest {
			deepest = n.Depth
		}
	}
	return deepest
}
