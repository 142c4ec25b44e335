package domain

// Interaction turns pointer events into viewport commands. A drag session
// lasts from Press until Release or Leave.
type Interaction struct {
	viewport *Viewport
	dragging bool
	last     Position
}

func NewInteraction(v *Viewport) *Interaction {
	return &Interaction{viewport: v}
}

func (i *Interaction) Dragging() bool { return i.dragging }

func (i *Interaction) Press(x, y float64) {
	i.dragging = true
	i.last = Position{X: x, Y: y}
}

// Move pans by the delta since the previous move (not since Press) and
// reports whether a pan was issued.
func (i *Interaction) Move(x, y float64) bool {
	if !i.dragging {
		return false
	}
	dx, dy := x-i.last.X, y-i.last.Y
	i.last = Position{X: x, Y: y}
	if dx == 0 && dy == 0 {
		return false
	}
	i.viewport.Pan(dx, dy)
	return true
}

func (i *Interaction) Release() { i.dragging = false }

func (i *Interaction) Leave() { i.dragging = false }

func (i *Interaction) Wheel(deltaY float64) {
	if deltaY == 0 {
		return
	}
	i.viewport.Wheel(deltaY)
}

// Hover holds at most one hovered node.
type Hover struct {
	node    GraphNode
	present bool
}

// Enter replaces any hovered node and reports whether the hover changed.
func (h *Hover) Enter(n GraphNode) bool {
	if h.present && h.node.ID == n.ID {
		return false
	}
	h.node, h.present = n, true
	return true
}

// Leave clears the hover only if id is the hovered node.
func (h *Hover) Leave(id string) bool {
	if !h.present || h.node.ID != id {
		return false
	}
	h.Clear()
	return true
}

func (h *Hover) Clear() {
	h.node, h.present = GraphNode{}, false
}

func (h Hover) Node() (GraphNode, bool) { return h.node, h.present }

func (h Hover) ID() string {
	if !h.present {
		return ""
	}
	return h.node.ID
}
