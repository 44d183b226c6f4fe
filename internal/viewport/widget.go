package viewport

import (
	"math"

	"skilltree/internal/domain"
	"skilltree/internal/input"
	"skilltree/internal/render"
)

// HoverInfo describes the node under the pointer
type HoverInfo struct {
	NodeID           string `json:"node_id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	ExtraDescription string `json:"extra_description,omitempty"`
}

// Widget is the interactive tree view: it owns the transform and turns
// pointer input into pans, zooms, hovers and clicks
type Widget struct {
	rect      input.Rect
	transform *Transform
	renderer  *Renderer

	dragging bool
	moved    bool
	pressed  string
	lastX    float64
	lastY    float64
	pointerX float64
	pointerY float64
	hovered  string

	// OnNodeClick is called when a node is pressed and released without dragging
	OnNodeClick func(nodeID string)
	// OnHover is called when the hovered node changes; ok is false when the
	// pointer left every node
	OnHover func(info HoverInfo, ok bool)
}

// NewWidget creates a tree view occupying rect
func NewWidget(rect input.Rect, renderer *Renderer) *Widget {
	return &Widget{
		rect:      rect,
		transform: NewTransform(rect.Width, rect.Height),
		renderer:  renderer,
	}
}

// Transform returns the camera of the widget
func (w *Widget) Transform() *Transform {
	return w.transform
}

// Rect returns the screen area of the widget
func (w *Widget) Rect() input.Rect {
	return w.rect
}

// Hovered returns the id of the node under the pointer, if any
func (w *Widget) Hovered() string {
	return w.hovered
}

// Reset recomputes the camera limits for a new graph or size
func (w *Widget) Reset(g *domain.Graph, rect input.Rect) {
	w.rect = rect
	bounds := domain.EmptyBounds()
	if g != nil {
		bounds = g.Bounds()
	}
	w.transform.RecomputeBounds(bounds, rect.Width, rect.Height)

	if w.hovered != "" {
		if g == nil {
			w.setHovered(g, "")
		} else if n, ok := g.Node(w.hovered); !ok || n.IsHidden {
			w.setHovered(g, "")
		}
	}
}

// NodeAt returns the visible node under a screen point
func (w *Widget) NodeAt(g *domain.Graph, x, y float64) (string, bool) {
	if !w.rect.Contains(x, y) {
		return "", false
	}
	lx, ly := w.rect.Local(x, y)
	wx, wy := w.transform.ScreenToWorld(lx, ly)
	return HitTest(wx, wy, g)
}

// OnPointerDown starts a drag; it reports whether the event was inside the view
func (w *Widget) OnPointerDown(g *domain.Graph, x, y float64, button input.Button) bool {
	if !w.rect.Contains(x, y) {
		return false
	}
	w.dragging = true
	w.moved = false
	w.lastX, w.lastY = x, y
	w.pressed = ""
	if button == input.ButtonLeft {
		w.pressed, _ = w.NodeAt(g, x, y)
	}
	return true
}

// OnPointerMove pans while dragging and updates the hovered node
func (w *Widget) OnPointerMove(g *domain.Graph, x, y float64) {
	if w.dragging {
		dx := int(math.Round(x - w.lastX))
		dy := int(math.Round(y - w.lastY))
		if dx != 0 || dy != 0 {
			w.transform.ApplyPan(dx, dy)
			w.lastX += float64(dx)
			w.lastY += float64(dy)
			w.moved = true
		}
	}

	w.pointerX, w.pointerY = x, y
	id, _ := w.NodeAt(g, x, y)
	w.setHovered(g, id)
}

// OnPointerUp ends a drag and fires OnNodeClick for a press without movement
func (w *Widget) OnPointerUp(g *domain.Graph, x, y float64, button input.Button) {
	if !w.dragging {
		return
	}
	w.dragging = false

	if button != input.ButtonLeft || w.moved || w.pressed == "" {
		return
	}
	id, ok := w.NodeAt(g, x, y)
	if ok && id == w.pressed && w.OnNodeClick != nil {
		w.OnNodeClick(id)
	}
	w.pressed = ""
}

// OnScroll zooms around the pointer
func (w *Widget) OnScroll(x, y, delta float64) bool {
	if !w.rect.Contains(x, y) {
		return false
	}
	lx, ly := w.rect.Local(x, y)
	w.transform.ApplyZoom(lx, ly, delta)
	return true
}

// Render draws the tree
func (w *Widget) Render(s render.Surface, g *domain.Graph, states domain.StateEvaluator) {
	w.renderer.Render(s, g, states, w.transform, w.hovered)
	if g == nil || w.hovered == "" {
		return
	}
	def, ok := g.DefinitionOf(w.hovered)
	if !ok {
		return
	}
	s.DrawText(render.Text{
		Space: render.SpaceScreen,
		X:     w.pointerX,
		Y:     w.pointerY + float64(BaseHalfSize),
		Value: def.Title,
		Color: domain.ColorWhite,
	})
}

func (w *Widget) setHovered(g *domain.Graph, id string) {
	if id == w.hovered {
		return
	}
	w.hovered = id
	if w.OnHover == nil {
		return
	}
	if id == "" {
		w.OnHover(HoverInfo{}, false)
		return
	}
	info := HoverInfo{NodeID: id}
	if def, ok := g.DefinitionOf(id); ok {
		info.Title = def.Title
		info.Description = def.Description
		info.ExtraDescription = def.ExtraDescription
	}
	w.OnHover(info, true)
}
