// Package render defines the drawing surface the viewer emits primitives to.
//
// The viewer never rasterizes anything itself. A host implements Surface
// on top of its own draw calls; Recorder keeps the primitives in memory.
package render

import (
	"skilltree/internal/domain"
)

// Space tells which coordinate system a primitive is expressed in
type Space string

const (
	SpaceWorld  Space = "world"
	SpaceScreen Space = "screen"
)

// View is the world-to-screen transform in effect for world primitives:
// screen = world * Scale + (OffsetX, OffsetY)
type View struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Scale   float64 `json:"scale"`
}

// IdentityView maps world coordinates straight to screen coordinates
func IdentityView() View {
	return View{Scale: 1}
}

// Quad is a textured, tinted axis aligned square or rectangle centered on (X, Y)
type Quad struct {
	Space   Space        `json:"space"`
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	HalfW   float64      `json:"half_w"`
	HalfH   float64      `json:"half_h"`
	Texture string       `json:"texture"`
	Kind    string       `json:"kind,omitempty"`
	Tint    domain.Color `json:"tint"`
	NodeID  string       `json:"node_id,omitempty"`
}

// Line is a connection between two points
type Line struct {
	Space  Space        `json:"space"`
	X1     float64      `json:"x1"`
	Y1     float64      `json:"y1"`
	X2     float64      `json:"x2"`
	Y2     float64      `json:"y2"`
	Fill   domain.Color `json:"fill"`
	Stroke domain.Color `json:"stroke"`
	Arrow  bool         `json:"arrow"`
}

// Text is a string anchored at (X, Y)
type Text struct {
	Space Space        `json:"space"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	Value string       `json:"value"`
	Color domain.Color `json:"color"`
}

// Surface receives the primitives of one frame
type Surface interface {
	SetView(v View)
	DrawQuad(q Quad)
	DrawLine(l Line)
	DrawText(t Text)
}
