package viewport

import (
	"math"

	"skilltree/internal/domain"
	"skilltree/internal/render"
	"skilltree/internal/style"
)

// Renderer draws the tree view of a graph
type Renderer struct {
	resolver *style.Resolver
}

// NewRenderer creates a renderer using the given style resolver
func NewRenderer(resolver *style.Resolver) *Renderer {
	return &Renderer{resolver: resolver}
}

// Render emits one frame: normal connections, the exclusive connections of
// the hovered node, then every visible node
func (r *Renderer) Render(s render.Surface, g *domain.Graph, states domain.StateEvaluator, t *Transform, hovered string) {
	if g == nil {
		return
	}
	s.SetView(t.View())

	for _, c := range g.Connections(domain.ConnectionNormal) {
		r.drawConnection(s, g, states, c)
	}
	if hovered != "" {
		for _, c := range g.ExclusiveConnectionsOf(hovered) {
			r.drawConnection(s, g, states, c)
		}
	}

	for _, n := range g.Nodes() {
		if n.IsHidden {
			continue
		}
		def, ok := g.Definition(n.DefinitionID)
		if !ok {
			continue
		}
		drawNode(s, n, def, states.State(n.ID))
	}
}

func (r *Renderer) drawConnection(s render.Surface, g *domain.Graph, states domain.StateEvaluator, c domain.Connection) {
	a, okA := g.Node(c.From)
	b, okB := g.Node(c.To)
	if !okA || !okB || a.IsHidden || b.IsHidden {
		return
	}
	colors := r.resolver.Resolve(c, states.State(a.ID), states.State(b.ID))
	s.DrawLine(render.Line{
		Space:  render.SpaceWorld,
		X1:     float64(a.Position.X),
		Y1:     float64(a.Position.Y),
		X2:     float64(b.Position.X),
		Y2:     float64(b.Position.Y),
		Fill:   colors.Fill,
		Stroke: colors.Stroke,
		Arrow:  !c.Bidirectional,
	})
}

func drawNode(s render.Surface, n domain.Node, def *domain.Definition, state domain.State) {
	size := def.SizeOrDefault()
	x, y := float64(n.Position.X), float64(n.Position.Y)

	frameHalf := float64(HalfExtent(size))
	texture, tint := def.Frame.Texture(state)
	s.DrawQuad(render.Quad{
		Space:   render.SpaceWorld,
		X:       x,
		Y:       y,
		HalfW:   frameHalf,
		HalfH:   frameHalf,
		Texture: texture,
		Kind:    "frame",
		Tint:    tint,
		NodeID:  n.ID,
	})

	iconHalf := IconHalfExtent(def.Icon.Kind, size)
	s.DrawQuad(render.Quad{
		Space:   render.SpaceWorld,
		X:       x,
		Y:       y,
		HalfW:   iconHalf,
		HalfH:   iconHalf,
		Texture: def.Icon.Ref,
		Kind:    string(def.Icon.Kind),
		Tint:    domain.ColorWhite,
		NodeID:  n.ID,
	})
}

// IconHalfExtent returns the half extent of an icon. Items are 16px scaled
// by size, effect sprites 18px and textures 16px.
func IconHalfExtent(kind domain.IconKind, size float64) float64 {
	switch kind {
	case domain.IconItem:
		return 8 * size
	case domain.IconEffect:
		return math.Round(9 * size)
	default:
		return math.Round(8 * size)
	}
}
