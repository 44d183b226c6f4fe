package path

import (
	"math"

	"skilltree/internal/domain"
	"skilltree/internal/input"
	"skilltree/internal/render"
	"skilltree/internal/style"
)

const (
	// FrameHalfSize is the half extent of a path node frame
	FrameHalfSize = 13
	// IconHalfSize is the half extent of a path node icon
	IconHalfSize = 8
	// VerticalSpacing is the distance between consecutive nodes of a path
	VerticalSpacing = 2*FrameHalfSize + 10
	// HorizontalSpacing is the distance between neighboring paths
	HorizontalSpacing = 2*FrameHalfSize + 15
)

// Track is one path laid out in the view
type Track struct {
	path domain.Path
	anim *Animation
	x    int
}

// Path returns the path shown by the track
func (t *Track) Path() domain.Path {
	return t.path
}

// X returns the horizontal center of the track
func (t *Track) X() int {
	return t.x
}

// Animating reports whether the track is advancing
func (t *Track) Animating() bool {
	return t.anim.Active()
}

// CurrentIndex is the first node that is available or affordable, or the
// last node when there is none. It is derived from states on every call so a
// progress reset moves the path back.
func (t *Track) CurrentIndex(states domain.StateEvaluator) int {
	n := t.path.Len()
	if n == 0 {
		return 0
	}
	current := n - 1
	for i, id := range t.path.NodeIDs {
		if states.State(id).IsReachable() {
			current = i
			break
		}
	}
	return current
}

// View renders several paths side by side around a shared center line
type View struct {
	rect     input.Rect
	tracks   []*Track
	scroll   Scroll
	resolver *style.Resolver
	clock    Clock
	graph    *domain.Graph

	dragging bool
	lastY    float64

	// OnUnlock is called when the centered node of a path is clicked while
	// affordable
	OnUnlock func(nodeID string)
}

// NewView creates an empty view
func NewView(rect input.Rect, resolver *style.Resolver, clock Clock) *View {
	if clock == nil {
		clock = SystemClock()
	}
	return &View{rect: rect, resolver: resolver, clock: clock}
}

// Rebuild replaces the paths shown by the view with every path of the graph.
// Animations are dropped; the scroll offset is kept within the new limits.
func (v *View) Rebuild(g *domain.Graph, rect input.Rect) {
	v.rect = rect
	v.graph = g
	v.tracks = v.tracks[:0]

	var paths []domain.Path
	if g != nil {
		paths = g.AllPaths()
	}

	longest := 0
	for _, p := range paths {
		v.tracks = append(v.tracks, &Track{path: p, anim: NewAnimation(v.clock)})
		if p.Len() > longest {
			longest = p.Len()
		}
	}
	v.scroll.SetLimits(longest, VerticalSpacing)
	v.layout()
}

func (v *View) layout() {
	centerX := v.rect.X + v.rect.Width/2
	n := len(v.tracks)
	for i, t := range v.tracks {
		t.x = centerX + i*HorizontalSpacing - (n-1)*HorizontalSpacing/2
	}
}

// Tracks returns the laid out paths
func (v *View) Tracks() []*Track {
	return v.tracks
}

// Scroll returns the scroll state
func (v *View) Scroll() *Scroll {
	return &v.scroll
}

// CenterY returns the vertical position of the current nodes
func (v *View) CenterY() int {
	return v.rect.Y + v.rect.Height/2 + v.scroll.Offset()
}

// Render draws every track in screen space
func (v *View) Render(s render.Surface, states domain.StateEvaluator) {
	s.SetView(render.IdentityView())
	centerY := v.CenterY()

	for _, t := range v.tracks {
		frame := t.anim.Update()
		renderIndex := t.CurrentIndex(states)
		animOffset := 0
		if frame.Active && !frame.Completed {
			renderIndex = frame.StartIndex
			animOffset = int(frame.Progress * VerticalSpacing)
		}

		ids := t.path.NodeIDs
		y := func(i int) int {
			return centerY + (renderIndex-i)*VerticalSpacing + animOffset
		}

		for i := 0; i+1 < len(ids); i++ {
			colors := v.resolver.ResolveStates(states.State(ids[i]), states.State(ids[i+1]))
			s.DrawLine(render.Line{
				Space:  render.SpaceScreen,
				X1:     float64(t.x),
				Y1:     float64(y(i)),
				X2:     float64(t.x),
				Y2:     float64(y(i + 1)),
				Fill:   colors.Fill,
				Stroke: colors.Stroke,
			})
		}

		for i, id := range ids {
			v.drawNode(s, id, states.State(id), float64(t.x), float64(y(i)))
		}
	}
}

func (v *View) drawNode(s render.Surface, id string, state domain.State, x, y float64) {
	frame := domain.Frame{Kind: domain.FrameAdvancement, Advancement: domain.AdvancementTask}
	texture, tint := frame.Texture(state)
	s.DrawQuad(render.Quad{
		Space:   render.SpaceScreen,
		X:       x,
		Y:       y,
		HalfW:   FrameHalfSize,
		HalfH:   FrameHalfSize,
		Texture: texture,
		Kind:    "frame",
		Tint:    tint,
		NodeID:  id,
	})

	if v.graph == nil {
		return
	}
	def, ok := v.graph.DefinitionOf(id)
	if !ok || def.Icon.Kind == domain.IconEffect {
		return
	}
	s.DrawQuad(render.Quad{
		Space:   render.SpaceScreen,
		X:       x,
		Y:       y,
		HalfW:   IconHalfSize,
		HalfH:   IconHalfSize,
		Texture: def.Icon.Ref,
		Kind:    string(def.Icon.Kind),
		Tint:    domain.ColorWhite,
		NodeID:  id,
	})
}

// HitTest returns the centered node of the track under a screen point.
// Nodes above or below the center line are never hit.
func (v *View) HitTest(x, y float64, states domain.StateEvaluator) (*Track, string, bool) {
	centerY := float64(v.CenterY())
	if math.Abs(y-centerY) > FrameHalfSize {
		return nil, "", false
	}
	for _, t := range v.tracks {
		if math.Abs(x-float64(t.x)) > FrameHalfSize || t.path.Len() == 0 {
			continue
		}
		return t, t.path.NodeIDs[t.CurrentIndex(states)], true
	}
	return nil, "", false
}

// OnPointerDown unlocks the centered node on a left click and starts a drag
// scroll on the right or middle button
func (v *View) OnPointerDown(x, y float64, button input.Button, states domain.StateEvaluator) bool {
	if !v.rect.Contains(x, y) {
		return false
	}
	if button != input.ButtonLeft {
		v.dragging = true
		v.lastY = y
		return true
	}

	t, id, ok := v.HitTest(x, y, states)
	if !ok || t.Animating() {
		return false
	}
	if states.State(id) != domain.StateAffordable {
		return false
	}

	current := t.CurrentIndex(states)
	if v.OnUnlock != nil {
		v.OnUnlock(id)
	}
	if current < t.path.Len()-1 {
		t.anim.Start(current)
	}
	return true
}

// OnPointerMove scrolls while dragging
func (v *View) OnPointerMove(x, y float64) {
	if !v.dragging {
		return
	}
	dy := int(math.Round(y - v.lastY))
	if dy != 0 {
		v.scroll.ScrollBy(dy)
		v.lastY += float64(dy)
	}
}

// OnPointerUp ends a drag
func (v *View) OnPointerUp(x, y float64, button input.Button) {
	if button != input.ButtonLeft {
		v.dragging = false
	}
}

// OnScroll scrolls by wheel notches
func (v *View) OnScroll(x, y, delta float64) bool {
	if !v.rect.Contains(x, y) {
		return false
	}
	v.scroll.ScrollByWheel(delta)
	return true
}
