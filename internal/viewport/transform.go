// Package viewport implements the pannable, zoomable camera over the graph,
// node hit-testing and the tree view renderer.
//
// Screen coordinates in this package are relative to the viewport's top left
// corner. World coordinates are the authored node positions. A world point p
// is drawn at p*scale + offset + viewportSize/2.
package viewport

import (
	"math"

	"skilltree/internal/domain"
	"skilltree/internal/render"
)

const (
	// ContentPadding is added on every side of the graph bounds
	ContentPadding = 48
	// DragPadding is how far content smaller than the viewport can be nudged
	// away from the centered position
	DragPadding = 40
	// ZoomSensitivity scales wheel deltas: one notch zooms by 2^0.25
	ZoomSensitivity = 0.25
	// FitFactor is applied to the zoom-to-fit scale to get the minimum scale
	FitFactor = 0.75
	// MaxScale is the maximum zoom
	MaxScale = 2.0

	// contents narrower than half the viewport aspect are widened
	minAspectRatio = 0.5
)

// State is the persisted part of a transform
type State struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Scale float64 `json:"scale"`
}

// Transform holds the pan offset and zoom scale of one viewport
type Transform struct {
	width  int
	height int

	x     int
	y     int
	scale float64

	content  domain.Bounds
	minScale float64
	maxScale float64
}

// NewTransform creates a transform for a viewport of the given pixel size.
// Sizes below one pixel are raised to one.
func NewTransform(width, height int) *Transform {
	t := &Transform{
		scale:    1,
		content:  domain.EmptyBounds(),
		minScale: FitFactor,
		maxScale: MaxScale,
	}
	t.width, t.height = clampSize(width), clampSize(height)
	return t
}

func clampSize(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// Size returns the viewport size in pixels
func (t *Transform) Size() (int, int) {
	return t.width, t.height
}

// Offset returns the pan offset in pixels
func (t *Transform) Offset() (int, int) {
	return t.x, t.y
}

// Scale returns the zoom scale
func (t *Transform) Scale() float64 {
	return t.scale
}

// ScaleLimits returns the allowed zoom range
func (t *Transform) ScaleLimits() (float64, float64) {
	return t.minScale, t.maxScale
}

// Content returns the padded content bounds the transform clamps against
func (t *Transform) Content() domain.Bounds {
	return t.content
}

// State returns the current offset and scale
func (t *Transform) State() State {
	return State{X: t.x, Y: t.y, Scale: t.scale}
}

// RecomputeBounds derives the content bounds and zoom limits from the graph
// bounds and the viewport size, then clamps the current view into them.
func (t *Transform) RecomputeBounds(graph domain.Bounds, width, height int) {
	t.width, t.height = clampSize(width), clampSize(height)

	if graph.IsEmpty() {
		t.content = domain.EmptyBounds()
		t.minScale = FitFactor
		t.maxScale = MaxScale
		t.apply(t.x, t.y, t.scale)
		return
	}

	content := graph.Grow(ContentPadding)
	content = fitAspect(content, float64(t.width)/float64(t.height))
	t.content = content

	t.minScale = math.Max(
		float64(t.width)/float64(content.Width()),
		float64(t.height)/float64(content.Height()),
	) * FitFactor
	t.maxScale = MaxScale
	if t.minScale > t.maxScale {
		t.minScale = t.maxScale
	}

	t.apply(t.x, t.y, t.scale)
}

// fitAspect widens whichever axis is too tight relative to the viewport
// aspect, symmetrically around the center
func fitAspect(b domain.Bounds, viewportAspect float64) domain.Bounds {
	w, h := float64(b.Width()), float64(b.Height())

	if minW := h * viewportAspect * minAspectRatio; w < minW {
		extra := int(math.Ceil((minW - w) / 2))
		b.Min.X -= extra
		b.Max.X += extra
	}
	if minH := w / viewportAspect * minAspectRatio; h < minH {
		extra := int(math.Ceil((minH - h) / 2))
		b.Min.Y -= extra
		b.Max.Y += extra
	}
	return b
}

// SetView restores an offset and scale; both are clamped
func (t *Transform) SetView(x, y int, scale float64) {
	t.apply(x, y, scale)
}

// ApplyPan moves the view by the given pixel delta
func (t *Transform) ApplyPan(dx, dy int) {
	t.apply(t.x+dx, t.y+dy, t.scale)
}

// ApplyZoom zooms by 2^(delta*ZoomSensitivity) around the given screen point,
// keeping the world point under it fixed as far as clamping allows
func (t *Transform) ApplyZoom(screenX, screenY, delta float64) {
	factor := math.Pow(2, delta*ZoomSensitivity)
	newScale := clampFloat(t.scale*factor, t.minScale, t.maxScale)
	actual := newScale / t.scale

	halfW, halfH := float64(t.width)/2, float64(t.height)/2
	newX := t.x - int(math.Round((actual-1)*(screenX-float64(t.x)-halfW)))
	newY := t.y - int(math.Round((actual-1)*(screenY-float64(t.y)-halfH)))

	t.apply(newX, newY, newScale)
}

func (t *Transform) apply(x, y int, scale float64) {
	if math.IsNaN(scale) || scale <= 0 {
		scale = t.minScale
	}
	scale = clampFloat(scale, t.minScale, t.maxScale)
	t.scale = scale

	if t.content.IsEmpty() || t.content.Width() <= 0 || t.content.Height() <= 0 {
		t.x, t.y = 0, 0
		return
	}

	minX, maxX := axisLimits(t.content.Min.X, t.content.Max.X, t.width, scale)
	minY, maxY := axisLimits(t.content.Min.Y, t.content.Max.Y, t.height, scale)
	t.x = clampInt(x, minX, maxX)
	t.y = clampInt(y, minY, maxY)
}

// axisLimits returns the offset range on one axis. Content larger than the
// viewport may not leave a gap at either edge; smaller content stays within
// DragPadding of the centered position.
func axisLimits(lo, hi, viewport int, scale float64) (int, int) {
	half := float64(viewport) / 2
	scaled := float64(hi-lo) * scale

	if scaled < float64(viewport) {
		center := -float64(lo+hi) / 2 * scale
		slack := (float64(viewport) - scaled) / 2
		return int(math.Ceil(center - slack - DragPadding)), int(math.Floor(center + slack + DragPadding))
	}

	minOff := int(math.Ceil(half - float64(hi)*scale))
	maxOff := int(math.Floor(-half - float64(lo)*scale))
	if minOff > maxOff {
		mid := int(math.Round(-float64(lo+hi) / 2 * scale))
		return mid, mid
	}
	return minOff, maxOff
}

// ScreenToWorld converts a viewport-relative screen point to world space
func (t *Transform) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx - float64(t.x) - float64(t.width)/2) / t.scale,
		(sy - float64(t.y) - float64(t.height)/2) / t.scale
}

// WorldToScreen converts a world point to a viewport-relative screen point
func (t *Transform) WorldToScreen(wx, wy float64) (float64, float64) {
	return wx*t.scale + float64(t.x) + float64(t.width)/2,
		wy*t.scale + float64(t.y) + float64(t.height)/2
}

// Contains reports whether a viewport-relative point lies inside the viewport
func (t *Transform) Contains(sx, sy float64) bool {
	return sx >= 0 && sy >= 0 && sx < float64(t.width) && sy < float64(t.height)
}

// View returns the transform as a render.View
func (t *Transform) View() render.View {
	return render.View{
		OffsetX: float64(t.x) + float64(t.width)/2,
		OffsetY: float64(t.y) + float64(t.height)/2,
		Scale:   t.scale,
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
