// Package style picks the colors of connections from the states of their
// endpoints.
package style

import (
	"skilltree/internal/domain"
)

// FillStroke is the pair of colors a connection is drawn with
type FillStroke struct {
	Fill   domain.Color `json:"fill"`
	Stroke domain.Color `json:"stroke"`
}

// Palette holds the pair used for each connection condition
type Palette struct {
	Unlocked    FillStroke `json:"unlocked"`
	Progressing FillStroke `json:"progressing"`
	Blocked     FillStroke `json:"blocked"`
	Neutral     FillStroke `json:"neutral"`
}

// DefaultPalette returns the built-in colors
func DefaultPalette() Palette {
	return Palette{
		Unlocked:    FillStroke{Fill: 0xFFB37D12, Stroke: 0xFFBF8C26},
		Progressing: FillStroke{Fill: 0xFF808080, Stroke: 0xFF808080},
		Blocked:     FillStroke{Fill: 0xFF3A3A3A, Stroke: 0xFF3D3D3D},
		Neutral:     FillStroke{Fill: 0xFF808080, Stroke: 0xFF808080},
	}
}

// Registry resolves named connection styles
type Registry interface {
	Lookup(styleID string) (domain.Color, bool)
}

// MapRegistry is a Registry backed by a map
type MapRegistry map[string]domain.Color

// Lookup implements Registry
func (m MapRegistry) Lookup(styleID string) (domain.Color, bool) {
	c, ok := m[styleID]
	return c, ok
}

// Resolver chooses connection colors
type Resolver struct {
	palette  Palette
	registry Registry
}

// NewResolver creates a resolver; registry may be nil
func NewResolver(palette Palette, registry Registry) *Resolver {
	return &Resolver{palette: palette, registry: registry}
}

// Palette returns the palette in use
func (r *Resolver) Palette() Palette {
	return r.palette
}

// ResolveStates applies the state rules, first match wins:
// both unlocked, one unlocked and the other reachable, either blocked,
// otherwise neutral.
func (r *Resolver) ResolveStates(a, b domain.State) FillStroke {
	unlockedA := a == domain.StateUnlocked
	unlockedB := b == domain.StateUnlocked

	switch {
	case unlockedA && unlockedB:
		return r.palette.Unlocked
	case unlockedA && b.IsReachable(), unlockedB && a.IsReachable():
		return r.palette.Progressing
	case a.IsBlocked() || b.IsBlocked():
		return r.palette.Blocked
	default:
		return r.palette.Neutral
	}
}

// Resolve returns the colors of a connection. A style id known to the
// registry replaces the fill color; unknown ids are ignored.
func (r *Resolver) Resolve(conn domain.Connection, a, b domain.State) FillStroke {
	fs := r.ResolveStates(a, b)
	if conn.StyleID != "" && r.registry != nil {
		if c, ok := r.registry.Lookup(conn.StyleID); ok {
			fs.Fill = c
		}
	}
	return fs
}
