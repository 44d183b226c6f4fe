package style

import (
	"sync/atomic"

	"skilltree/internal/domain"
)

// Overlay is a Registry with a fixed base layer and a loaded layer that can
// be replaced while frames are rendering. The base layer wins.
type Overlay struct {
	base   MapRegistry
	loaded atomic.Pointer[MapRegistry]
}

// NewOverlay creates an overlay over base; base may be nil
func NewOverlay(base map[string]domain.Color) *Overlay {
	return &Overlay{base: MapRegistry(base)}
}

// SetLoaded replaces the loaded layer
func (o *Overlay) SetLoaded(styles map[string]domain.Color) {
	m := MapRegistry(styles)
	o.loaded.Store(&m)
}

// Lookup implements Registry
func (o *Overlay) Lookup(styleID string) (domain.Color, bool) {
	if c, ok := o.base[styleID]; ok {
		return c, true
	}
	if m := o.loaded.Load(); m != nil {
		return m.Lookup(styleID)
	}
	return 0, false
}
