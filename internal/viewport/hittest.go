package viewport

import (
	"math"

	"skilltree/internal/domain"
)

// BaseHalfSize is the half extent of a node frame at size 1
const BaseHalfSize = 13

// HalfExtent returns the half extent of a node footprint for a size multiplier
func HalfExtent(size float64) int {
	return int(math.Round(BaseHalfSize * size))
}

// HitTest returns the first visible node, in declaration order, whose square
// footprint contains the world point. Footprints include their edges.
func HitTest(wx, wy float64, g *domain.Graph) (string, bool) {
	if g == nil {
		return "", false
	}
	for _, n := range g.Nodes() {
		if n.IsHidden {
			continue
		}
		def, ok := g.Definition(n.DefinitionID)
		if !ok {
			continue
		}
		half := float64(HalfExtent(def.SizeOrDefault()))
		if math.Abs(wx-float64(n.Position.X)) <= half && math.Abs(wy-float64(n.Position.Y)) <= half {
			return n.ID, true
		}
	}
	return "", false
}
