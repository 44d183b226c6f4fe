package domain

import "math"

// Point is an integer position in world space
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Bounds is an inclusive integer rectangle in world space.
// The zero value is a single point at the origin; use EmptyBounds for a
// rectangle that contains nothing.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// EmptyBounds returns bounds that contain no point; Extend makes them non-empty
func EmptyBounds() Bounds {
	return Bounds{
		Min: Point{X: math.MaxInt32, Y: math.MaxInt32},
		Max: Point{X: math.MinInt32, Y: math.MinInt32},
	}
}

// IsEmpty reports whether the bounds contain no point
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Width returns the horizontal extent, zero for empty bounds
func (b Bounds) Width() int {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent, zero for empty bounds
func (b Bounds) Height() int {
	if b.IsEmpty() {
		return 0
	}
	return b.Max.Y - b.Min.Y
}

// Extend grows the bounds to include p
func (b Bounds) Extend(p Point) Bounds {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	return b
}

// Grow moves every edge outward by n
func (b Bounds) Grow(n int) Bounds {
	if b.IsEmpty() {
		return b
	}
	b.Min.X -= n
	b.Min.Y -= n
	b.Max.X += n
	b.Max.Y += n
	return b
}

// Center returns the midpoint of the bounds
func (b Bounds) Center() (float64, float64) {
	return float64(b.Min.X+b.Max.X) / 2, float64(b.Min.Y+b.Max.Y) / 2
}

// Contains reports whether p lies inside the bounds, edges included
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
