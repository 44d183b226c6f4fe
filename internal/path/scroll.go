// Package path implements the path view: parallel linear progressions
// scrolled vertically, with the current node of each path centered and a
// short animation when a path advances.
package path

// ScrollSpeed is the number of pixels one wheel notch scrolls
const ScrollSpeed = 20

// Scroll is a clamped vertical scroll offset
type Scroll struct {
	offset  int
	maxUp   int
	maxDown int
}

// SetLimits derives the scroll range from the number of nodes on the longest
// path. Paths with one node or less cannot scroll.
func (s *Scroll) SetLimits(pathLength, spacing int) {
	if pathLength <= 1 || spacing <= 0 {
		s.maxUp, s.maxDown, s.offset = 0, 0, 0
		return
	}
	s.maxUp = (pathLength - 1) * spacing
	s.maxDown = -s.maxUp
	s.offset = s.clamp(s.offset)
}

// ScrollBy moves the offset by delta pixels
func (s *Scroll) ScrollBy(delta int) {
	s.offset = s.clamp(s.offset + delta)
}

// ScrollByWheel scrolls ScrollSpeed pixels per wheel notch
func (s *Scroll) ScrollByWheel(delta float64) {
	s.ScrollBy(int(delta * ScrollSpeed))
}

// ScrollToOffset sets the offset
func (s *Scroll) ScrollToOffset(px int) {
	s.offset = s.clamp(px)
}

// Reset centers the view again
func (s *Scroll) Reset() {
	s.offset = s.clamp(0)
}

// Offset returns the current offset
func (s *Scroll) Offset() int {
	return s.offset
}

// Limits returns the lowest and highest allowed offset
func (s *Scroll) Limits() (int, int) {
	return s.maxDown, s.maxUp
}

// CanScroll reports whether the range is non-empty
func (s *Scroll) CanScroll() bool {
	return s.maxUp > 0 || s.maxDown < 0
}

func (s *Scroll) clamp(v int) int {
	if v < s.maxDown {
		return s.maxDown
	}
	if v > s.maxUp {
		return s.maxUp
	}
	return v
}
