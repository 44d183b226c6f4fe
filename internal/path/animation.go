package path

import (
	"math"
	"time"
)

// AnimationDuration is the length of the advance transition
const AnimationDuration = 300 * time.Millisecond

// Clock provides the current time
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

// Now implements Clock
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock returns the wall clock
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// EaseOutCubic maps linear progress t in [0,1] to 1-(1-t)^3
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(1-t, 3)
}

// Frame is the state of an animation for one rendered frame
type Frame struct {
	Active     bool    `json:"active"`
	StartIndex int     `json:"start_index"`
	Progress   float64 `json:"progress"`
	// Completed is set on the single frame where progress reached 1
	Completed bool `json:"completed"`
}

// Animation is the advance transition of one path
type Animation struct {
	clock      Clock
	duration   time.Duration
	active     bool
	start      time.Time
	startIndex int
	progress   float64
}

// NewAnimation creates an idle animation
func NewAnimation(clock Clock) *Animation {
	if clock == nil {
		clock = SystemClock()
	}
	return &Animation{clock: clock, duration: AnimationDuration}
}

// Start begins advancing from the given index. It does nothing and returns
// false while an animation is running.
func (a *Animation) Start(fromIndex int) bool {
	if a.active {
		return false
	}
	a.active = true
	a.start = a.clock.Now()
	a.startIndex = fromIndex
	a.progress = 0
	return true
}

// Active reports whether an animation is running
func (a *Animation) Active() bool {
	return a.active
}

// Update advances the animation to the current time. The frame on which
// progress reaches 1 is returned with Completed set; the animation is idle
// afterwards.
func (a *Animation) Update() Frame {
	if !a.active {
		return Frame{StartIndex: -1}
	}

	elapsed := a.clock.Now().Sub(a.start)
	t := float64(elapsed) / float64(a.duration)
	if p := EaseOutCubic(t); p > a.progress {
		a.progress = p
	}

	frame := Frame{Active: true, StartIndex: a.startIndex, Progress: a.progress}
	if t >= 1 {
		frame.Progress = 1
		frame.Completed = true
		a.active = false
		a.progress = 0
	}
	return frame
}
