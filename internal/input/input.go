// Package input holds the pointer event types shared by the views.
package input

import "fmt"

// Button is a pointer button
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// ParseButton converts a button name into a Button
func ParseButton(s string) (Button, error) {
	switch s {
	case "", "left":
		return ButtonLeft, nil
	case "right":
		return ButtonRight, nil
	case "middle":
		return ButtonMiddle, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// Rect is a screen rectangle; X and Y are the top left corner
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether a screen point lies inside the rectangle
func (r Rect) Contains(x, y float64) bool {
	return x >= float64(r.X) && y >= float64(r.Y) &&
		x < float64(r.X+r.Width) && y < float64(r.Y+r.Height)
}

// Local converts a screen point to rectangle relative coordinates
func (r Rect) Local(x, y float64) (float64, float64) {
	return x - float64(r.X), y - float64(r.Y)
}
