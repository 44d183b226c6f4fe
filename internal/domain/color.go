package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a packed ARGB color
type Color uint32

// Common colors
const (
	ColorWhite     Color = 0xFFFFFFFF
	ColorGray      Color = 0xFF404040
	ColorAvailable Color = 0xFFCC6666
)

// RGBA returns the color as normalized channels
func (c Color) RGBA() (r, g, b, a float32) {
	return float32(c>>16&0xFF) / 255, float32(c>>8&0xFF) / 255, float32(c&0xFF) / 255, float32(c>>24&0xFF) / 255
}

// FromRGBA packs normalized channels into a Color
func FromRGBA(r, g, b, a float32) Color {
	ch := func(v float32) Color {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 0xFF
		}
		return Color(v*255 + 0.5)
	}
	return ch(a)<<24 | ch(r)<<16 | ch(g)<<8 | ch(b)
}

// String renders the color as #AARRGGBB
func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ParseColor accepts #AARRGGBB, #RRGGBB (opaque) and 0x prefixed hex
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(raw, "#"):
		raw = raw[1:]
	case strings.HasPrefix(raw, "0x"), strings.HasPrefix(raw, "0X"):
		raw = raw[2:]
	}

	if len(raw) != 6 && len(raw) != 8 {
		return 0, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(raw) == 6 {
		v |= 0xFF000000
	}
	return Color(v), nil
}

// MarshalText implements encoding.TextMarshaler
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
