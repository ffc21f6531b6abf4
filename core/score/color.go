package score

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB color attached to a score element. The zero value means
// "no color".
type Color struct {
	R, G, B uint8
	Valid   bool
}

// RGB returns a valid color from components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

var namedColors = map[string]Color{
	"black":   RGB(0, 0, 0),
	"white":   RGB(255, 255, 255),
	"red":     RGB(255, 0, 0),
	"green":   RGB(0, 128, 0),
	"blue":    RGB(0, 0, 255),
	"yellow":  RGB(255, 255, 0),
	"magenta": RGB(255, 0, 255),
	"cyan":    RGB(0, 255, 255),
	"gray":    RGB(128, 128, 128),
	"grey":    RGB(128, 128, 128),
}

// ParseColor parses "#rrggbb" hex notation or a small set of SVG color
// names. Unparseable input yields the zero ("no color") value.
func ParseColor(s string) Color {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Color{}
	}
	if c, ok := namedColors[s]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		n, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return Color{}
		}
		return RGB(uint8(n>>16), uint8(n>>8), uint8(n))
	}
	return Color{}
}

// String returns the "#rrggbb" form, or "" for "no color".
func (c Color) String() string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
