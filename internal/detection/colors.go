package detection

import (
	"fmt"
	"strings"

	"github.com/OlivierCrt/Projet-groupe4/internal/imaging"
)

// ColorClass identifies one marker color. Comparisons and dispatch use the
// enumeration; the label is for display only.
type ColorClass int

const (
	Yellow ColorClass = iota
	Blue
	Orange
)

// Classes lists every supported class in catalog order.
var Classes = []ColorClass{Yellow, Blue, Orange}

var classInfo = map[ColorClass]struct {
	label  string
	swatch string // display color for overlays and reports
}{
	Yellow: {"Yellow", "#FFD700"},
	Blue:   {"Blue", "#1E64FF"},
	Orange: {"Orange", "#FF8700"},
}

// String returns the display label.
func (c ColorClass) String() string {
	if info, ok := classInfo[c]; ok {
		return info.label
	}
	return fmt.Sprintf("ColorClass(%d)", int(c))
}

// Swatch returns a representative "#RRGGBB" display color.
func (c ColorClass) Swatch() string {
	if info, ok := classInfo[c]; ok {
		return info.swatch
	}
	return "#FF0000"
}

// MarshalText encodes the class as its lower-case label.
func (c ColorClass) MarshalText() ([]byte, error) {
	if _, ok := classInfo[c]; !ok {
		return nil, fmt.Errorf("unknown color class %d", int(c))
	}
	return []byte(strings.ToLower(c.String())), nil
}

// UnmarshalText accepts a label, case-insensitively.
func (c *ColorClass) UnmarshalText(text []byte) error {
	parsed, err := ParseColorClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColorClass maps a label such as "yellow" or "Blue" to its class.
func ParseColorClass(s string) (ColorClass, error) {
	for _, c := range Classes {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown color class %q", s)
}

// ColorRange is an inclusive per-channel threshold for one class.
type ColorRange struct {
	Class    ColorClass `json:"class"`
	RedMin   uint8      `json:"red_min"`
	RedMax   uint8      `json:"red_max"`
	GreenMin uint8      `json:"green_min"`
	GreenMax uint8      `json:"green_max"`
	BlueMin  uint8      `json:"blue_min"`
	BlueMax  uint8      `json:"blue_max"`
}

// Contains reports whether all three channels lie inside their bounds.
func (r ColorRange) Contains(red, green, blue uint8) bool {
	return red >= r.RedMin && red <= r.RedMax &&
		green >= r.GreenMin && green <= r.GreenMax &&
		blue >= r.BlueMin && blue <= r.BlueMax
}

// Validate rejects ranges whose minimum exceeds their maximum.
func (r ColorRange) Validate() error {
	switch {
	case r.RedMin > r.RedMax:
		return fmt.Errorf("%s: red_min %d > red_max %d", r.Class, r.RedMin, r.RedMax)
	case r.GreenMin > r.GreenMax:
		return fmt.Errorf("%s: green_min %d > green_max %d", r.Class, r.GreenMin, r.GreenMax)
	case r.BlueMin > r.BlueMax:
		return fmt.Errorf("%s: blue_min %d > blue_max %d", r.Class, r.BlueMin, r.BlueMax)
	}
	return nil
}

// Center returns the "#RRGGBB" color at the middle of the range. Useful for
// showing what a range roughly looks like.
func (r ColorRange) Center() string {
	mid := func(lo, hi uint8) uint8 { return uint8((int(lo) + int(hi)) / 2) }
	return imaging.HexColor(mid(r.RedMin, r.RedMax), mid(r.GreenMin, r.GreenMax), mid(r.BlueMin, r.BlueMax))
}

// DefaultCatalog returns the compiled-in ranges, tuned for the arena
// markers under indoor lighting.
func DefaultCatalog() []ColorRange {
	return []ColorRange{
		{Class: Yellow, RedMin: 200, RedMax: 255, GreenMin: 180, GreenMax: 255, BlueMin: 0, BlueMax: 100},
		{Class: Blue, RedMin: 0, RedMax: 10, GreenMin: 21, GreenMax: 94, BlueMin: 48, BlueMax: 255},
		{Class: Orange, RedMin: 136, RedMax: 250, GreenMin: 27, GreenMax: 56, BlueMin: 0, BlueMax: 10},
	}
}
