// Package theming derives concrete presentation values from a stored
// theme record. Every function here is total: malformed input degrades
// to the platform default blue so an embed always renders something.
package theming

import (
	"fmt"
	"strconv"
	"strings"

	"configly/internal/models"
)

// HSL is a color in hue/saturation/lightness space, rounded to whole
// degrees and percents.
type HSL struct {
	H int
	S int
	L int
}

// Fallback is the platform default blue (#3b82f6), returned whenever a
// color cannot be parsed.
var Fallback = HSL{H: 217, S: 91, L: 60}

// Foreground constants used by text-color derivation.
var (
	nearWhite = HSL{H: 0, S: 0, L: 98}
	nearBlack = HSL{H: 222, S: 47, L: 11}
)

// String formats the color as a CSS HSL triplet, e.g. "217 91% 60%".
func (c HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%", c.H, c.S, c.L)
}

// HexToHSL converts a #rgb or #rrggbb color. The second return value
// reports whether the input was well-formed.
func HexToHSL(hex string) (HSL, bool) {
	s := strings.TrimSpace(hex)
	s = strings.TrimPrefix(s, "#")

	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Fallback, false
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Fallback, false
	}

	r := float64(v>>16&0xff) / 255
	g := float64(v>>8&0xff) / 255
	b := float64(v&0xff) / 255

	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}

	l := (max + min) / 2
	var h, sat float64

	if max != min {
		d := max - min
		if l > 0.5 {
			sat = d / (2 - max - min)
		} else {
			sat = d / (max + min)
		}
		switch max {
		case r:
			h = (g - b) / d
			if g < b {
				h += 6
			}
		case g:
			h = (b-r)/d + 2
		default:
			h = (r-g)/d + 4
		}
		h /= 6
	}

	return HSL{
		H: int(h*360 + 0.5),
		S: int(sat*100 + 0.5),
		L: int(l*100 + 0.5),
	}, true
}

// ParseHSLString parses an "h s% l%" triplet such as "217 91% 60%".
func ParseHSLString(s string) (HSL, bool) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 3 {
		return Fallback, false
	}

	h, err := strconv.Atoi(fields[0])
	if err != nil || h < 0 || h > 360 {
		return Fallback, false
	}
	sat, ok := parsePercent(fields[1])
	if !ok {
		return Fallback, false
	}
	l, ok := parsePercent(fields[2])
	if !ok {
		return Fallback, false
	}

	return HSL{H: h, S: sat, L: l}, true
}

func parsePercent(s string) (int, bool) {
	if !strings.HasSuffix(s, "%") {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

// FromColor normalizes a color expressed as hex or as an HSL triplet
// string. Malformed input returns Fallback, never an error.
func FromColor(s string) HSL {
	if c, ok := HexToHSL(s); ok {
		return c
	}
	if c, ok := ParseHSLString(s); ok {
		return c
	}
	return Fallback
}

// CalculateTextColor picks the foreground color for content rendered on
// the primary color. AUTO is a simple lightness threshold, not a WCAG
// contrast computation: a light primary gets the dark foreground and
// vice versa.
func CalculateTextColor(primaryColor string, mode models.TextColorMode, customColor string) HSL {
	switch mode {
	case models.TextColorModeWhite:
		return nearWhite
	case models.TextColorModeBlack:
		return nearBlack
	case models.TextColorModeCustom:
		return FromColor(customColor)
	default:
		if FromColor(primaryColor).L > 50 {
			return nearBlack
		}
		return nearWhite
	}
}

// CSSVariables derives the fixed variable set an embed stylesheet
// consumes. Same theme in, same variables out.
func CSSVariables(t models.Theme) map[string]string {
	primary := FromColor(t.PrimaryColor)
	foreground := CalculateTextColor(t.PrimaryColor, t.TextColorMode, t.CustomTextColor)
	accent := FromColor(t.AccentColor)

	return map[string]string{
		"--primary":            primary.String(),
		"--primary-foreground": foreground.String(),
		"--ring":               primary.String(),
		"--accent":             accent.String(),
		"--accent-foreground":  CalculateTextColor(t.AccentColor, t.TextColorMode, t.CustomTextColor).String(),
	}
}

// Default returns the hardcoded platform theme.
func Default() models.Theme {
	return models.Theme{
		Name:            "Default",
		PrimaryColor:    "#3b82f6",
		SecondaryColor:  "#64748b",
		AccentColor:     "#8b5cf6",
		BackgroundColor: "#ffffff",
		SurfaceColor:    "#f8fafc",
		TextColor:       "#0f172a",
		TextColorMode:   models.TextColorModeAuto,
		FontFamily:      "Inter",
		BorderRadius:    "0.5rem",
		SpacingUnit:     "1rem",
		MaxWidth:        "900px",
		IsDefault:       true,
		IsActive:        true,
	}
}

// Resolve collapses the theme fallback chain into a single total
// function: a stored theme is returned as-is, anything else yields the
// hardcoded default.
func Resolve(stored *models.Theme) models.Theme {
	if stored == nil {
		return Default()
	}
	return *stored
}
