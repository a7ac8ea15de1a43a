package main

import (
	"image/color"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"gray":    "#808080",
	"grey":    "#808080",
	"pink":    "#ffc0cb",
	"navy":    "#000080",
	"teal":    "#008080",
	"gold":    "#ffd700",
	"silver":  "#c0c0c0",
	"maroon":  "#800000",
	"olive":   "#808000",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
}

// parseColor reads #rgb, #rgba, #rrggbb, #rrggbbaa, "transparent" and a
// handful of CSS names. Anything else yields fallback.
func parseColor(s string, fallback color.Color) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return fallback
	case "transparent", "none":
		return color.Transparent
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		Logger().Debug("unsupported color", "value", s)
		return fallback
	}

	alpha := uint8(255)
	switch len(s) {
	case 4, 5:
		expanded := "#"
		for _, ch := range s[1:] {
			expanded += string(ch) + string(ch)
		}
		s = expanded
	}
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return fallback
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		Logger().Debug("unsupported color", "value", s, "err", err)
		return fallback
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// withAlpha scales the alpha of c by a.
func withAlpha(c color.Color, a float64) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(clamp(float64(n.A)*a, 0, 255))
	return n
}

// confettiColor picks a saturated color for hue h in degrees.
func confettiColor(h float64) color.Color {
	r, g, b := colorful.Hsv(h, 0.7, 0.95).RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
