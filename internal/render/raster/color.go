package raster

import (
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

var namedColors = map[string]drawing.Color{
	"black":       {R: 0, G: 0, B: 0, A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
	"red":         {R: 255, G: 0, B: 0, A: 255},
	"green":       {R: 0, G: 128, B: 0, A: 255},
	"blue":        {R: 0, G: 0, B: 255, A: 255},
	"yellow":      {R: 255, G: 255, B: 0, A: 255},
	"orange":      {R: 255, G: 165, B: 0, A: 255},
	"purple":      {R: 128, G: 0, B: 128, A: 255},
	"gray":        {R: 128, G: 128, B: 128, A: 255},
	"grey":        {R: 128, G: 128, B: 128, A: 255},
	"transparent": {},
}

// ParseColor converts a CSS color (#rgb, #rrggbb, #rrggbbaa, rgb(), rgba() or
// a basic named color) to a go-chart color. Unparseable input is black.
func ParseColor(css string) drawing.Color {
	css = strings.ToLower(strings.TrimSpace(css))

	if c, ok := namedColors[css]; ok {
		return c
	}

	if strings.HasPrefix(css, "#") {
		return parseHex(css[1:])
	}

	if strings.HasPrefix(css, "rgb") {
		return parseFunc(css)
	}

	return drawing.Color{A: 255}
}

func parseHex(hex string) drawing.Color {
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	if len(hex) != 6 && len(hex) != 8 {
		return drawing.Color{A: 255}
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return drawing.Color{A: 255}
	}
	if len(hex) == 6 {
		return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
	}
	return drawing.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

func parseFunc(css string) drawing.Color {
	open := strings.IndexByte(css, '(')
	end := strings.LastIndexByte(css, ')')
	if open < 0 || end < open {
		return drawing.Color{A: 255}
	}

	parts := strings.Split(css[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return drawing.Color{A: 255}
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return drawing.Color{A: 255}
		}
		channels[i] = clampByte(v)
	}

	alpha := uint8(255)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return drawing.Color{A: 255}
		}
		alpha = clampByte(a * 255)
	}

	return drawing.Color{R: channels[0], G: channels[1], B: channels[2], A: alpha}
}

func clampByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}
