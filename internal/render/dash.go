package render

import "github.com/inamate/chartlines/internal/annotation"

// DashPattern returns the Canvas2D line dash segments for a line style at the
// given stroke width. Solid lines use an empty pattern.
func DashPattern(style annotation.LineStyle, width float64) []float64 {
	switch style {
	case annotation.LineStyleDotted:
		return []float64{width, width}
	case annotation.LineStyleDashed:
		return []float64{2 * width, 2 * width}
	case annotation.LineStyleLargeDashed:
		return []float64{6 * width, 6 * width}
	case annotation.LineStyleSparseDotted:
		return []float64{width, 4 * width}
	default:
		return []float64{}
	}
}
