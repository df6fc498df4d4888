// Package render defines the drawing surface the chart renderers paint on and
// the draw-command buffer used to ship frames to a Canvas2D frontend.
package render

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

type TextBaseline string

const (
	TextBaselineTop        TextBaseline = "top"
	TextBaselineMiddle     TextBaseline = "middle"
	TextBaselineAlphabetic TextBaseline = "alphabetic"
	TextBaselineBottom     TextBaseline = "bottom"
)

// Surface is the subset of a Canvas2D context the renderers need.
// Coordinates are in media pixels; Translate and Rotate compose onto the
// current transform, which Save and Restore push and pop together with the
// stroke, fill and text state.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()

	SetStrokeStyle(color string)
	SetLineWidth(width float64)
	SetLineDash(segments []float64)
	SetFillStyle(color string)

	SetFont(font string)
	SetTextAlign(align TextAlign)
	SetTextBaseline(baseline TextBaseline)
	// FillText draws text at (x, y). A positive maxWidth scales the text down
	// so that it fits.
	FillText(text string, x, y, maxWidth float64)
	MeasureText(text string) float64
}
