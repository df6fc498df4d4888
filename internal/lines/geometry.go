package lines

import "math"

const (
	epsilon = 1e-9

	arrowLength = 10.0
	arrowAngle  = 10 * math.Pi / 180
)

// lineAngle returns the rotation that aligns the x axis with a line of the
// given extent. Like atan(dy/dx) the result stays within [-π/2, π/2] so text
// laid along it is never upside down.
func lineAngle(dx, dy float64) float64 {
	if math.Abs(dx) < epsilon {
		switch {
		case math.Abs(dy) < epsilon:
			return 0
		case dy > 0:
			return math.Pi / 2
		default:
			return -math.Pi / 2
		}
	}
	return math.Atan(dy / dx)
}

func rotate(x, y, radians float64) (float64, float64) {
	sin, cos := math.Sincos(radians)
	return cos*x - sin*y, sin*x + cos*y
}

// arrowStrokes returns the two chevron strokes of an arrowhead at the tip,
// each starting at the tip and pointing back towards the tail. ok is false for
// zero-length lines, whose direction is undefined.
func arrowStrokes(tipX, tipY, tailX, tailY float64) (strokes [2][4]float64, ok bool) {
	dx, dy := tailX-tipX, tailY-tipY
	length := math.Hypot(dx, dy)
	if length < epsilon {
		return strokes, false
	}

	ux, uy := dx/length, dy/length
	for i, a := range [2]float64{arrowAngle, -arrowAngle} {
		rx, ry := rotate(ux, uy, a)
		strokes[i] = [4]float64{tipX, tipY, tipX + rx*arrowLength, tipY + ry*arrowLength}
	}
	return strokes, true
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
