// Package raster implements render.Surface on top of go-chart's PNG renderer.
package raster

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/inamate/chartlines/internal/render"
)

type state struct {
	transform   render.Matrix2D
	strokeStyle string
	lineWidth   float64
	dash        []float64
	fillStyle   string
	fontSize    float64
	align       render.TextAlign
	baseline    render.TextBaseline
}

type point struct {
	x, y  float64
	start bool
}

// Surface paints onto an in-memory PNG. go-chart has no transform stack of its
// own, so points are transformed here before they reach the renderer.
type Surface struct {
	r             chart.Renderer
	width, height int

	state state
	stack []state
	path  []point
}

// New creates a surface of the given pixel size.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("create png renderer: %w", err)
	}
	// font sizes are CSS pixels
	r.SetDPI(72)

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	r.SetFont(font)

	return &Surface{
		r:      r,
		width:  width,
		height: height,
		state: state{
			transform:   render.Identity(),
			strokeStyle: "#000000",
			lineWidth:   1,
			fillStyle:   "#000000",
			fontSize:    10,
			align:       render.TextAlignLeft,
			baseline:    render.TextBaselineAlphabetic,
		},
	}, nil
}

// Clear fills the whole surface with a color.
func (s *Surface) Clear(color string) {
	s.r.SetFillColor(ParseColor(color))
	s.r.SetStrokeWidth(0)
	s.r.MoveTo(0, 0)
	s.r.LineTo(s.width, 0)
	s.r.LineTo(s.width, s.height)
	s.r.LineTo(0, s.height)
	s.r.Close()
	s.r.Fill()
}

// WritePNG encodes the surface.
func (s *Surface) WritePNG(w io.Writer) error {
	if err := s.r.Save(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (s *Surface) Save() {
	saved := s.state
	saved.dash = append([]float64(nil), s.state.dash...)
	s.stack = append(s.stack, saved)
}

func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
}

func (s *Surface) Translate(x, y float64) {
	s.state.transform = s.state.transform.Multiply(render.Translation(x, y))
}

func (s *Surface) Rotate(radians float64) {
	s.state.transform = s.state.transform.Multiply(render.Rotation(radians))
}

func (s *Surface) BeginPath() {
	s.path = s.path[:0]
}

func (s *Surface) MoveTo(x, y float64) {
	wx, wy := s.state.transform.TransformPoint(x, y)
	s.path = append(s.path, point{x: wx, y: wy, start: true})
}

func (s *Surface) LineTo(x, y float64) {
	wx, wy := s.state.transform.TransformPoint(x, y)
	if len(s.path) == 0 {
		s.path = append(s.path, point{x: wx, y: wy, start: true})
		return
	}
	s.path = append(s.path, point{x: wx, y: wy})
}

func (s *Surface) Stroke() {
	if len(s.path) < 2 {
		return
	}

	s.r.SetStrokeColor(ParseColor(s.state.strokeStyle))
	s.r.SetStrokeWidth(s.state.lineWidth)
	s.r.SetStrokeDashArray(s.state.dash)

	for _, p := range s.path {
		if p.start {
			s.r.MoveTo(round(p.x), round(p.y))
		} else {
			s.r.LineTo(round(p.x), round(p.y))
		}
	}
	s.r.Stroke()
}

func (s *Surface) SetStrokeStyle(color string) { s.state.strokeStyle = color }
func (s *Surface) SetLineWidth(width float64)  { s.state.lineWidth = width }
func (s *Surface) SetFillStyle(color string)   { s.state.fillStyle = color }

func (s *Surface) SetLineDash(segments []float64) {
	s.state.dash = append([]float64(nil), segments...)
}

// SetFont accepts a CSS font shorthand; only the pixel size is honored, the
// family is always go-chart's bundled font.
func (s *Surface) SetFont(font string) {
	if size, ok := fontPixelSize(font); ok {
		s.state.fontSize = size
	}
}

func (s *Surface) SetTextAlign(align render.TextAlign)          { s.state.align = align }
func (s *Surface) SetTextBaseline(baseline render.TextBaseline) { s.state.baseline = baseline }

func (s *Surface) MeasureText(text string) float64 {
	s.r.SetFontSize(s.state.fontSize)
	return float64(s.r.MeasureText(text).Width())
}

func (s *Surface) FillText(text string, x, y, maxWidth float64) {
	size := s.state.fontSize
	s.r.SetFontSize(size)
	box := s.r.MeasureText(text)
	w, h := float64(box.Width()), float64(box.Height())

	if maxWidth > 0 && w > maxWidth && w > 0 {
		size = size * maxWidth / w
		s.r.SetFontSize(size)
		box = s.r.MeasureText(text)
		w, h = float64(box.Width()), float64(box.Height())
	}

	switch s.state.align {
	case render.TextAlignCenter:
		x -= w / 2
	case render.TextAlignRight:
		x -= w
	}

	switch s.state.baseline {
	case render.TextBaselineMiddle:
		y += h / 2
	case render.TextBaselineTop:
		y += h
	}

	wx, wy := s.state.transform.TransformPoint(x, y)
	s.r.SetFontColor(ParseColor(s.state.fillStyle))

	angle := s.state.transform.Angle()
	if angle != 0 {
		s.r.SetTextRotation(angle)
		defer s.r.ClearTextRotation()
	}
	s.r.Text(text, round(wx), round(wy))
}

func round(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}

func fontPixelSize(font string) (float64, bool) {
	for _, field := range strings.Fields(font) {
		if !strings.HasSuffix(field, "px") {
			continue
		}
		size, err := strconv.ParseFloat(strings.TrimSuffix(field, "px"), 64)
		if err != nil || size <= 0 {
			return 0, false
		}
		return size, true
	}
	return 0, false
}

var _ render.Surface = (*Surface)(nil)
