package render

import (
	"encoding/json"
	"unicode/utf8"
)

// Command is a single drawing operation for the frontend to execute on a
// Canvas2D context. Commands are in painter's order (back to front); numeric
// fields that are absent are zero.
type Command struct {
	Op       string    `json:"op"`
	X        float64   `json:"x,omitempty"`
	Y        float64   `json:"y,omitempty"`
	Value    float64   `json:"value,omitempty"`    // line width, rotation or text max width
	Text     string    `json:"text,omitempty"`     // FillText body
	Style    string    `json:"style,omitempty"`    // color, font, text align or baseline
	Segments []float64 `json:"segments,omitempty"` // line dash
}

const (
	OpSave         = "save"
	OpRestore      = "restore"
	OpTranslate    = "translate"
	OpRotate       = "rotate"
	OpBeginPath    = "beginPath"
	OpMoveTo       = "moveTo"
	OpLineTo       = "lineTo"
	OpStroke       = "stroke"
	OpStrokeStyle  = "strokeStyle"
	OpLineWidth    = "lineWidth"
	OpLineDash     = "lineDash"
	OpFillStyle    = "fillStyle"
	OpFont         = "font"
	OpTextAlign    = "textAlign"
	OpTextBaseline = "textBaseline"
	OpFillText     = "fillText"
)

// MarshalJSON always writes segments for lineDash, so a solid pattern reaches
// the frontend as [] rather than a missing field.
func (c Command) MarshalJSON() ([]byte, error) {
	type plain Command
	if c.Op != OpLineDash {
		return json.Marshal(plain(c))
	}

	segments := c.Segments
	if segments == nil {
		segments = []float64{}
	}
	return json.Marshal(struct {
		plain
		Segments []float64 `json:"segments"`
	}{plain(c), segments})
}

// Segment is a stroked straight segment in surface coordinates.
type Segment struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Width          float64
	Dash           []float64
}

// TextRun is a FillText call resolved to surface coordinates.
type TextRun struct {
	Text     string
	X, Y     float64
	Angle    float64
	Color    string
	Font     string
	Align    TextAlign
	Baseline TextBaseline
	MaxWidth float64
}

type recorderState struct {
	transform   Matrix2D
	strokeStyle string
	lineWidth   float64
	dash        []float64
	fillStyle   string
	font        string
	align       TextAlign
	baseline    TextBaseline
}

type pathPoint struct {
	x, y  float64
	start bool
}

// Recorder is a Surface that records every call as a Command and keeps a
// resolved view of the strokes and text it was asked to paint.
type Recorder struct {
	// CharWidth is the advance MeasureText reports per rune.
	CharWidth float64

	commands []Command
	state    recorderState
	stack    []recorderState
	path     []pathPoint
	segments []Segment
	texts    []TextRun
}

// NewRecorder creates an empty recorder with Canvas2D default state.
func NewRecorder() *Recorder {
	return &Recorder{
		CharWidth: 6,
		state: recorderState{
			transform:   Identity(),
			strokeStyle: "#000000",
			lineWidth:   1,
			fillStyle:   "#000000",
			font:        "10px sans-serif",
			align:       "start",
			baseline:    TextBaselineAlphabetic,
		},
	}
}

func (r *Recorder) record(c Command) {
	r.commands = append(r.commands, c)
}

func (r *Recorder) Save() {
	saved := r.state
	saved.dash = append([]float64(nil), r.state.dash...)
	r.stack = append(r.stack, saved)
	r.record(Command{Op: OpSave})
}

func (r *Recorder) Restore() {
	r.record(Command{Op: OpRestore})
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) Translate(x, y float64) {
	r.state.transform = r.state.transform.Multiply(Translation(x, y))
	r.record(Command{Op: OpTranslate, X: x, Y: y})
}

func (r *Recorder) Rotate(radians float64) {
	r.state.transform = r.state.transform.Multiply(Rotation(radians))
	r.record(Command{Op: OpRotate, Value: radians})
}

func (r *Recorder) BeginPath() {
	r.path = r.path[:0]
	r.record(Command{Op: OpBeginPath})
}

func (r *Recorder) MoveTo(x, y float64) {
	wx, wy := r.state.transform.TransformPoint(x, y)
	r.path = append(r.path, pathPoint{x: wx, y: wy, start: true})
	r.record(Command{Op: OpMoveTo, X: x, Y: y})
}

func (r *Recorder) LineTo(x, y float64) {
	wx, wy := r.state.transform.TransformPoint(x, y)
	r.path = append(r.path, pathPoint{x: wx, y: wy})
	r.record(Command{Op: OpLineTo, X: x, Y: y})
}

func (r *Recorder) Stroke() {
	for i := 1; i < len(r.path); i++ {
		p := r.path[i]
		if p.start {
			continue
		}
		prev := r.path[i-1]
		r.segments = append(r.segments, Segment{
			X1: prev.x, Y1: prev.y, X2: p.x, Y2: p.y,
			Color: r.state.strokeStyle,
			Width: r.state.lineWidth,
			Dash:  append([]float64(nil), r.state.dash...),
		})
	}
	r.record(Command{Op: OpStroke})
}

func (r *Recorder) SetStrokeStyle(color string) {
	r.state.strokeStyle = color
	r.record(Command{Op: OpStrokeStyle, Style: color})
}

func (r *Recorder) SetLineWidth(width float64) {
	r.state.lineWidth = width
	r.record(Command{Op: OpLineWidth, Value: width})
}

func (r *Recorder) SetLineDash(segments []float64) {
	r.state.dash = append([]float64(nil), segments...)
	r.record(Command{Op: OpLineDash, Segments: r.state.dash})
}

func (r *Recorder) SetFillStyle(color string) {
	r.state.fillStyle = color
	r.record(Command{Op: OpFillStyle, Style: color})
}

func (r *Recorder) SetFont(font string) {
	r.state.font = font
	r.record(Command{Op: OpFont, Style: font})
}

func (r *Recorder) SetTextAlign(align TextAlign) {
	r.state.align = align
	r.record(Command{Op: OpTextAlign, Style: string(align)})
}

func (r *Recorder) SetTextBaseline(baseline TextBaseline) {
	r.state.baseline = baseline
	r.record(Command{Op: OpTextBaseline, Style: string(baseline)})
}

func (r *Recorder) FillText(text string, x, y, maxWidth float64) {
	wx, wy := r.state.transform.TransformPoint(x, y)
	r.texts = append(r.texts, TextRun{
		Text:     text,
		X:        wx,
		Y:        wy,
		Angle:    r.state.transform.Angle(),
		Color:    r.state.fillStyle,
		Font:     r.state.font,
		Align:    r.state.align,
		Baseline: r.state.baseline,
		MaxWidth: maxWidth,
	})
	r.record(Command{Op: OpFillText, X: x, Y: y, Value: maxWidth, Text: text})
}

func (r *Recorder) MeasureText(text string) float64 {
	return float64(utf8.RuneCountInString(text)) * r.CharWidth
}

// Commands returns the recorded command buffer.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Segments returns every stroked segment in surface coordinates.
func (r *Recorder) Segments() []Segment {
	return r.segments
}

// Texts returns every FillText call in surface coordinates.
func (r *Recorder) Texts() []TextRun {
	return r.texts
}

// Depth returns the number of unmatched Save calls.
func (r *Recorder) Depth() int {
	return len(r.stack)
}

// Transform returns the current transform.
func (r *Recorder) Transform() Matrix2D {
	return r.state.transform
}

// CommandsToJSON serializes draw commands to JSON.
func CommandsToJSON(commands []Command) (string, error) {
	if commands == nil {
		return "[]", nil
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// Replay executes a command buffer on another surface.
func Replay(commands []Command, s Surface) {
	for _, c := range commands {
		switch c.Op {
		case OpSave:
			s.Save()
		case OpRestore:
			s.Restore()
		case OpTranslate:
			s.Translate(c.X, c.Y)
		case OpRotate:
			s.Rotate(c.Value)
		case OpBeginPath:
			s.BeginPath()
		case OpMoveTo:
			s.MoveTo(c.X, c.Y)
		case OpLineTo:
			s.LineTo(c.X, c.Y)
		case OpStroke:
			s.Stroke()
		case OpStrokeStyle:
			s.SetStrokeStyle(c.Style)
		case OpLineWidth:
			s.SetLineWidth(c.Value)
		case OpLineDash:
			s.SetLineDash(c.Segments)
		case OpFillStyle:
			s.SetFillStyle(c.Style)
		case OpFont:
			s.SetFont(c.Style)
		case OpTextAlign:
			s.SetTextAlign(TextAlign(c.Style))
		case OpTextBaseline:
			s.SetTextBaseline(TextBaseline(c.Style))
		case OpFillText:
			s.FillText(c.Text, c.X, c.Y, c.Value)
		}
	}
}
