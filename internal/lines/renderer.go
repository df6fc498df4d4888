package lines

import (
	"math"
	"unicode/utf8"

	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/render"
)

// Renderer paints line annotations and answers hit-tests against them.
type Renderer struct {
	data       *RendererData
	textWidths *textWidthCache

	fontSize   float64
	fontFamily string
	font       string
}

// NewRenderer creates a renderer with no data.
func NewRenderer() *Renderer {
	return &Renderer{textWidths: newTextWidthCache()}
}

// SetData replaces the item list.
func (r *Renderer) SetData(data *RendererData) {
	r.data = data
}

// SetParams updates the label font. The font string and the text width cache
// are only rebuilt when one of the values changes.
func (r *Renderer) SetParams(fontSize float64, fontFamily string) {
	if r.fontSize == fontSize && r.fontFamily == fontFamily && r.font != "" {
		return
	}
	r.fontSize = fontSize
	r.fontFamily = fontFamily
	r.font = makeFont(fontSize, fontFamily)
	r.textWidths.reset()
}

// Font returns the CSS font used for labels.
func (r *Renderer) Font() string {
	return r.font
}

// Draw paints every item in list order, so later items end up on top.
func (r *Renderer) Draw(s render.Surface) {
	if r.data == nil || len(r.data.Items) == 0 {
		return
	}

	s.Save()
	defer s.Restore()

	s.SetTextBaseline(render.TextBaselineMiddle)
	s.SetFont(r.font)

	for i := range r.data.Items {
		item := &r.data.Items[i]
		r.drawLine(s, item)
		if item.Text != "" {
			r.drawText(s, item)
		}
	}
}

func (r *Renderer) drawLine(s render.Surface, item *RenderItem) {
	width := item.lineWidth()

	s.BeginPath()
	s.MoveTo(item.X1, item.Y1)
	s.LineTo(item.X2, item.Y2)
	s.SetLineWidth(width)
	s.SetStrokeStyle(item.Color)
	s.SetLineDash(render.DashPattern(item.Style, width))
	s.Stroke()

	left := item.LeftTip == annotation.LineTipArrow
	right := item.RightTip == annotation.LineTipArrow
	if !left && !right {
		return
	}

	// arrowheads stay solid whatever the line style
	s.BeginPath()
	s.SetLineDash(render.DashPattern(annotation.LineStyleSolid, width))
	if right {
		drawArrow(s, item.X2, item.Y2, item.X1, item.Y1)
	}
	if left {
		drawArrow(s, item.X1, item.Y1, item.X2, item.Y2)
	}
	s.Stroke()
}

func drawArrow(s render.Surface, tipX, tipY, tailX, tailY float64) {
	strokes, ok := arrowStrokes(tipX, tipY, tailX, tailY)
	if !ok {
		return
	}
	for _, st := range strokes {
		s.MoveTo(st[0], st[1])
		s.LineTo(st[2], st[3])
	}
}

func (r *Renderer) drawText(s render.Surface, item *RenderItem) {
	dx := item.X2 - item.X1
	dy := item.Y2 - item.Y1
	length := math.Hypot(dx, dy)
	if length < epsilon {
		return
	}

	// only squeeze labels that are wider than the line
	maxWidth := 0.0
	if r.textWidths.measure(s, item.Text) > length {
		maxWidth = length
	}

	s.Save()
	s.Translate(item.X1+dx/2, item.Y1+dy/2)
	s.Rotate(lineAngle(dx, dy))
	s.SetFillStyle(item.Color)
	s.SetTextAlign(render.TextAlignCenter)
	s.FillText(item.Text, 0, -r.fontSize, maxWidth)
	s.Restore()
}

// HitTest returns the topmost item under (x, y). Items are tested in reverse
// paint order.
func (r *Renderer) HitTest(x, y float64) (Hit, bool) {
	if r.data == nil {
		return Hit{}, false
	}

	items := r.data.Items
	for i := len(items) - 1; i >= 0; i-- {
		if r.hitLineOrText(x, y, &items[i]) {
			return Hit{InternalID: items[i].InternalID, ExternalID: items[i].ExternalID}, true
		}
	}
	return Hit{}, false
}

func (r *Renderer) hitLineOrText(x, y float64, item *RenderItem) bool {
	dx := item.X2 - item.X1
	dy := item.Y2 - item.Y1
	length := math.Hypot(dx, dy)
	halfWidth := math.Max(item.lineWidth()/2, 1)

	cx := x - item.X1
	cy := y - item.Y1

	if length < epsilon {
		if math.Hypot(cx, cy) <= halfWidth {
			return true
		}
	} else {
		ux, uy := dx/length, dy/length
		along := cx*ux + cy*uy
		across := ux*cy - uy*cx
		if along >= 0 && along <= length && math.Abs(across) <= halfWidth {
			return true
		}
	}

	if item.Text == "" {
		return false
	}

	// label box in the frame the label is drawn in
	toLabel := render.Translation(item.X1+dx/2, item.Y1+dy/2).Multiply(render.Rotation(lineAngle(dx, dy))).Invert()
	tx, ty := toLabel.TransformPoint(x, y)
	textWidth := math.Min(length, float64(utf8.RuneCountInString(item.Text))*r.fontSize)

	return math.Abs(tx) <= textWidth/2 && ty >= -1.5*r.fontSize && ty <= 0
}
