package render

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSegments(t *testing.T) {
	r := NewRecorder()
	r.SetStrokeStyle("red")
	r.SetLineWidth(3)
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(10, 0)
	r.MoveTo(5, 5)
	r.LineTo(5, 15)
	r.Stroke()

	segs := r.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, Segment{X1: 0, Y1: 0, X2: 10, Y2: 0, Color: "red", Width: 3, Dash: nil}, segs[0])
	assert.Equal(t, 5.0, segs[1].X1)
	assert.Equal(t, 15.0, segs[1].Y2)
}

func TestRecorderSaveRestoreTransform(t *testing.T) {
	r := NewRecorder()
	r.Save()
	r.Translate(50, 20)
	r.Rotate(math.Pi / 2)
	r.SetFillStyle("blue")
	r.FillText("hi", 10, 0, 0)
	assert.Equal(t, 1, r.Depth())
	r.Restore()

	assert.Equal(t, 0, r.Depth())
	assert.True(t, r.Transform().IsIdentity())

	texts := r.Texts()
	require.Len(t, texts, 1)
	assert.InDelta(t, 50, texts[0].X, 1e-9)
	assert.InDelta(t, 30, texts[0].Y, 1e-9)
	assert.InDelta(t, math.Pi/2, texts[0].Angle, 1e-9)
	assert.Equal(t, "blue", texts[0].Color)

	r.FillText("after", 0, 0, 0)
	assert.Equal(t, "#000000", r.Texts()[1].Color)
}

func TestRecorderRestoreWithoutSave(t *testing.T) {
	r := NewRecorder()
	r.Restore()
	assert.Equal(t, 0, r.Depth())
	assert.Len(t, r.Commands(), 1)
}

func TestCommandsToJSON(t *testing.T) {
	s, err := CommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	r := NewRecorder()
	r.MoveTo(1, 2)
	r.SetLineDash([]float64{4, 4})
	s, err = CommandsToJSON(r.Commands())
	require.NoError(t, err)

	var decoded []Command
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	assert.Equal(t, r.Commands(), decoded)
}

func TestReplay(t *testing.T) {
	src := NewRecorder()
	src.Save()
	src.Translate(3, 4)
	src.BeginPath()
	src.MoveTo(0, 0)
	src.LineTo(1, 1)
	src.Stroke()
	src.SetTextAlign(TextAlignCenter)
	src.FillText("x", 0, 0, 12)
	src.Restore()

	dst := NewRecorder()
	Replay(src.Commands(), dst)

	assert.Equal(t, src.Commands(), dst.Commands())
	assert.Equal(t, src.Segments(), dst.Segments())
	assert.Equal(t, src.Texts(), dst.Texts())
}

func TestMeasureText(t *testing.T) {
	r := NewRecorder()
	r.CharWidth = 7
	assert.Equal(t, 21.0, r.MeasureText("héé"))
}

func TestCommandsToJSONLineDash(t *testing.T) {
	r := NewRecorder()
	r.SetLineDash(nil)
	r.SetLineDash([]float64{2, 4})
	r.SetLineWidth(2)

	out, err := CommandsToJSON(r.Commands())
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"op":"lineDash","segments":[]},
		{"op":"lineDash","segments":[2,4]},
		{"op":"lineWidth","value":2}
	]`, out)

	var back []Command
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	require.Len(t, back, 3)
	assert.Equal(t, OpLineDash, back[0].Op)
	assert.Empty(t, back[0].Segments)
	assert.Equal(t, []float64{2, 4}, back[1].Segments)
}
