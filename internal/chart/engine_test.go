package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/render"
)

// testChart has ten bars at 1000..1900 valued 10..19 and one horizontal line
// from the third to the eighth bar at 15.
func testChart() *annotation.Chart {
	bars := make([]annotation.Bar, 10)
	for i := range bars {
		bars[i] = annotation.Bar{Time: annotation.Time(1000 + i*100), Value: float64(10 + i)}
	}
	return &annotation.Chart{
		ID:   "chart_test",
		Bars: bars,
		Lines: []annotation.Line{{
			ID:    "support",
			From:  annotation.TimePrice{Time: 1200, Price: 15},
			To:    annotation.TimePrice{Time: 1700, Price: 15},
			Color: "#ff0000",
			Width: 2,
		}},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(100, 100)
	e.SetChart(testChart())
	return e
}

func TestEngineEmptyChart(t *testing.T) {
	e := NewEngine(100, 100)

	assert.Empty(t, e.Render())
	assert.Equal(t, "[]", e.RenderJSON())
	assert.Equal(t, "null", e.HitTestJSON(50, 50))

	err := e.SetVisibleTimeRange(annotation.TimeRange{From: 0, To: 10})
	assert.Error(t, err)
}

func TestEngineRender(t *testing.T) {
	e := newTestEngine(t)

	commands := e.Render()
	require.NotEmpty(t, commands)
	assert.Equal(t, render.OpSave, commands[0].Op)
	assert.Equal(t, render.OpRestore, commands[len(commands)-1].Op)

	rec := render.NewRecorder()
	e.Draw(rec)
	require.Len(t, rec.Segments(), 1)
	seg := rec.Segments()[0]
	assert.InDelta(t, 25, seg.X1, 1e-9)
	assert.InDelta(t, 75, seg.X2, 1e-9)
	assert.Equal(t, "#ff0000", seg.Color)
	assert.Equal(t, 0, rec.Depth())
}

func TestEngineHitTest(t *testing.T) {
	e := newTestEngine(t)

	firstValue, ok := e.series.FirstValue()
	require.True(t, ok)
	assert.Equal(t, 10.0, firstValue)

	y, ok := e.priceScale.PriceToCoordinate(15, firstValue)
	require.True(t, ok)

	hit, ok := e.HitTest(50, y)
	require.True(t, ok)
	assert.Equal(t, "support", hit.ExternalID)
	assert.Equal(t, 0, hit.InternalID)
	assert.JSONEq(t, `{"internalId":0,"externalId":"support"}`, e.HitTestJSON(50, y))

	_, ok = e.HitTest(50, y+20)
	assert.False(t, ok)
	_, ok = e.HitTest(90, y)
	assert.False(t, ok)
}

func TestEngineVisibleRangeFiltersLines(t *testing.T) {
	e := newTestEngine(t)

	e.SetVisibleLogicalRange(0, 1)
	r, ok := e.VisibleTimeRange()
	require.True(t, ok)
	assert.Equal(t, annotation.TimeRange{From: 1000, To: 1100}, r)
	assert.Empty(t, e.Render())

	require.NoError(t, e.SetVisibleTimeRange(annotation.TimeRange{From: 1500, To: 1900}))
	r, ok = e.VisibleTimeRange()
	require.True(t, ok)
	assert.Equal(t, annotation.TimeRange{From: 1500, To: 1900}, r)
	assert.NotEmpty(t, e.Render())

	e.FitContent()
	r, _ = e.VisibleTimeRange()
	assert.Equal(t, annotation.TimeRange{From: 1000, To: 1900}, r)
}

func TestEngineHiddenSeries(t *testing.T) {
	e := newTestEngine(t)

	e.SetSeriesVisible(false)
	assert.Empty(t, e.Render())
	_, ok := e.HitTest(50, 50)
	assert.False(t, ok)
	assert.True(t, e.Chart().Hidden)

	e.SetSeriesVisible(true)
	assert.NotEmpty(t, e.Render())
}

func TestEngineSetLines(t *testing.T) {
	e := newTestEngine(t)

	err := e.SetLines([]annotation.Line{{From: annotation.TimePrice{Time: 1000}, To: annotation.TimePrice{Time: 1100}}})
	require.Error(t, err)
	require.Len(t, e.Chart().Lines, 1)

	err = e.SetLines([]annotation.Line{
		{ID: "a", From: annotation.TimePrice{Time: 1000, Price: 12}, To: annotation.TimePrice{Time: 1900, Price: 12}, Color: "blue"},
		{ID: "b", From: annotation.TimePrice{Time: 1000, Price: 12}, To: annotation.TimePrice{Time: 1900, Price: 12}, Color: "green"},
	})
	require.NoError(t, err)
	assert.Equal(t, annotation.LineTipNormal, e.Chart().Lines[0].LeftTip)

	firstValue, _ := e.series.FirstValue()
	y, _ := e.priceScale.PriceToCoordinate(12, firstValue)
	hit, ok := e.HitTest(50, y)
	require.True(t, ok)
	assert.Equal(t, "b", hit.ExternalID)
}

func TestEngineCachesProjection(t *testing.T) {
	e := newTestEngine(t)

	e.Render()
	e.Render()
	assert.Equal(t, 1, e.Passes())

	e.SetSize(100, 100)
	e.Render()
	assert.Equal(t, 1, e.Passes())

	e.SetSize(200, 100)
	e.Render()
	assert.Equal(t, 2, e.Passes())

	w, h := e.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
}

func TestEngineSetLayout(t *testing.T) {
	e := newTestEngine(t)

	e.SetLayout(annotation.Layout{FontSize: 16})
	assert.Equal(t, 16.0, e.Layout().FontSize)
	assert.Equal(t, annotation.DefaultFontFamily, e.Layout().FontFamily)

	err := e.SetLines([]annotation.Line{{
		From:  annotation.TimePrice{Time: 1000, Price: 12},
		To:    annotation.TimePrice{Time: 1900, Price: 12},
		Color: "blue",
		Text:  "label",
	}})
	require.NoError(t, err)

	rec := render.NewRecorder()
	e.Draw(rec)
	require.Len(t, rec.Texts(), 1)
	assert.Equal(t, "16px "+annotation.DefaultFontFamily, rec.Texts()[0].Font)
}

func TestEngineLoadChart(t *testing.T) {
	e := NewEngine(100, 100)

	require.Error(t, e.LoadChart([]byte(`{"bars":[{"time":2,"value":1},{"time":1,"value":1}]}`)))

	require.NoError(t, e.LoadChart([]byte(`{
		"id": "c1",
		"bars": [{"time": 1, "value": 1}, {"time": 2, "value": 2}],
		"lines": [{"id": "l1", "from": {"time": 1, "price": 1}, "to": {"time": 2, "price": 2}, "color": "red"}]
	}`)))
	assert.Equal(t, "c1", e.Chart().ID)
	assert.NotEmpty(t, e.Render())
}

func TestEngineRenderPNG(t *testing.T) {
	e := NewEngine(160, 90)
	e.LoadSampleChart("chart_sample")

	var buf bytes.Buffer
	require.NoError(t, e.RenderPNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())
}

func TestEngineCoordinateToTimePrice(t *testing.T) {
	e := newTestEngine(t)

	// bar 5 is centered at x=55; visible values 10..19 span y=90..10
	p, ok := e.CoordinateToTimePrice(55, 10)
	require.True(t, ok)
	assert.Equal(t, annotation.Time(1500), p.Time)
	assert.InDelta(t, 19, p.Price, 1e-9)

	p, ok = e.CoordinateToTimePrice(-100, 90)
	require.True(t, ok)
	assert.Equal(t, annotation.Time(1000), p.Time)
	assert.InDelta(t, 10, p.Price, 1e-9)

	p, ok = e.CoordinateToTimePrice(1000, 50)
	require.True(t, ok)
	assert.Equal(t, annotation.Time(1900), p.Time)

	_, ok = NewEngine(100, 100).CoordinateToTimePrice(50, 50)
	assert.False(t, ok)
}
