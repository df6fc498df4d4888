package chart

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/lines"
	"github.com/inamate/chartlines/internal/render"
	"github.com/inamate/chartlines/internal/render/raster"
)

const (
	backgroundColor = "#ffffff"
	seriesColor     = "#b2b5be"
)

// Engine owns one chart: its scales, its series and the line annotation view.
// It is not safe for concurrent use.
type Engine struct {
	chart *annotation.Chart

	timeScale  *TimeScale
	priceScale *PriceScale
	series     *Series
	view       *lines.PaneView

	width, height int
}

// NewEngine creates an engine with an empty chart.
func NewEngine(width, height int) *Engine {
	e := &Engine{
		chart:      &annotation.Chart{Layout: annotation.DefaultLayout(), PriceMode: annotation.PriceModeNormal},
		timeScale:  NewTimeScale(float64(width)),
		priceScale: NewPriceScale(float64(height), annotation.PriceModeNormal),
		width:      width,
		height:     height,
	}
	e.series = newSeries(e.timeScale, e.priceScale)
	e.view = lines.NewPaneView(e.series, e)
	return e
}

// --- lines.Model ---

func (e *Engine) TimeScale() lines.TimeScale {
	return e.timeScale
}

func (e *Engine) Layout() annotation.Layout {
	return e.chart.Layout
}

// --- Commands ---

// LoadChart replaces the chart with one decoded from JSON.
func (e *Engine) LoadChart(jsonData []byte) error {
	c, err := annotation.Decode(jsonData)
	if err != nil {
		return err
	}
	e.SetChart(c)
	return nil
}

// LoadSampleChart loads the built-in sample chart.
func (e *Engine) LoadSampleChart(chartID string) {
	e.SetChart(annotation.NewSampleChart(chartID))
}

// SetChart replaces the chart and shows all of its bars.
func (e *Engine) SetChart(c *annotation.Chart) {
	c.Normalize()
	e.chart = c

	times := make([]annotation.Time, len(c.Bars))
	for i, b := range c.Bars {
		times[i] = b.Time
	}

	e.series.bars = c.Bars
	e.series.lines = c.Lines
	e.series.visible = !c.Hidden
	e.timeScale.SetTimes(times)
	e.priceScale.SetMode(c.PriceMode)

	e.rescale()
	e.view.Update(lines.UpdateData)
}

// SetLines replaces the line annotations.
func (e *Engine) SetLines(ls []annotation.Line) error {
	next := *e.chart
	next.Lines = ls
	next.Normalize()
	if err := next.Validate(); err != nil {
		return fmt.Errorf("set lines: %w", err)
	}

	e.chart = &next
	e.series.lines = next.Lines
	e.view.Update(lines.UpdateData)
	return nil
}

// SetVisibleLogicalRange shows the bars between two indices.
func (e *Engine) SetVisibleLogicalRange(from, to float64) {
	e.timeScale.SetVisibleLogicalRange(from, to)
	e.rescale()
	e.view.Update(lines.UpdateOther)
}

// SetVisibleTimeRange shows the bars between two times.
func (e *Engine) SetVisibleTimeRange(r annotation.TimeRange) error {
	from, ok := e.timeScale.TimeToIndex(r.From, true)
	if !ok {
		return fmt.Errorf("set visible range: no data")
	}
	to, _ := e.timeScale.TimeToIndex(r.To, true)
	e.SetVisibleLogicalRange(float64(from), float64(to))
	return nil
}

// FitContent shows every bar.
func (e *Engine) FitContent() {
	e.timeScale.FitContent()
	e.rescale()
	e.view.Update(lines.UpdateOther)
}

// ScrollToRealtime moves the last bar to the right edge.
func (e *Engine) ScrollToRealtime() {
	e.timeScale.ScrollToRealtime()
	e.rescale()
	e.view.Update(lines.UpdateOther)
}

// SetSize resizes the pane.
func (e *Engine) SetSize(width, height int) {
	if width == e.width && height == e.height {
		return
	}
	e.width, e.height = width, height
	e.timeScale.SetWidth(float64(width))
	e.priceScale.SetHeight(float64(height))
	e.view.Update(lines.UpdateOther)
}

// SetSeriesVisible shows or hides the series and its annotations.
func (e *Engine) SetSeriesVisible(visible bool) {
	e.series.visible = visible
	e.chart.Hidden = !visible
	e.view.Update(lines.UpdateOptions)
}

// SetLayout changes the label font.
func (e *Engine) SetLayout(layout annotation.Layout) {
	if layout.FontSize <= 0 {
		layout.FontSize = annotation.DefaultLayout().FontSize
	}
	if layout.FontFamily == "" {
		layout.FontFamily = annotation.DefaultFontFamily
	}
	e.chart.Layout = layout
	e.view.Update(lines.UpdateOptions)
}

func (e *Engine) rescale() {
	firstValue, _ := e.series.FirstValue()
	e.priceScale.AutoScale(e.series.visiblePrices(), firstValue)
}

// --- Queries ---

// Draw paints the line annotations onto s.
func (e *Engine) Draw(s render.Surface) {
	r := e.view.Renderer(e.height, e.width)
	if r == nil {
		return
	}
	r.Draw(s)
}

// Render returns the draw commands for the current frame.
func (e *Engine) Render() []render.Command {
	rec := render.NewRecorder()
	e.Draw(rec)
	return rec.Commands()
}

// RenderJSON returns the draw commands for the current frame as JSON.
func (e *Engine) RenderJSON() string {
	result, _ := render.CommandsToJSON(e.Render())
	return result
}

// RenderPNG paints the series and its annotations into a PNG image.
func (e *Engine) RenderPNG(w io.Writer) error {
	s, err := raster.New(e.width, e.height)
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}

	s.Clear(backgroundColor)
	e.drawSeries(s)
	e.Draw(s)

	return s.WritePNG(w)
}

func (e *Engine) drawSeries(s render.Surface) {
	if !e.series.visible {
		return
	}
	first, last, ok := e.timeScale.visibleBars()
	if !ok {
		return
	}
	firstValue, _ := e.series.FirstValue()

	s.BeginPath()
	started := false
	for i := first; i <= last; i++ {
		y, ok := e.priceScale.PriceToCoordinate(e.series.bars[i].Value, firstValue)
		if !ok {
			continue
		}
		x := e.timeScale.IndexToCoordinate(i)
		if started {
			s.LineTo(x, y)
		} else {
			s.MoveTo(x, y)
			started = true
		}
	}
	s.SetStrokeStyle(seriesColor)
	s.SetLineWidth(1)
	s.SetLineDash(nil)
	s.Stroke()
}

// HitTest returns the line annotation under (x, y).
func (e *Engine) HitTest(x, y float64) (lines.Hit, bool) {
	r := e.view.Renderer(e.height, e.width)
	if r == nil {
		return lines.Hit{}, false
	}
	return r.HitTest(x, y)
}

// CoordinateToTimePrice returns the time of the bar nearest to x and the
// price at y. Points left or right of the data snap to the first or last bar.
func (e *Engine) CoordinateToTimePrice(x, y float64) (annotation.TimePrice, bool) {
	n := len(e.series.bars)
	if n == 0 {
		return annotation.TimePrice{}, false
	}
	i := min(max(e.timeScale.CoordinateToIndex(x), 0), n-1)

	firstValue, _ := e.series.FirstValue()
	price, ok := e.priceScale.CoordinateToPrice(y, firstValue)
	if !ok {
		return annotation.TimePrice{}, false
	}
	return annotation.TimePrice{Time: e.series.bars[i].Time, Price: price}, true
}

// HitTestJSON returns the hit under (x, y) as JSON, or "null".
func (e *Engine) HitTestJSON(x, y float64) string {
	hit, ok := e.HitTest(x, y)
	if !ok {
		return "null"
	}
	data, _ := json.Marshal(hit)
	return string(data)
}

// Chart returns the current chart document.
func (e *Engine) Chart() *annotation.Chart {
	return e.chart
}

// Size returns the pane size in pixels.
func (e *Engine) Size() (int, int) {
	return e.width, e.height
}

// VisibleTimeRange returns the time span in view.
func (e *Engine) VisibleTimeRange() (annotation.TimeRange, bool) {
	return e.timeScale.VisibleTimeRange()
}

// Passes returns how many times line annotations have been projected.
func (e *Engine) Passes() int {
	return e.view.Passes()
}
