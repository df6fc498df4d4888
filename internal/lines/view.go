// Package lines projects line annotations into pixel space and renders and
// hit-tests them.
package lines

import (
	"log/slog"

	"github.com/inamate/chartlines/internal/annotation"
)

// TimeScale places times on the horizontal axis.
type TimeScale interface {
	VisibleTimeRange() (annotation.TimeRange, bool)
	// TimeToCoordinate returns false when the time cannot be placed, e.g.
	// because the scale holds no data.
	TimeToCoordinate(t annotation.Time) (float64, bool)
}

// PriceScale places prices on the vertical axis. firstValue is the series
// reference value used by relative price modes.
type PriceScale interface {
	PriceToCoordinate(price, firstValue float64) (float64, bool)
}

// Series owns the line annotations.
type Series interface {
	Visible() bool
	FirstValue() (float64, bool)
	Lines() []annotation.Line
	PriceScale() PriceScale
}

// Model exposes the chart-wide collaborators.
type Model interface {
	TimeScale() TimeScale
	Layout() annotation.Layout
}

type UpdateType string

const (
	UpdateData    UpdateType = "data"
	UpdateOther   UpdateType = "other"
	UpdateOptions UpdateType = "options"
)

// PaneView turns the series' line annotations into render items and hands
// them to a Renderer. Items are only recomputed after Update or Invalidate.
type PaneView struct {
	series Series
	model  Model

	data        RendererData
	renderer    *Renderer
	invalidated bool
	passes      int
}

// NewPaneView creates a view for the series' line annotations.
func NewPaneView(series Series, model Model) *PaneView {
	return &PaneView{
		series:      series,
		model:       model,
		renderer:    NewRenderer(),
		invalidated: true,
	}
}

// Update marks the render items stale.
func (v *PaneView) Update(UpdateType) {
	v.Invalidate()
}

// Invalidate marks the render items stale without recomputing them.
func (v *PaneView) Invalidate() {
	v.invalidated = true
}

// Passes returns how many projection passes have run.
func (v *PaneView) Passes() int {
	return v.passes
}

// Renderer returns the renderer loaded with the current items, or nil when the
// series is hidden.
func (v *PaneView) Renderer(height, width int) *Renderer {
	if !v.series.Visible() {
		return nil
	}

	timeScale := v.model.TimeScale()
	var visible *annotation.TimeRange
	if r, ok := timeScale.VisibleTimeRange(); ok {
		visible = &r
	}

	v.RenderItems(visible, timeScale.TimeToCoordinate, v.priceToCoordinate)

	layout := v.model.Layout()
	v.renderer.SetParams(layout.FontSize, layout.FontFamily)
	v.renderer.SetData(&v.data)

	return v.renderer
}

// RenderItems returns the projected items. While the view is valid the cached
// slice is returned as is; callers must not modify it.
func (v *PaneView) RenderItems(
	visible *annotation.TimeRange,
	timeToCoordinate func(annotation.Time) (float64, bool),
	priceToCoordinate func(float64) (float64, bool),
) []RenderItem {
	if !v.invalidated {
		return v.data.Items
	}

	source := v.series.Lines()
	items := make([]RenderItem, 0, len(source))

	if visible != nil {
		for _, line := range source {
			if !line.Intersects(*visible) {
				continue
			}

			items = append(items, RenderItem{
				X1:         resolve(timeToCoordinate, line.From.Time),
				Y1:         resolve(priceToCoordinate, line.From.Price),
				X2:         resolve(timeToCoordinate, line.To.Time),
				Y2:         resolve(priceToCoordinate, line.To.Price),
				Color:      line.Color,
				Width:      line.Width,
				Style:      line.Style,
				LeftTip:    line.LeftTip,
				RightTip:   line.RightTip,
				Text:       line.Text,
				InternalID: len(items),
				ExternalID: line.ID,
			})
		}
	}

	v.data = RendererData{Items: items}
	v.invalidated = false
	v.passes++

	slog.Debug("projected line annotations", "visible", len(items), "total", len(source))

	return v.data.Items
}

func (v *PaneView) priceToCoordinate(price float64) (float64, bool) {
	firstValue, ok := v.series.FirstValue()
	if !ok {
		return 0, false
	}
	return v.series.PriceScale().PriceToCoordinate(price, firstValue)
}

// resolve falls back to 0 for anchors the scale cannot place.
func resolve[T any](convert func(T) (float64, bool), value T) float64 {
	c, ok := convert(value)
	if !ok {
		return 0
	}
	return finite(c)
}
