package chart

import (
	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/lines"
)

// Series holds the bars and line annotations of the chart's only series.
type Series struct {
	bars       []annotation.Bar
	lines      []annotation.Line
	visible    bool
	timeScale  *TimeScale
	priceScale *PriceScale
}

func newSeries(timeScale *TimeScale, priceScale *PriceScale) *Series {
	return &Series{visible: true, timeScale: timeScale, priceScale: priceScale}
}

func (s *Series) Visible() bool {
	return s.visible
}

// FirstValue returns the value of the first bar in view.
func (s *Series) FirstValue() (float64, bool) {
	first, _, ok := s.timeScale.visibleBars()
	if !ok || first >= len(s.bars) {
		return 0, false
	}
	return s.bars[first].Value, true
}

func (s *Series) Lines() []annotation.Line {
	return s.lines
}

func (s *Series) PriceScale() lines.PriceScale {
	return s.priceScale
}

// visiblePrices returns the values of the bars in view.
func (s *Series) visiblePrices() []float64 {
	first, last, ok := s.timeScale.visibleBars()
	if !ok {
		return nil
	}
	prices := make([]float64, 0, last-first+1)
	for _, b := range s.bars[first : last+1] {
		prices = append(prices, b.Value)
	}
	return prices
}
