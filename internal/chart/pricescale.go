package chart

import (
	"math"

	"github.com/inamate/chartlines/internal/annotation"
)

const scaleMargin = 0.1

// PriceScale maps prices to vertical pixel coordinates, y growing downwards.
// In percentage mode prices are first expressed relative to the series'
// first visible value.
type PriceScale struct {
	mode     annotation.PriceMode
	height   float64
	min, max float64
}

// NewPriceScale creates a scale of the given pixel height.
func NewPriceScale(height float64, mode annotation.PriceMode) *PriceScale {
	return &PriceScale{mode: mode, height: height, min: 0, max: 1}
}

func (ps *PriceScale) SetHeight(height float64) {
	ps.height = height
}

func (ps *PriceScale) SetMode(mode annotation.PriceMode) {
	ps.mode = mode
}

// Range returns the scaled range in mode units.
func (ps *PriceScale) Range() (float64, float64) {
	return ps.min, ps.max
}

func (ps *PriceScale) toLogical(price, firstValue float64) (float64, bool) {
	if ps.mode != annotation.PriceModePercentage {
		return price, true
	}
	if firstValue == 0 {
		return 0, false
	}
	return (price - firstValue) / math.Abs(firstValue) * 100, true
}

// AutoScale fits the range to the given prices with a margin at both ends.
// Flat ranges are widened by one unit each way.
func (ps *PriceScale) AutoScale(prices []float64, firstValue float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range prices {
		v, ok := ps.toLogical(p, firstValue)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if math.IsInf(lo, 1) {
		ps.min, ps.max = 0, 1
		return
	}
	if hi-lo < 1e-12 {
		lo--
		hi++
	}
	ps.min, ps.max = lo, hi
}

// PriceToCoordinate returns false when the price cannot be placed, e.g. in
// percentage mode without a reference value or with a zero-height scale.
func (ps *PriceScale) PriceToCoordinate(price, firstValue float64) (float64, bool) {
	v, ok := ps.toLogical(price, firstValue)
	if !ok || ps.height <= 0 || ps.max <= ps.min {
		return 0, false
	}

	inner := ps.height * (1 - 2*scaleMargin)
	return ps.height*scaleMargin + (ps.max-v)/(ps.max-ps.min)*inner, true
}

// CoordinateToPrice is the inverse of PriceToCoordinate.
func (ps *PriceScale) CoordinateToPrice(y, firstValue float64) (float64, bool) {
	if ps.height <= 0 || ps.max <= ps.min {
		return 0, false
	}
	inner := ps.height * (1 - 2*scaleMargin)
	v := ps.max - (y-ps.height*scaleMargin)/inner*(ps.max-ps.min)

	if ps.mode != annotation.PriceModePercentage {
		return v, true
	}
	if firstValue == 0 {
		return 0, false
	}
	return firstValue + v/100*math.Abs(firstValue), true
}
