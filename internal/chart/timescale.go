package chart

import (
	"math"
	"sort"

	"github.com/inamate/chartlines/internal/annotation"
)

// TimeScale maps bar times to horizontal pixel coordinates. Bars are laid out
// by logical index, so gaps in time take no space.
type TimeScale struct {
	times []annotation.Time
	width float64

	// visible logical range, in bar indices
	from, to float64
}

// NewTimeScale creates an empty time scale of the given pixel width.
func NewTimeScale(width float64) *TimeScale {
	return &TimeScale{width: width}
}

// SetTimes replaces the bar times and fits them into view. times must be sorted.
func (ts *TimeScale) SetTimes(times []annotation.Time) {
	ts.times = times
	ts.FitContent()
}

func (ts *TimeScale) SetWidth(width float64) {
	ts.width = width
}

// FitContent shows every bar.
func (ts *TimeScale) FitContent() {
	ts.from = 0
	ts.to = float64(len(ts.times) - 1)
	if ts.to < ts.from {
		ts.to = ts.from
	}
}

// SetVisibleLogicalRange shows bars from..to; fractional and out-of-data
// indices are allowed. Inverted ranges are swapped.
func (ts *TimeScale) SetVisibleLogicalRange(from, to float64) {
	if from > to {
		from, to = to, from
	}
	ts.from, ts.to = from, to
}

// VisibleLogicalRange returns the visible range in bar indices.
func (ts *TimeScale) VisibleLogicalRange() (float64, float64) {
	return ts.from, ts.to
}

// ScrollToRealtime keeps the number of visible bars and moves the last bar to
// the right edge.
func (ts *TimeScale) ScrollToRealtime() {
	span := ts.to - ts.from
	ts.to = float64(len(ts.times) - 1)
	ts.from = ts.to - span
}

// BarSpacing is the width of one bar in pixels.
func (ts *TimeScale) BarSpacing() float64 {
	return ts.width / (ts.to - ts.from + 1)
}

// IndexToCoordinate returns the x coordinate of the center of a bar.
func (ts *TimeScale) IndexToCoordinate(index int) float64 {
	return (float64(index) - ts.from + 0.5) * ts.BarSpacing()
}

// CoordinateToIndex returns the bar nearest to x.
func (ts *TimeScale) CoordinateToIndex(x float64) int {
	return int(math.Round(x/ts.BarSpacing() - 0.5 + ts.from))
}

// TimeToIndex finds the bar at t. With findNearest, times between bars resolve
// to the next bar and times past the data to the last bar.
func (ts *TimeScale) TimeToIndex(t annotation.Time, findNearest bool) (int, bool) {
	n := len(ts.times)
	if n == 0 {
		return 0, false
	}
	if t > ts.times[n-1] {
		if findNearest {
			return n - 1, true
		}
		return 0, false
	}

	i := sort.Search(n, func(i int) bool { return ts.times[i] >= t })
	if ts.times[i] == t || findNearest {
		return i, true
	}
	return 0, false
}

// TimeToCoordinate places t on the horizontal axis using the nearest bar.
func (ts *TimeScale) TimeToCoordinate(t annotation.Time) (float64, bool) {
	i, ok := ts.TimeToIndex(t, true)
	if !ok {
		return 0, false
	}
	return ts.IndexToCoordinate(i), true
}

// visibleBars returns the indices of the first and last bar in view.
func (ts *TimeScale) visibleBars() (int, int, bool) {
	n := len(ts.times)
	if n == 0 {
		return 0, 0, false
	}
	first := max(int(math.Ceil(ts.from)), 0)
	last := min(int(math.Floor(ts.to)), n-1)
	if first > last {
		return 0, 0, false
	}
	return first, last, true
}

// VisibleTimeRange returns the times of the first and last bar in view.
func (ts *TimeScale) VisibleTimeRange() (annotation.TimeRange, bool) {
	first, last, ok := ts.visibleBars()
	if !ok {
		return annotation.TimeRange{}, false
	}
	return annotation.TimeRange{From: ts.times[first], To: ts.times[last]}, true
}
