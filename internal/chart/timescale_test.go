package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/chartlines/internal/annotation"
)

func newTestTimeScale() *TimeScale {
	ts := NewTimeScale(100)
	times := make([]annotation.Time, 10)
	for i := range times {
		times[i] = annotation.Time(i * 100)
	}
	ts.SetTimes(times)
	return ts
}

func TestTimeScaleFitContent(t *testing.T) {
	ts := newTestTimeScale()

	from, to := ts.VisibleLogicalRange()
	assert.Equal(t, 0.0, from)
	assert.Equal(t, 9.0, to)
	assert.InDelta(t, 10, ts.BarSpacing(), 1e-9)
	assert.InDelta(t, 5, ts.IndexToCoordinate(0), 1e-9)
	assert.InDelta(t, 95, ts.IndexToCoordinate(9), 1e-9)
	assert.Equal(t, 9, ts.CoordinateToIndex(95))

	r, ok := ts.VisibleTimeRange()
	require.True(t, ok)
	assert.Equal(t, annotation.TimeRange{From: 0, To: 900}, r)
}

func TestTimeScaleTimeToIndex(t *testing.T) {
	ts := newTestTimeScale()

	tests := []struct {
		name        string
		time        annotation.Time
		findNearest bool
		want        int
		ok          bool
	}{
		{"exact", 300, false, 3, true},
		{"between bars", 150, false, 0, false},
		{"between bars nearest", 150, true, 2, true},
		{"before data nearest", -50, true, 0, true},
		{"past data", 5000, false, 0, false},
		{"past data nearest", 5000, true, 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ts.TimeToIndex(tt.time, tt.findNearest)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeScaleEmpty(t *testing.T) {
	ts := NewTimeScale(100)

	_, ok := ts.TimeToCoordinate(0)
	assert.False(t, ok)
	_, ok = ts.VisibleTimeRange()
	assert.False(t, ok)
}

func TestTimeScaleVisibleLogicalRange(t *testing.T) {
	ts := newTestTimeScale()

	ts.SetVisibleLogicalRange(7, 2)
	from, to := ts.VisibleLogicalRange()
	assert.Equal(t, 2.0, from)
	assert.Equal(t, 7.0, to)

	r, ok := ts.VisibleTimeRange()
	require.True(t, ok)
	assert.Equal(t, annotation.TimeRange{From: 200, To: 700}, r)

	ts.ScrollToRealtime()
	from, to = ts.VisibleLogicalRange()
	assert.Equal(t, 4.0, from)
	assert.Equal(t, 9.0, to)

	ts.SetVisibleLogicalRange(20, 30)
	_, ok = ts.VisibleTimeRange()
	assert.False(t, ok)
}
