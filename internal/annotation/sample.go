package annotation

import (
	"math"

	"github.com/inamate/chartlines/internal/typeid"
)

// NewSampleChart returns a chart with a day of hourly bars and a few annotations
// covering every line style and tip combination.
func NewSampleChart(chartID string) *Chart {
	const (
		start = Time(1700000000)
		step  = Time(3600)
		count = 48
	)

	bars := make([]Bar, count)
	for i := range bars {
		bars[i] = Bar{
			Time:  start + Time(i)*step,
			Value: 100 + 8*math.Sin(float64(i)/6) + float64(i)/4,
		}
	}

	at := func(i int) Time { return start + Time(i)*step }

	c := &Chart{
		ID:     chartID,
		Name:   "Sample",
		Layout: DefaultLayout(),
		Bars:   bars,
		Lines: []Line{
			{
				ID:       typeid.NewLineID(),
				From:     TimePrice{Time: at(2), Price: bars[2].Value},
				To:       TimePrice{Time: at(20), Price: bars[20].Value},
				Color:    "#2962ff",
				Text:     "trend",
				Width:    2,
				RightTip: LineTipArrow,
			},
			{
				ID:      typeid.NewLineID(),
				From:    TimePrice{Time: at(30), Price: 112},
				To:      TimePrice{Time: at(44), Price: 112},
				Color:   "#ef5350",
				Text:    "resistance",
				Style:   LineStyleDashed,
				LeftTip: LineTipArrow,
			},
			{
				From:     TimePrice{Time: at(24), Price: 95},
				To:       TimePrice{Time: at(24), Price: 110},
				Color:    "rgba(38, 166, 154, 0.8)",
				Style:    LineStyleSparseDotted,
				LeftTip:  LineTipArrow,
				RightTip: LineTipArrow,
			},
			{
				ID:    typeid.NewLineID(),
				From:  TimePrice{Time: at(40), Price: 98},
				To:    TimePrice{Time: at(10), Price: 104},
				Color: "gray",
				Style: LineStyleLargeDashed,
			},
		},
	}
	c.Normalize()
	return c
}
