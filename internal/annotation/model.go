package annotation

import (
	"encoding/json"
	"fmt"
)

// Time is an ordered time key in Unix seconds.
type Time int64

// TimePrice anchors one end of a line to a point on the time and price axes.
type TimePrice struct {
	Time  Time    `json:"time"`
	Price float64 `json:"price"`
}

// TimeRange is an inclusive span of the time axis.
type TimeRange struct {
	From Time `json:"from"`
	To   Time `json:"to"`
}

type LineStyle int

const (
	LineStyleSolid LineStyle = iota
	LineStyleDotted
	LineStyleDashed
	LineStyleLargeDashed
	LineStyleSparseDotted
)

var lineStyleNames = map[LineStyle]string{
	LineStyleSolid:        "solid",
	LineStyleDotted:       "dotted",
	LineStyleDashed:       "dashed",
	LineStyleLargeDashed:  "largeDashed",
	LineStyleSparseDotted: "sparseDotted",
}

func (s LineStyle) String() string {
	if name, ok := lineStyleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("LineStyle(%d)", int(s))
}

func (s LineStyle) MarshalJSON() ([]byte, error) {
	name, ok := lineStyleNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown line style %d", int(s))
	}
	return json.Marshal(name)
}

func (s *LineStyle) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("line style: %w", err)
	}
	if name == "" {
		*s = LineStyleSolid
		return nil
	}
	for style, n := range lineStyleNames {
		if n == name {
			*s = style
			return nil
		}
	}
	return fmt.Errorf("unknown line style %q", name)
}

// LineTip controls the decoration drawn at one end of a line.
type LineTip string

const (
	LineTipNormal LineTip = "normal"
	LineTipArrow  LineTip = "arrow"
)

func (t *LineTip) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("line tip: %w", err)
	}
	switch LineTip(name) {
	case "", LineTipNormal:
		*t = LineTipNormal
	case LineTipArrow:
		*t = LineTipArrow
	default:
		return fmt.Errorf("unknown line tip %q", name)
	}
	return nil
}

// Line is a logical line annotation anchored at two time/price points.
// LeftTip decorates From and RightTip decorates To, regardless of which end is
// further left on screen.
type Line struct {
	ID       string    `json:"id,omitempty"`
	From     TimePrice `json:"from"`
	To       TimePrice `json:"to"`
	Color    string    `json:"color"`
	Text     string    `json:"text,omitempty"`
	Width    float64   `json:"width,omitempty"`
	Style    LineStyle `json:"style"`
	LeftTip  LineTip   `json:"leftTip,omitempty"`
	RightTip LineTip   `json:"rightTip,omitempty"`
}

// Span returns the time range covered by the line, independent of the
// direction it was drawn in.
func (l Line) Span() TimeRange {
	if l.From.Time <= l.To.Time {
		return TimeRange{From: l.From.Time, To: l.To.Time}
	}
	return TimeRange{From: l.To.Time, To: l.From.Time}
}

// Intersects reports whether any part of the line's time span lies inside r.
func (l Line) Intersects(r TimeRange) bool {
	span := l.Span()
	return span.From <= r.To && span.To >= r.From
}

// Bar is a single data point of the hosting series.
type Bar struct {
	Time  Time    `json:"time"`
	Value float64 `json:"value"`
}

// Layout holds the text options shared by every pane of a chart.
type Layout struct {
	FontSize   float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
}

const DefaultFontFamily = `-apple-system, BlinkMacSystemFont, 'Trebuchet MS', Roboto, Ubuntu, sans-serif`

// DefaultLayout returns the layout used when a chart does not provide one.
func DefaultLayout() Layout {
	return Layout{FontSize: 12, FontFamily: DefaultFontFamily}
}

type PriceMode string

const (
	PriceModeNormal     PriceMode = "normal"
	PriceModePercentage PriceMode = "percentage"
)

// Chart is the serialized form of a chart with one series and its line annotations.
type Chart struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Layout    Layout    `json:"layout"`
	PriceMode PriceMode `json:"priceMode,omitempty"`
	Hidden    bool      `json:"hidden,omitempty"`
	Bars      []Bar     `json:"bars"`
	Lines     []Line    `json:"lines"`
}

// Validate checks the chart for data the engine cannot place on the axes.
func (c *Chart) Validate() error {
	for i := 1; i < len(c.Bars); i++ {
		if c.Bars[i].Time <= c.Bars[i-1].Time {
			return fmt.Errorf("bar %d: time %d is not after %d", i, c.Bars[i].Time, c.Bars[i-1].Time)
		}
	}
	for i, l := range c.Lines {
		if l.Width < 0 {
			return fmt.Errorf("line %d: negative width %v", i, l.Width)
		}
		if l.Color == "" {
			return fmt.Errorf("line %d: color is required", i)
		}
	}
	if c.Layout.FontSize < 0 {
		return fmt.Errorf("layout: negative font size %v", c.Layout.FontSize)
	}
	return nil
}

// Normalize fills in defaults for zero-valued options.
func (c *Chart) Normalize() {
	if c.Layout.FontSize == 0 {
		c.Layout.FontSize = DefaultLayout().FontSize
	}
	if c.Layout.FontFamily == "" {
		c.Layout.FontFamily = DefaultFontFamily
	}
	if c.PriceMode == "" {
		c.PriceMode = PriceModeNormal
	}
	for i := range c.Lines {
		if c.Lines[i].LeftTip == "" {
			c.Lines[i].LeftTip = LineTipNormal
		}
		if c.Lines[i].RightTip == "" {
			c.Lines[i].RightTip = LineTipNormal
		}
	}
}

// Decode parses and validates a chart from JSON.
func Decode(data []byte) (*Chart, error) {
	var c Chart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	c.Normalize()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate chart: %w", err)
	}
	return &c, nil
}
