// Package charts keeps the charts served by this process and runs every
// engine operation under that chart's lock.
package charts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/inamate/chartlines/internal/annotation"
	"github.com/inamate/chartlines/internal/chart"
	"github.com/inamate/chartlines/internal/lines"
	"github.com/inamate/chartlines/internal/render"
	"github.com/inamate/chartlines/internal/typeid"
)

var (
	ErrNotFound     = errors.New("chart not found")
	ErrInvalidChart = errors.New("invalid chart")
	ErrInvalidRange = errors.New("invalid visible range")
	ErrInvalidSize  = errors.New("invalid size")
)

// Notifier is told about every new frame after a view-changing operation.
type Notifier interface {
	FrameChanged(chartID string, frame []render.Command)
}

type Options struct {
	Width  int
	Height int
	Layout annotation.Layout
}

type entry struct {
	mu     sync.Mutex
	engine *chart.Engine
}

type Service struct {
	mu       sync.RWMutex
	charts   map[string]*entry
	opts     Options
	notifier Notifier
}

func NewService(opts Options) *Service {
	if opts.Layout.FontSize <= 0 {
		opts.Layout.FontSize = annotation.DefaultLayout().FontSize
	}
	if opts.Layout.FontFamily == "" {
		opts.Layout.FontFamily = annotation.DefaultFontFamily
	}
	return &Service{
		charts: make(map[string]*entry),
		opts:   opts,
	}
}

// SetNotifier registers the receiver of frame changes. It must be called
// before the service is shared.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Bars  int    `json:"bars"`
	Lines int    `json:"lines"`
}

type RangeKind string

const (
	RangeTime     RangeKind = "time"
	RangeLogical  RangeKind = "logical"
	RangeFit      RangeKind = "fit"
	RangeRealtime RangeKind = "realtime"
)

// RangeRequest moves the visible range. From and To are times for RangeTime
// and bar indices for RangeLogical; other kinds ignore them.
type RangeRequest struct {
	Kind RangeKind `json:"kind"`
	From float64   `json:"from"`
	To   float64   `json:"to"`
}

// Load decodes a chart and stores it under chartID, replacing any chart with
// that id. Charts without a layout get the service default.
func (s *Service) Load(chartID string, data []byte) (*Summary, error) {
	c, err := annotation.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChart, err)
	}
	if !hasLayout(data) {
		c.Layout = s.opts.Layout
	}
	return s.store(chartID, c), nil
}

// LoadSample stores the sample chart under chartID. An empty id gets a new one.
func (s *Service) LoadSample(chartID string) *Summary {
	if chartID == "" {
		chartID = typeid.NewChartID()
	}
	c := annotation.NewSampleChart(chartID)
	c.Layout = s.opts.Layout
	return s.store(chartID, c)
}

func (s *Service) store(chartID string, c *annotation.Chart) *Summary {
	c.ID = chartID

	e := chart.NewEngine(s.opts.Width, s.opts.Height)
	e.SetChart(c)

	frame := e.Render()

	s.mu.Lock()
	existing, ok := s.charts[chartID]
	if !ok {
		s.charts[chartID] = &entry{engine: e}
	}
	s.mu.Unlock()

	if ok {
		// keep the size clients have set
		existing.mu.Lock()
		e.SetSize(existing.engine.Size())
		frame = e.Render()
		existing.engine = e
		existing.mu.Unlock()
	}

	slog.Info("chart loaded", "chart", chartID, "bars", len(c.Bars), "lines", len(c.Lines))

	if s.notifier != nil {
		s.notifier.FrameChanged(chartID, nonNil(frame))
	}
	return summarize(c)
}

func (s *Service) lookup(chartID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.charts[chartID]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Service) with(chartID string, fn func(*chart.Engine) error) error {
	e, err := s.lookup(chartID)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.engine)
}

// Get returns a copy of the chart document.
func (s *Service) Get(chartID string) (*annotation.Chart, error) {
	var c annotation.Chart
	err := s.with(chartID, func(e *chart.Engine) error {
		c = *e.Chart()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) List() []Summary {
	s.mu.RLock()
	ids := make([]string, 0, len(s.charts))
	for id := range s.charts {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)

	out := make([]Summary, 0, len(ids))
	for _, id := range ids {
		c, err := s.Get(id)
		if err != nil {
			continue
		}
		out = append(out, *summarize(c))
	}
	return out
}

func (s *Service) Delete(chartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.charts[chartID]; !ok {
		return ErrNotFound
	}
	delete(s.charts, chartID)

	slog.Info("chart deleted", "chart", chartID)
	return nil
}

// Frame returns the draw commands of the current frame.
func (s *Service) Frame(chartID string) ([]render.Command, error) {
	var frame []render.Command
	err := s.with(chartID, func(e *chart.Engine) error {
		frame = e.Render()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nonNil(frame), nil
}

// Hover is what lies under the pointer: the topmost line annotation, if any,
// and the time and price at that point.
type Hover struct {
	Hit   *lines.Hit            `json:"hit"`
	Point *annotation.TimePrice `json:"point"`
}

// Hover hit-tests (x, y) and locates it on the chart's axes.
func (s *Service) Hover(chartID string, x, y float64) (*Hover, error) {
	var hover Hover
	err := s.with(chartID, func(e *chart.Engine) error {
		if h, ok := e.HitTest(x, y); ok {
			hover.Hit = &h
		}
		if p, ok := e.CoordinateToTimePrice(x, y); ok {
			hover.Point = &p
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &hover, nil
}

// SetVisibleRange moves the visible range and returns the new frame.
func (s *Service) SetVisibleRange(chartID string, req RangeRequest) ([]render.Command, error) {
	return s.update(chartID, func(e *chart.Engine) error {
		switch req.Kind {
		case RangeTime, "":
			err := e.SetVisibleTimeRange(annotation.TimeRange{
				From: annotation.Time(req.From),
				To:   annotation.Time(req.To),
			})
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidRange, err)
			}
		case RangeLogical:
			e.SetVisibleLogicalRange(req.From, req.To)
		case RangeFit:
			e.FitContent()
		case RangeRealtime:
			e.ScrollToRealtime()
		default:
			return fmt.Errorf("%w: unknown kind %q", ErrInvalidRange, req.Kind)
		}
		return nil
	})
}

// SetSize resizes the chart pane and returns the new frame.
func (s *Service) SetSize(chartID string, width, height int) ([]render.Command, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return s.update(chartID, func(e *chart.Engine) error {
		e.SetSize(width, height)
		return nil
	})
}

// SetLines replaces the line annotations and returns the new frame.
func (s *Service) SetLines(chartID string, ls []annotation.Line) ([]render.Command, error) {
	return s.update(chartID, func(e *chart.Engine) error {
		if err := e.SetLines(ls); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidChart, err)
		}
		return nil
	})
}

// SetSeriesVisible shows or hides the series and returns the new frame.
func (s *Service) SetSeriesVisible(chartID string, visible bool) ([]render.Command, error) {
	return s.update(chartID, func(e *chart.Engine) error {
		e.SetSeriesVisible(visible)
		return nil
	})
}

func (s *Service) update(chartID string, fn func(*chart.Engine) error) ([]render.Command, error) {
	var frame []render.Command
	err := s.with(chartID, func(e *chart.Engine) error {
		if err := fn(e); err != nil {
			return err
		}
		frame = nonNil(e.Render())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.FrameChanged(chartID, frame)
	}
	return frame, nil
}

// RenderPNG writes the chart as a PNG image. A positive width and height
// render at that size without changing the chart's own size.
func (s *Service) RenderPNG(chartID string, w io.Writer, width, height int) error {
	var buf bytes.Buffer
	err := s.with(chartID, func(e *chart.Engine) error {
		if width > 0 && height > 0 {
			ow, oh := e.Size()
			e.SetSize(width, height)
			defer e.SetSize(ow, oh)
		}
		return e.RenderPNG(&buf)
	})
	if err != nil {
		return err
	}

	_, err = buf.WriteTo(w)
	return err
}

func summarize(c *annotation.Chart) *Summary {
	return &Summary{ID: c.ID, Name: c.Name, Bars: len(c.Bars), Lines: len(c.Lines)}
}

func hasLayout(data []byte) bool {
	var doc struct {
		Layout json.RawMessage `json:"layout"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return false
	}
	return len(doc.Layout) > 0 && string(doc.Layout) != "null"
}

func nonNil(frame []render.Command) []render.Command {
	if frame == nil {
		return []render.Command{}
	}
	return frame
}
