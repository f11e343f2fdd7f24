// Package render turns a record set and a hover snapshot into draw
// commands.
//
// A Scene is built once per data load and never mutated afterwards; the
// hover state lives in an interact.Coordinator. Render combines the two
// into a Frame without touching either.
package render

import (
	"github.com/tinytelemetry/streamgraph/internal/detail"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/palette"
	"github.com/tinytelemetry/streamgraph/internal/scale"
	"github.com/tinytelemetry/streamgraph/internal/stack"
)

// Margin is the space between the canvas edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// Config sizes the main chart.
type Config struct {
	Width        float64 // chart width including margins, excluding the legend
	Height       float64
	Margin       Margin
	LegendWidth  float64
	LegendOffset geometry.Point // legend origin relative to the plot's top-right corner
	LegendRow    float64
	LegendSwatch float64
	FontSize     float64
	AxisGap      float64 // distance between the plot bottom and the x axis
	Tension      float64
	FlattenSteps int
	Detail       detail.Config
}

// DefaultConfig returns the layout used by the HTTP renderers.
func DefaultConfig() Config {
	return Config{
		Width:        500,
		Height:       550,
		Margin:       Margin{Top: 20, Right: 20, Bottom: 50, Left: 50},
		LegendWidth:  300,
		LegendOffset: geometry.Point{X: 50, Y: 150},
		LegendRow:    25,
		LegendSwatch: 20,
		FontSize:     14,
		AxisGap:      10,
		Tension:      model.DefaultCurveTension,
		FlattenSteps: model.DefaultFlattenSteps,
		Detail:       detail.DefaultConfig(),
	}
}

// InnerWidth returns the plot width.
func (c Config) InnerWidth() float64 {
	return max(0, c.Width-c.Margin.Left-c.Margin.Right)
}

// InnerHeight returns the plot height.
func (c Config) InnerHeight() float64 {
	return max(0, c.Height-c.Margin.Top-c.Margin.Bottom)
}

// Center returns the middle of the plot area.
func (c Config) Center() geometry.Point {
	return geometry.Point{X: c.Margin.Left + c.InnerWidth()/2, Y: c.Margin.Top + c.InnerHeight()/2}
}

// CanvasWidth returns the full canvas width including the legend column.
func (c Config) CanvasWidth() float64 {
	return c.Width + c.LegendWidth
}

// Band is the rendered outline of one category.
type Band struct {
	Category model.Category
	Color    string
	Series   stack.Series
	Path     geometry.Path
	Polygon  geometry.Polygon
	bounds   geometry.Rect
}

// Scene is the immutable layout for one record set.
type Scene struct {
	cfg     Config
	palette *palette.Registry
	gen     uint64
	records []model.Record
	ok      bool

	Series []stack.Series
	Scales scale.Set
	Bands  []Band
}

// NewScene stacks records (sorted by time first) in the palette's category
// order and builds band outlines in canvas coordinates. An empty record set
// gives an empty scene.
func NewScene(cfg Config, pal *palette.Registry, records []model.Record, generation uint64) *Scene {
	if pal == nil {
		pal = palette.Default()
	}
	s := &Scene{
		cfg:     cfg,
		palette: pal,
		gen:     generation,
		records: model.SortedByDate(records),
	}

	s.Series = stack.Wiggle(s.records, pal.Categories())
	s.Scales, s.ok = scale.Build(s.Series, cfg.InnerWidth(), cfg.InnerHeight())
	if !s.ok {
		return s
	}

	origin := geometry.Point{X: cfg.Margin.Left, Y: cfg.Margin.Top}
	s.Bands = make([]Band, len(s.Series))
	for i, series := range s.Series {
		upper := make([]geometry.Point, len(series.Bands))
		lower := make([]geometry.Point, len(series.Bands))
		for j, b := range series.Bands {
			x := origin.X + s.Scales.X.Map(b.Date)
			upper[j] = geometry.Point{X: x, Y: origin.Y + s.Scales.Y.Map(b.Upper)}
			lower[j] = geometry.Point{X: x, Y: origin.Y + s.Scales.Y.Map(b.Lower)}
		}
		path := geometry.Area(upper, lower, cfg.Tension)
		poly := path.Flatten(cfg.FlattenSteps)
		color, _ := pal.Color(series.Category)
		s.Bands[i] = Band{
			Category: series.Category,
			Color:    color,
			Series:   series,
			Path:     path,
			Polygon:  poly,
			bounds:   poly.Bounds(),
		}
	}
	return s
}

// Empty reports whether the scene has nothing to draw.
func (s *Scene) Empty() bool {
	return s == nil || !s.ok
}

// Config returns the layout configuration.
func (s *Scene) Config() Config {
	return s.cfg
}

// Palette returns the palette the scene was built with.
func (s *Scene) Palette() *palette.Registry {
	return s.palette
}

// Generation returns the data-load counter the scene was built for.
func (s *Scene) Generation() uint64 {
	return s.gen
}

// Records returns the time-ordered record set.
func (s *Scene) Records() []model.Record {
	return s.records
}

// Color returns the color of c, or "" for an unknown category.
func (s *Scene) Color(c model.Category) string {
	color, _ := s.palette.Color(c)
	return color
}

// Bounds returns the canvas rectangle.
func (s *Scene) Bounds() geometry.Rect {
	return geometry.Rect{W: s.cfg.CanvasWidth(), H: s.cfg.Height}
}

// HitTest returns the category whose band contains (x, y). Bands are tested
// from the last drawn down, so the topmost band wins on shared edges.
func (s *Scene) HitTest(x, y float64) (model.Category, bool) {
	if s.Empty() {
		return "", false
	}
	pt := geometry.Point{X: x, Y: y}
	for i := len(s.Bands) - 1; i >= 0; i-- {
		b := &s.Bands[i]
		if !b.bounds.Contains(pt) {
			continue
		}
		if b.Polygon.Contains(pt) {
			return b.Category, true
		}
	}
	return "", false
}
