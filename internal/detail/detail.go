// Package detail builds the single-category bar chart shown while a band
// is hovered.
package detail

import (
	"sort"
	"strconv"
	"time"

	"github.com/tinytelemetry/streamgraph/internal/draw"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/scale"
)

// Config sizes the detail chart.
type Config struct {
	Width     float64
	Height    float64
	BarWidth  float64
	PadLeft   float64
	PadRight  float64
	PadTop    float64
	PadBottom float64
	Ticks     int
}

// DefaultConfig matches a 300x150 tooltip chart.
func DefaultConfig() Config {
	return Config{
		Width:     300,
		Height:    150,
		BarWidth:  20,
		PadLeft:   30,
		PadRight:  30,
		PadTop:    10,
		PadBottom: 30,
		Ticks:     5,
	}
}

// Bar is one bar of the detail chart.
type Bar struct {
	Date  time.Time
	Value float64
	Rect  geometry.Rect
}

// View is a built detail chart.
type View struct {
	Category   model.Category
	Color      string
	Generation uint64
	Config     Config
	Bars       []Bar
	X          scale.Time
	Y          scale.Linear
}

// Filter extracts the (timestamp, value) pairs of one category, ordered by
// timestamp ascending whatever the input order.
func Filter(records []model.Record, c model.Category) []model.Point {
	points := make([]model.Point, len(records))
	for i, r := range records {
		points[i] = model.Point{Date: r.Date, Value: r.Value(c)}
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points
}

// Build lays out the bar chart for category c. Each bar's left edge sits at
// its timestamp on the chart's own time scale; the value scale runs from 0
// to the category's own maximum. A single timestamp puts its bar at the
// middle of the x range and an all-zero series gets zero-height bars.
func Build(records []model.Record, c model.Category, color string, cfg Config) *View {
	points := Filter(records, c)
	v := &View{Category: c, Color: color, Config: cfg}

	baseline := cfg.Height - cfg.PadBottom
	v.X = scale.NewTime(time.Time{}, time.Time{}, cfg.PadLeft, cfg.Width-cfg.PadRight)
	v.Y = scale.NewLinear(0, 0, baseline, cfg.PadTop)
	if len(points) == 0 {
		return v
	}

	maxValue := 0.0
	for _, p := range points {
		maxValue = max(maxValue, p.Value)
	}
	v.X = scale.NewTime(points[0].Date, points[len(points)-1].Date, cfg.PadLeft, cfg.Width-cfg.PadRight)
	v.Y = scale.NewLinear(0, maxValue, baseline, cfg.PadTop)

	zero := v.Y.Map(0)
	v.Bars = make([]Bar, len(points))
	for i, p := range points {
		top := v.Y.Map(p.Value)
		v.Bars[i] = Bar{
			Date:  p.Date,
			Value: p.Value,
			Rect: geometry.Rect{
				X: v.X.Map(p.Date),
				Y: top,
				W: cfg.BarWidth,
				H: zero - top,
			},
		}
	}
	return v
}

// Values returns the bar values in display order.
func (v *View) Values() []float64 {
	out := make([]float64, len(v.Bars))
	for i, b := range v.Bars {
		out[i] = b.Value
	}
	return out
}

// Commands returns the chart as draw commands in overlay-local coordinates.
func (v *View) Commands() []draw.Command {
	if v == nil {
		return nil
	}
	cfg := v.Config
	tag := string(v.Category)
	cmds := make([]draw.Command, 0, len(v.Bars)*2+cfg.Ticks+2)

	cmds = append(cmds, draw.Command{
		Kind: draw.KindRect,
		Tag:  "background",
		Rect: geometry.Rect{W: cfg.Width, H: cfg.Height},
		Fill: "#ffffff",
	})

	for _, b := range v.Bars {
		cmds = append(cmds, draw.Command{Kind: draw.KindRect, Tag: tag, Rect: b.Rect, Fill: v.Color})
	}

	baseline := cfg.Height - cfg.PadBottom
	cmds = append(cmds, draw.Command{
		Kind:   draw.KindLine,
		Tag:    "axis",
		From:   geometry.Point{X: cfg.PadLeft, Y: baseline},
		To:     geometry.Point{X: cfg.Width - cfg.PadRight + cfg.BarWidth, Y: baseline},
		Stroke: "#000000",
	})
	for _, b := range v.Bars {
		cmds = append(cmds, draw.Command{
			Kind:     draw.KindText,
			Tag:      "axis",
			At:       geometry.Point{X: b.Rect.X + cfg.BarWidth/2, Y: baseline + 14},
			Text:     b.Date.Format("Jan"),
			FontSize: 10,
			Anchor:   draw.AnchorMiddle,
			Fill:     "#000000",
		})
	}

	if len(v.Bars) > 0 {
		for _, t := range v.Y.Ticks(cfg.Ticks) {
			cmds = append(cmds, draw.Command{
				Kind:     draw.KindText,
				Tag:      "axis",
				At:       geometry.Point{X: cfg.PadLeft - 4, Y: v.Y.Map(t) + 3},
				Text:     strconv.FormatFloat(t, 'g', 4, 64),
				FontSize: 10,
				Anchor:   draw.AnchorEnd,
				Fill:     "#000000",
			})
		}
	}
	return cmds
}
