package render

import (
	"github.com/tinytelemetry/streamgraph/internal/detail"
	"github.com/tinytelemetry/streamgraph/internal/draw"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
	"github.com/tinytelemetry/streamgraph/internal/interact"
)

// Overlay is the detail surface shown next to the pointer.
type Overlay struct {
	Origin   geometry.Point
	Width    float64
	Height   float64
	Detail   *detail.View
	Commands []draw.Command // overlay-local coordinates
}

// Frame is everything needed to paint one render.
type Frame struct {
	Width   float64
	Height  float64
	Main    []draw.Command
	Overlay *Overlay
}

// Empty reports whether the frame draws nothing.
func (f Frame) Empty() bool {
	return len(f.Main) == 0 && f.Overlay == nil
}

// Render produces the frame for scene under the given hover snapshot. It
// has no side effects. An empty scene renders an empty frame.
func Render(scene *Scene, hover interact.Snapshot) Frame {
	if scene == nil {
		return Frame{}
	}
	cfg := scene.cfg
	f := Frame{Width: cfg.CanvasWidth(), Height: cfg.Height}
	if scene.Empty() {
		return f
	}

	f.Main = make([]draw.Command, 0, len(scene.Bands)+32)
	for _, b := range scene.Bands {
		f.Main = append(f.Main, draw.Command{
			Kind: draw.KindPath,
			Tag:  string(b.Category),
			Path: b.Path,
			Fill: b.Color,
		})
	}
	f.Main = append(f.Main, axisCommands(scene)...)
	f.Main = append(f.Main, legendCommands(scene)...)

	if hover.State == interact.Hovering && hover.Detail != nil {
		f.Overlay = &Overlay{
			Origin:   hover.Origin,
			Width:    hover.Detail.Config.Width,
			Height:   hover.Detail.Config.Height,
			Detail:   hover.Detail,
			Commands: hover.Detail.Commands(),
		}
	}
	return f
}

func axisCommands(scene *Scene) []draw.Command {
	cfg := scene.cfg
	y := cfg.Margin.Top + cfg.InnerHeight() + cfg.AxisGap
	left := cfg.Margin.Left
	cmds := []draw.Command{{
		Kind:   draw.KindLine,
		Tag:    "axis",
		From:   geometry.Point{X: left, Y: y},
		To:     geometry.Point{X: left + cfg.InnerWidth(), Y: y},
		Stroke: "#000000",
	}}

	for _, t := range scene.Scales.X.MonthTicks() {
		x := left + scene.Scales.X.Map(t)
		cmds = append(cmds,
			draw.Command{
				Kind:   draw.KindLine,
				Tag:    "axis",
				From:   geometry.Point{X: x, Y: y},
				To:     geometry.Point{X: x, Y: y + 6},
				Stroke: "#000000",
			},
			draw.Command{
				Kind:     draw.KindText,
				Tag:      "axis",
				At:       geometry.Point{X: x, Y: y + 18},
				Text:     t.Format("Jan"),
				FontSize: 10,
				Anchor:   draw.AnchorMiddle,
				Fill:     "#000000",
			},
		)
	}
	return cmds
}

func legendCommands(scene *Scene) []draw.Command {
	cfg := scene.cfg
	origin := geometry.Point{
		X: cfg.Margin.Left + cfg.InnerWidth() + cfg.LegendOffset.X,
		Y: cfg.Margin.Top + cfg.LegendOffset.Y,
	}

	entries := scene.palette.Legend()
	cmds := make([]draw.Command, 0, len(entries)*2)
	for i, e := range entries {
		y := origin.Y + float64(i)*cfg.LegendRow
		cmds = append(cmds,
			draw.Command{
				Kind: draw.KindRect,
				Tag:  string(e.Category),
				Rect: geometry.Rect{X: origin.X, Y: y, W: cfg.LegendSwatch, H: cfg.LegendSwatch},
				Fill: e.Color,
			},
			draw.Command{
				Kind:     draw.KindText,
				Tag:      "legend",
				At:       geometry.Point{X: origin.X + cfg.LegendSwatch + 5, Y: y + cfg.LegendSwatch/2 + cfg.FontSize/3},
				Text:     string(e.Category),
				FontSize: cfg.FontSize,
				Anchor:   draw.AnchorStart,
				Fill:     "#000000",
			},
		)
	}
	return cmds
}

var _ interact.Source = (*Scene)(nil)
