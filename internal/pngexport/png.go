// Package pngexport rasterizes render frames to PNG through go-chart's
// renderer.
package pngexport

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/tinytelemetry/streamgraph/internal/draw"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/render"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type surface struct {
	r      chart.Renderer
	steps  int
	offset geometry.Point
}

func px(v float64) int {
	return int(math.Round(v))
}

func (s surface) FillPath(p geometry.Path, fill, _ string) {
	poly := p.Flatten(s.steps)
	if len(poly) < 3 || fill == "" {
		return
	}
	s.r.SetFillColor(parseColor(fill))
	s.r.SetStrokeColor(parseColor(fill))
	s.r.SetStrokeWidth(0.5)
	s.r.MoveTo(px(poly[0].X+s.offset.X), px(poly[0].Y+s.offset.Y))
	for _, pt := range poly[1:] {
		s.r.LineTo(px(pt.X+s.offset.X), px(pt.Y+s.offset.Y))
	}
	s.r.Close()
	s.r.FillStroke()
}

func (s surface) FillRect(rect geometry.Rect, fill, _ string) {
	if fill == "" || rect.W <= 0 || rect.H <= 0 {
		return
	}
	x0, y0 := px(rect.X+s.offset.X), px(rect.Y+s.offset.Y)
	x1, y1 := px(rect.X+rect.W+s.offset.X), px(rect.Y+rect.H+s.offset.Y)
	s.r.SetFillColor(parseColor(fill))
	s.r.SetStrokeColor(drawing.ColorTransparent)
	s.r.MoveTo(x0, y0)
	s.r.LineTo(x1, y0)
	s.r.LineTo(x1, y1)
	s.r.LineTo(x0, y1)
	s.r.Close()
	s.r.Fill()
}

func (s surface) Line(from, to geometry.Point, stroke string) {
	s.r.SetStrokeColor(parseColor(stroke))
	s.r.SetStrokeWidth(1)
	s.r.MoveTo(px(from.X+s.offset.X), px(from.Y+s.offset.Y))
	s.r.LineTo(px(to.X+s.offset.X), px(to.Y+s.offset.Y))
	s.r.Stroke()
}

func (s surface) Text(at geometry.Point, text string, size float64, anchor draw.Anchor, fill string) {
	s.r.SetFontSize(size)
	s.r.SetFontColor(parseColor(fill))
	x := at.X + s.offset.X
	switch anchor {
	case draw.AnchorMiddle:
		x -= float64(s.r.MeasureText(text).Width()) / 2
	case draw.AnchorEnd:
		x -= float64(s.r.MeasureText(text).Width())
	}
	s.r.Text(text, px(x), px(at.Y+s.offset.Y))
}

// Write renders f as a PNG image to w. steps controls how finely band
// curves are flattened; values below 1 use the default.
func Write(w io.Writer, f render.Frame, steps int) error {
	if steps < 1 {
		steps = model.DefaultFlattenSteps
	}
	width, height := px(f.Width), px(f.Height)
	if width <= 0 || height <= 0 {
		return fmt.Errorf("pngexport: invalid canvas size %dx%d", width, height)
	}

	r, err := chart.PNG(width, height)
	if err != nil {
		return fmt.Errorf("pngexport: creating renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("pngexport: loading font: %w", err)
	}
	r.SetFont(font)

	s := surface{r: r, steps: steps}
	s.FillRect(geometry.Rect{W: f.Width, H: f.Height}, "#ffffff", "")
	draw.Replay(s, f.Main)

	if o := f.Overlay; o != nil {
		overlay := surface{r: r, steps: steps, offset: o.Origin}
		draw.Replay(overlay, o.Commands)
	}

	if err := r.Save(w); err != nil {
		return fmt.Errorf("pngexport: encoding: %w", err)
	}
	return nil
}

func parseColor(hex string) drawing.Color {
	if hex == "" {
		return drawing.ColorTransparent
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
