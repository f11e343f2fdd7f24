// Package svg writes render frames as standalone SVG documents.
package svg

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/tinytelemetry/streamgraph/internal/draw"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
	"github.com/tinytelemetry/streamgraph/internal/render"
)

var ff = geometry.FormatFloat

// surface accumulates SVG elements for replayed commands.
type surface struct {
	b *strings.Builder
}

func (s surface) FillPath(p geometry.Path, fill, tag string) {
	fmt.Fprintf(s.b, `<path class="areas" data-category="%s" d="%s" fill="%s"/>`,
		html.EscapeString(tag), p.SVG(), colorOrNone(fill))
	s.b.WriteString("\n")
}

func (s surface) FillRect(r geometry.Rect, fill, tag string) {
	fmt.Fprintf(s.b, `<rect data-tag="%s" x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
		html.EscapeString(tag), ff(r.X), ff(r.Y), ff(r.W), ff(r.H), colorOrNone(fill))
	s.b.WriteString("\n")
}

func (s surface) Line(from, to geometry.Point, stroke string) {
	fmt.Fprintf(s.b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
		ff(from.X), ff(from.Y), ff(to.X), ff(to.Y), colorOrNone(stroke))
	s.b.WriteString("\n")
}

func (s surface) Text(at geometry.Point, text string, size float64, anchor draw.Anchor, fill string) {
	fmt.Fprintf(s.b, `<text x="%s" y="%s" font-family="sans-serif" font-size="%s" text-anchor="%s" fill="%s">%s</text>`,
		ff(at.X), ff(at.Y), ff(size), anchorName(anchor), colorOrNone(fill), html.EscapeString(text))
	s.b.WriteString("\n")
}

// Render returns f as an SVG document. The overlay, when present, is a
// nested <svg> placed at its origin so it paints over the main layer.
func Render(f render.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<svg class="container" width="%s" height="%s" xmlns="http://www.w3.org/2000/svg">
`, ff(f.Width), ff(f.Height))

	s := surface{b: &b}
	if len(f.Main) > 0 {
		b.WriteString(`<g class="chart">` + "\n")
		draw.Replay(s, f.Main)
		b.WriteString("</g>\n")
	}

	if o := f.Overlay; o != nil {
		fmt.Fprintf(&b, `<svg id="tooltip" x="%s" y="%s" width="%s" height="%s">`+"\n",
			ff(o.Origin.X), ff(o.Origin.Y), ff(o.Width), ff(o.Height))
		draw.Replay(s, o.Commands)
		b.WriteString("</svg>\n")
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// Write renders f to w.
func Write(w io.Writer, f render.Frame) error {
	_, err := io.WriteString(w, Render(f))
	return err
}

func colorOrNone(c string) string {
	if c == "" {
		return "none"
	}
	return html.EscapeString(c)
}

func anchorName(a draw.Anchor) string {
	switch a {
	case draw.AnchorMiddle:
		return "middle"
	case draw.AnchorEnd:
		return "end"
	default:
		return "start"
	}
}
