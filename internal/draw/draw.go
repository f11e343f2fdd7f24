// Package draw defines backend-neutral draw commands and the Surface
// interface every output target implements.
package draw

import "github.com/tinytelemetry/streamgraph/internal/geometry"

// Kind identifies a draw command.
type Kind int

const (
	KindPath Kind = iota
	KindRect
	KindLine
	KindText
)

// Anchor is the horizontal text alignment.
type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Command is one drawable primitive. Only the fields relevant to Kind are set.
type Command struct {
	Kind Kind

	// Tag identifies what the primitive belongs to (a category name for
	// bands, bars and legend swatches, "axis" for axes).
	Tag string

	Path geometry.Path
	Rect geometry.Rect

	From, To geometry.Point // KindLine
	At       geometry.Point // KindText baseline position

	Text     string
	FontSize float64
	Anchor   Anchor

	Fill   string // #rrggbb or "" for none
	Stroke string
}

// Surface is an output target that commands are replayed onto.
type Surface interface {
	FillPath(p geometry.Path, fill, tag string)
	FillRect(r geometry.Rect, fill, tag string)
	Line(from, to geometry.Point, stroke string)
	Text(at geometry.Point, text string, size float64, anchor Anchor, fill string)
}

// Replay sends every command to s in order; later commands paint over
// earlier ones.
func Replay(s Surface, cmds []Command) {
	for _, c := range cmds {
		switch c.Kind {
		case KindPath:
			s.FillPath(c.Path, c.Fill, c.Tag)
		case KindRect:
			s.FillRect(c.Rect, c.Fill, c.Tag)
		case KindLine:
			s.Line(c.From, c.To, c.Stroke)
		case KindText:
			s.Text(c.At, c.Text, c.FontSize, c.Anchor, c.Fill)
		}
	}
}

// Translate returns a copy of cmds moved by d.
func Translate(cmds []Command, d geometry.Point) []Command {
	out := make([]Command, len(cmds))
	for i, c := range cmds {
		c.Rect.X += d.X
		c.Rect.Y += d.Y
		c.From = c.From.Add(d)
		c.To = c.To.Add(d)
		c.At = c.At.Add(d)
		if !c.Path.Empty() {
			segs := make([]geometry.Segment, len(c.Path.Segments))
			for k, s := range c.Path.Segments {
				for n := range s.Pts {
					s.Pts[n] = s.Pts[n].Add(d)
				}
				segs[k] = s
			}
			c.Path = geometry.Path{Segments: segs}
		}
		out[i] = c
	}
	return out
}

// Count returns how many commands in cmds have kind k.
func Count(cmds []Command, k Kind) int {
	n := 0
	for _, c := range cmds {
		if c.Kind == k {
			n++
		}
	}
	return n
}
