// Package geometry builds the closed outline of a stacked band and the
// helpers needed to hit-test it.
package geometry

import (
	"strconv"
	"strings"
)

// Point is a position in screen coordinates.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Op is a path drawing operation.
type Op int

const (
	OpMove Op = iota
	OpLine
	OpCubic // Pts[0], Pts[1] control points, Pts[2] end point
	OpClose
)

// Segment is one path operation with its points.
type Segment struct {
	Op  Op
	Pts [3]Point
}

// End returns the point the pen rests on after the segment.
func (s Segment) End() Point {
	switch s.Op {
	case OpCubic:
		return s.Pts[2]
	default:
		return s.Pts[0]
	}
}

// Path is a sequence of segments.
type Path struct {
	Segments []Segment
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(pt Point) {
	p.Segments = append(p.Segments, Segment{Op: OpMove, Pts: [3]Point{pt}})
}

// LineTo adds a straight segment.
func (p *Path) LineTo(pt Point) {
	p.Segments = append(p.Segments, Segment{Op: OpLine, Pts: [3]Point{pt}})
}

// CubicTo adds a cubic Bézier segment.
func (p *Path) CubicTo(c1, c2, end Point) {
	p.Segments = append(p.Segments, Segment{Op: OpCubic, Pts: [3]Point{c1, c2, end}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Op: OpClose})
}

// Empty reports whether the path has no segments.
func (p Path) Empty() bool {
	return len(p.Segments) == 0
}

// Closed reports whether the path ends with a close operation.
func (p Path) Closed() bool {
	return len(p.Segments) > 0 && p.Segments[len(p.Segments)-1].Op == OpClose
}

// Vertices returns the on-curve points (move, line and cubic end points).
func (p Path) Vertices() []Point {
	pts := make([]Point, 0, len(p.Segments))
	for _, s := range p.Segments {
		if s.Op == OpClose {
			continue
		}
		pts = append(pts, s.End())
	}
	return pts
}

// SVG formats the path as SVG path data.
func (p Path) SVG() string {
	var b strings.Builder
	for _, s := range p.Segments {
		switch s.Op {
		case OpMove:
			b.WriteString("M")
			writePoint(&b, s.Pts[0])
		case OpLine:
			b.WriteString("L")
			writePoint(&b, s.Pts[0])
		case OpCubic:
			b.WriteString("C")
			writePoint(&b, s.Pts[0])
			b.WriteString(",")
			writePoint(&b, s.Pts[1])
			b.WriteString(",")
			writePoint(&b, s.Pts[2])
		case OpClose:
			b.WriteString("Z")
		}
	}
	return b.String()
}

func writePoint(b *strings.Builder, pt Point) {
	b.WriteString(FormatFloat(pt.X))
	b.WriteString(",")
	b.WriteString(FormatFloat(pt.Y))
}

// FormatFloat renders v with at most three decimals and no trailing zeros.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether pt lies inside r (edges inclusive).
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X && pt.X <= r.X+r.W && pt.Y >= r.Y && pt.Y <= r.Y+r.H
}
