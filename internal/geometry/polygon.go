package geometry

import "math"

// Polygon is a closed ring of vertices.
type Polygon []Point

// Flatten approximates the path with straight edges, sampling every cubic
// segment at steps intervals. Only the first subpath is kept; band outlines
// never have more than one.
func (p Path) Flatten(steps int) Polygon {
	if steps < 1 {
		steps = 1
	}
	var poly Polygon
	var pen Point
	for i, s := range p.Segments {
		switch s.Op {
		case OpMove:
			if i > 0 {
				return poly
			}
			pen = s.Pts[0]
			poly = append(poly, pen)
		case OpLine:
			pen = s.Pts[0]
			poly = append(poly, pen)
		case OpCubic:
			for k := 1; k <= steps; k++ {
				t := float64(k) / float64(steps)
				poly = append(poly, cubicAt(pen, s.Pts[0], s.Pts[1], s.Pts[2], t))
			}
			pen = s.Pts[2]
		case OpClose:
			return poly
		}
	}
	return poly
}

func cubicAt(p0, c1, c2, p1 Point, t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	c := 3 * u * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
	}
}

// edgeEpsilon is how far from an edge, in canvas units, a point still
// counts as lying on it.
const edgeEpsilon = 1e-9

// Contains reports whether pt is inside the polygon using the even-odd rule.
// Points on the outline count as inside, so neighbouring polygons that share
// an edge both contain it.
func (poly Polygon) Contains(pt Point) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		if onSegment(pt, poly[j], poly[i]) {
			return true
		}
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether pt lies on the segment a-b.
func onSegment(pt, a, b Point) bool {
	if pt.X < min(a.X, b.X)-edgeEpsilon || pt.X > max(a.X, b.X)+edgeEpsilon ||
		pt.Y < min(a.Y, b.Y)-edgeEpsilon || pt.Y > max(a.Y, b.Y)+edgeEpsilon {
		return false
	}
	d := b.Sub(a)
	cross := d.X*(pt.Y-a.Y) - d.Y*(pt.X-a.X)
	return math.Abs(cross) <= edgeEpsilon*max(1, math.Hypot(d.X, d.Y))
}

// Bounds returns the bounding rectangle of the polygon.
func (poly Polygon) Bounds() Rect {
	if len(poly) == 0 {
		return Rect{}
	}
	minX, minY := poly[0].X, poly[0].Y
	maxX, maxY := minX, minY
	for _, pt := range poly[1:] {
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}
