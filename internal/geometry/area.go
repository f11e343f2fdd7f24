package geometry

// Area returns the closed outline of a band: the upper edge through upper
// in order, then the lower edge through lower in reverse order, closed back
// to the start. upper and lower are given in the same (time) order and must
// have equal length. Both edges are cardinal splines with the given tension
// (0 gives the classic Catmull-Rom-like cardinal curve, 1 straight lines)
// and pass through every point exactly. An empty input yields an empty path.
func Area(upper, lower []Point, tension float64) Path {
	var p Path
	n := min(len(upper), len(lower))
	if n == 0 {
		return p
	}

	p.MoveTo(upper[0])
	cardinal(&p, upper[:n], tension)

	reversed := make([]Point, n)
	for i := range reversed {
		reversed[i] = lower[n-1-i]
	}
	p.LineTo(reversed[0])
	cardinal(&p, reversed, tension)

	p.Close()
	return p
}

// cardinal appends segments from pts[0] (where the pen already rests)
// through every following point.
func cardinal(p *Path, pts []Point, tension float64) {
	n := len(pts)
	switch {
	case n < 2:
		return
	case n == 2:
		p.LineTo(pts[1])
		return
	}

	k := (1 - tension) / 6
	for i := 0; i+1 < n; i++ {
		p0 := pts[max(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[min(i+2, n-1)]

		c1 := p1.Add(p2.Sub(p0).Scale(k))
		c2 := p2.Sub(p3.Sub(p1).Scale(k))
		p.CubicTo(c1, c2, p2)
	}
}
