package scale

import "time"

// Time maps an instant domain linearly onto a pixel range.
type Time struct {
	Start, End time.Time
	lin        Linear
}

// NewTime creates a time scale for [start, end] onto [r0, r1].
func NewTime(start, end time.Time, r0, r1 float64) Time {
	return Time{
		Start: start,
		End:   end,
		lin:   NewLinear(float64(start.UnixNano()), float64(end.UnixNano()), r0, r1),
	}
}

// Map converts an instant to a range position.
func (s Time) Map(t time.Time) float64 {
	return s.lin.Map(float64(t.UnixNano()))
}

// Degenerate reports whether start and end are the same instant.
func (s Time) Degenerate() bool {
	return s.lin.Degenerate()
}

// Range returns the output interval.
func (s Time) Range() (float64, float64) {
	return s.lin.R0, s.lin.R1
}

// MonthTicks returns the first instant of every month that falls inside the
// domain, in the domain's location.
func (s Time) MonthTicks() []time.Time {
	if s.End.Before(s.Start) {
		return nil
	}
	loc := s.Start.Location()
	t := time.Date(s.Start.Year(), s.Start.Month(), 1, 0, 0, 0, 0, loc)
	if t.Before(s.Start) {
		t = t.AddDate(0, 1, 0)
	}
	var ticks []time.Time
	for !t.After(s.End) {
		ticks = append(ticks, t)
		t = t.AddDate(0, 1, 0)
	}
	return ticks
}

// TimeExtent returns the earliest and latest instants. ok is false when
// times is empty.
func TimeExtent(times []time.Time) (lo, hi time.Time, ok bool) {
	for i, t := range times {
		if i == 0 || t.Before(lo) {
			lo = t
		}
		if i == 0 || t.After(hi) {
			hi = t
		}
	}
	return lo, hi, len(times) > 0
}
