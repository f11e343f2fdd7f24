package scale

import (
	"math"
	"testing"
	"time"

	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/stack"
)

func TestLinearMap(t *testing.T) {
	t.Parallel()

	s := NewLinear(0, 10, 100, 0)
	tests := []struct {
		in, want float64
	}{
		{0, 100},
		{10, 0},
		{5, 50},
		{-5, 150},
	}
	for _, tt := range tests {
		if got := s.Map(tt.in); got != tt.want {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got := s.Invert(tt.want); got != tt.in {
			t.Errorf("Invert(%v) = %v, want %v", tt.want, got, tt.in)
		}
	}
}

func TestLinearDegenerate(t *testing.T) {
	t.Parallel()

	s := NewLinear(3, 3, 120, 10)
	if !s.Degenerate() {
		t.Fatal("equal domain bounds should be degenerate")
	}
	for _, v := range []float64{-1, 3, 1e9} {
		if got := s.Map(v); got != 65 {
			t.Errorf("Map(%v) = %v, want range midpoint 65", v, got)
		}
	}
	if got := s.Ticks(5); len(got) != 1 || got[0] != 3 {
		t.Errorf("Ticks on degenerate scale = %v, want [3]", got)
	}
}

func TestLinearTicks(t *testing.T) {
	t.Parallel()

	got := NewLinear(0, 8, 0, 1).Ticks(5)
	want := []float64{0, 2, 4, 6, 8}
	if len(got) != len(want) {
		t.Fatalf("Ticks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tick %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExtent(t *testing.T) {
	t.Parallel()

	if _, _, ok := Extent(nil); ok {
		t.Error("empty input should not have an extent")
	}
	if _, _, ok := Extent([]float64{math.NaN()}); ok {
		t.Error("all-NaN input should not have an extent")
	}
	lo, hi, ok := Extent([]float64{3, math.NaN(), -2, 7})
	if !ok || lo != -2 || hi != 7 {
		t.Errorf("Extent = %v, %v, %v", lo, hi, ok)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeScale(t *testing.T) {
	t.Parallel()

	s := NewTime(date(2024, 1, 1), date(2024, 1, 11), 0, 100)
	if got := s.Map(date(2024, 1, 6)); got != 50 {
		t.Errorf("Map(midpoint) = %v, want 50", got)
	}

	single := NewTime(date(2024, 1, 1), date(2024, 1, 1), 30, 270)
	if !single.Degenerate() {
		t.Fatal("single instant should be degenerate")
	}
	if got := single.Map(date(2024, 1, 1)); got != 150 {
		t.Errorf("degenerate Map = %v, want 150", got)
	}
	if r0, r1 := single.Range(); r0 != 30 || r1 != 270 {
		t.Errorf("Range = %v, %v", r0, r1)
	}
}

func TestMonthTicks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"aligned", date(2024, 1, 1), date(2024, 4, 1), 4},
		{"mid month", date(2024, 1, 15), date(2024, 4, 10), 3},
		{"inside one month", date(2024, 1, 2), date(2024, 1, 20), 0},
		{"reversed", date(2024, 3, 1), date(2024, 1, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticks := NewTime(tt.start, tt.end, 0, 1).MonthTicks()
			if len(ticks) != tt.want {
				t.Fatalf("ticks = %v, want %d", ticks, tt.want)
			}
			for _, tick := range ticks {
				if tick.Day() != 1 || tick.Before(tt.start) || tick.After(tt.end) {
					t.Errorf("tick %v outside domain or not a month start", tick)
				}
			}
		})
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	cats := []model.Category{"A", "B"}
	records := []model.Record{
		model.NewRecord(date(2024, 1, 1), cats, map[model.Category]float64{"A": 1, "B": 2}),
		model.NewRecord(date(2024, 2, 1), cats, map[model.Category]float64{"A": 3, "B": 0}),
	}
	series := stack.Wiggle(records, cats)

	set, ok := Build(series, 400, 300)
	if !ok {
		t.Fatal("Build failed for non-empty series")
	}
	if !set.X.Start.Equal(date(2024, 1, 1)) || !set.X.End.Equal(date(2024, 2, 1)) {
		t.Errorf("x domain = %v..%v", set.X.Start, set.X.End)
	}
	if set.Y.R0 != 300 || set.Y.R1 != 0 {
		t.Errorf("y range = %v..%v, want inverted 300..0", set.Y.R0, set.Y.R1)
	}
	for _, s := range series {
		for _, b := range s.Bands {
			for _, v := range []float64{b.Lower, b.Upper} {
				if y := set.Y.Map(v); y < -1e-9 || y > 300+1e-9 {
					t.Errorf("band value %v maps to %v outside the plot", v, y)
				}
			}
		}
	}

	if _, ok := Build(stack.Wiggle(nil, cats), 400, 300); ok {
		t.Error("Build should fail without records")
	}
	if _, ok := Build(nil, 400, 300); ok {
		t.Error("Build should fail without series")
	}
}
