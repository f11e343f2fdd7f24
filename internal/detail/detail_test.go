package detail

import (
	"testing"
	"time"

	"github.com/tinytelemetry/streamgraph/internal/draw"
	"github.com/tinytelemetry/streamgraph/internal/model"
)

var cats = []model.Category{"A", "B"}

func rec(month time.Month, a, b float64) model.Record {
	return model.NewRecord(time.Date(2024, month, 1, 0, 0, 0, 0, time.UTC), cats,
		map[model.Category]float64{"A": a, "B": b})
}

func TestFilter_SortsAscending(t *testing.T) {
	t.Parallel()

	points := Filter([]model.Record{rec(3, 5, 0), rec(1, 1, 0), rec(2, 3, 0)}, "A")
	want := []float64{1, 3, 5}
	for i, p := range points {
		if p.Value != want[i] {
			t.Errorf("point %d = %v, want %v", i, p.Value, want[i])
		}
		if i > 0 && !points[i-1].Date.Before(p.Date) {
			t.Errorf("points not ascending at %d", i)
		}
	}
}

func TestBuild_TwoRecordScenario(t *testing.T) {
	t.Parallel()

	v := Build([]model.Record{rec(2, 3, 0), rec(1, 1, 2)}, "A", "#e41a1c", DefaultConfig())
	got := v.Values()
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("values = %v, want [1 3]", got)
	}

	cfg := DefaultConfig()
	if v.Bars[0].Rect.X != cfg.PadLeft || v.Bars[1].Rect.X != cfg.Width-cfg.PadRight {
		t.Errorf("bar x = %v, %v, want %v, %v", v.Bars[0].Rect.X, v.Bars[1].Rect.X, cfg.PadLeft, cfg.Width-cfg.PadRight)
	}
	baseline := cfg.Height - cfg.PadBottom
	tallest := v.Bars[1]
	if tallest.Rect.Y != cfg.PadTop || tallest.Rect.Y+tallest.Rect.H != baseline {
		t.Errorf("max bar rect = %+v, want top %v bottom %v", tallest.Rect, cfg.PadTop, baseline)
	}
	for _, b := range v.Bars {
		if b.Rect.W != cfg.BarWidth {
			t.Errorf("bar width = %v, want %v", b.Rect.W, cfg.BarWidth)
		}
	}
	if v.Category != "A" || v.Color != "#e41a1c" {
		t.Errorf("view = %q %q", v.Category, v.Color)
	}
}

func TestBuild_Degenerate(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	single := Build([]model.Record{rec(5, 4, 0)}, "A", "", cfg)
	if len(single.Bars) != 1 {
		t.Fatalf("bars = %d, want 1", len(single.Bars))
	}
	if mid := (cfg.PadLeft + cfg.Width - cfg.PadRight) / 2; single.Bars[0].Rect.X != mid {
		t.Errorf("single bar x = %v, want midpoint %v", single.Bars[0].Rect.X, mid)
	}

	zeros := Build([]model.Record{rec(1, 1, 0), rec(2, 2, 0)}, "B", "", cfg)
	for i, b := range zeros.Bars {
		if b.Rect.H != 0 {
			t.Errorf("all-zero bar %d height = %v, want 0", i, b.Rect.H)
		}
	}

	empty := Build(nil, "A", "", cfg)
	if len(empty.Bars) != 0 {
		t.Errorf("empty input produced %d bars", len(empty.Bars))
	}
	if cmds := empty.Commands(); draw.Count(cmds, draw.KindText) != 0 {
		t.Error("empty chart should have no labels")
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	v := Build([]model.Record{rec(1, 1, 0), rec(2, 2, 0), rec(3, 4, 0)}, "A", "#377eb8", DefaultConfig())
	cmds := v.Commands()

	if got := draw.Count(cmds, draw.KindRect); got != 4 {
		t.Errorf("rects = %d, want background plus 3 bars", got)
	}
	if cmds[0].Tag != "background" {
		t.Errorf("first command = %q, want background", cmds[0].Tag)
	}
	wantTexts := 3 + len(v.Y.Ticks(v.Config.Ticks))
	if got := draw.Count(cmds, draw.KindText); got != wantTexts {
		t.Errorf("texts = %d, want %d", got, wantTexts)
	}
	var months []string
	for _, c := range cmds {
		if c.Kind == draw.KindText && c.Anchor == draw.AnchorMiddle {
			months = append(months, c.Text)
		}
	}
	if len(months) != 3 || months[0] != "Jan" || months[2] != "Mar" {
		t.Errorf("month labels = %v", months)
	}

	var nilView *View
	if nilView.Commands() != nil {
		t.Error("nil view should have no commands")
	}
}
