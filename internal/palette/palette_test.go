package palette

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	r := Default()
	wantStack := []model.Category{"GPT-4", "Gemini", "PaLM-2", "Claude", "LLaMA-3.1"}
	got := r.Categories()
	if len(got) != len(wantStack) {
		t.Fatalf("categories = %v", got)
	}
	for i := range wantStack {
		if got[i] != wantStack[i] {
			t.Errorf("stack[%d] = %q, want %q", i, got[i], wantStack[i])
		}
	}

	wantLegend := []model.Category{"LLaMA-3.1", "Claude", "PaLM-2", "Gemini", "GPT-4"}
	for i, e := range r.Legend() {
		if e.Category != wantLegend[i] {
			t.Errorf("legend[%d] = %q, want %q", i, e.Category, wantLegend[i])
		}
	}

	colors := map[model.Category]string{
		"GPT-4": "#e41a1c", "Gemini": "#377eb8", "PaLM-2": "#4daf4a",
		"Claude": "#984ea3", "LLaMA-3.1": "#ff7f00",
	}
	for c, want := range colors {
		if got, ok := r.Color(c); !ok || got != want {
			t.Errorf("Color(%s) = %q, %v, want %q", c, got, ok, want)
		}
	}
	if r.Has("Mistral") {
		t.Error("unknown category reported as present")
	}
}

func TestLegendIsACopy(t *testing.T) {
	t.Parallel()

	r := Default()
	l := r.Legend()
	l[0].Category = "changed"
	if r.Legend()[0].Category != "LLaMA-3.1" {
		t.Error("Legend() exposed internal state")
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []Entry
		legend  []model.Category
		want    error
	}{
		{"empty", nil, nil, ErrEmptyPalette},
		{"duplicate", []Entry{{"A", "#000000"}, {"A", "#ffffff"}}, nil, ErrDuplicateCategory},
		{"bad color", []Entry{{"A", "red"}}, nil, ErrInvalidColor},
		{"short legend", []Entry{{"A", "#000000"}, {"B", "#111111"}}, []model.Category{"A"}, ErrLegendMismatch},
		{"unknown legend", []Entry{{"A", "#000000"}}, []model.Category{"Z"}, ErrLegendMismatch},
		{"repeated legend", []Entry{{"A", "#000000"}, {"B", "#111111"}}, []model.Category{"A", "A"}, ErrLegendMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.entries, tt.legend); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_DefaultLegendIsReversedStack(t *testing.T) {
	t.Parallel()

	r, err := New([]Entry{{"A", "#AABBCC"}, {"B", "#112233"}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l := r.Legend()
	if l[0].Category != "B" || l[1].Category != "A" {
		t.Errorf("legend = %v, want [B A]", l)
	}
	if c, _ := r.Color("A"); c != "#aabbcc" {
		t.Errorf("color = %q, want lower-cased", c)
	}
}

const paletteYAML = `categories:
  - name: North
    color: "#1b9e77"
  - name: South
    color: "#d95f02"
legend: [South, North]
`

func TestLoadAndResolve(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "palette.yml")
	if err := os.WriteFile(path, []byte(paletteYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(file): %v", err)
	}
	if cats := r.Categories(); len(cats) != 2 || cats[0] != "North" {
		t.Errorf("categories = %v", cats)
	}
	if r.Legend()[0].Category != "South" {
		t.Errorf("legend = %v", r.Legend())
	}

	for _, src := range []string{"", "builtin"} {
		r, err := Resolve(src)
		if err != nil || len(r.Categories()) != 5 {
			t.Errorf("Resolve(%q) = %v, %v", src, r, err)
		}
	}

	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := Parse([]byte("categories: [")); err == nil {
		t.Error("bad yaml should fail")
	}
	if _, err := Parse([]byte("legend: []\n")); !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("empty palette err = %v", err)
	}
}
