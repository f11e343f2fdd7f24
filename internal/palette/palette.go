// Package palette holds the fixed category to color assignment.
package palette

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tinytelemetry/streamgraph/internal/model"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyPalette      = errors.New("palette: no categories defined")
	ErrDuplicateCategory = errors.New("palette: duplicate category")
	ErrInvalidColor      = errors.New("palette: invalid color")
	ErrLegendMismatch    = errors.New("palette: legend must list every category exactly once")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Entry binds one category to its display color.
type Entry struct {
	Category model.Category
	Color    string // #rrggbb
}

// Registry is an immutable category/color table with two orderings: the
// stack order (bottom to top) and the legend display order.
type Registry struct {
	stack  []Entry
	legend []Entry
	colors map[model.Category]string
}

// Default returns the built-in five-series palette.
func Default() *Registry {
	r, err := New(
		[]Entry{
			{Category: "GPT-4", Color: "#e41a1c"},
			{Category: "Gemini", Color: "#377eb8"},
			{Category: "PaLM-2", Color: "#4daf4a"},
			{Category: "Claude", Color: "#984ea3"},
			{Category: "LLaMA-3.1", Color: "#ff7f00"},
		},
		[]model.Category{"LLaMA-3.1", "Claude", "PaLM-2", "Gemini", "GPT-4"},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// New validates entries and builds a registry. legend may be nil, in which
// case the legend lists categories top of the stack first.
func New(entries []Entry, legend []model.Category) (*Registry, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyPalette
	}

	colors := make(map[model.Category]string, len(entries))
	stack := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := model.Category(strings.TrimSpace(string(e.Category)))
		if name == "" {
			return nil, fmt.Errorf("palette: empty category name")
		}
		if _, dup := colors[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, name)
		}
		if !hexColor.MatchString(e.Color) {
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidColor, e.Color, name)
		}
		color := strings.ToLower(e.Color)
		colors[name] = color
		stack = append(stack, Entry{Category: name, Color: color})
	}

	if legend == nil {
		legend = make([]model.Category, len(stack))
		for i, e := range stack {
			legend[len(stack)-1-i] = e.Category
		}
	}
	if len(legend) != len(stack) {
		return nil, ErrLegendMismatch
	}
	seen := make(map[model.Category]bool, len(legend))
	legendEntries := make([]Entry, 0, len(legend))
	for _, c := range legend {
		color, ok := colors[c]
		if !ok || seen[c] {
			return nil, fmt.Errorf("%w: %s", ErrLegendMismatch, c)
		}
		seen[c] = true
		legendEntries = append(legendEntries, Entry{Category: c, Color: color})
	}

	return &Registry{stack: stack, legend: legendEntries, colors: colors}, nil
}

// Categories returns the category keys in stack order.
func (r *Registry) Categories() []model.Category {
	out := make([]model.Category, len(r.stack))
	for i, e := range r.stack {
		out[i] = e.Category
	}
	return out
}

// Color returns the color bound to c.
func (r *Registry) Color(c model.Category) (string, bool) {
	color, ok := r.colors[c]
	return color, ok
}

// Has reports whether c is part of the palette.
func (r *Registry) Has(c model.Category) bool {
	_, ok := r.colors[c]
	return ok
}

// Legend returns the entries in legend display order.
func (r *Registry) Legend() []Entry {
	return append([]Entry(nil), r.legend...)
}

type fileFormat struct {
	Categories []struct {
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
	} `yaml:"categories"`
	Legend []string `yaml:"legend"`
}

// Load reads a palette from a YAML file of the form:
//
//	categories:
//	  - name: GPT-4
//	    color: "#e41a1c"
//	legend: [GPT-4]
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("palette: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes palette YAML.
func Parse(data []byte) (*Registry, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("palette: decoding yaml: %w", err)
	}

	entries := make([]Entry, len(f.Categories))
	for i, c := range f.Categories {
		entries[i] = Entry{Category: model.Category(c.Name), Color: c.Color}
	}

	var legend []model.Category
	if len(f.Legend) > 0 {
		legend = make([]model.Category, len(f.Legend))
		for i, name := range f.Legend {
			legend[i] = model.Category(strings.TrimSpace(name))
		}
	}
	return New(entries, legend)
}

// Resolve returns the palette named by source: "" or "builtin" selects the
// default palette, anything else is a YAML file path.
func Resolve(source string) (*Registry, error) {
	if source == "" || source == model.DefaultPaletteSource {
		return Default(), nil
	}
	return Load(source)
}
