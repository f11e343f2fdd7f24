// Package interact tracks which band the pointer is over and owns the
// transient detail view shown for it.
package interact

import (
	"github.com/tinytelemetry/streamgraph/internal/detail"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
	"github.com/tinytelemetry/streamgraph/internal/model"
)

// State is the hover state.
type State int

const (
	Idle State = iota
	Hovering
)

func (s State) String() string {
	if s == Hovering {
		return "hovering"
	}
	return "idle"
}

// EventKind is a pointer event type.
type EventKind int

const (
	Enter EventKind = iota
	Move
	Leave
)

// Event is a pointer event on a band region.
type Event struct {
	Kind     EventKind
	Category model.Category
	X, Y     float64
}

// Source is the layout the coordinator reads from. Every data load yields
// a new Source with a higher generation.
type Source interface {
	Generation() uint64
	Records() []model.Record
	Color(c model.Category) string
	HitTest(x, y float64) (model.Category, bool)
	Bounds() geometry.Rect
}

// Snapshot is a read-only copy of the hover state for rendering.
type Snapshot struct {
	State    State
	Category model.Category
	Pointer  geometry.Point
	Detail   *detail.View // nil when idle or stale
	Origin   geometry.Point
}

// Coordinator is the hover state machine. It is not safe for concurrent
// use; hosts drive it from a single event loop.
type Coordinator struct {
	src     Source
	cfg     detail.Config
	state   State
	current model.Category
	pointer geometry.Point
	view    *detail.View
}

// NewCoordinator creates an idle coordinator reading from src.
func NewCoordinator(src Source, cfg detail.Config) *Coordinator {
	return &Coordinator{src: src, cfg: cfg}
}

// SetSource swaps in a new layout. An open detail view keeps its old
// generation, is hidden from snapshots and gets dropped on the next state
// change.
func (c *Coordinator) SetSource(src Source) {
	c.src = src
}

// State returns the current state.
func (c *Coordinator) State() State {
	return c.state
}

// Handle applies one pointer event.
func (c *Coordinator) Handle(ev Event) {
	pt := geometry.Point{X: ev.X, Y: ev.Y}
	switch ev.Kind {
	case Enter:
		if c.state == Hovering && c.current == ev.Category && !c.stale() {
			c.pointer = pt
			return
		}
		c.state = Hovering
		c.current = ev.Category
		c.pointer = pt
		c.view = c.build(ev.Category)
	case Move:
		if c.state != Hovering {
			return
		}
		c.pointer = pt
	case Leave:
		c.reset()
	}
}

// Pointer resolves a raw pointer position against the current layout and
// applies the resulting Leave/Enter/Move events. A stale detail is
// replaced by re-entering the band under the pointer.
func (c *Coordinator) Pointer(x, y float64) {
	var hit model.Category
	ok := false
	if c.src != nil {
		hit, ok = c.src.HitTest(x, y)
	}

	switch {
	case !ok:
		if c.state == Hovering {
			c.Handle(Event{Kind: Leave, X: x, Y: y})
		}
	case c.state == Hovering && hit == c.current && !c.stale():
		c.Handle(Event{Kind: Move, Category: hit, X: x, Y: y})
	default:
		if c.state == Hovering {
			c.Handle(Event{Kind: Leave, Category: c.current, X: x, Y: y})
		}
		c.Handle(Event{Kind: Enter, Category: hit, X: x, Y: y})
	}
}

// PointerLeft handles the pointer leaving the host surface entirely.
func (c *Coordinator) PointerLeft() {
	c.Handle(Event{Kind: Leave})
}

// Snapshot returns the state for rendering.
func (c *Coordinator) Snapshot() Snapshot {
	s := Snapshot{State: c.state, Category: c.current, Pointer: c.pointer}
	if c.state == Hovering && c.view != nil && !c.stale() {
		s.Detail = c.view
		s.Origin = c.overlayOrigin()
	}
	return s
}

func (c *Coordinator) reset() {
	c.state = Idle
	c.current = ""
	c.pointer = geometry.Point{}
	c.view = nil
}

func (c *Coordinator) stale() bool {
	return c.view != nil && c.src != nil && c.view.Generation != c.src.Generation()
}

func (c *Coordinator) build(cat model.Category) *detail.View {
	if c.src == nil {
		return nil
	}
	v := detail.Build(c.src.Records(), cat, c.src.Color(cat), c.cfg)
	v.Generation = c.src.Generation()
	return v
}

// overlayOrigin places the overlay right of and above the pointer, kept
// inside the source bounds when it fits.
func (c *Coordinator) overlayOrigin() geometry.Point {
	o := geometry.Point{X: c.pointer.X + 20, Y: c.pointer.Y - 20}
	if c.src == nil {
		return o
	}
	b := c.src.Bounds()
	if o.X+c.cfg.Width > b.X+b.W {
		o.X = max(b.X, c.pointer.X-20-c.cfg.Width)
	}
	if o.Y+c.cfg.Height > b.Y+b.H {
		o.Y = b.Y + b.H - c.cfg.Height
	}
	o.Y = max(o.Y, b.Y)
	return o
}
