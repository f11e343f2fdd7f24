package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/streamgraph/internal/draw"
	"github.com/tinytelemetry/streamgraph/internal/interact"
	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/palette"
	"github.com/tinytelemetry/streamgraph/internal/render"
)

// StreamPageID identifies the streamgraph page.
const StreamPageID = "stream"

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// recordsLoadedMsg carries the result of an asynchronous load.
type recordsLoadedMsg struct {
	source  string
	records []model.Record
	err     error
	took    time.Duration
}

// spinnerTickMsg re-renders the loading indicator.
type spinnerTickMsg struct{}

// loadRecords reads src off the update loop.
func loadRecords(src model.RecordSource, categories []model.Category, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		records, err := src.Load(ctx, categories)
		return recordsLoadedMsg{source: src.Name(), records: records, err: err, took: time.Since(start)}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return spinnerTickMsg{} })
}

// StreamOptions configures a StreamPage.
type StreamOptions struct {
	Source       model.RecordSource
	Palette      *palette.Registry
	LoadTimeout  time.Duration
	FlattenSteps int
	CurveTension float64
	Keys         KeyMap
}

// StreamPage shows the streamgraph, turns mouse motion and the keyboard
// cursor into hover events, and overlays the detail chart.
type StreamPage struct {
	opts StreamOptions

	records []model.Record
	gen     uint64
	scene   *render.Scene
	coord   *interact.Coordinator
	base    *raster

	cols, rows int
	loading    bool
	err        error
	loaded     recordsLoadedMsg

	cursorCol, cursorRow int
	cursorActive         bool
}

// NewStreamPage creates the page. Records are loaded on Init.
func NewStreamPage(opts StreamOptions) *StreamPage {
	if opts.Palette == nil {
		opts.Palette = palette.Default()
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = model.DefaultLoadTimeout
	}
	if opts.FlattenSteps <= 0 {
		opts.FlattenSteps = model.DefaultFlattenSteps
	}
	if len(opts.Keys.Quit.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}
	return &StreamPage{opts: opts}
}

func (p *StreamPage) ID() string { return StreamPageID }

func (p *StreamPage) Init() tea.Cmd {
	return p.reload()
}

func (p *StreamPage) reload() tea.Cmd {
	if p.opts.Source == nil || p.loading {
		return nil
	}
	p.loading = true
	return tea.Batch(
		loadRecords(p.opts.Source, p.opts.Palette.Categories(), p.opts.LoadTimeout),
		spinnerTick(),
	)
}

func (p *StreamPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.cols, p.rows = msg.Width, msg.Height
		p.rebuild()

	case recordsLoadedMsg:
		p.loading = false
		p.loaded = msg
		if msg.err != nil {
			p.err = msg.err
			return nil, nil
		}
		p.err = nil
		p.records = msg.records
		p.gen++
		p.rebuild()

	case spinnerTickMsg:
		if p.loading {
			return spinnerTick(), nil
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionMotion {
			return nil, nil
		}
		p.cursorActive = false
		p.pointerAt(msg.X, msg.Y)

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil, nil
}

func (p *StreamPage) handleKey(msg tea.KeyMsg) (tea.Cmd, *PageNav) {
	k := p.opts.Keys
	switch {
	case key.Matches(msg, k.Quit), key.Matches(msg, k.ForceQuit):
		return tea.Quit, nil
	case key.Matches(msg, k.Help):
		return nil, &PageNav{PageID: HelpPageID}
	case key.Matches(msg, k.Reload):
		return p.reload(), nil
	case key.Matches(msg, k.Escape):
		p.cursorActive = false
		if p.coord != nil {
			p.coord.PointerLeft()
		}
	case key.Matches(msg, k.Up):
		p.moveCursor(0, -1)
	case key.Matches(msg, k.Down):
		p.moveCursor(0, 1)
	case key.Matches(msg, k.Left):
		p.moveCursor(-1, 0)
	case key.Matches(msg, k.Right):
		p.moveCursor(1, 0)
	}
	return nil, nil
}

func (p *StreamPage) moveCursor(dc, dr int) {
	if p.scene == nil {
		return
	}
	if !p.cursorActive {
		cfg := p.scene.Config()
		p.cursorCol, p.cursorRow = canvasCell(cfg.Center())
		p.cursorActive = true
	} else {
		p.cursorCol = clamp(p.cursorCol+dc, 0, p.cols-1)
		p.cursorRow = clamp(p.cursorRow+dr, 0, p.chartRows()-1)
	}
	p.pointerAt(p.cursorCol, p.cursorRow)
}

// pointerAt feeds the coordinator the canvas position of a cell. Cells
// outside the chart rows count as the pointer leaving the chart.
func (p *StreamPage) pointerAt(col, row int) {
	if p.coord == nil {
		return
	}
	if row < 0 || row >= p.chartRows() || col < 0 || col >= p.cols {
		p.coord.PointerLeft()
		return
	}
	pt := cellCenter(col, row)
	p.coord.Pointer(pt.X, pt.Y)
}

func (p *StreamPage) chartRows() int {
	return max(0, p.rows-statusRows)
}

// rebuild lays the current records out for the current terminal size.
func (p *StreamPage) rebuild() {
	cfg, ok := layoutFor(p.cols, p.rows)
	if !ok {
		p.scene, p.base = nil, nil
		return
	}
	cfg.Tension = p.opts.CurveTension
	cfg.FlattenSteps = p.opts.FlattenSteps
	p.scene = render.NewScene(cfg, p.opts.Palette, p.records, p.gen)
	if p.coord == nil {
		p.coord = interact.NewCoordinator(p.scene, cfg.Detail)
	} else {
		p.coord.SetSource(p.scene)
	}

	p.base = newRaster(p.cols, p.chartRows(), p.opts.FlattenSteps)
	draw.Replay(p.base, render.Render(p.scene, interact.Snapshot{}).Main)
}

// Snapshot exposes the hover state.
func (p *StreamPage) Snapshot() interact.Snapshot {
	if p.coord == nil {
		return interact.Snapshot{}
	}
	return p.coord.Snapshot()
}

func (p *StreamPage) View(width, height int) string {
	if p.scene == nil {
		msg := "terminal too small"
		if width == 0 {
			msg = "starting…"
		}
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, statusStyle.Render(msg))
	}

	chart := p.chartView()
	return chart + "\n" + p.statusLine(width)
}

func (p *StreamPage) chartView() string {
	rows := p.chartRows()
	if p.scene.Empty() {
		msg := "no records"
		switch {
		case p.loading:
			msg = spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))] + " loading…"
		case p.err != nil:
			msg = "no records loaded"
		}
		return lipgloss.Place(p.cols, rows, lipgloss.Center, lipgloss.Center, statusStyle.Render(msg))
	}

	lines := make([]string, rows)
	for r := range lines {
		lines[r] = p.base.line(r, 0, p.cols)
	}

	if p.cursorActive {
		c, r := p.cursorCol, p.cursorRow
		if r >= 0 && r < rows && c >= 0 && c < p.cols {
			lines[r] = p.base.line(r, 0, c) + cursorStyle.Render("+") + p.base.line(r, c+1, p.cols)
		}
	}

	frame := render.Render(p.scene, p.coord.Snapshot())
	if o := frame.Overlay; o != nil {
		box := renderOverlay(o.Detail)
		col, row := canvasCell(o.Origin)
		col = clamp(col, 0, max(0, p.cols-overlayCols))
		row = clamp(row, 0, max(0, rows-len(box)))
		for i, ol := range box {
			r := row + i
			if r >= rows {
				break
			}
			lines[r] = p.base.line(r, 0, col) + ol + p.base.line(r, col+lipgloss.Width(ol), p.cols)
		}
	}
	return strings.Join(lines, "\n")
}

func (p *StreamPage) statusLine(width int) string {
	var left string
	switch {
	case p.err != nil:
		left = errorStyle.Render("load failed: " + p.err.Error())
	case p.loading:
		left = statusStyle.Render("loading " + p.sourceName() + "…")
	default:
		left = statusStyle.Render(fmt.Sprintf("%s · %d records · gen %d", p.sourceName(), len(p.records), p.gen))
	}
	if snap := p.Snapshot(); snap.State == interact.Hovering {
		left += "  " + accentStyle.Render(string(snap.Category))
	}
	right := statusStyle.Render("? help  r reload  q quit")
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return lipgloss.NewStyle().MaxWidth(width).Render(left)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (p *StreamPage) sourceName() string {
	if p.opts.Source == nil {
		return "no source"
	}
	return p.opts.Source.Name()
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
