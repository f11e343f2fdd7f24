package tui

import tea "github.com/charmbracelet/bubbletea"

// Page is a top-level screen of the terminal UI.
type Page interface {
	ID() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(pages ...Page) *App {
	a := &App{pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		a.pages[p.ID()] = p
		a.order = append(a.order, p.ID())
	}
	if len(a.order) > 0 {
		a.activePage = a.order[0]
	}
	return a
}

// ActivePage returns the ID of the page receiving input.
func (a *App) ActivePage() string {
	return a.activePage
}

func (a *App) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.order))
	for _, id := range a.order {
		cmds = append(cmds, a.pages[id].Init())
	}
	return tea.Batch(cmds...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Sizes, data loads and spinner ticks reach every page so inactive pages stay current.
	switch msg.(type) {
	case tea.WindowSizeMsg, recordsLoadedMsg, spinnerTickMsg:
		if wsm, ok := msg.(tea.WindowSizeMsg); ok {
			a.width, a.height = wsm.Width, wsm.Height
		}
		for _, id := range a.order {
			if id == a.activePage {
				continue
			}
			if cmd, _ := a.pages[id].Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	p, ok := a.pages[a.activePage]
	if !ok {
		return a, tea.Batch(cmds...)
	}

	cmd, nav := p.Update(msg)
	cmds = append(cmds, cmd)

	if nav != nil {
		if _, exists := a.pages[nav.PageID]; exists {
			a.activePage = nav.PageID
		}
	}
	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	if p, ok := a.pages[a.activePage]; ok {
		return p.View(a.width, a.height)
	}
	return "No active page"
}
