package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpPageID identifies the key binding reference page.
const HelpPageID = "help"

// HelpPage lists the key bindings and explains hover.
type HelpPage struct {
	keys KeyMap
	help help.Model
}

// NewHelpPage creates the help page for keys.
func NewHelpPage(keys KeyMap) *HelpPage {
	h := help.New()
	h.ShowAll = true
	return &HelpPage{keys: keys, help: h}
}

func (p *HelpPage) ID() string { return HelpPageID }

func (p *HelpPage) Init() tea.Cmd { return nil }

func (p *HelpPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.ForceQuit):
			return tea.Quit, nil
		case key.Matches(msg, p.keys.Escape), key.Matches(msg, p.keys.Help), key.Matches(msg, p.keys.Quit):
			return nil, &PageNav{PageID: StreamPageID}
		}
	}
	return nil, nil
}

const helpText = `Move the mouse over a band to show that series as a bar chart.
The arrow keys move a keyboard cursor that hovers the same way.
Leaving the bands hides the chart again.`

func (p *HelpPage) View(width, height int) string {
	k := p.keys
	columns := [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Escape, k.Reload},
		{k.Help, k.Quit, k.ForceQuit},
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render("Streamgraph"),
		"",
		statusStyle.Render(helpText),
		"",
		p.help.FullHelpView(columns),
		"",
		statusStyle.Render("esc/?: back"),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAccent).
		Padding(1, 2).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
