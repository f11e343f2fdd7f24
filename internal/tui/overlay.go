package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinytelemetry/streamgraph/internal/detail"
)

// renderOverlay draws the detail view as a bordered box of exactly
// overlayCols x overlayRows cells: a title, the bar chart, month labels
// under the bars and the value range.
func renderOverlay(v *detail.View) []string {
	innerW := overlayCols - 2
	innerH := overlayRows - 2
	chartH := innerH - 2

	color := lipgloss.Color(v.Color)
	title := lipgloss.NewStyle().Bold(true).Foreground(color).
		Render(truncate(string(v.Category), innerW-12))
	maxLabel := fmt.Sprintf("max %s", formatValue(maxValue(v)))
	header := title + strings.Repeat(" ", max(1, innerW-lipgloss.Width(title)-len(maxLabel))) + maxLabel

	bars := v.Bars
	barW, gap := barLayout(len(bars), innerW)
	if fit := fitCount(innerW, barW, gap); len(bars) > fit {
		bars = bars[len(bars)-fit:]
	}

	body := strings.Repeat(" ", innerW)
	labels := ""
	if len(bars) > 0 {
		bc := barchart.New(innerW, chartH,
			barchart.WithBarGap(gap),
			barchart.WithBarWidth(barW),
			barchart.WithNoAxis(),
		)
		style := lipgloss.NewStyle().Foreground(color).Background(color)
		for _, b := range bars {
			bc.Push(barchart.BarData{
				Label: b.Date.Format("Jan"),
				Values: []barchart.BarValue{
					{Name: string(v.Category), Value: b.Value, Style: style},
				},
			})
		}
		bc.Draw()
		body = bc.View()
		labels = monthLabels(bars, barW, gap, innerW)
	} else {
		body = lipgloss.Place(innerW, chartH, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(ColorMuted).Render("no data"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(innerW).Height(chartH).MaxHeight(chartH).Render(body),
		lipgloss.NewStyle().Foreground(ColorMuted).Width(innerW).MaxWidth(innerW).Render(labels),
	)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Width(innerW).
		Height(innerH).
		Render(content)
	return strings.Split(box, "\n")
}

// barLayout picks a bar width and gap so n bars fill width where possible.
func barLayout(n, width int) (barW, gap int) {
	if n <= 0 {
		return 1, 1
	}
	gap = 1
	if 2*n-1 > width {
		gap = 0
	}
	barW = max(1, (width-(n-1)*gap)/n)
	return min(barW, 6), gap
}

func fitCount(width, barW, gap int) int {
	return max(1, (width+gap)/(barW+gap))
}

// monthLabels places a short month label under every bar that has room.
func monthLabels(bars []detail.Bar, barW, gap, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for i, b := range bars {
		col := i * (barW + gap)
		label := b.Date.Format("Jan")
		if col < next || col+len(label) > width {
			continue
		}
		copy(line[col:], []rune(label))
		next = col + len(label) + 1
	}
	return string(line)
}

func maxValue(v *detail.View) float64 {
	m := 0.0
	for _, b := range v.Bars {
		m = max(m, b.Value)
	}
	return m
}

func formatValue(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
