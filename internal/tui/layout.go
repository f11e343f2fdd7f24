package tui

import (
	"github.com/tinytelemetry/streamgraph/internal/detail"
	"github.com/tinytelemetry/streamgraph/internal/geometry"
	"github.com/tinytelemetry/streamgraph/internal/render"
)

// The chart is laid out in canvas units where one terminal cell is
// cellWidth x cellHeight, roughly the aspect of a monospace glyph.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	legendCols   = 16
	statusRows   = 1
	overlayCols  = 42
	overlayRows  = 11
	minChartCols = 20
	minChartRows = 6
)

// layoutFor sizes the scene to a terminal of cols x rows cells.
func layoutFor(cols, rows int) (render.Config, bool) {
	chartCols := cols - legendCols
	chartRows := rows - statusRows
	if chartCols < minChartCols || chartRows < minChartRows {
		return render.Config{}, false
	}

	cfg := render.DefaultConfig()
	cfg.Width = float64(chartCols) * cellWidth
	cfg.Height = float64(chartRows) * cellHeight
	cfg.Margin = render.Margin{Top: cellHeight, Right: cellWidth, Bottom: 3 * cellHeight, Left: 2 * cellWidth}
	cfg.LegendWidth = legendCols * cellWidth
	cfg.LegendOffset = geometry.Point{X: 2 * cellWidth, Y: cellHeight}
	cfg.LegendRow = cellHeight
	cfg.LegendSwatch = 2 * cellWidth
	cfg.FontSize = cellHeight
	cfg.AxisGap = cellHeight / 2
	cfg.Detail = detail.Config{
		Width:     overlayCols * cellWidth,
		Height:    overlayRows * cellHeight,
		BarWidth:  cellWidth,
		PadLeft:   2 * cellWidth,
		PadRight:  2 * cellWidth,
		PadTop:    cellHeight,
		PadBottom: 2 * cellHeight,
		Ticks:     5,
	}
	return cfg, true
}

// cellCenter returns the canvas point at the center of cell (col, row).
func cellCenter(col, row int) geometry.Point {
	return geometry.Point{
		X: (float64(col) + 0.5) * cellWidth,
		Y: (float64(row) + 0.5) * cellHeight,
	}
}

// canvasCell returns the cell containing canvas point p.
func canvasCell(p geometry.Point) (col, row int) {
	return floorDiv(p.X, cellWidth), floorDiv(p.Y, cellHeight)
}

func floorDiv(v, unit float64) int {
	i := int(v / unit)
	if v < 0 && float64(i)*unit != v {
		i--
	}
	return i
}
