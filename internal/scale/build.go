package scale

import (
	"math"
	"time"

	"github.com/tinytelemetry/streamgraph/internal/stack"
)

// Set is the pair of scales for one layout.
type Set struct {
	X Time
	Y Linear
}

// Build derives the streamgraph scales from stacked series. The time scale
// spans the band timestamps onto [0, width]; the value scale spans the
// lowest lower bound of the bottom layer up to the highest upper bound of
// any layer, inverted onto [height, 0]. ok is false when there are no bands.
func Build(series []stack.Series, width, height float64) (Set, bool) {
	if len(series) == 0 || len(series[0].Bands) == 0 {
		return Set{}, false
	}

	dates := make([]time.Time, len(series[0].Bands))
	lo := math.Inf(1)
	for j, b := range series[0].Bands {
		dates[j] = b.Date
		lo = math.Min(lo, b.Lower)
	}

	hi := math.Inf(-1)
	for _, s := range series {
		for _, b := range s.Bands {
			hi = math.Max(hi, b.Upper)
		}
	}

	start, end, _ := TimeExtent(dates)
	return Set{
		X: NewTime(start, end, 0, width),
		Y: NewLinear(lo, hi, height, 0),
	}, true
}
