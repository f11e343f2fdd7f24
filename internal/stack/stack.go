// Package stack computes streamgraph layers.
//
// Categories are layered bottom-to-top in their declared order. The
// baseline at each timestamp is shifted by the wiggle offset: the running
// sum, starting at 0, of the value-weighted mean slope of every layer's
// center between adjacent timestamps. Records must be ordered by time and
// values must be non-negative; neither is checked.
package stack

import (
	"time"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

// Band is the vertical interval one category occupies at one timestamp.
type Band struct {
	Lower float64
	Upper float64
	Date  time.Time
	Index int // position of the source record
}

// Height returns Upper - Lower.
func (b Band) Height() float64 {
	return b.Upper - b.Lower
}

// Series is the stacked layer of one category, one band per record.
type Series struct {
	Category model.Category
	Index    int // stack position, 0 = bottom
	Bands    []Band
}

// Wiggle stacks records with the wiggle-minimizing baseline. It returns one
// series per category, or nil when there are no categories. An empty record
// set yields series without bands.
func Wiggle(records []model.Record, categories []model.Category) []Series {
	if len(categories) == 0 {
		return nil
	}

	values := valueMatrix(records, categories)
	offsets := WiggleOffsets(values)

	series := make([]Series, len(categories))
	for i, c := range categories {
		series[i] = Series{
			Category: c,
			Index:    i,
			Bands:    make([]Band, len(records)),
		}
	}

	for j, rec := range records {
		lower := offsets[j]
		for i := range categories {
			upper := lower + values[i][j]
			series[i].Bands[j] = Band{Lower: lower, Upper: upper, Date: rec.Date, Index: j}
			lower = upper
		}
	}

	return series
}

// WiggleOffsets returns the baseline offset for every column of values,
// where values[i][j] is the value of layer i at timestamp j. The first
// offset is 0. A column whose values sum to zero keeps the previous offset.
func WiggleOffsets(values [][]float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	m := len(values[0])
	offsets := make([]float64, m)

	y := 0.0
	for j := 1; j < m; j++ {
		s1, s2 := 0.0, 0.0
		below := 0.0 // slope accumulated by the layers under layer i
		for i := range values {
			cur, prev := values[i][j], values[i][j-1]
			delta := cur - prev
			s3 := delta/2 + below
			below += delta
			s1 += cur
			s2 += s3 * cur
		}
		if s1 != 0 {
			y -= s2 / s1
		}
		offsets[j] = y
	}

	return offsets
}

func valueMatrix(records []model.Record, categories []model.Category) [][]float64 {
	values := make([][]float64, len(categories))
	for i, c := range categories {
		row := make([]float64, len(records))
		for j, rec := range records {
			row[j] = rec.Value(c)
		}
		values[i] = row
	}
	return values
}

// ColumnTotal returns the summed band height of every series at index j.
func ColumnTotal(series []Series, j int) float64 {
	total := 0.0
	for _, s := range series {
		if j < len(s.Bands) {
			total += s.Bands[j].Height()
		}
	}
	return total
}
