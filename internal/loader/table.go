// Package loader turns tabular input (CSV, XLSX, JSON objects, remote CSV)
// into time-stamped records.
package loader

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/tinytelemetry/streamgraph/internal/model"
	"github.com/tinytelemetry/streamgraph/internal/timestamp"
)

var (
	// ErrNoDateColumn is returned when the header lacks the date column.
	ErrNoDateColumn = errors.New("loader: no date column")
	// ErrEmptyTable is returned when the input has no header row.
	ErrEmptyTable = errors.New("loader: empty table")
	// ErrUnsupportedFormat is returned for file types without a reader.
	ErrUnsupportedFormat = errors.New("loader: unsupported format")
)

// Options controls how a table is read.
type Options struct {
	// DateColumn names the timestamp column (matched case-insensitively).
	DateColumn string
	// Parser reads the date cells. Nil uses timestamp.NewParser().
	Parser *timestamp.Parser
}

func (o Options) dateColumn() string {
	if o.DateColumn == "" {
		return model.DefaultDateColumn
	}
	return o.DateColumn
}

func (o Options) parser() *timestamp.Parser {
	if o.Parser == nil {
		return timestamp.NewParser()
	}
	return o.Parser
}

// FromRows converts a header plus string rows into a dataset. With nil
// categories every non-date column becomes a category in header order.
// Requested categories missing from the header read as zero, as do cells
// that are empty or not numeric. Rows whose date cannot be parsed are
// skipped.
func FromRows(header []string, rows [][]string, categories []model.Category, opts Options) (model.Dataset, error) {
	if len(header) == 0 {
		return model.Dataset{}, ErrEmptyTable
	}

	dateIdx := -1
	colIdx := make(map[model.Category]int, len(header))
	var inferred []model.Category
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if dateIdx < 0 && strings.EqualFold(name, opts.dateColumn()) {
			dateIdx = i
			continue
		}
		if name == "" {
			continue
		}
		c := model.Category(name)
		if _, dup := colIdx[c]; !dup {
			colIdx[c] = i
			inferred = append(inferred, c)
		}
	}
	if dateIdx < 0 {
		return model.Dataset{}, fmt.Errorf("%w %q in header %v", ErrNoDateColumn, opts.dateColumn(), header)
	}
	if categories == nil {
		categories = inferred
	}

	p := opts.parser()
	records := make([]model.Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		date, ok := p.ParseTimestamp(cell(row, dateIdx))
		if !ok {
			skipped++
			continue
		}
		values := make(map[model.Category]float64, len(categories))
		for _, c := range categories {
			if i, ok := colIdx[c]; ok {
				values[c] = Number(cell(row, i))
			}
		}
		records = append(records, model.NewRecord(date, categories, values))
	}
	if skipped > 0 {
		log.Printf("loader: skipped %d rows with unparseable %s", skipped, opts.dateColumn())
	}

	return model.Dataset{Categories: categories, Records: records}, nil
}

// Number coerces a cell or JSON value to float64. Anything that is not a
// finite number reads as zero.
func Number(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
