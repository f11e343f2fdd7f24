package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

// ReadCSV reads a comma-separated table with a header row.
func ReadCSV(r io.Reader, categories []model.Category, opts Options) (model.Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return model.Dataset{}, ErrEmptyTable
	}
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read csv header: %w", err)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return model.Dataset{}, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return FromRows(header, rows, categories, opts)
}
