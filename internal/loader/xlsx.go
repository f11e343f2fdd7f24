package loader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

// ReadXLSXFile reads the first sheet (or sheet, when non-empty) of a workbook.
func ReadXLSXFile(path, sheet string, categories []model.Category, opts Options) (model.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet, categories, opts)
}

// ReadXLSX reads a workbook from r, for uploads.
func ReadXLSX(r io.Reader, sheet string, categories []model.Category, opts Options) (model.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet, categories, opts)
}

func readWorkbook(f *excelize.File, sheet string, categories []model.Category, opts Options) (model.Dataset, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return model.Dataset{}, ErrEmptyTable
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return model.Dataset{}, ErrEmptyTable
	}
	return FromRows(rows[0], rows[1:], categories, opts)
}
