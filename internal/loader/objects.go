package loader

import (
	"strings"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

// FromObjects converts decoded JSON objects into a dataset. Keys are
// matched to categories exactly and to the date column case-insensitively.
// With nil categories the non-date keys of the first object are used in
// sorted order. Objects without a parseable date are skipped.
func FromObjects(objects []map[string]any, categories []model.Category, opts Options) (model.Dataset, error) {
	if categories == nil && len(objects) > 0 {
		categories = objectCategories(objects[0], opts.dateColumn())
	}

	p := opts.parser()
	records := make([]model.Record, 0, len(objects))
	for _, obj := range objects {
		raw, ok := lookupFold(obj, opts.dateColumn())
		if !ok {
			return model.Dataset{}, ErrNoDateColumn
		}
		date, ok := p.ParseTimestamp(raw)
		if !ok {
			continue
		}
		values := make(map[model.Category]float64, len(categories))
		for _, c := range categories {
			values[c] = Number(obj[string(c)])
		}
		records = append(records, model.NewRecord(date, categories, values))
	}
	return model.Dataset{Categories: categories, Records: records}, nil
}

func lookupFold(obj map[string]any, key string) (any, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	for k, v := range obj {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func objectCategories(obj map[string]any, dateColumn string) []model.Category {
	var out []model.Category
	for k := range obj {
		if !strings.EqualFold(k, dateColumn) {
			out = append(out, model.Category(k))
		}
	}
	sortCategories(out)
	return out
}
