package model

import (
	"sort"
	"time"
)

// Category identifies one series of the streamgraph (for example "GPT-4").
type Category string

// Record is one observation row: a timestamp plus one value per category.
// It is the canonical type for loading, storage and layout.
type Record struct {
	Date   time.Time
	Values map[Category]float64
}

// Value returns the value for c, or 0 when the record has none.
func (r Record) Value(c Category) float64 {
	if r.Values == nil {
		return 0
	}
	return r.Values[c]
}

// NewRecord builds a record with a zero-defaulted value for every category.
func NewRecord(date time.Time, categories []Category, values map[Category]float64) Record {
	rec := Record{Date: date, Values: make(map[Category]float64, len(categories))}
	for _, c := range categories {
		rec.Values[c] = values[c]
	}
	return rec
}

// SortedByDate returns a copy of records ordered by timestamp ascending.
// The sort is stable so equal timestamps keep their input order.
func SortedByDate(records []Record) []Record {
	sorted := append([]Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// Dataset is a record set together with its ordered category keys.
type Dataset struct {
	Categories []Category
	Records    []Record
}

// Empty reports whether the dataset has no records.
func (d Dataset) Empty() bool {
	return len(d.Records) == 0
}

// Point is one (timestamp, value) pair of a single category.
type Point struct {
	Date  time.Time
	Value float64
}
