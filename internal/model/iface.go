package model

import "context"

// RecordSource supplies a full record set for a fixed category order.
// Implementations are the loader collaborators: files, HTTP, the store.
type RecordSource interface {
	Name() string
	Load(ctx context.Context, categories []Category) ([]Record, error)
}

// RecordWriter replaces the persisted record set.
type RecordWriter interface {
	ReplaceRecords(ctx context.Context, categories []Category, records []Record) error
}

// RecordStore is the combined read/write store contract.
type RecordStore interface {
	RecordSource
	RecordWriter
	RecordCount(ctx context.Context) (int64, error)
}
