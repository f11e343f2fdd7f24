package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

// LoadInfo describes one persisted replacement of the record set.
type LoadInfo struct {
	ID       int64     `json:"id"`
	Source   string    `json:"source"`
	Records  int       `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}

// ReplaceRecords swaps the stored record set for records in a single
// transaction. Every category gets a row per record so missing values are
// persisted as zero.
func (s *Store) ReplaceRecords(ctx context.Context, categories []model.Category, records []model.Record) error {
	return s.ReplaceRecordsFrom(ctx, "api", categories, records)
}

// ReplaceRecordsFrom is ReplaceRecords with the load source recorded in
// record_loads.
func (s *Store) ReplaceRecordsFrom(ctx context.Context, source string, categories []model.Category, records []model.Record) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (ts, category, value) VALUES (?, ?, ?)
		ON CONFLICT (ts, category) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		ts := r.Date.UTC()
		for _, c := range categories {
			if _, err := stmt.ExecContext(ctx, ts, string(c), r.Value(c)); err != nil {
				return fmt.Errorf("insert %s@%s: %w", c, ts.Format(time.RFC3339), err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO record_loads (source, records) VALUES (?, ?)`, source, len(records)); err != nil {
		return fmt.Errorf("record load: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	committed = true
	log.Printf("duckdb: stored %d records x %d categories from %s", len(records), len(categories), source)
	return nil
}

// Load reads the stored record set ordered by timestamp. Values for
// categories outside the requested set are ignored; requested categories
// without a row read as zero.
func (s *Store) Load(ctx context.Context, categories []model.Category) ([]model.Record, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT ts, category, value FROM records ORDER BY ts, category`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	wanted := make(map[model.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	var records []model.Record
	for rows.Next() {
		var (
			ts       time.Time
			category string
			value    sql.NullFloat64
		)
		if err := rows.Scan(&ts, &category, &value); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		ts = ts.UTC()
		if n := len(records); n == 0 || !records[n-1].Date.Equal(ts) {
			records = append(records, model.NewRecord(ts, categories, nil))
		}
		c := model.Category(category)
		if wanted[c] && value.Valid {
			records[len(records)-1].Values[c] = value.Float64
		}
	}
	return records, rows.Err()
}

// RecordCount returns the number of distinct timestamps stored.
func (s *Store) RecordCount(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT ts) FROM records`).Scan(&count)
	return count, err
}

// StoredCategories lists the categories present in the record table.
func (s *Store) StoredCategories(ctx context.Context) ([]model.Category, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM records ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, model.Category(c))
	}
	return out, rows.Err()
}

// LastLoad returns the most recent replacement, or nil when none happened.
func (s *Store) LastLoad(ctx context.Context) (*LoadInfo, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var info LoadInfo
	err := s.db.QueryRowContext(ctx,
		`SELECT id, source, records, loaded_at FROM record_loads ORDER BY id DESC LIMIT 1`,
	).Scan(&info.ID, &info.Source, &info.Records, &info.LoadedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last load: %w", err)
	}
	info.LoadedAt = info.LoadedAt.UTC()
	return &info, nil
}
