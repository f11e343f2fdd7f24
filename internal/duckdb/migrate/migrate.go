// Package migrate applies the embedded, versioned schema to a DuckDB database.
//
// Each migration is a file named NNN_name.sql. The runner records both the
// version and the name, and refuses to touch a database whose recorded
// history no longer matches the embedded files.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Runner applies schema migrations and tracks them in schema_migrations.
type Runner struct{ db *sql.DB }

// NewRunner creates a migration runner for the given database connection.
func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// Migration is one embedded schema step.
type Migration struct {
	Version int
	Name    string // file name without the version prefix and extension
	sql     string
}

func (m Migration) String() string {
	return fmt.Sprintf("%03d_%s", m.Version, m.Name)
}

// Applied is one row of schema_migrations.
type Applied struct {
	Version   int
	Name      string
	AppliedAt time.Time
}

func (a Applied) String() string {
	return fmt.Sprintf("%03d_%s", a.Version, a.Name)
}

// Available lists the embedded migrations in version order.
func Available() ([]Migration, error) {
	return load(migrations)
}

func load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, "migrations")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	var migs []Migration
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		prefix, rest, ok := strings.Cut(strings.TrimSuffix(e.Name(), ".sql"), "_")
		if !ok || rest == "" {
			return nil, fmt.Errorf("migration %s: want NNN_name.sql", e.Name())
		}
		ver, err := strconv.Atoi(prefix)
		if err != nil || ver <= 0 {
			return nil, fmt.Errorf("migration %s: bad version %q", e.Name(), prefix)
		}
		if other, dup := seen[ver]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", other, e.Name(), ver)
		}
		seen[ver] = e.Name()

		data, err := fs.ReadFile(fsys, path.Join("migrations", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		migs = append(migs, Migration{Version: ver, Name: rest, sql: string(data)})
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs, nil
}

func (r *Runner) bootstrap(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       VARCHAR NOT NULL,
		applied_at TIMESTAMP DEFAULT current_timestamp
	)`)
	if err != nil {
		return fmt.Errorf("bootstrap schema_migrations: %w", err)
	}
	return nil
}

// Applied lists the recorded migrations in version order.
func (r *Runner) Applied(ctx context.Context) ([]Applied, error) {
	if err := r.bootstrap(ctx); err != nil {
		return nil, err
	}
	return r.history(ctx)
}

func (r *Runner) history(ctx context.Context) ([]Applied, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version, name, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	var out []Applied
	for rows.Next() {
		var a Applied
		var at sql.NullTime
		if err := rows.Scan(&a.Version, &a.Name, &at); err != nil {
			return nil, fmt.Errorf("scanning schema_migrations: %w", err)
		}
		a.AppliedAt = at.Time
		out = append(out, a)
	}
	return out, rows.Err()
}

// verify checks the recorded history against the embedded migrations and
// returns the highest applied version.
func verify(applied []Applied, migs []Migration) (int, error) {
	byVersion := make(map[int]Migration, len(migs))
	for _, m := range migs {
		byVersion[m.Version] = m
	}

	current := 0
	for _, a := range applied {
		m, ok := byVersion[a.Version]
		if !ok {
			return 0, fmt.Errorf("schema version %d (%s) is newer than this build", a.Version, a.Name)
		}
		if m.Name != a.Name {
			return 0, fmt.Errorf("schema version %d recorded as %q, embedded as %q", a.Version, a.Name, m.Name)
		}
		current = max(current, a.Version)
	}
	return current, nil
}

// Run applies all pending migrations in order, each in its own transaction.
// It fails without changes when the recorded history diverges from the
// embedded migrations.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.bootstrap(ctx); err != nil {
		return err
	}

	migs, err := Available()
	if err != nil {
		return err
	}
	applied, err := r.history(ctx)
	if err != nil {
		return err
	}
	current, err := verify(applied, migs)
	if err != nil {
		return err
	}

	for _, m := range migs {
		if m.Version <= current {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for %s: %w", m, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("executing %s: %w", m, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
		return fmt.Errorf("recording %s: %w", m, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", m, err)
	}
	return nil
}

// Status returns the applied version and the number of pending migrations.
func (r *Runner) Status(ctx context.Context) (current int, pending int, err error) {
	if err = r.bootstrap(ctx); err != nil {
		return 0, 0, err
	}
	migs, err := Available()
	if err != nil {
		return 0, 0, err
	}
	applied, err := r.history(ctx)
	if err != nil {
		return 0, 0, err
	}
	if current, err = verify(applied, migs); err != nil {
		return 0, 0, err
	}
	for _, m := range migs {
		if m.Version > current {
			pending++
		}
	}
	return current, pending, nil
}
