package migrate

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"testing/fstest"

	_ "github.com/duckdb/duckdb-go/v2"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("duckdb", "")
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func latestVersion(t *testing.T) int {
	t.Helper()
	migs, err := Available()
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if len(migs) == 0 {
		t.Fatal("no embedded migrations")
	}
	return migs[len(migs)-1].Version
}

func TestAvailableIsOrdered(t *testing.T) {
	migs, err := Available()
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	for i := 1; i < len(migs); i++ {
		if migs[i].Version <= migs[i-1].Version {
			t.Errorf("migration %s not after %s", migs[i].Name, migs[i-1].Name)
		}
	}
}

func TestRunAppliesAllMigrations(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := NewRunner(db).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, table := range []string{"records", "record_loads", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT table_name FROM information_schema.tables WHERE table_name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	r := NewRunner(db)

	if err := r.Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := r.Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	cur, pending, err := r.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if want := latestVersion(t); cur != want || pending != 0 {
		t.Errorf("expected version=%d pending=0, got version=%d pending=%d", want, cur, pending)
	}
}

func TestStatusReportsCorrectly(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	r := NewRunner(db)
	migs, _ := Available()

	cur, pending, err := r.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if cur != 0 || pending != len(migs) {
		t.Errorf("before run: expected version=0 pending=%d, got version=%d pending=%d", len(migs), cur, pending)
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	cur, pending, err = r.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if want := latestVersion(t); cur != want || pending != 0 {
		t.Errorf("after run: expected version=%d pending=0, got version=%d pending=%d", want, cur, pending)
	}
}

func TestAvailableNamesStripVersionAndExtension(t *testing.T) {
	migs, err := Available()
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if migs[0].Name != "records" || migs[0].String() != "001_records" {
		t.Errorf("first migration = %q (%s), want records (001_records)", migs[0].Name, migs[0])
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"migrations/001_a.sql": {Data: []byte("SELECT 1")},
				"migrations/001_b.sql": {Data: []byte("SELECT 1")},
			},
			want: "share version 1",
		},
		{
			name:  "missing name",
			files: fstest.MapFS{"migrations/001.sql": {Data: []byte("SELECT 1")}},
			want:  "want NNN_name.sql",
		},
		{
			name:  "non-numeric version",
			files: fstest.MapFS{"migrations/abc_x.sql": {Data: []byte("SELECT 1")}},
			want:  "bad version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.files)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("load error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestAppliedRecordsNames(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	r := NewRunner(db)

	applied, err := r.Applied(ctx)
	if err != nil {
		t.Fatalf("Applied before Run: %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("Applied before Run = %v, want none", applied)
	}

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	applied, err = r.Applied(ctx)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}
	migs, _ := Available()
	if len(applied) != len(migs) {
		t.Fatalf("Applied = %d rows, want %d", len(applied), len(migs))
	}
	for i, a := range applied {
		if a.Version != migs[i].Version || a.Name != migs[i].Name {
			t.Errorf("applied[%d] = %s, want %s", i, a, migs[i])
		}
		if a.AppliedAt.IsZero() {
			t.Errorf("applied[%d] has no applied_at", i)
		}
	}
}

func TestRunRejectsRenamedMigration(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	r := NewRunner(db)

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_migrations SET name = 'old_records' WHERE version = 1"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	err := r.Run(ctx)
	if err == nil || !strings.Contains(err.Error(), `recorded as "old_records"`) {
		t.Errorf("Run error = %v, want name mismatch", err)
	}
	if _, _, err := r.Status(ctx); err == nil {
		t.Error("Status should report the name mismatch")
	}
}

func TestRunRejectsUnknownVersion(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	r := NewRunner(db)

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_migrations (version, name) VALUES (999, 'future')"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err := r.Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "newer than this build") {
		t.Errorf("Run error = %v, want unknown version", err)
	}
}
