package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

const sampleCSV = `Date,GPT-4,Gemini,PaLM-2
2024-01-01,10,5,n/a
2024-02-01,12,,3
not-a-date,1,1,1
2024-03-01,14,7,4
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	ds, err := ReadCSV(strings.NewReader(sampleCSV), nil, Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	wantCats := []model.Category{"GPT-4", "Gemini", "PaLM-2"}
	if len(ds.Categories) != len(wantCats) {
		t.Fatalf("categories = %v, want %v", ds.Categories, wantCats)
	}
	for i, c := range wantCats {
		if ds.Categories[i] != c {
			t.Errorf("category[%d] = %q, want %q", i, ds.Categories[i], c)
		}
	}

	if len(ds.Records) != 3 {
		t.Fatalf("records = %d, want 3 (bad date row skipped)", len(ds.Records))
	}
	first := ds.Records[0]
	if !first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first date = %v", first.Date)
	}
	if first.Value("PaLM-2") != 0 {
		t.Errorf("non-numeric value = %v, want 0", first.Value("PaLM-2"))
	}
	if ds.Records[1].Value("Gemini") != 0 {
		t.Errorf("empty value = %v, want 0", ds.Records[1].Value("Gemini"))
	}
	if ds.Records[2].Value("GPT-4") != 14 {
		t.Errorf("GPT-4 = %v, want 14", ds.Records[2].Value("GPT-4"))
	}
}

func TestReadCSV_RequestedCategories(t *testing.T) {
	t.Parallel()

	cats := []model.Category{"Claude", "GPT-4"}
	ds, err := ReadCSV(strings.NewReader(sampleCSV), cats, Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	for _, r := range ds.Records {
		if _, ok := r.Values["Claude"]; !ok {
			t.Error("missing column should still yield a zero value")
		}
		if _, ok := r.Values["Gemini"]; ok {
			t.Error("unrequested column should be dropped")
		}
	}
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		opts  Options
		want  error
	}{
		{"empty", "", Options{}, ErrEmptyTable},
		{"no date column", "Day,A\n2024-01-01,1\n", Options{}, ErrNoDateColumn},
		{"custom date column missing", "Date,A\n2024-01-01,1\n", Options{DateColumn: "when"}, ErrNoDateColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), nil, tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadCSV_CaseInsensitiveDateColumn(t *testing.T) {
	t.Parallel()

	ds, err := ReadCSV(strings.NewReader("\ufeffdate,A\n2024-01-01,2\n"), nil, Options{})
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(ds.Records) != 1 || ds.Records[0].Value("A") != 2 {
		t.Errorf("records = %+v", ds.Records)
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want float64
	}{
		{"3.5", 3.5},
		{" 7 ", 7},
		{"", 0},
		{"abc", 0},
		{"NaN", 0},
		{float64(2), 2},
		{int64(4), 4},
		{nil, 0},
		{[]int{1}, 0},
	}
	for _, tt := range tests {
		if got := Number(tt.in); got != tt.want {
			t.Errorf("Number(%#v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromObjects(t *testing.T) {
	t.Parallel()

	objects := []map[string]any{
		{"date": "2024-01-02", "A": 1.0, "B": "2"},
		{"date": float64(946684800), "A": "bad"},
		{"date": "nope", "A": 1.0},
	}
	ds, err := FromObjects(objects, nil, Options{})
	if err != nil {
		t.Fatalf("FromObjects: %v", err)
	}
	if len(ds.Categories) != 2 || ds.Categories[0] != "A" || ds.Categories[1] != "B" {
		t.Errorf("categories = %v, want [A B]", ds.Categories)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(ds.Records))
	}
	if ds.Records[0].Value("B") != 2 {
		t.Errorf("B = %v, want 2", ds.Records[0].Value("B"))
	}
	if ds.Records[1].Value("A") != 0 || ds.Records[1].Date.Year() != 2000 {
		t.Errorf("second record = %+v", ds.Records[1])
	}

	if _, err := FromObjects([]map[string]any{{"A": 1.0}}, nil, Options{}); !errors.Is(err, ErrNoDateColumn) {
		t.Errorf("missing date err = %v, want ErrNoDateColumn", err)
	}
}

func TestFileSource(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()
	cats := []model.Category{"GPT-4", "Gemini"}

	csvPath := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(csvPath, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "data.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"Date":"2024-01-01","GPT-4":3}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	xlsxPath := filepath.Join(dir, "data.xlsx")
	writeWorkbook(t, xlsxPath)

	tests := []struct {
		path string
		want int
	}{
		{csvPath, 3},
		{jsonPath, 1},
		{xlsxPath, 2},
	}
	for _, tt := range tests {
		src := Open(tt.path, Options{})
		if src.Name() != tt.path {
			t.Errorf("Name = %q, want %q", src.Name(), tt.path)
		}
		records, err := src.Load(ctx, cats)
		if err != nil {
			t.Errorf("Load(%s): %v", tt.path, err)
			continue
		}
		if len(records) != tt.want {
			t.Errorf("Load(%s) = %d records, want %d", tt.path, len(records), tt.want)
		}
	}

	_, err := (&FileSource{Path: filepath.Join(dir, "data.parquet")}).Load(ctx, cats)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unsupported err = %v", err)
	}
}

func writeWorkbook(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Date", "GPT-4", "Gemini"},
		{"2024-01-01", 4, 2},
		{"2024-02-01", 5, "x"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeWorkbook(t, path)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	ds, err := ReadXLSX(f, "", nil, Options{})
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(ds.Records))
	}
	if ds.Records[0].Value("GPT-4") != 4 || ds.Records[1].Value("Gemini") != 0 {
		t.Errorf("records = %+v", ds.Records)
	}
}

func TestURLSource(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data.csv":
			w.Header().Set("Content-Type", "text/csv")
			w.Write([]byte(sampleCSV))
		case "/data.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"Date":"2024-01-01","A":1},{"Date":"2024-01-02","A":2}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	records, err := Open(srv.URL+"/data.csv", Options{}).Load(ctx, nil)
	if err != nil {
		t.Fatalf("csv Load: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("csv records = %d, want 3", len(records))
	}

	records, err = Open(srv.URL+"/data.json", Options{}).Load(ctx, []model.Category{"A"})
	if err != nil {
		t.Fatalf("json Load: %v", err)
	}
	if len(records) != 2 || records[1].Value("A") != 2 {
		t.Errorf("json records = %+v", records)
	}

	src := NewURLSource(srv.URL+"/missing", Options{})
	src.client.SetRetryCount(0)
	if _, err := src.Load(ctx, nil); err == nil {
		t.Error("expected error for 404")
	}
}
