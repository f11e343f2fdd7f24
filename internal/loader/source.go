package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/tinytelemetry/streamgraph/internal/model"
)

// FileSource loads records from a .csv, .xlsx or .json file on disk.
type FileSource struct {
	Path    string
	Sheet   string
	Options Options
}

var _ model.RecordSource = (*FileSource)(nil)

// Name returns the file path.
func (s *FileSource) Name() string { return s.Path }

// Load reads the whole file. The format follows the file extension.
func (s *FileSource) Load(ctx context.Context, categories []model.Category) ([]model.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		ds  model.Dataset
		err error
	)
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv", ".txt":
		var f *os.File
		if f, err = os.Open(s.Path); err != nil {
			return nil, err
		}
		defer f.Close()
		ds, err = ReadCSV(f, categories, s.Options)
	case ".xlsx", ".xlsm":
		ds, err = ReadXLSXFile(s.Path, s.Sheet, categories, s.Options)
	case ".json":
		var data []byte
		if data, err = os.ReadFile(s.Path); err != nil {
			return nil, err
		}
		ds, err = DecodeJSON(data, categories, s.Options)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.Path, err)
	}
	return ds.Records, nil
}

// DecodeJSON reads a JSON array of objects.
func DecodeJSON(data []byte, categories []model.Category, opts Options) (model.Dataset, error) {
	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		return model.Dataset{}, fmt.Errorf("decode json records: %w", err)
	}
	return FromObjects(objects, categories, opts)
}

// URLSource fetches a CSV table over HTTP(S).
type URLSource struct {
	URL     string
	Options Options
	client  *resty.Client
}

var _ model.RecordSource = (*URLSource)(nil)

// NewURLSource creates a source with a retrying resty client.
func NewURLSource(url string, opts Options) *URLSource {
	client := resty.New()
	client.SetTimeout(model.DefaultLoadTimeout)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)
	client.SetHeader("Accept", "text/csv, application/json;q=0.9, */*;q=0.5")
	return &URLSource{URL: url, Options: opts, client: client}
}

// Name returns the URL.
func (s *URLSource) Name() string { return s.URL }

// Load fetches the table. A JSON response body is read as an object array,
// anything else as CSV.
func (s *URLSource) Load(ctx context.Context, categories []model.Category) ([]model.Record, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", s.URL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", s.URL, resp.StatusCode())
	}

	var ds model.Dataset
	if strings.Contains(resp.Header().Get("Content-Type"), "json") {
		ds, err = DecodeJSON(resp.Body(), categories, s.Options)
	} else {
		ds, err = ReadCSV(strings.NewReader(string(resp.Body())), categories, s.Options)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.URL, err)
	}
	return ds.Records, nil
}

// Open returns a URL source for http(s) locations and a file source otherwise.
func Open(location string, opts Options) model.RecordSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewURLSource(location, opts)
	}
	return &FileSource{Path: location, Options: opts}
}

func sortCategories(cs []model.Category) {
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
}
