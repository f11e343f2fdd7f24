package timestamp

import (
	"testing"
	"time"
)

func TestParseTimestamp_Strings(t *testing.T) {
	p := NewParser()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"date only", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"RFC3339", "2024-01-15T10:30:45Z", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)},
		{"space separated", "2024-01-15 10:30:45", time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC)},
		{"slashes", "2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"US", "01/15/2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"US short", "1/5/2024", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"month name", "Jan 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"year month", "2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"padded", "  2024-01-15  ", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.ParseTimestamp(tt.input)
			if !ok {
				t.Fatalf("ParseTimestamp(%q) failed", tt.input)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	p := NewParser()

	for _, input := range []any{"", "   ", "not a date", nil, struct{}{}, float64(-5)} {
		if ts, ok := p.ParseTimestamp(input); ok {
			t.Errorf("ParseTimestamp(%v) = %v, want failure", input, ts)
		}
	}
}

func TestParseTimestamp_UnixSeconds(t *testing.T) {
	p := NewParser()

	// 946684800 = 2000-01-01T00:00:00Z
	ts, ok := p.ParseTimestamp(float64(946684800))
	if !ok {
		t.Fatal("ParseTimestamp unix seconds failed")
	}
	if ts.Year() != 2000 {
		t.Errorf("unix seconds year = %d, want 2000", ts.Year())
	}
}

func TestParseTimestamp_UnixMillis(t *testing.T) {
	p := NewParser()

	ts, ok := p.ParseTimestamp(int64(1600000000000))
	if !ok {
		t.Fatal("ParseTimestamp unix millis failed")
	}
	if ts.Year() != 2020 {
		t.Errorf("unix millis year = %d, want 2020", ts.Year())
	}
}

func TestParseTimestamp_UnixNanos(t *testing.T) {
	p := NewParser()

	ts, ok := p.ParseTimestamp(float64(1600000000000000000))
	if !ok {
		t.Fatal("ParseTimestamp unix nanos failed")
	}
	if ts.Year() != 2020 {
		t.Errorf("unix nanos year = %d, want 2020", ts.Year())
	}
}

func TestParseTimestamp_NumericString(t *testing.T) {
	p := NewParser()

	ts, ok := p.ParseTimestamp("946684800")
	if !ok {
		t.Fatal("ParseTimestamp numeric string failed")
	}
	if ts.Year() != 2000 {
		t.Errorf("numeric string year = %d, want 2000", ts.Year())
	}
}

func TestParseTimestamp_Time(t *testing.T) {
	p := NewParser()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ts, ok := p.ParseTimestamp(now)
	if !ok || !ts.Equal(now) {
		t.Errorf("ParseTimestamp(time) = %v, %v", ts, ok)
	}
	if _, ok := p.ParseTimestamp(time.Time{}); ok {
		t.Error("zero time should not parse")
	}
}

func TestWithLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	p := NewParser().WithLocation(loc)

	ts, ok := p.ParseTimestamp("2024-01-15 00:00:00")
	if !ok {
		t.Fatal("parse failed")
	}
	if want := time.Date(2024, 1, 14, 22, 0, 0, 0, time.UTC); !ts.Equal(want) {
		t.Errorf("ts = %v, want %v", ts.UTC(), want)
	}
}
