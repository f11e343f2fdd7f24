// Package timestamp parses the date-like values found in record tables.
package timestamp

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Parser converts strings, numbers and times into instants. Strings
// without a zone are read in the parser's location (UTC by default).
type Parser struct {
	layouts  []string
	location *time.Location
}

// NewParser creates a parser for the common ISO, US and month-name layouts.
func NewParser() *Parser {
	return &Parser{
		layouts: []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05.999999999",
			"2006-01-02 15:04:05",
			"2006-01-02 15:04",
			"2006-01-02",
			"2006/01/02",
			"2006-01",
			"01/02/2006",
			"1/2/2006",
			"1/2/06",
			"01-02-06",
			"Jan 2, 2006",
			"Jan 2 2006",
			"2 Jan 2006",
			"January 2, 2006",
			"Jan 2006",
			time.RFC1123Z,
			time.RFC1123,
		},
		location: time.UTC,
	}
}

// WithLocation returns a copy of p that reads zone-less strings in loc.
func (p *Parser) WithLocation(loc *time.Location) *Parser {
	cp := *p
	cp.location = loc
	return &cp
}

// ParseTimestamp converts v into a time. Supported inputs are strings in
// any known layout (or numeric strings), time.Time, and unix timestamps as
// float64/int/int64 in seconds, milliseconds, microseconds or nanoseconds
// chosen by magnitude.
func (p *Parser) ParseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		return p.parseString(t)
	case float64:
		return parseUnixTimestamp(t)
	case float32:
		return parseUnixTimestamp(float64(t))
	case int:
		return parseUnixTimestamp(float64(t))
	case int64:
		return parseUnixTimestamp(float64(t))
	case nil:
		return time.Time{}, false
	}
	return time.Time{}, false
}

func (p *Parser) parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range p.layouts {
		if ts, err := time.ParseInLocation(layout, s, p.location); err == nil {
			return ts, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return parseUnixTimestamp(f)
	}
	return time.Time{}, false
}

// parseUnixTimestamp picks the unit from the magnitude: up to 1e10 is
// seconds, up to 1e13 milliseconds, up to 1e16 microseconds, else nanoseconds.
func parseUnixTimestamp(v float64) (time.Time, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return time.Time{}, false
	}
	switch {
	case v <= 1e10:
		sec, frac := math.Modf(v)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
	case v <= 1e13:
		return time.UnixMilli(int64(v)).UTC(), true
	case v <= 1e16:
		return time.UnixMicro(int64(v)).UTC(), true
	default:
		return time.Unix(0, int64(v)).UTC(), true
	}
}
