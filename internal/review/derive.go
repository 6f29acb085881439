package review

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateKeyLayout is the canonical day key format.
const DateKeyLayout = "2006-01-02"

var dateLayouts = []string{
	DateKeyLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// DeriveCategory buckets a rating: >= 4 positive, exactly 3 neutral,
// anything else negative.
func DeriveCategory(rating float64) Category {
	switch {
	case rating >= 4:
		return Positive
	case rating == 3:
		return Neutral
	default:
		return Negative
	}
}

// ToDateKey formats t as YYYY-MM-DD.
func ToDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDate parses s in any of the accepted layouts and returns the calendar
// day as written, at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return Day(t), true
	}
	return time.Time{}, false
}

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseRating parses a numeric rating. Empty and non-finite values fail.
func ParseRating(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// NewRecord builds a record from already-parsed values.
func NewRecord(date time.Time, rating float64, text string) Record {
	date = Day(date)
	return Record{
		Date:       date,
		DateKey:    ToDateKey(date),
		Rating:     rating,
		Text:       text,
		TextLength: utf8.RuneCountInString(text),
		Category:   DeriveCategory(rating),
	}
}

// DeriveRecords converts raw rows into records, keeping input order. Rows
// whose date or rating does not parse are skipped; the second return value
// counts them.
func DeriveRecords(rows []RawRow) ([]Record, int) {
	records := make([]Record, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		date, ok := ParseDate(row[FieldDate])
		if !ok {
			dropped++
			continue
		}
		rating, ok := ParseRating(row[FieldRating])
		if !ok {
			dropped++
			continue
		}
		records = append(records, NewRecord(date, rating, row[FieldText]))
	}
	return records, dropped
}

// DistinctCategories returns the categories present in records in order of
// first appearance.
func DistinctCategories(records []Record) []Category {
	seen := make(map[Category]bool, len(Categories))
	var out []Category
	for _, r := range records {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// DateExtent returns the earliest and latest dates in records.
func DateExtent(records []Record) (min, max time.Time, ok bool) {
	for i, r := range records {
		if i == 0 {
			min, max = r.Date, r.Date
			continue
		}
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, len(records) > 0
}
