package review

import "time"

// Category is the sentiment bucket derived from a rating.
type Category string

const (
	Positive Category = "Positive"
	Neutral  Category = "Neutral"
	Negative Category = "Negative"
)

// Categories lists every category in display order.
var Categories = []Category{Negative, Neutral, Positive}

// Input field names expected in a raw row.
const (
	FieldDate   = "review_date"
	FieldRating = "rating"
	FieldText   = "review_description"
)

// RawRow is one loosely typed input row keyed by header name.
type RawRow map[string]string

// Record is a parsed review. Records are never mutated after derivation.
type Record struct {
	Date       time.Time // UTC midnight
	DateKey    string    // YYYY-MM-DD
	Rating     float64
	Text       string
	TextLength int
	Category   Category
}

// Dataset is the full record set for a session.
type Dataset struct {
	Records   []Record
	Synthetic bool   // true when the fallback generator produced Records
	Source    string // where the rows came from, for display only
	Dropped   int    // rows rejected during derivation
}
