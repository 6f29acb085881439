package filter

import "github.com/sadopc/reviewdash/internal/review"

// WorkingSet returns the records that pass s, in their original order. The
// result is never nil.
func WorkingSet(records []review.Record, s *State) []review.Record {
	out := make([]review.Record, 0, len(records))
	for _, r := range records {
		if s.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// CountByCategory tallies records per category.
func CountByCategory(records []review.Record) map[review.Category]int {
	counts := make(map[review.Category]int, len(review.Categories))
	for _, r := range records {
		counts[r.Category]++
	}
	return counts
}
