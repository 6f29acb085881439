package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/reviewdash/internal/review"
)

// Rect is an axis-aligned selection in scatter domain units: X is the
// record date in unix seconds, Y is the text length.
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// Normalize orders the corners so that X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	if r.X0 > r.X1 {
		r.X0, r.X1 = r.X1, r.X0
	}
	if r.Y0 > r.Y1 {
		r.Y0, r.Y1 = r.Y1, r.Y0
	}
	return r
}

// Degenerate reports whether the rectangle has zero width or height.
func (r Rect) Degenerate() bool {
	return r.X0 == r.X1 || r.Y0 == r.Y1
}

// Contains reports whether (x, y) lies inside r, bounds inclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// State holds the five cross-filter criteria. The zero value matches
// everything.
type State struct {
	dateStart *time.Time
	dateEnd   *time.Time
	active    map[review.Category]struct{}
	drill     *review.Category
	spatial   *Rect
}

// NewState returns a state initialised from records as Reset would.
func NewState(records []review.Record) *State {
	s := &State{}
	s.Reset(records)
	return s
}

// Reset restores the initial criteria computed from records: date bounds at
// the data extent, every present category active, no drill, no brush.
func (s *State) Reset(records []review.Record) {
	s.dateStart, s.dateEnd = nil, nil
	if min, max, ok := review.DateExtent(records); ok {
		s.dateStart, s.dateEnd = &min, &max
	}
	s.active = make(map[review.Category]struct{})
	for _, c := range review.DistinctCategories(records) {
		s.active[c] = struct{}{}
	}
	s.drill = nil
	s.spatial = nil
}

// DateRange returns the inclusive bounds; nil means unbounded.
func (s *State) DateRange() (start, end *time.Time) {
	return copyTime(s.dateStart), copyTime(s.dateEnd)
}

// SetDateRange replaces both bounds. Either may be nil.
func (s *State) SetDateRange(start, end *time.Time) {
	s.dateStart, s.dateEnd = copyTime(start), copyTime(end)
}

// ActiveCategories returns the selected categories in display order.
func (s *State) ActiveCategories() []review.Category {
	var out []review.Category
	for _, c := range review.Categories {
		if _, ok := s.active[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// SetActiveCategories replaces the selection. An empty selection means no
// restriction.
func (s *State) SetActiveCategories(cats []review.Category) {
	s.active = make(map[review.Category]struct{}, len(cats))
	for _, c := range cats {
		s.active[c] = struct{}{}
	}
}

// DrillCategory returns the drill-down category, if any.
func (s *State) DrillCategory() (review.Category, bool) {
	if s.drill == nil {
		return "", false
	}
	return *s.drill, true
}

// SetDrillCategory restricts matches to exactly cat.
func (s *State) SetDrillCategory(cat review.Category) {
	s.drill = &cat
}

// SpatialSelection returns the installed brush rectangle, if any.
func (s *State) SpatialSelection() (Rect, bool) {
	if s.spatial == nil {
		return Rect{}, false
	}
	return *s.spatial, true
}

// SetSpatialSelection installs r after normalising it. A degenerate
// rectangle is refused and leaves the state untouched.
func (s *State) SetSpatialSelection(r Rect) bool {
	r = r.Normalize()
	if r.Degenerate() {
		return false
	}
	s.spatial = &r
	return true
}

// ClearDrillAndSpatial removes the drill-down and the brush together.
func (s *State) ClearDrillAndSpatial() {
	s.drill = nil
	s.spatial = nil
}

// Matches reports whether r passes every active criterion.
func (s *State) Matches(r review.Record) bool {
	return s.InDrill(r) &&
		s.InActiveCategories(r) &&
		s.InDateRange(r) &&
		s.InSpatialSelection(r)
}

// InDateRange reports whether r falls within the inclusive date bounds.
func (s *State) InDateRange(r review.Record) bool {
	if s.dateStart != nil && r.Date.Before(*s.dateStart) {
		return false
	}
	if s.dateEnd != nil && r.Date.After(*s.dateEnd) {
		return false
	}
	return true
}

// InActiveCategories reports whether r's category is selected; an empty
// selection admits every category.
func (s *State) InActiveCategories(r review.Record) bool {
	if len(s.active) == 0 {
		return true
	}
	_, ok := s.active[r.Category]
	return ok
}

// InDrill reports whether r matches the drill-down category, if any.
func (s *State) InDrill(r review.Record) bool {
	return s.drill == nil || *s.drill == r.Category
}

// InSpatialSelection reports whether r lies inside the brushed rectangle,
// if any.
func (s *State) InSpatialSelection(r review.Record) bool {
	if s.spatial == nil {
		return true
	}
	return s.spatial.Contains(float64(r.Date.Unix()), float64(r.TextLength))
}

// Clone returns an independent copy of s.
func (s *State) Clone() *State {
	c := &State{
		dateStart: copyTime(s.dateStart),
		dateEnd:   copyTime(s.dateEnd),
	}
	if s.active != nil {
		c.active = make(map[review.Category]struct{}, len(s.active))
		for k := range s.active {
			c.active[k] = struct{}{}
		}
	}
	if s.drill != nil {
		d := *s.drill
		c.drill = &d
	}
	if s.spatial != nil {
		r := *s.spatial
		c.spatial = &r
	}
	return c
}

// Summary describes the active criteria on one line.
func (s *State) Summary() string {
	var parts []string

	start, end := "…", "…"
	if s.dateStart != nil {
		start = review.ToDateKey(*s.dateStart)
	}
	if s.dateEnd != nil {
		end = review.ToDateKey(*s.dateEnd)
	}
	parts = append(parts, fmt.Sprintf("dates %s → %s", start, end))

	cats := s.ActiveCategories()
	if len(cats) == 0 {
		parts = append(parts, "categories: any")
	} else {
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = string(c)
		}
		parts = append(parts, "categories: "+strings.Join(names, ","))
	}

	if s.drill != nil {
		parts = append(parts, "drill: "+string(*s.drill))
	}
	if s.spatial != nil {
		parts = append(parts, fmt.Sprintf("brush: %s..%s, len %.0f..%.0f",
			review.ToDateKey(time.Unix(int64(s.spatial.X0), 0).UTC()),
			review.ToDateKey(time.Unix(int64(s.spatial.X1), 0).UTC()),
			s.spatial.Y0, s.spatial.Y1,
		))
	}
	return strings.Join(parts, "  ")
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
