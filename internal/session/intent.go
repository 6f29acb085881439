package session

import (
	"time"

	"github.com/sadopc/reviewdash/internal/filter"
	"github.com/sadopc/reviewdash/internal/review"
)

// Intent is a discrete user action. Each UI control produces exactly one
// kind of intent.
type Intent interface {
	intent()
}

// SetDateRange replaces both date bounds; nil is unbounded.
type SetDateRange struct {
	Start, End *time.Time
}

// SetActiveCategories replaces the multi-select category set.
type SetActiveCategories struct {
	Categories []review.Category
}

// ApplyFilters sets the date range and categories as one transition.
type ApplyFilters struct {
	Start, End *time.Time
	Categories []review.Category
}

// Drill restricts to one category without touching other criteria.
type Drill struct {
	Category review.Category
}

// ClearDrill removes the drill-down and the brush.
type ClearDrill struct{}

// BrushScreen is a finished drag over the scatter plot, in plot cells.
type BrushScreen struct {
	X0, Y0, X1, Y1 int
}

// SetBrush installs a brush already expressed in domain units.
type SetBrush struct {
	Rect filter.Rect
}

// Reset restores the initial filter state from the full record set.
type Reset struct{}

// SetBins changes the histogram bin count.
type SetBins struct {
	N int
}

func (SetDateRange) intent()        {}
func (SetActiveCategories) intent() {}
func (ApplyFilters) intent()        {}
func (Drill) intent()               {}
func (ClearDrill) intent()          {}
func (BrushScreen) intent()         {}
func (SetBrush) intent()            {}
func (Reset) intent()               {}
func (SetBins) intent()             {}
