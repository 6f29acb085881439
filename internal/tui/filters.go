package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/reviewdash/internal/filter"
	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/session"
)

// filterFormModel edits the date range and category set and applies both
// as one transition.
type filterFormModel struct {
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	start      *string
	end        *string
	categories *[]string
}

func newFilterFormModel() filterFormModel {
	start, end := "", ""
	cats := []string{}
	return filterFormModel{
		start:      &start,
		end:        &end,
		categories: &cats,
	}
}

func (f filterFormModel) show(state *filter.State, available []review.Category) (filterFormModel, tea.Cmd) {
	start, end := state.DateRange()
	*f.start = dateKeyOrEmpty(start)
	*f.end = dateKeyOrEmpty(end)

	active := state.ActiveCategories()
	selected := make([]string, 0, len(active))
	for _, c := range active {
		selected = append(selected, string(c))
	}
	*f.categories = selected

	options := make([]huh.Option[string], 0, len(available))
	for _, c := range available {
		options = append(options,
			huh.NewOption(string(c), string(c)).Selected(slices.Contains(active, c)))
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("From").Placeholder("YYYY-MM-DD").
				Validate(validateDateKey).Value(f.start),
			huh.NewInput().Title("To").Placeholder("YYYY-MM-DD").
				Validate(validateDateKey).Value(f.end),
			huh.NewMultiSelect[string]().Title("Categories").
				Description("none selected means any").
				Options(options...).Value(f.categories),
		).Title("Filters"),
	).WithShowHelp(true).WithShowErrors(true)

	f.formActive = true
	return f, f.form.Init()
}

func (f filterFormModel) update(msg tea.Msg) (filterFormModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			f.formActive = false
			f.form = nil
			return f, nil
		}
	}

	form, cmd := f.form.Update(msg)
	if ff, ok := form.(*huh.Form); ok {
		f.form = ff
	}

	switch f.form.State {
	case huh.StateCompleted:
		f.formActive = false
		in, err := f.intent()
		if err != nil {
			return f, statusCmd(err.Error(), true)
		}
		return f, dispatch(in)
	case huh.StateAborted:
		f.formActive = false
		f.form = nil
		return f, nil
	}

	return f, cmd
}

func (f filterFormModel) intent() (session.ApplyFilters, error) {
	start, err := parseDateKey(*f.start)
	if err != nil {
		return session.ApplyFilters{}, err
	}
	end, err := parseDateKey(*f.end)
	if err != nil {
		return session.ApplyFilters{}, err
	}
	cats := make([]review.Category, 0, len(*f.categories))
	for _, c := range *f.categories {
		cats = append(cats, review.Category(c))
	}
	return session.ApplyFilters{Start: start, End: end, Categories: cats}, nil
}

func (f filterFormModel) view(w int) string {
	if f.form == nil {
		return ""
	}
	return activePanelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, f.form.View(), "", mutedStyle.Render("esc: cancel")),
	)
}

// parseDateKey accepts a YYYY-MM-DD day or empty for an open bound.
func parseDateKey(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(review.DateKeyLayout, s)
	if err != nil {
		return nil, fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return &t, nil
}

func validateDateKey(s string) error {
	_, err := parseDateKey(s)
	return err
}

func dateKeyOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return review.ToDateKey(*t)
}

// presentCategories lists the categories that occur in records, in display
// order.
func presentCategories(records []review.Record) []review.Category {
	seen := review.DistinctCategories(records)
	out := make([]review.Category, 0, len(seen))
	for _, c := range review.Categories {
		if slices.Contains(seen, c) {
			out = append(out, c)
		}
	}
	return out
}
