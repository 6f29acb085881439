package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/reviewdash/internal/review"
)

// recordsModel lists the current working set.
type recordsModel struct {
	width  int
	height int

	records []review.Record
	cursor  int
	offset  int
}

func newRecordsModel() recordsModel {
	return recordsModel{}
}

func (r *recordsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.scroll()
}

func (r *recordsModel) setRecords(records []review.Record) {
	r.records = records
	r.cursor = clampInt(r.cursor, 0, max(len(records)-1, 0))
	r.scroll()
}

// visibleRows is what fits between the panel frame, title and column header.
func (r recordsModel) visibleRows() int {
	return max(r.height-8, 1)
}

func (r *recordsModel) scroll() {
	rows := r.visibleRows()
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+rows {
		r.offset = r.cursor - rows + 1
	}
	r.offset = clampInt(r.offset, 0, max(len(r.records)-rows, 0))
}

func (r recordsModel) update(msg tea.Msg) (recordsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if r.cursor > 0 {
				r.cursor--
			}
		case key.Matches(msg, keys.Down):
			if r.cursor < len(r.records)-1 {
				r.cursor++
			}
		}
		r.scroll()
	}
	return r, nil
}

func (r recordsModel) view() string {
	w := r.width - 4

	title := titleStyle.Render("Records") +
		mutedStyle.Render(fmt.Sprintf("  %d in working set", len(r.records)))

	if len(r.records) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("No data")),
		)
	}

	textWidth := max(w-40, 10)
	header := mutedStyle.Render(fmt.Sprintf("  %-10s %6s  %-8s %6s  %s", "Date", "Rating", "Category", "Length", "Text"))

	rows := []string{title, "", header}
	end := min(r.offset+r.visibleRows(), len(r.records))
	for i := r.offset; i < end; i++ {
		rec := r.records[i]
		cursor := "  "
		style := normalItemStyle
		if i == r.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%-10s %6s  %s %6d  %s",
			cursor,
			rec.DateKey,
			formatRating(rec.Rating),
			categoryStyle(rec.Category).Render(fmt.Sprintf("%-8s", rec.Category)),
			rec.TextLength,
			truncate(rec.Text, textWidth),
		)
		rows = append(rows, style.Render(line))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
