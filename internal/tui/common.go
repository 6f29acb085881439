package tui

import (
	"strconv"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/session"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewRecords
	viewSettings
)

var viewNames = []string{"Dashboard", "Records", "Settings"}

// --- Messages ---

type datasetLoadedMsg struct {
	dataset review.Dataset
	err     error // cause of falling back, if any
}

// intentMsg carries a user intent from a sub-view to the session owner.
type intentMsg struct {
	intent session.Intent
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path  string
	count int
}

type settingsSavedMsg struct {
	bins   int
	marker string
}

func dispatch(in session.Intent) tea.Cmd {
	return func() tea.Msg { return intentMsg{intent: in} }
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

// --- Helpers ---

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
