package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/reviewdash/internal/render"
	"github.com/sadopc/reviewdash/internal/store"
)

var markerChoices = []string{"•", "●", "·", "*", "+", "o"}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	bins   *string
	marker *string
}

func newSettingsModel(s *store.Store) settingsModel {
	b, m := "", ""
	return settingsModel{
		store:  s,
		bins:   &b,
		marker: &m,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	if s.store == nil {
		return nil
	}
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) && s.store != nil {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.bins = s.getVal(store.SettingHistBins, strconv.Itoa(render.DefaultBins))
	*s.marker = s.getVal(store.SettingScatterMarker, string(defaultMarker))

	options := make([]huh.Option[string], 0, len(markerChoices))
	for _, m := range markerChoices {
		options = append(options, huh.NewOption(m, m))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Histogram bins").
				Description(fmt.Sprintf("%d to %d", render.MinBins, render.MaxBins)).
				Validate(validateBins).Value(s.bins),
			huh.NewSelect[string]().Title("Scatter marker").
				Options(options...).Value(s.marker),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		saved, err := s.saveSettings()
		if err != nil {
			return s, statusCmd(fmt.Sprintf("Settings error: %v", err), true)
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return saved })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() (settingsSavedMsg, error) {
	bins, err := strconv.Atoi(strings.TrimSpace(*s.bins))
	if err != nil {
		return settingsSavedMsg{}, err
	}
	bins = render.ClampBins(bins)
	if err := s.store.SetSetting(store.SettingHistBins, strconv.Itoa(bins)); err != nil {
		return settingsSavedMsg{}, err
	}
	if err := s.store.SetSetting(store.SettingScatterMarker, *s.marker); err != nil {
		return settingsSavedMsg{}, err
	}
	return settingsSavedMsg{bins: bins, marker: *s.marker}, nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.store == nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("No store open")),
		)
	}

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	if k == store.SettingHistBins {
		return v + " bins"
	}
	return v
}

func validateBins(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("bins must be a whole number")
	}
	if n < render.MinBins || n > render.MaxBins {
		return fmt.Errorf("bins must be between %d and %d", render.MinBins, render.MaxBins)
	}
	return nil
}

// markerRune returns the first rune of a stored marker setting.
func markerRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return defaultMarker
	}
	return r
}
