package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sadopc/reviewdash/internal/export"
	"github.com/sadopc/reviewdash/internal/logging"
	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/session"
	"github.com/sadopc/reviewdash/internal/store"
)

// LoadFunc fetches raw rows and names where they came from.
type LoadFunc func(ctx context.Context) (rows []review.RawRow, source string, err error)

// Options configures the dashboard.
type Options struct {
	Load    LoadFunc
	Timeout time.Duration
	Seed    uint64
	Bins    int
	Marker  string
}

// App is the root Bubble Tea model.
type App struct {
	store *store.Store
	opts  Options
	sess  *session.Session

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	records   recordsModel
	settings  settingsModel
	filters   filterFormModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the root model. s may be nil, which disables the settings
// view and bin persistence.
func NewApp(s *store.Store, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return App{
		store:      s,
		opts:       opts,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(markerRune(opts.Marker)),
		records:    newRecordsModel(),
		settings:   newSettingsModel(s),
		filters:    newFilterFormModel(),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadDataset(a.opts),
		a.settings.refresh(),
	)
}

// loadDataset fetches rows under a timeout. Any failure degrades to the
// synthetic dataset.
func loadDataset(opts Options) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()

		var (
			rows   []review.RawRow
			source string
			err    error
		)
		if opts.Load != nil {
			rows, source, err = opts.Load(ctx)
		}
		if err != nil {
			logging.Warnf("loading reviews: %v", err)
			rows = nil
		}

		ds := review.Load(rows, source, time.Now(), review.NewRand(opts.Seed))
		if ds.Dropped > 0 {
			logging.Infof("dropped %d malformed rows from %s", ds.Dropped, source)
		}
		return datasetLoadedMsg{dataset: ds, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 5 // header + filter bar + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.records.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		if a.sess != nil {
			a.sess.Resize(a.dashboard.plotSize())
			a.syncFrame()
		}
		return a, nil

	case datasetLoadedMsg:
		w, h := a.dashboard.plotSize()
		opts := []session.Option{session.WithPlotSize(w, h)}
		if a.opts.Bins > 0 {
			opts = append(opts, session.WithBins(a.opts.Bins))
		}
		a.sess = session.New(msg.dataset, opts...)
		a.syncFrame()
		switch {
		case msg.err != nil:
			a.status, a.statusErr = "Load failed, showing synthetic data", true
		case msg.dataset.Synthetic:
			a.status, a.statusErr = "No usable rows, showing synthetic data", false
		default:
			a.status, a.statusErr = fmt.Sprintf("Loaded %d reviews", len(msg.dataset.Records)), false
		}
		return a, nil

	case intentMsg:
		return a.apply(msg.intent)

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.filters.formActive {
			var cmd tea.Cmd
			a.filters, cmd = a.filters.update(msg)
			return a, cmd
		}
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewRecords
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		}

		if a.sess == nil || a.activeView == viewSettings {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Filter):
			var cmd tea.Cmd
			a.filters, cmd = a.filters.show(a.sess.State(), presentCategories(a.sess.Dataset().Records))
			return a, cmd
		case key.Matches(msg, keys.Reset):
			return a.apply(session.Reset{})
		case key.Matches(msg, keys.Clear):
			return a.apply(session.ClearDrill{})
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		}

	case tea.MouseMsg:
		if a.activeView != viewDashboard || a.exportPicking || a.filters.formActive {
			return a, nil
		}

	case statusMsg:
		a.status, a.statusErr = msg.text, msg.isError
		return a, nil

	case exportDoneMsg:
		a.status, a.statusErr = fmt.Sprintf("Exported %d reviews to %s", msg.count, msg.path), false
		a.exportPicking = false
		return a, nil

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case settingsSavedMsg:
		a.dashboard.setMarker(markerRune(msg.marker))
		a.status, a.statusErr = "Settings saved", false
		if a.sess != nil && msg.bins != a.sess.Bins() {
			a.sess.Dispatch(session.SetBins{N: msg.bins})
			a.syncFrame()
		}
		return a, nil
	}

	if a.filters.formActive {
		var cmd tea.Cmd
		a.filters, cmd = a.filters.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

// apply dispatches an intent to the session and refreshes every view from
// the resulting frame.
func (a App) apply(in session.Intent) (tea.Model, tea.Cmd) {
	if a.sess == nil {
		return a, nil
	}
	if _, changed := a.sess.Dispatch(in); !changed {
		return a, nil
	}
	a.syncFrame()

	if _, ok := in.(session.SetBins); ok {
		return a, a.saveBins(a.sess.Bins())
	}
	return a, nil
}

func (a *App) syncFrame() {
	a.dashboard.setFrame(a.sess.Frame(), a.sess.State(), a.sess.Bins())
	a.records.setRecords(a.sess.Working())
}

func (a App) saveBins(n int) tea.Cmd {
	if a.store == nil {
		return nil
	}
	s := a.store
	return func() tea.Msg {
		if err := s.SetSetting(store.SettingHistBins, strconv.Itoa(n)); err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return nil
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewRecords:
		a.records, cmd = a.records.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	filterBar := a.renderFilterBar()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewRecords:
		content = a.records.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(filterBar) - lipgloss.Height(footer)
	if contentHeight < 1 {
		contentHeight = 1
	}

	switch {
	case a.exportPicking:
		content = a.renderExportPicker()
	case a.filters.formActive:
		content = a.filters.view(a.width - 4)
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, header, filterBar, content, footer))
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("reviewdash")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFilterBar() string {
	if a.sess == nil {
		return filterBarStyle.Render("")
	}
	f := a.sess.Frame()
	counts := highlightStyle.Render(fmt.Sprintf("%d/%d", f.Filtered, f.Total))
	line := counts + "  " + a.sess.State().Summary()
	if a.sess.Dataset().Synthetic {
		line += "  " + warningStyle.Render("[synthetic data]")
	}
	return filterBarStyle.MaxWidth(a.width).Render(line)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Working Set"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes a snapshot of the working set to the home directory.
func (a App) doExport(format int) tea.Cmd {
	if a.sess == nil {
		return nil
	}
	records := a.sess.Working()
	summary := a.sess.State().Summary()

	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("reviewdash-export-%s.csv", dateStr))
			if err := export.ToCSV(records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("reviewdash-export-%s.json", dateStr))
			if err := export.ToJSON(records, summary, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path, count: len(records)}
	}
}
