package tui

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sadopc/reviewdash/internal/filter"
	"github.com/sadopc/reviewdash/internal/render"
	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/session"
	"github.com/sadopc/reviewdash/internal/store"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRows() []review.RawRow {
	return []review.RawRow{
		{review.FieldDate: "2024-01-01", review.FieldRating: "5", review.FieldText: "great"},
		{review.FieldDate: "2024-01-02", review.FieldRating: "3", review.FieldText: "okay-ish"},
		{review.FieldDate: "2024-01-03", review.FieldRating: "1", review.FieldText: "bad"},
	}
}

func staticLoad(rows []review.RawRow, err error) LoadFunc {
	return func(context.Context) ([]review.RawRow, string, error) {
		return rows, "test.csv", err
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and feeds back a single intent the update produced.
func send(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, cmd := a.Update(msg)
	a = m.(App)
	if cmd == nil {
		return a
	}
	if in, ok := cmd().(intentMsg); ok {
		m, _ = a.Update(in)
		a = m.(App)
	}
	return a
}

func loadedApp(t *testing.T, s *store.Store, opts Options) App {
	t.Helper()
	a := NewApp(s, opts)
	a = send(t, a, tea.WindowSizeMsg{Width: 120, Height: 40})
	msg := loadDataset(a.opts)()
	m, _ := a.Update(msg)
	a = m.(App)
	if a.sess == nil {
		t.Fatal("session should exist after load")
	}
	return a
}

// ============================================================
// Loading
// ============================================================

func TestAppLoadsDataset(t *testing.T) {
	a := loadedApp(t, newTestStore(t), Options{Load: staticLoad(sampleRows(), nil)})

	f := a.sess.Frame()
	if f.Total != 3 || f.Filtered != 3 {
		t.Fatalf("frame = %d/%d, want 3/3", f.Filtered, f.Total)
	}
	if a.sess.Dataset().Synthetic {
		t.Fatal("real rows should not be synthetic")
	}
	if !strings.Contains(a.renderFilterBar(), "3/3") {
		t.Fatalf("filter bar missing counts: %q", a.renderFilterBar())
	}
	if !strings.Contains(a.status, "Loaded 3") {
		t.Fatalf("status = %q", a.status)
	}
	if len(a.records.records) != 3 {
		t.Fatalf("records view has %d rows", len(a.records.records))
	}
}

func TestAppLoadFailureFallsBack(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(nil, errors.New("boom")), Seed: 7})

	ds := a.sess.Dataset()
	if !ds.Synthetic || len(ds.Records) != review.FallbackCount {
		t.Fatalf("expected synthetic fallback, got %d records synthetic=%v", len(ds.Records), ds.Synthetic)
	}
	if !a.statusErr || !strings.Contains(a.status, "synthetic") {
		t.Fatalf("status = %q err=%v", a.status, a.statusErr)
	}
	if !strings.Contains(a.renderFilterBar(), "synthetic data") {
		t.Fatal("filter bar should mark synthetic data")
	}
}

func TestAppUnusableRowsFallBack(t *testing.T) {
	rows := []review.RawRow{{review.FieldDate: "nope", review.FieldRating: "5"}}
	a := loadedApp(t, nil, Options{Load: staticLoad(rows, nil), Seed: 1})

	if !a.sess.Dataset().Synthetic {
		t.Fatal("expected fallback")
	}
	if a.statusErr {
		t.Fatal("empty data is not an error")
	}
}

func TestAppBinsOption(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil), Bins: 5})
	if a.sess.Bins() != 5 || a.dashboard.bins != 5 {
		t.Fatalf("bins = %d / %d, want 5", a.sess.Bins(), a.dashboard.bins)
	}

	a = loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	if a.sess.Bins() != render.DefaultBins {
		t.Fatalf("zero bins option should keep default, got %d", a.sess.Bins())
	}
}

// ============================================================
// Intents from keys
// ============================================================

func TestDashboardDrillKey(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})

	// cursor starts on the last category, Positive
	a = send(t, a, runes("d"))

	if got, ok := a.sess.State().DrillCategory(); !ok || got != review.Positive {
		t.Fatalf("drill = %v %v, want Positive", got, ok)
	}
	if a.sess.Frame().Filtered != 1 {
		t.Fatalf("filtered = %d, want 1", a.sess.Frame().Filtered)
	}
	if len(a.records.records) != 1 {
		t.Fatal("records view should follow the working set")
	}
}

func TestDashboardCursorWraps(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})

	a = send(t, a, runes("l"))
	if a.dashboard.cursor != review.Negative {
		t.Fatalf("cursor = %s, want wrap to Negative", a.dashboard.cursor)
	}
	a = send(t, a, runes("h"))
	if a.dashboard.cursor != review.Positive {
		t.Fatalf("cursor = %s, want wrap back to Positive", a.dashboard.cursor)
	}

	a = send(t, a, runes("h"))
	a = send(t, a, runes("d"))
	if got, _ := a.sess.State().DrillCategory(); got != review.Neutral {
		t.Fatalf("drill = %v, want Neutral", got)
	}
}

func TestClearAndResetKeys(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})

	a = send(t, a, runes("d"))
	a = send(t, a, runes("c"))
	if _, ok := a.sess.State().DrillCategory(); ok {
		t.Fatal("clear should remove drill")
	}
	if a.sess.Frame().Filtered != 3 {
		t.Fatalf("filtered = %d, want 3", a.sess.Frame().Filtered)
	}

	a = send(t, a, intentMsg{intent: session.SetActiveCategories{Categories: []review.Category{review.Negative}}})
	if a.sess.Frame().Filtered != 1 {
		t.Fatalf("filtered = %d, want 1", a.sess.Frame().Filtered)
	}
	a = send(t, a, runes("r"))
	if a.sess.Frame().Filtered != 3 {
		t.Fatalf("reset should restore all rows, got %d", a.sess.Frame().Filtered)
	}
}

func TestBinsKeysPersist(t *testing.T) {
	s := newTestStore(t)
	a := loadedApp(t, s, Options{Load: staticLoad(sampleRows(), nil)})

	m, cmd := a.Update(runes("+"))
	a = m.(App)
	in, ok := cmd().(intentMsg)
	if !ok {
		t.Fatal("expected an intent")
	}
	m, cmd = a.Update(in)
	a = m.(App)
	if a.sess.Bins() != render.DefaultBins+1 {
		t.Fatalf("bins = %d", a.sess.Bins())
	}
	if cmd == nil {
		t.Fatal("expected a persist command")
	}
	cmd()

	if got := s.GetIntSetting(store.SettingHistBins, 0); got != render.DefaultBins+1 {
		t.Fatalf("stored bins = %d", got)
	}

	a = send(t, a, runes("-"))
	a = send(t, a, runes("-"))
	if a.sess.Bins() != render.DefaultBins-1 {
		t.Fatalf("bins = %d", a.sess.Bins())
	}
}

func TestBinsKeysStopAtBounds(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil), Bins: render.MinBins})

	_, cmd := a.Update(runes("-"))
	if cmd != nil {
		t.Fatal("no intent below the minimum bin count")
	}
}

func TestKeysIgnoredBeforeLoad(t *testing.T) {
	a := NewApp(nil, Options{})
	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	a = send(t, a, runes("d"))
	a = send(t, a, runes("r"))
	if a.sess != nil {
		t.Fatal("no session before load")
	}
	if !strings.Contains(a.View(), "Loading") {
		t.Fatal("dashboard should show loading placeholder")
	}
}

// ============================================================
// Brush
// ============================================================

func TestBrushClickIsNoop(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	before := a.sess.Frame()

	a = send(t, a, intentMsg{intent: brushIntent(cell{3, 3}, cell{3, 3})})

	if _, ok := a.sess.State().SpatialSelection(); ok {
		t.Fatal("degenerate brush should not install a selection")
	}
	if a.sess.Frame().Filtered != before.Filtered {
		t.Fatal("working set changed")
	}
}

func TestBrushSelectsLeftColumn(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	sv := a.sess.Frame().Scatter

	a = send(t, a, intentMsg{intent: brushIntent(cell{0, 0}, cell{1, sv.Height - 1})})

	if _, ok := a.sess.State().SpatialSelection(); !ok {
		t.Fatal("brush should install a selection")
	}
	working := a.sess.Working()
	if len(working) != 1 || working[0].DateKey != "2024-01-01" {
		t.Fatalf("working = %+v", working)
	}
	if !strings.Contains(a.dashboard.view(), "brushed") {
		t.Fatal("scatter title should show the brush")
	}
}

func TestBrushIntentCoordinates(t *testing.T) {
	got := brushIntent(cell{col: 5, row: 2}, cell{col: 1, row: 9})
	want := session.BrushScreen{X0: 5, Y0: 2, X1: 1, Y1: 9}
	if got != want {
		t.Fatalf("brushIntent = %+v, want %+v", got, want)
	}
}

func TestDescribeCell(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	p := a.sess.Frame().Scatter.Points[0]

	got := a.dashboard.describeCell(cell{p.Col, p.Row})
	if !strings.Contains(got, "2024-01-01") || !strings.Contains(got, "length 5") || !strings.Contains(got, "rating 5") {
		t.Fatalf("describeCell = %q", got)
	}
	if a.dashboard.describeCell(cell{-1, -1}) != "" {
		t.Fatal("empty cell should describe nothing")
	}
}

// ============================================================
// Mouse
// ============================================================

// renderedZone renders a and waits for bubblezone to record id. Zones are
// stored asynchronously, so the position must hold steady across polls
// before it is trusted.
func renderedZone(t *testing.T, a App, id string) *zone.ZoneInfo {
	t.Helper()
	zone.Clear(id)
	a.View()

	var last *zone.ZoneInfo
	steady := 0
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		z := zone.Get(id)
		switch {
		case z.IsZero():
			steady = 0
		case last != nil && *z == *last:
			steady++
		default:
			steady = 1
		}
		last = z
		if steady >= 3 {
			return z
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("zone %q was never recorded", id)
	return nil
}

func mouse(action tea.MouseAction, button tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: button}
}

func TestLegendClickDrills(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	z := renderedZone(t, a, legendZone(review.Neutral))

	a = send(t, a, mouse(tea.MouseActionPress, tea.MouseButtonLeft, z.StartX, z.StartY))

	if got, ok := a.sess.State().DrillCategory(); !ok || got != review.Neutral {
		t.Fatalf("drill = %v %v, want Neutral", got, ok)
	}
	if a.dashboard.cursor != review.Neutral {
		t.Fatalf("cursor = %s, want Neutral", a.dashboard.cursor)
	}
	if a.sess.Frame().Filtered != 1 {
		t.Fatalf("filtered = %d, want 1", a.sess.Frame().Filtered)
	}
}

func TestMouseDragBrushes(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	sv := a.sess.Frame().Scatter
	z := renderedZone(t, a, scatterZone)

	a = send(t, a, mouse(tea.MouseActionPress, tea.MouseButtonLeft, z.StartX, z.StartY))
	if !a.dashboard.brushing {
		t.Fatal("press inside the plot should start a brush")
	}
	a = send(t, a, mouse(tea.MouseActionMotion, tea.MouseButtonLeft, z.StartX+1, z.StartY+sv.Height-1))
	if !strings.Contains(a.dashboard.view(), "release to select") {
		t.Fatal("scatter title should prompt while dragging")
	}
	if _, ok := a.sess.State().SpatialSelection(); ok {
		t.Fatal("no selection before release")
	}

	a = send(t, a, mouse(tea.MouseActionRelease, tea.MouseButtonNone, z.StartX+1, z.StartY+sv.Height-1))

	if a.dashboard.brushing {
		t.Fatal("release should end the brush")
	}
	rect, ok := a.sess.State().SpatialSelection()
	if !ok {
		t.Fatal("drag should install a selection")
	}
	if rect.Y0 < 0 {
		t.Fatalf("selection extends below zero length: %+v", rect)
	}
	working := a.sess.Working()
	if len(working) != 1 || working[0].DateKey != "2024-01-01" {
		t.Fatalf("working = %+v", working)
	}
}

func TestMouseClickOnPlotIsNoop(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	z := renderedZone(t, a, scatterZone)

	a = send(t, a, mouse(tea.MouseActionPress, tea.MouseButtonLeft, z.StartX+2, z.StartY+2))
	a = send(t, a, mouse(tea.MouseActionRelease, tea.MouseButtonNone, z.StartX+2, z.StartY+2))

	if _, ok := a.sess.State().SpatialSelection(); ok {
		t.Fatal("a click should not install a selection")
	}
	if a.sess.Frame().Filtered != 3 {
		t.Fatalf("filtered = %d, want 3", a.sess.Frame().Filtered)
	}
}

func TestMouseHoverDescribesPoint(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	p := a.sess.Frame().Scatter.Points[0]
	z := renderedZone(t, a, scatterZone)

	// plain motion with no button held, as delivered in all-motion mode
	a = send(t, a, mouse(tea.MouseActionMotion, tea.MouseButtonNone, z.StartX+p.Col, z.StartY+p.Row))

	if !strings.Contains(a.dashboard.hover, p.DateKey) {
		t.Fatalf("hover = %q, want %s", a.dashboard.hover, p.DateKey)
	}
	if !strings.Contains(a.dashboard.view(), p.DateKey+"  length") {
		t.Fatal("scatter title should show the hovered point")
	}

	a = send(t, a, mouse(tea.MouseActionMotion, tea.MouseButtonNone, 0, 0))
	if a.dashboard.hover != "" {
		t.Fatalf("hover should clear outside the plot, got %q", a.dashboard.hover)
	}
}

func TestScatterAxisUsesTicks(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})

	// lengths 5, 8, 3 give a y domain of 0..8 labelled on round ticks
	view := a.dashboard.view()
	for _, label := range []string{"    0│", "    2│", "    6│", "    8│"} {
		if !strings.Contains(view, label) {
			t.Fatalf("y axis missing %q", label)
		}
	}
}

func TestLegendSkipsAbsentCategories(t *testing.T) {
	rows := []review.RawRow{
		{review.FieldDate: "2024-01-01", review.FieldRating: "1", review.FieldText: "awful"},
		{review.FieldDate: "2024-01-02", review.FieldRating: "2", review.FieldText: "poor"},
	}
	a := loadedApp(t, nil, Options{Load: staticLoad(rows, nil)})

	legend := a.dashboard.legendCategories()
	if len(legend) != 1 || legend[0] != review.Negative {
		t.Fatalf("legend = %v, want [Negative]", legend)
	}
	if a.dashboard.cursor != review.Negative {
		t.Fatalf("cursor = %s, want Negative", a.dashboard.cursor)
	}
	view := a.dashboard.view()
	if strings.Contains(view, string(review.Positive)) || strings.Contains(view, string(review.Neutral)) {
		t.Fatal("legend should not list categories with no reviews")
	}

	a = send(t, a, runes("l"))
	a = send(t, a, runes("d"))
	if got, ok := a.sess.State().DrillCategory(); !ok || got != review.Negative {
		t.Fatalf("drill = %v %v, want Negative", got, ok)
	}
	if a.sess.Frame().Filtered != 2 {
		t.Fatalf("filtered = %d, want 2", a.sess.Frame().Filtered)
	}
}

// ============================================================
// Filter form
// ============================================================

func TestFilterFormIntent(t *testing.T) {
	f := newFilterFormModel()
	*f.start = "2024-01-02"
	*f.end = " "
	*f.categories = []string{"Positive", "Neutral"}

	in, err := f.intent()
	if err != nil {
		t.Fatal(err)
	}
	if in.Start == nil || review.ToDateKey(*in.Start) != "2024-01-02" {
		t.Fatalf("start = %v", in.Start)
	}
	if in.End != nil {
		t.Fatal("blank end should be open")
	}
	if len(in.Categories) != 2 || in.Categories[0] != review.Positive {
		t.Fatalf("categories = %v", in.Categories)
	}

	*f.end = "01/05/2024"
	if _, err := f.intent(); err == nil {
		t.Fatal("expected error for non-key date")
	}
}

func TestFilterFormShowPrefills(t *testing.T) {
	records, _ := review.DeriveRecords(sampleRows())
	state := filter.NewState(records)

	f, _ := newFilterFormModel().show(state, presentCategories(records))
	if !f.formActive || f.form == nil {
		t.Fatal("form should be active")
	}
	if *f.start != "2024-01-01" || *f.end != "2024-01-03" {
		t.Fatalf("dates = %q %q", *f.start, *f.end)
	}
	if len(*f.categories) != 3 {
		t.Fatalf("categories = %v", *f.categories)
	}

	f, _ = f.update(tea.KeyMsg{Type: tea.KeyEsc})
	if f.formActive {
		t.Fatal("esc should close the form")
	}
}

func TestFilterKeyOpensForm(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	a = send(t, a, runes("f"))
	if !a.filters.formActive {
		t.Fatal("f should open the filter form")
	}

	// keys go to the form, not the dashboard
	a = send(t, a, runes("d"))
	if _, ok := a.sess.State().DrillCategory(); ok {
		t.Fatal("drill key leaked through the form")
	}
}

func TestParseDateKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"  ", "", false},
		{"2024-02-29", "2024-02-29", false},
		{" 2024-01-05 ", "2024-01-05", false},
		{"2024-13-01", "", true},
		{"Jan 5, 2024", "", true},
	}

	for _, tt := range tests {
		got, err := parseDateKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDateKey(%q) err = %v", tt.in, err)
			continue
		}
		if dateKeyOrEmpty(got) != tt.want {
			t.Errorf("parseDateKey(%q) = %q, want %q", tt.in, dateKeyOrEmpty(got), tt.want)
		}
		if (validateDateKey(tt.in) != nil) != tt.wantErr {
			t.Errorf("validateDateKey(%q) disagrees with parseDateKey", tt.in)
		}
	}
}

func TestPresentCategories(t *testing.T) {
	rows := sampleRows()[:2]
	records, _ := review.DeriveRecords(rows)

	got := presentCategories(records)
	if len(got) != 2 || got[0] != review.Neutral || got[1] != review.Positive {
		t.Fatalf("presentCategories = %v", got)
	}
}

// ============================================================
// Records view
// ============================================================

func TestRecordsScroll(t *testing.T) {
	r := newRecordsModel()
	r.setSize(80, 10) // two visible rows

	records, _ := review.DeriveRecords(sampleRows())
	r.setRecords(records)

	down := tea.KeyMsg{Type: tea.KeyDown}
	r, _ = r.update(down)
	r, _ = r.update(down)
	r, _ = r.update(down)
	if r.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", r.cursor)
	}
	if r.offset != 1 {
		t.Fatalf("offset = %d, want 1", r.offset)
	}

	r.setRecords(records[:1])
	if r.cursor != 0 || r.offset != 0 {
		t.Fatalf("cursor/offset = %d/%d after shrink", r.cursor, r.offset)
	}

	r.setRecords(nil)
	if !strings.Contains(r.view(), "No data") {
		t.Fatal("empty records should show placeholder")
	}
}

// ============================================================
// Settings
// ============================================================

func TestValidateBins(t *testing.T) {
	for _, ok := range []string{"1", "10", " 50 "} {
		if err := validateBins(ok); err != nil {
			t.Errorf("validateBins(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "0", "51", "ten"} {
		if err := validateBins(bad); err == nil {
			t.Errorf("validateBins(%q) should fail", bad)
		}
	}
}

func TestMarkerRune(t *testing.T) {
	if markerRune("") != defaultMarker {
		t.Fatal("empty marker should use default")
	}
	if markerRune("●x") != '●' {
		t.Fatal("first rune expected")
	}
}

func TestFormatSettingValue(t *testing.T) {
	if got := formatSettingValue(store.SettingHistBins, "12"); got != "12 bins" {
		t.Fatalf("got %q", got)
	}
	if got := formatSettingValue(store.SettingScatterMarker, "•"); got != "•" {
		t.Fatalf("got %q", got)
	}
}

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	*m.bins = "64"
	*m.marker = "*"

	saved, err := m.saveSettings()
	if err != nil {
		t.Fatal(err)
	}
	if saved.bins != render.MaxBins || saved.marker != "*" {
		t.Fatalf("saved = %+v", saved)
	}
	if v, _ := s.GetSetting(store.SettingScatterMarker); v != "*" {
		t.Fatalf("marker setting = %q", v)
	}
}

func TestSettingsSavedMsgAppliesToDashboard(t *testing.T) {
	a := loadedApp(t, newTestStore(t), Options{Load: staticLoad(sampleRows(), nil)})

	a = send(t, a, settingsSavedMsg{bins: 4, marker: "*"})
	if a.dashboard.marker != '*' {
		t.Fatalf("marker = %q", a.dashboard.marker)
	}
	if a.sess.Bins() != 4 || len(a.sess.Frame().Histogram.Bins) != 4 {
		t.Fatalf("bins = %d", a.sess.Bins())
	}
}

func TestSettingsWithoutStore(t *testing.T) {
	m := newSettingsModel(nil)
	m.setSize(80, 20)
	if m.refresh() != nil {
		t.Fatal("no refresh without a store")
	}
	if !strings.Contains(m.view(), "No store") {
		t.Fatal("view should explain the missing store")
	}
}

// ============================================================
// App chrome
// ============================================================

func TestAppViewRendersPanels(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	v := a.View()
	for _, want := range []string{"reviewdash", "Categories", "Ratings", "Date × length"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppEmptyWorkingSetShowsPlaceholder(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})
	a = send(t, a, intentMsg{intent: session.Drill{Category: review.Positive}})
	a = send(t, a, intentMsg{intent: session.SetActiveCategories{Categories: []review.Category{review.Negative}}})

	if a.sess.Frame().Filtered != 0 {
		t.Fatalf("filtered = %d, want 0", a.sess.Frame().Filtered)
	}
	if !strings.Contains(a.dashboard.view(), "No data") {
		t.Fatal("empty panels should show placeholders")
	}
}

func TestAppTabs(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})

	a = send(t, a, runes("2"))
	if a.activeView != viewRecords {
		t.Fatal("2 should open records")
	}
	a = send(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.activeView != viewSettings {
		t.Fatal("tab should advance to settings")
	}
	a = send(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.activeView != viewDashboard {
		t.Fatal("tab should wrap to dashboard")
	}
}

func TestAppExportPicker(t *testing.T) {
	a := loadedApp(t, nil, Options{Load: staticLoad(sampleRows(), nil)})

	a = send(t, a, runes("e"))
	if !a.exportPicking {
		t.Fatal("e should open the export picker")
	}
	a = send(t, a, tea.KeyMsg{Type: tea.KeyDown})
	if a.exportCursor != 1 {
		t.Fatalf("cursor = %d", a.exportCursor)
	}
	if !strings.Contains(a.View(), "JSON") {
		t.Fatal("picker should list formats")
	}
	a = send(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppStatusMessage(t *testing.T) {
	a := NewApp(nil, Options{})
	a = send(t, a, statusMsg{text: "oops", isError: true})
	if a.status != "oops" || !a.statusErr {
		t.Fatalf("status = %q err=%v", a.status, a.statusErr)
	}

	a = send(t, a, exportDoneMsg{path: "/tmp/x.csv", count: 2})
	if !strings.Contains(a.status, "/tmp/x.csv") || a.statusErr {
		t.Fatalf("status = %q", a.status)
	}
}

// ============================================================
// Helpers
// ============================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"héllo wörld", 3, "hé…"},
		{"a\nb", 5, "a b"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestClampInt(t *testing.T) {
	if clampInt(-1, 0, 5) != 0 || clampInt(9, 0, 5) != 5 || clampInt(3, 0, 5) != 3 {
		t.Fatal("clampInt")
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 3 {
		t.Fatalf("expected 3 view names, got %d", len(viewNames))
	}
	if viewNames[viewDashboard] != "Dashboard" || viewNames[viewSettings] != "Settings" {
		t.Fatal("view names out of order")
	}
}

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("ShortHelp should not be empty")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("FullHelp should not be empty")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("FullHelp group %d is empty", i)
		}
	}
}
