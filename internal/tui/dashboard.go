package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/sadopc/reviewdash/internal/filter"
	"github.com/sadopc/reviewdash/internal/render"
	"github.com/sadopc/reviewdash/internal/review"
	"github.com/sadopc/reviewdash/internal/session"
)

const (
	scatterZone      = "scatter"
	legendZonePrefix = "legend-"

	yAxisWidth    = 6
	defaultMarker = '•'
)

func legendZone(c review.Category) string {
	return legendZonePrefix + string(c)
}

// cell is a position inside the scatter plot, column then row.
type cell struct {
	col, row int
}

type dashboardModel struct {
	width  int
	height int

	loaded bool
	frame  render.Frame
	state  *filter.State
	bins   int

	cursor review.Category // highlighted legend entry
	marker rune

	catChart  barchart.Model
	histChart barchart.Model
	plot      canvas.Model

	brushing  bool
	brushFrom cell
	brushTo   cell
	hover     string
}

func newDashboardModel(marker rune) dashboardModel {
	if marker == 0 {
		marker = defaultMarker
	}
	return dashboardModel{
		state:  filter.NewState(nil),
		marker: marker,
		cursor: review.Categories[len(review.Categories)-1],
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.rebuild()
}

func (d *dashboardModel) setMarker(r rune) {
	if r == 0 {
		r = defaultMarker
	}
	d.marker = r
	d.drawPlot()
}

// setFrame installs the output of a render cycle.
func (d *dashboardModel) setFrame(f render.Frame, state *filter.State, bins int) {
	d.loaded = true
	d.frame = f
	d.state = state
	d.bins = bins
	d.hover = ""
	if legend := d.legendCategories(); len(legend) > 0 && !slices.Contains(legend, d.cursor) {
		d.cursor = legend[len(legend)-1]
	}
	d.rebuild()
}

// legendCategories lists the categories present in the working set, in
// display order.
func (d dashboardModel) legendCategories() []review.Category {
	present := make(map[review.Category]bool, len(d.frame.Pie.Slices))
	for _, s := range d.frame.Pie.Slices {
		present[s.Category] = s.Count > 0
	}
	cats := make([]review.Category, 0, len(present))
	for _, c := range review.Categories {
		if present[c] {
			cats = append(cats, c)
		}
	}
	return cats
}

// moveCursor steps the legend cursor by delta, wrapping around.
func (d *dashboardModel) moveCursor(delta int) {
	legend := d.legendCategories()
	n := len(legend)
	if n == 0 {
		return
	}
	i := slices.Index(legend, d.cursor)
	if i < 0 {
		i = n - 1
	}
	d.cursor = legend[((i+delta)%n+n)%n]
}

func (d dashboardModel) topHeight() int {
	return clampInt(d.height*2/5, 8, 16)
}

// chartSize is the drawable area inside one of the two top panels.
func (d dashboardModel) chartSize() (w, h int) {
	return max(d.width/2-4, 10), max(d.topHeight()-4, 3)
}

// plotSize is the scatter canvas size; the session renders at this size.
func (d dashboardModel) plotSize() (w, h int) {
	return max(d.width-4-yAxisWidth, 10), max(d.height-d.topHeight()-4, 4)
}

func (d *dashboardModel) rebuild() {
	cw, ch := d.chartSize()

	d.catChart = barchart.New(cw, ch)
	var catBars []barchart.BarData
	for _, s := range d.frame.Pie.Slices {
		catBars = append(catBars, barchart.BarData{
			Label: string(s.Category),
			Values: []barchart.BarValue{{
				Name:  string(s.Category),
				Value: float64(s.Count),
				Style: categoryStyle(s.Category),
			}},
		})
	}
	d.catChart.PushAll(catBars)
	d.catChart.Draw()

	d.histChart = barchart.New(cw, ch)
	bins := d.frame.Histogram.Bins
	labelled := len(bins) > 0 && cw/len(bins) >= 4
	histBars := make([]barchart.BarData, 0, len(bins))
	for _, b := range bins {
		label := ""
		if labelled {
			label = fmt.Sprintf("%.1f", (b.X0+b.X1)/2)
		}
		histBars = append(histBars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  fmt.Sprintf("%.1f-%.1f", b.X0, b.X1),
				Value: float64(b.Count),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}
	d.histChart.PushAll(histBars)
	d.histChart.Draw()

	d.drawPlot()
}

func (d *dashboardModel) drawPlot() {
	sv := d.frame.Scatter
	w, h := sv.Width, sv.Height
	if w == 0 || h == 0 {
		w, h = d.plotSize()
	}
	d.plot = canvas.New(w, h)

	if d.brushing {
		c0, c1 := min(d.brushFrom.col, d.brushTo.col), max(d.brushFrom.col, d.brushTo.col)
		r0, r1 := min(d.brushFrom.row, d.brushTo.row), max(d.brushFrom.row, d.brushTo.row)
		for r := max(r0, 0); r <= min(r1, h-1); r++ {
			for c := max(c0, 0); c <= min(c1, w-1); c++ {
				d.plot.SetRuneWithStyle(canvas.Point{X: c, Y: r}, '░', brushStyle)
			}
		}
	}

	for _, p := range sv.Points {
		d.plot.SetRuneWithStyle(canvas.Point{X: p.Col, Y: p.Row}, d.marker, categoryStyle(p.Category))
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if !d.loaded {
		return d, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			d.moveCursor(-1)
		case key.Matches(msg, keys.Right):
			d.moveCursor(1)
		case key.Matches(msg, keys.Drill), key.Matches(msg, keys.Enter):
			if slices.Contains(d.legendCategories(), d.cursor) {
				return d, dispatch(session.Drill{Category: d.cursor})
			}
		case key.Matches(msg, keys.BinsUp):
			if d.bins < render.MaxBins {
				return d, dispatch(session.SetBins{N: d.bins + 1})
			}
		case key.Matches(msg, keys.BinsDown):
			if d.bins > render.MinBins {
				return d, dispatch(session.SetBins{N: d.bins - 1})
			}
		}

	case tea.MouseMsg:
		return d.updateMouse(msg)
	}
	return d, nil
}

func (d dashboardModel) updateMouse(msg tea.MouseMsg) (dashboardModel, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return d, nil
		}
		for _, c := range d.legendCategories() {
			if _, ok := hit(legendZone(c), msg); ok {
				d.cursor = c
				return d, dispatch(session.Drill{Category: c})
			}
		}
		if z, ok := hit(scatterZone, msg); ok && !d.frame.Scatter.Empty {
			d.brushing = true
			d.brushFrom = cellIn(z, msg)
			d.brushTo = d.brushFrom
			d.drawPlot()
		}

	case tea.MouseActionMotion:
		if d.brushing {
			if z := zone.Get(scatterZone); z != nil {
				d.brushTo = cellIn(z, msg)
				d.drawPlot()
			}
			return d, nil
		}
		d.hover = ""
		if z, ok := hit(scatterZone, msg); ok {
			d.hover = d.describeCell(cellIn(z, msg))
		}

	case tea.MouseActionRelease:
		if !d.brushing {
			return d, nil
		}
		if z := zone.Get(scatterZone); z != nil {
			d.brushTo = cellIn(z, msg)
		}
		d.brushing = false
		d.drawPlot()
		return d, dispatch(brushIntent(d.brushFrom, d.brushTo))
	}
	return d, nil
}

func hit(id string, msg tea.MouseMsg) (*zone.ZoneInfo, bool) {
	z := zone.Get(id)
	if z == nil || !z.InBounds(msg) {
		return nil, false
	}
	return z, true
}

// cellIn is the mouse position relative to the zone origin. It may fall
// outside the zone while dragging; the session clamps it.
func cellIn(z *zone.ZoneInfo, msg tea.MouseMsg) cell {
	return cell{col: msg.X - z.StartX, row: msg.Y - z.StartY}
}

func brushIntent(from, to cell) session.BrushScreen {
	return session.BrushScreen{X0: from.col, Y0: from.row, X1: to.col, Y1: to.row}
}

// describeCell summarises the points drawn at c, like a hover tooltip.
func (d dashboardModel) describeCell(c cell) string {
	var first *render.Point
	n := 0
	for i := range d.frame.Scatter.Points {
		p := &d.frame.Scatter.Points[i]
		if p.Col != c.col || p.Row != c.row {
			continue
		}
		if first == nil {
			first = p
		}
		n++
	}
	if first == nil {
		return ""
	}
	s := fmt.Sprintf("%s  length %d  rating %s", first.DateKey, int(first.Y), formatRating(first.Rating))
	if n > 1 {
		s += fmt.Sprintf("  (+%d)", n-1)
	}
	return s
}

func (d dashboardModel) view() string {
	if d.width < 40 || d.height < 12 {
		return "Terminal too small"
	}
	if !d.loaded {
		return mutedStyle.Render("  Loading reviews…")
	}

	half := d.width / 2
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderCategoryPanel(half),
		d.renderHistogramPanel(d.width-half),
	)
	return lipgloss.JoinVertical(lipgloss.Left, top, d.renderScatterPanel(d.width))
}

func placeholder(w, h int) string {
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, mutedStyle.Render("No data"))
}

func (d dashboardModel) renderCategoryPanel(w int) string {
	cw, ch := d.chartSize()

	title := titleStyle.Render("Categories") +
		mutedStyle.Render(fmt.Sprintf("  %d reviews", d.frame.Pie.Total))
	if drill, ok := d.state.DrillCategory(); ok {
		title += "  " + warningStyle.Render("drill: "+string(drill))
	}

	chart := d.catChart.View()
	if d.frame.Pie.Empty {
		chart = placeholder(cw, ch)
	}

	return chartPanelStyle.Width(w - 2).Height(d.topHeight() - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, chart, d.renderLegend(cw)),
	)
}

func (d dashboardModel) renderLegend(w int) string {
	counts := make(map[review.Category]int, len(d.frame.Pie.Slices))
	for _, s := range d.frame.Pie.Slices {
		counts[s.Category] = s.Count
	}

	short := w < 50
	legend := d.legendCategories()
	items := make([]string, 0, len(legend))
	for _, c := range legend {
		name := string(c)
		if short {
			name = name[:3]
		}
		label := fmt.Sprintf("%s %s %d", categoryStyle(c).Render("●"), name, counts[c])
		if c == d.cursor {
			label = selectedItemStyle.Render("[") + label + selectedItemStyle.Render("]")
		} else {
			label = " " + label + " "
		}
		items = append(items, zone.Mark(legendZone(c), label))
	}
	return strings.Join(items, " ")
}

func (d dashboardModel) renderHistogramPanel(w int) string {
	cw, ch := d.chartSize()

	title := titleStyle.Render("Ratings") + mutedStyle.Render(fmt.Sprintf("  %d bins", d.bins))

	chart := d.histChart.View()
	axis := mutedStyle.Render(fmt.Sprintf("%-*s%s", max(cw-3, 4), "0.5", "5.5"))
	if d.frame.Histogram.Empty {
		chart = placeholder(cw, ch)
		axis = ""
	}

	return chartPanelStyle.Width(w - 2).Height(d.topHeight() - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, chart, axis),
	)
}

func (d dashboardModel) renderScatterPanel(w int) string {
	sv := d.frame.Scatter
	pw, ph := d.plotSize()
	if sv.Width > 0 {
		pw, ph = sv.Width, sv.Height
	}

	title := titleStyle.Render("Date × length")
	switch {
	case d.hover != "":
		title += "  " + highlightStyle.Render(d.hover)
	case d.brushing:
		title += "  " + mutedStyle.Render("release to select")
	default:
		if _, ok := d.state.SpatialSelection(); ok {
			title += "  " + warningStyle.Render("brushed")
		} else {
			title += "  " + mutedStyle.Render("drag to brush")
		}
	}

	if sv.Empty {
		body := lipgloss.JoinHorizontal(lipgloss.Top,
			strings.Repeat(" ", yAxisWidth), placeholder(pw, ph))
		return chartPanelStyle.Width(w - 2).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, body, ""),
		)
	}

	yLabels := make([]string, ph)
	for _, v := range sv.Y.Ticks(max(ph/3, 2)) {
		if r := int(math.Round(sv.Y.Scale(v))); r >= 0 && r < ph && yLabels[r] == "" {
			yLabels[r] = fmt.Sprintf("%*.0f│", yAxisWidth-1, v)
		}
	}
	for r := range yLabels {
		if yLabels[r] == "" {
			yLabels[r] = strings.Repeat(" ", yAxisWidth-1) + "│"
		}
	}
	yAxis := mutedStyle.Render(strings.Join(yLabels, "\n"))

	left := dateLabel(sv.X.Invert(0))
	right := dateLabel(sv.X.Invert(float64(pw - 1)))
	gap := max(pw-len(left)-len(right), 1)
	xAxis := mutedStyle.Render(strings.Repeat(" ", yAxisWidth) + left + strings.Repeat(" ", gap) + right)

	body := lipgloss.JoinHorizontal(lipgloss.Top, yAxis, zone.Mark(scatterZone, d.plot.View()))

	return chartPanelStyle.Width(w - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, body, xAxis),
	)
}

func dateLabel(unix float64) string {
	return review.ToDateKey(time.Unix(int64(unix), 0).UTC())
}
