// Package render turns a working set into view descriptions for the three
// dashboard panels. Nothing here draws; the terminal UI consumes the views.
package render

import (
	"math"
	"sort"

	"github.com/sadopc/reviewdash/internal/review"
)

// Histogram bounds.
const (
	MinBins     = 1
	MaxBins     = 50
	DefaultBins = 10

	ratingLow  = 0.5
	ratingHigh = 5.5

	secondsPerDay = 24 * 60 * 60
)

// CategoryColors are the fixed slice colours.
var CategoryColors = map[review.Category]string{
	review.Positive: "#34d399",
	review.Neutral:  "#fbbf24",
	review.Negative: "#f87171",
}

// Slice is one category of the breakdown.
type Slice struct {
	Category   review.Category
	Count      int
	Fraction   float64
	StartAngle float64 // radians
	EndAngle   float64
	Color      string
}

// PieView is the category breakdown.
type PieView struct {
	Empty  bool
	Total  int
	Slices []Slice
}

// Bin is one histogram bucket covering [X0, X1).
type Bin struct {
	X0, X1 float64
	Count  int
}

// HistogramView is the rating distribution.
type HistogramView struct {
	Empty    bool
	Bins     []Bin
	MaxCount int
}

// Point is one plotted review.
type Point struct {
	X, Y     float64 // domain: unix seconds, text length
	Col, Row int     // plot cell
	Rating   float64
	Category review.Category
	DateKey  string
}

// ScatterView is the date vs length plot. X and Y are the scales used to
// place the points; brush inversion must use these.
type ScatterView struct {
	Empty         bool
	Width, Height int
	X, Y          LinearScale
	Points        []Point
}

// Frame is the output of one render cycle.
type Frame struct {
	Pie       PieView
	Histogram HistogramView
	Scatter   ScatterView
	Total     int
	Filtered  int
}

// Pie counts records per category, ordered by category name.
func Pie(records []review.Record) PieView {
	if len(records) == 0 {
		return PieView{Empty: true}
	}
	counts := make(map[review.Category]int)
	for _, r := range records {
		counts[r.Category]++
	}
	cats := make([]review.Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	total := len(records)
	view := PieView{Total: total}
	angle := 0.0
	for _, c := range cats {
		frac := float64(counts[c]) / float64(total)
		end := angle + frac*2*math.Pi
		view.Slices = append(view.Slices, Slice{
			Category:   c,
			Count:      counts[c],
			Fraction:   frac,
			StartAngle: angle,
			EndAngle:   end,
			Color:      CategoryColors[c],
		})
		angle = end
	}
	return view
}

// ClampBins limits a bin count to [MinBins, MaxBins].
func ClampBins(n int) int {
	return max(MinBins, min(MaxBins, n))
}

// Histogram buckets ratings over [0.5, 5.5] into equal-width bins. Ratings
// outside the domain are not counted; the last bin includes its upper edge.
func Histogram(records []review.Record, bins int) HistogramView {
	if len(records) == 0 {
		return HistogramView{Empty: true}
	}
	bins = ClampBins(bins)
	width := (ratingHigh - ratingLow) / float64(bins)
	view := HistogramView{Bins: make([]Bin, bins)}
	for i := range view.Bins {
		view.Bins[i].X0 = ratingLow + float64(i)*width
		view.Bins[i].X1 = ratingLow + float64(i+1)*width
	}
	for _, r := range records {
		if r.Rating < ratingLow || r.Rating > ratingHigh {
			continue
		}
		idx := int((r.Rating - ratingLow) / width)
		if idx >= bins {
			idx = bins - 1
		}
		view.Bins[idx].Count++
	}
	for _, b := range view.Bins {
		view.MaxCount = max(view.MaxCount, b.Count)
	}
	return view
}

// Scatter places records on a width x height cell grid. Scales are derived
// from records themselves, so every render carries its own inversion.
func Scatter(records []review.Record, width, height int) ScatterView {
	width, height = max(width, 2), max(height, 2)
	view := ScatterView{Width: width, Height: height}
	if len(records) == 0 {
		view.Empty = true
		return view
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	for _, r := range records {
		x := float64(r.Date.Unix())
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, float64(r.TextLength))
	}
	minX = math.Floor(minX/secondsPerDay) * secondsPerDay
	maxX = math.Ceil(maxX/secondsPerDay) * secondsPerDay
	if minX == maxX {
		minX -= secondsPerDay
		maxX += secondsPerDay
	}
	if maxY == 0 {
		maxY = 1
	}

	view.X = LinearScale{Domain: [2]float64{minX, maxX}, Range: [2]float64{0, float64(width - 1)}}
	view.Y = LinearScale{Domain: [2]float64{0, maxY}, Range: [2]float64{float64(height - 1), 0}}.Nice(10)

	view.Points = make([]Point, len(records))
	for i, r := range records {
		x, y := float64(r.Date.Unix()), float64(r.TextLength)
		view.Points[i] = Point{
			X:        x,
			Y:        y,
			Col:      int(math.Round(view.X.Scale(x))),
			Row:      int(math.Round(view.Y.Scale(y))),
			Rating:   r.Rating,
			Category: r.Category,
			DateKey:  r.DateKey,
		}
	}
	return view
}

// Render produces a full frame for the working set.
func Render(working []review.Record, total, bins, width, height int) Frame {
	return Frame{
		Pie:       Pie(working),
		Histogram: Histogram(working, bins),
		Scatter:   Scatter(working, width, height),
		Total:     total,
		Filtered:  len(working),
	}
}
