package session

import (
	"github.com/sadopc/reviewdash/internal/filter"
	"github.com/sadopc/reviewdash/internal/render"
)

// ScreenToDomain converts a drag over the scatter plot into a domain
// rectangle using the scales of view, the plot that was on screen. A drag
// with zero width or height, or one over an empty plot, yields false.
//
// Each cell covers half a cell either side of its centre, so the rectangle
// is widened by 0.5 cells to include points drawn in the edge cells.
func ScreenToDomain(view render.ScatterView, b BrushScreen) (filter.Rect, bool) {
	if view.Empty {
		return filter.Rect{}, false
	}
	c0, c1 := order(b.X0, b.X1)
	r0, r1 := order(b.Y0, b.Y1)
	c0, c1 = clamp(c0, 0, view.Width-1), clamp(c1, 0, view.Width-1)
	r0, r1 = clamp(r0, 0, view.Height-1), clamp(r1, 0, view.Height-1)
	if c0 == c1 || r0 == r1 {
		return filter.Rect{}, false
	}

	rect := filter.Rect{
		X0: view.X.Invert(float64(c0) - 0.5),
		X1: view.X.Invert(float64(c1) + 0.5),
		// rows grow downward, so the bottom row is the low end of Y
		Y0: view.Y.Invert(float64(r1) + 0.5),
		Y1: view.Y.Invert(float64(r0) - 0.5),
	}
	rect = rect.Normalize()
	// widening must not step outside the plotted domain
	rect.X0, rect.X1 = within(rect.X0, view.X.Domain), within(rect.X1, view.X.Domain)
	rect.Y0, rect.Y1 = within(rect.Y0, view.Y.Domain), within(rect.Y1, view.Y.Domain)
	return rect, true
}

func within(v float64, domain [2]float64) float64 {
	lo, hi := min(domain[0], domain[1]), max(domain[0], domain[1])
	return max(lo, min(hi, v))
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
