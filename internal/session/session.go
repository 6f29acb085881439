// Package session owns the filter state for one dashboard run and turns
// user intents into render cycles.
package session

import (
	"fmt"

	"github.com/sadopc/reviewdash/internal/filter"
	"github.com/sadopc/reviewdash/internal/logging"
	"github.com/sadopc/reviewdash/internal/render"
	"github.com/sadopc/reviewdash/internal/review"
)

// Renderer receives every frame the session produces.
type Renderer interface {
	Render(render.Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(render.Frame)

func (f RendererFunc) Render(fr render.Frame) { f(fr) }

// Option configures a Session.
type Option func(*Session)

// WithRenderer attaches r; it is called after every recompute.
func WithRenderer(r Renderer) Option {
	return func(s *Session) { s.renderer = r }
}

// WithBins sets the initial histogram bin count.
func WithBins(n int) Option {
	return func(s *Session) { s.bins = render.ClampBins(n) }
}

// WithPlotSize sets the scatter plot size in cells.
func WithPlotSize(w, h int) Option {
	return func(s *Session) { s.width, s.height = w, h }
}

// Session is the single owner of the filter state. It is not safe for
// concurrent use; callers dispatch from one goroutine.
type Session struct {
	dataset  review.Dataset
	state    *filter.State
	working  []review.Record
	frame    render.Frame
	renderer Renderer

	bins          int
	width, height int
}

// New builds a session over ds with freshly reset filters and renders the
// first frame.
func New(ds review.Dataset, opts ...Option) *Session {
	s := &Session{
		dataset: ds,
		state:   filter.NewState(ds.Records),
		bins:    render.DefaultBins,
		width:   60,
		height:  12,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recompute()
	return s
}

// Dataset returns the full dataset.
func (s *Session) Dataset() review.Dataset { return s.dataset }

// State returns a copy of the current filter state.
func (s *Session) State() *filter.State { return s.state.Clone() }

// Working returns the current working set.
func (s *Session) Working() []review.Record { return s.working }

// Frame returns the last rendered frame.
func (s *Session) Frame() render.Frame { return s.frame }

// Bins returns the histogram bin count.
func (s *Session) Bins() int { return s.bins }

// Dispatch applies in and re-renders. It returns false when the intent was
// a no-op (a degenerate brush, or an unknown intent), in which case nothing
// is recomputed.
func (s *Session) Dispatch(in Intent) (render.Frame, bool) {
	switch in := in.(type) {
	case SetDateRange:
		s.state.SetDateRange(in.Start, in.End)
	case SetActiveCategories:
		s.state.SetActiveCategories(in.Categories)
	case ApplyFilters:
		s.state.SetDateRange(in.Start, in.End)
		s.state.SetActiveCategories(in.Categories)
	case Drill:
		s.state.SetDrillCategory(in.Category)
	case ClearDrill:
		s.state.ClearDrillAndSpatial()
	case BrushScreen:
		rect, ok := ScreenToDomain(s.frame.Scatter, in)
		if !ok || !s.state.SetSpatialSelection(rect) {
			logging.Debugf("brush ignored: %+v", in)
			return s.frame, false
		}
	case SetBrush:
		if !s.state.SetSpatialSelection(in.Rect) {
			logging.Debugf("brush ignored: %+v", in.Rect)
			return s.frame, false
		}
	case Reset:
		s.state.Reset(s.dataset.Records)
	case SetBins:
		s.bins = render.ClampBins(in.N)
		return s.rerender(), true
	default:
		logging.Warnf("unknown intent %T", in)
		return s.frame, false
	}
	logging.Debugf("%s: %s", intentName(in), s.state.Summary())
	return s.recompute(), true
}

// Resize changes the scatter plot size and re-renders.
func (s *Session) Resize(w, h int) render.Frame {
	if w == s.width && h == s.height {
		return s.frame
	}
	s.width, s.height = w, h
	return s.rerender()
}

func (s *Session) recompute() render.Frame {
	s.working = filter.WorkingSet(s.dataset.Records, s.state)
	return s.rerender()
}

func (s *Session) rerender() render.Frame {
	s.frame = render.Render(s.working, len(s.dataset.Records), s.bins, s.width, s.height)
	if s.renderer != nil {
		s.renderer.Render(s.frame)
	}
	return s.frame
}

func intentName(in Intent) string {
	return fmt.Sprintf("%T", in)
}
