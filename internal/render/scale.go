package render

import "math"

// LinearScale maps a continuous domain onto a continuous range.
type LinearScale struct {
	Domain [2]float64
	Range  [2]float64
}

// Scale maps a domain value to the range.
func (s LinearScale) Scale(v float64) float64 {
	d := s.Domain[1] - s.Domain[0]
	if d == 0 {
		return s.Range[0]
	}
	return s.Range[0] + (v-s.Domain[0])/d*(s.Range[1]-s.Range[0])
}

// Invert maps a range value back to the domain.
func (s LinearScale) Invert(px float64) float64 {
	r := s.Range[1] - s.Range[0]
	if r == 0 {
		return s.Domain[0]
	}
	return s.Domain[0] + (px-s.Range[0])/r*(s.Domain[1]-s.Domain[0])
}

// Nice widens the domain to multiples of a round tick step chosen for
// roughly count ticks.
func (s LinearScale) Nice(count int) LinearScale {
	d0, d1 := s.Domain[0], s.Domain[1]
	if d1 < d0 {
		d0, d1 = d1, d0
	}
	step := tickStep(d0, d1, count)
	if step <= 0 {
		return s
	}
	s.Domain = [2]float64{math.Floor(d0/step) * step, math.Ceil(d1/step) * step}
	return s
}

// Ticks returns round values spanning the domain.
func (s LinearScale) Ticks(count int) []float64 {
	d0, d1 := s.Domain[0], s.Domain[1]
	if d1 < d0 {
		d0, d1 = d1, d0
	}
	step := tickStep(d0, d1, count)
	if step <= 0 {
		return []float64{d0}
	}
	var ticks []float64
	for v := math.Ceil(d0/step) * step; v <= d1+step*1e-9; v += step {
		ticks = append(ticks, v)
	}
	return ticks
}

func tickStep(d0, d1 float64, count int) float64 {
	if count < 1 || d1 <= d0 {
		return 0
	}
	raw := (d1 - d0) / float64(count)
	step := math.Pow(10, math.Floor(math.Log10(raw)))
	switch e := raw / step; {
	case e >= math.Sqrt(50):
		step *= 10
	case e >= math.Sqrt(10):
		step *= 5
	case e >= math.Sqrt(2):
		step *= 2
	}
	return step
}
