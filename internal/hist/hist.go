// Package hist holds the binned distributions drawn by the plotters and the
// arithmetic applied to them.
package hist

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/gonum/floats"

	"github.com/decibelcooper/dqmplot/internal/store"
)

// H1 is a one-dimensional histogram with N bins.
type H1 struct {
	Edges  []float64 // N+1
	Values []float64
	Errors []float64
}

// Load reads the one-dimensional histogram stored under path. A non-zero
// scale multiplies values and errors, e.g. 1/N_events.
func Load(st store.Store, path string, scale float64) (*H1, error) {
	e, err := st.Get(path)
	if err != nil {
		return nil, err
	}
	return FromEntry(e, scale)
}

func FromEntry(e store.Entry, scale float64) (*H1, error) {
	if e.Kind != store.Count1D && e.Kind != store.Profile {
		return nil, fmt.Errorf("hist: %q is a %v, not a 1D histogram", e.Path, e.Kind)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	h := &H1{
		Edges:  append([]float64(nil), e.Edges...),
		Values: append([]float64(nil), e.Values...),
		Errors: append([]float64(nil), e.Errors...),
	}
	if h.Errors == nil || len(h.Errors) != len(h.Values) {
		h.Errors = make([]float64, len(h.Values))
		for i, v := range h.Values {
			h.Errors[i] = math.Sqrt(math.Abs(v))
		}
	}
	if scale != 0 && scale != 1 {
		floats.Scale(scale, h.Values)
		floats.Scale(scale, h.Errors)
	}
	return h, nil
}

func (h *H1) Len() int { return len(h.Values) }

func (h *H1) Centers() []float64 {
	c := make([]float64, h.Len())
	for i := range c {
		c[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return c
}

func (h *H1) Widths() []float64 {
	w := make([]float64, h.Len())
	for i := range w {
		w[i] = h.Edges[i+1] - h.Edges[i]
	}
	return w
}

func (h *H1) Sum() float64 {
	return floats.Sum(h.Values)
}

// Max returns the largest bin content, or 0 for a histogram without bins.
func (h *H1) Max() float64 {
	if h.Len() == 0 {
		return 0
	}
	return floats.Max(h.Values)
}

// Bin returns the index of the bin containing x, or -1.
func (h *H1) Bin(x float64) int {
	for i := 0; i < h.Len(); i++ {
		if x >= h.Edges[i] && x < h.Edges[i+1] {
			return i
		}
	}
	return -1
}

// Plotter interfaces.

func (h *H1) XY(i int) (float64, float64) {
	return (h.Edges[i] + h.Edges[i+1]) / 2, h.Values[i]
}

func (h *H1) XError(i int) (float64, float64) {
	hw := (h.Edges[i+1] - h.Edges[i]) / 2
	return hw, hw
}

func (h *H1) YError(i int) (float64, float64) {
	return h.Errors[i], h.Errors[i]
}

// Points returns the bins with a finite value as points with symmetric
// errors.
func (h *H1) Points() *Points {
	p := &Points{}
	widths := h.Widths()
	for i, v := range h.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		hw := widths[i] / 2
		p.X = append(p.X, h.Edges[i]+hw)
		p.Y = append(p.Y, v)
		p.XErr = append(p.XErr, [2]float64{hw, hw})
		p.YErr = append(p.YErr, [2]float64{h.Errors[i], h.Errors[i]})
	}
	return p
}

// H1D converts h into an hbook histogram with the same binning.
func (h *H1) H1D() *hbook.H1D {
	hh := hbook.NewH1DFromEdges(h.Edges)
	for i, x := range h.Centers() {
		hh.Fill(x, h.Values[i])
	}
	return hh
}

// Ratio divides num by den bin by bin, propagating uncorrelated errors.
// Bins with an empty denominator are NaN with zero error. A nil den yields
// the ratio of num with itself: ones with the relative errors of num.
func Ratio(num, den *H1) (*H1, error) {
	r := &H1{
		Edges:  append([]float64(nil), num.Edges...),
		Values: make([]float64, num.Len()),
		Errors: make([]float64, num.Len()),
	}

	if den == nil {
		for i, v := range num.Values {
			r.Values[i] = 1
			if v != 0 {
				r.Errors[i] = num.Errors[i] / v
			}
		}
		return r, nil
	}

	if den.Len() != num.Len() {
		return nil, fmt.Errorf("hist: ratio of histograms with %d and %d bins", num.Len(), den.Len())
	}
	for i := range r.Values {
		n, d := num.Values[i], den.Values[i]
		if d == 0 {
			r.Values[i] = math.NaN()
			continue
		}
		r.Values[i] = n / d
		r.Errors[i] = math.Hypot(num.Errors[i]/d, n*den.Errors[i]/(d*d))
	}
	return r, nil
}

// Add sums a and b bin by bin, adding errors in quadrature.
func Add(a, b *H1) (*H1, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("hist: sum of histograms with %d and %d bins", a.Len(), b.Len())
	}
	s := &H1{
		Edges:  append([]float64(nil), a.Edges...),
		Values: make([]float64, a.Len()),
		Errors: make([]float64, a.Len()),
	}
	floats.AddTo(s.Values, a.Values, b.Values)
	for i := range s.Errors {
		s.Errors[i] = math.Hypot(a.Errors[i], b.Errors[i])
	}
	return s, nil
}

// XLimits returns the x range covering the non-empty bins of h with a
// margin of 3.75% of that range on each side, measured in decades when log
// is set. ok is false for an empty histogram.
func XLimits(h *H1, log bool) (lo, hi float64, ok bool) {
	if h == nil || h.Sum() <= 0 {
		return 0, 0, false
	}

	first, last := -1, -1
	for i, v := range h.Values {
		if v > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	lo, hi = h.Edges[first], h.Edges[last+1]

	if log {
		factor := math.Pow(10, math.Log10(hi/lo)/20*0.75)
		return lo / factor, hi * factor, true
	}
	d := (hi - lo) / 20 * 0.75
	return lo - d, hi + d, true
}

// UnionLimits merges two x ranges, ignoring the ones not set.
func UnionLimits(lo1, hi1 float64, ok1 bool, lo2, hi2 float64, ok2 bool) (float64, float64, bool) {
	switch {
	case ok1 && ok2:
		return math.Min(lo1, lo2), math.Max(hi1, hi2), true
	case ok1:
		return lo1, hi1, true
	case ok2:
		return lo2, hi2, true
	}
	return 0, 0, false
}
