package hist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/decibelcooper/dqmplot/internal/store"
)

// H2 is a two-dimensional histogram. It implements plotter.GridXYZ.
type H2 struct {
	XEdges []float64
	YEdges []float64
	Values []float64 // Values[i*ny+j] for x bin i, y bin j
}

func Load2D(st store.Store, path string, scale float64) (*H2, error) {
	e, err := st.Get(path)
	if err != nil {
		return nil, err
	}
	if e.Kind != store.Count2D {
		return nil, fmt.Errorf("hist: %q is a %v, not a 2D histogram", path, e.Kind)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	h := &H2{
		XEdges: append([]float64(nil), e.Edges...),
		YEdges: append([]float64(nil), e.YEdges...),
		Values: append([]float64(nil), e.Values...),
	}
	if scale != 0 && scale != 1 {
		floats.Scale(scale, h.Values)
	}
	return h, nil
}

func (h *H2) Dims() (c, r int) {
	return len(h.XEdges) - 1, len(h.YEdges) - 1
}

func (h *H2) Z(c, r int) float64 {
	_, ny := h.Dims()
	return h.Values[c*ny+r]
}

func (h *H2) X(c int) float64 {
	return (h.XEdges[c] + h.XEdges[c+1]) / 2
}

func (h *H2) Y(r int) float64 {
	return (h.YEdges[r] + h.YEdges[r+1]) / 2
}

// At returns the content of the bin containing (x, y), or 0 outside the
// histogram.
func (h *H2) At(x, y float64) float64 {
	i, j := findBin(h.XEdges, x), findBin(h.YEdges, y)
	if i < 0 || j < 0 {
		return 0
	}
	return h.Z(i, j)
}

func (h *H2) Sum() float64 {
	return floats.Sum(h.Values)
}

func (h *H2) Max() float64 {
	if len(h.Values) == 0 {
		return 0
	}
	return floats.Max(h.Values)
}

// MinNonZero returns the smallest non-zero content, or 0 if every bin is
// empty.
func (h *H2) MinNonZero() float64 {
	min := math.Inf(1)
	for _, v := range h.Values {
		if v != 0 && v < min {
			min = v
		}
	}
	if math.IsInf(min, 1) {
		return 0
	}
	return min
}

func findBin(edges []float64, x float64) int {
	for i := 0; i+1 < len(edges); i++ {
		if x >= edges[i] && x < edges[i+1] {
			return i
		}
	}
	return -1
}
