package hist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/dqmplot/internal/store"
)

func TestLoadScale(t *testing.T) {
	st := store.NewMemory(store.NewCount1D("h", []float64{0, 1, 2}, []float64{4, 9}, nil))

	h, err := Load(st, "h", 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4.5}, h.Values)
	assert.Equal(t, []float64{1, 1.5}, h.Errors)
	assert.Equal(t, 6.5, h.Sum())
	assert.Equal(t, []float64{0.5, 1.5}, h.Centers())
	assert.Equal(t, []float64{1, 1}, h.Widths())

	_, err = Load(st, "missing", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoadWrongKind(t *testing.T) {
	st := store.NewMemory(store.NewCount2D("h2", []float64{0, 1}, []float64{0, 1}, []float64{1}))
	_, err := Load(st, "h2", 1)
	assert.Error(t, err)

	h, err := Load2D(st, "h2", 2)
	require.NoError(t, err)
	assert.Equal(t, 2.0, h.Sum())
}

func TestRatio(t *testing.T) {
	num := &H1{Edges: []float64{0, 1, 2, 3}, Values: []float64{1, 2, 0}, Errors: []float64{1, 1, 0}}
	den := &H1{Edges: []float64{0, 1, 2, 3}, Values: []float64{2, 0, 4}, Errors: []float64{1, 0, 2}}

	r, err := Ratio(num, den)
	require.NoError(t, err)
	assert.Equal(t, 0.5, r.Values[0])
	assert.InDelta(t, 0.5*math.Sqrt(1+0.25), r.Errors[0], 1e-12)
	assert.True(t, math.IsNaN(r.Values[1]))
	assert.Equal(t, 0.0, r.Errors[1])

	self, err := Ratio(num, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, self.Values)
	assert.Equal(t, []float64{1, 0.5, 0}, self.Errors)

	pts := r.Points()
	require.Equal(t, 2, pts.Len())
	x, y := pts.XY(1)
	assert.Equal(t, 2.5, x)
	assert.Equal(t, 0.0, y)

	_, err = Ratio(num, &H1{Edges: []float64{0, 1}, Values: []float64{1}, Errors: []float64{1}})
	assert.Error(t, err)
}

func TestAdd(t *testing.T) {
	a := &H1{Edges: []float64{0, 1, 2}, Values: []float64{1, 2}, Errors: []float64{3, 0}}
	b := &H1{Edges: []float64{0, 1, 2}, Values: []float64{3, 4}, Errors: []float64{4, 1}}
	s, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 6}, s.Values)
	assert.Equal(t, []float64{5, 1}, s.Errors)
}

func TestXLimits(t *testing.T) {
	h := &H1{Edges: []float64{0, 1, 2, 3, 4}, Values: []float64{0, 1, 2, 0}}
	lo, hi, ok := XLimits(h, false)
	require.True(t, ok)
	assert.InDelta(t, 0.925, lo, 1e-12)
	assert.InDelta(t, 3.075, hi, 1e-12)

	h = &H1{Edges: []float64{0.1, 1, 10}, Values: []float64{1, 1}}
	lo, hi, ok = XLimits(h, true)
	require.True(t, ok)
	f := math.Pow(10, 2.0/20*0.75)
	assert.InDelta(t, 0.1/f, lo, 1e-12)
	assert.InDelta(t, 10*f, hi, 1e-12)

	_, _, ok = XLimits(&H1{Edges: []float64{0, 1}, Values: []float64{0}}, false)
	assert.False(t, ok)
}

func TestUnionLimits(t *testing.T) {
	lo, hi, ok := UnionLimits(0, 2, true, 1, 3, true)
	assert.True(t, ok)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi, ok = UnionLimits(0, 0, false, 1, 3, true)
	assert.True(t, ok)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)

	_, _, ok = UnionLimits(0, 0, false, 0, 0, false)
	assert.False(t, ok)
}

func TestH2(t *testing.T) {
	h := &H2{
		XEdges: []float64{0, 1, 2},
		YEdges: []float64{0, 10, 20, 30},
		Values: []float64{0, 1, 2, 3, 4, 5},
	}
	c, r := h.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 3, r)
	assert.Equal(t, 5.0, h.Z(1, 2))
	assert.Equal(t, 0.5, h.X(0))
	assert.Equal(t, 25.0, h.Y(2))
	assert.Equal(t, 3.0, h.At(1.5, 5))
	assert.Equal(t, 0.0, h.At(3, 5))
	assert.Equal(t, 5.0, h.Max())
	assert.Equal(t, 1.0, h.MinNonZero())
}

func TestClopperPearson(t *testing.T) {
	eff, lo, hi := ClopperPearson(5, 10, OneSigma)
	assert.Equal(t, 0.5, eff)
	assert.Less(t, lo, 0.5)
	assert.Greater(t, hi, 0.5)
	// symmetric around one half
	assert.InDelta(t, 0.5-lo, hi-0.5, 1e-6)

	eff, lo, hi = ClopperPearson(0, 10, OneSigma)
	assert.Equal(t, 0.0, eff)
	assert.Equal(t, 0.0, lo)
	assert.Greater(t, hi, 0.0)

	eff, lo, hi = ClopperPearson(10, 10, OneSigma)
	assert.Equal(t, 1.0, eff)
	assert.Less(t, lo, 1.0)
	assert.Equal(t, 1.0, hi)

	eff, _, _ = ClopperPearson(0, 0, OneSigma)
	assert.True(t, math.IsNaN(eff))
}

func TestEfficiency(t *testing.T) {
	pass := &H1{Edges: []float64{0, 1, 2, 3}, Values: []float64{5, 0, 0}, Errors: make([]float64, 3)}
	total := &H1{Edges: []float64{0, 1, 2, 3}, Values: []float64{10, 0, 4}, Errors: make([]float64, 3)}

	e, err := NewEfficiency(pass, total)
	require.NoError(t, err)
	assert.Equal(t, 0.5, e.Values[0])
	assert.True(t, math.IsNaN(e.Values[1]))
	assert.Greater(t, e.High[2], 0.0)

	e.ZeroOutside(0, 2)
	assert.Equal(t, 0.0, e.High[2])
	assert.Greater(t, e.High[0], 0.0)

	p := e.Points()
	require.Equal(t, 2, p.Len())
	x, y := p.XY(0)
	assert.Equal(t, 0.5, x)
	assert.Equal(t, 0.5, y)
	xl, xh := p.XError(1)
	assert.Equal(t, 0.5, xl)
	assert.Equal(t, 0.5, xh)
}

func TestPassRegion(t *testing.T) {
	edges := []float64{0, 1, 2, 3}
	values := []float64{10, 20, 30}
	inf := math.Inf(1)

	v, e := PassRegion(values, edges, -inf, 1.5)
	assert.Equal(t, []float64{10, 20}, v)
	assert.Equal(t, []float64{0, 1, 1.5}, e)

	v, e = PassRegion(values, edges, 1.5, inf)
	assert.Equal(t, []float64{20, 30}, v)
	assert.Equal(t, []float64{1.5, 2, 3}, e)

	v, e = PassRegion(values, edges, 0.5, 2.5)
	assert.Equal(t, []float64{10, 20, 30}, v)
	assert.Equal(t, []float64{0.5, 1, 2, 2.5}, e)

	v, e = PassRegion(values, edges, -inf, 10)
	assert.Equal(t, values, v)
	assert.Equal(t, edges, e)

	v, e = PassRegion(values, edges, -inf, 1)
	assert.Equal(t, []float64{10}, v)
	assert.Equal(t, []float64{0, 1}, e)
}
