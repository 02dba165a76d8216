package hist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// OneSigma is the coverage of a one standard deviation interval.
const OneSigma = 0.682689492137086

// ClopperPearson returns the efficiency k/n and the bounds of its central
// Clopper-Pearson interval with coverage cl. The result is NaN for n <= 0.
func ClopperPearson(k, n, cl float64) (eff, lo, hi float64) {
	if n <= 0 {
		return math.NaN(), math.NaN(), math.NaN()
	}
	k = math.Max(0, math.Min(k, n))
	alpha := (1 - cl) / 2

	eff = k / n
	lo, hi = 0, 1
	if k > 0 {
		lo = distuv.Beta{Alpha: k, Beta: n - k + 1}.Quantile(alpha)
	}
	if k < n {
		hi = distuv.Beta{Alpha: k + 1, Beta: n - k}.Quantile(1 - alpha)
	}
	return eff, lo, hi
}

// Efficiency is the ratio of a passing and a total histogram with
// asymmetric binomial uncertainties.
type Efficiency struct {
	Edges  []float64
	Values []float64
	Low    []float64 // distance from the value to the lower bound
	High   []float64 // distance from the value to the upper bound
}

// NewEfficiency computes pass/total per bin with a one sigma
// Clopper-Pearson interval. Empty total bins are NaN.
func NewEfficiency(pass, total *H1) (*Efficiency, error) {
	if pass.Len() != total.Len() {
		return nil, fmt.Errorf("hist: efficiency of histograms with %d and %d bins", pass.Len(), total.Len())
	}

	n := total.Len()
	e := &Efficiency{
		Edges:  append([]float64(nil), total.Edges...),
		Values: make([]float64, n),
		Low:    make([]float64, n),
		High:   make([]float64, n),
	}
	for i := 0; i < n; i++ {
		eff, lo, hi := ClopperPearson(pass.Values[i], total.Values[i], OneSigma)
		e.Values[i] = eff
		if math.IsNaN(eff) {
			continue
		}
		e.Low[i] = eff - lo
		e.High[i] = hi - eff
	}
	return e, nil
}

// ZeroOutside removes the uncertainty of empty bins lying entirely outside
// [min, max].
func (e *Efficiency) ZeroOutside(min, max float64) {
	for i, v := range e.Values {
		outside := e.Edges[i+1] <= min || e.Edges[i] >= max
		if outside && v == 0 {
			e.Low[i] = 0
			e.High[i] = 0
		}
	}
}

// Points returns the bins with a defined efficiency.
func (e *Efficiency) Points() *Points {
	p := &Points{}
	for i, v := range e.Values {
		if math.IsNaN(v) {
			continue
		}
		hw := (e.Edges[i+1] - e.Edges[i]) / 2
		p.X = append(p.X, e.Edges[i]+hw)
		p.Y = append(p.Y, v)
		p.XErr = append(p.XErr, [2]float64{hw, hw})
		p.YErr = append(p.YErr, [2]float64{e.Low[i], e.High[i]})
	}
	return p
}

// Points is a set of points with asymmetric errors. It implements the
// plotter XYer, XErrorer and YErrorer interfaces.
type Points struct {
	X, Y []float64
	XErr [][2]float64
	YErr [][2]float64
}

func (p *Points) Len() int { return len(p.X) }

func (p *Points) XY(i int) (float64, float64) { return p.X[i], p.Y[i] }

func (p *Points) XError(i int) (float64, float64) { return p.XErr[i][0], p.XErr[i][1] }

func (p *Points) YError(i int) (float64, float64) { return p.YErr[i][0], p.YErr[i][1] }

// PassRegion tailors a histogram to the region passing a cut on x. An
// infinite bound means the cut has no limit on that side. The returned
// edges are clipped to the cut value.
func PassRegion(values, edges []float64, min, max float64) ([]float64, []float64) {
	passEdges := append([]float64(nil), edges...)
	passValues := append([]float64(nil), values...)

	if !math.IsInf(max, 1) && passEdges[len(passEdges)-1] > max {
		iMax := 0
		for iMax < len(passEdges) && passEdges[iMax] < max {
			iMax++
		}
		passEdges = append(passEdges[:iMax:iMax], math.Min(max, passEdges[iMax]))
		passValues = passValues[:iMax]
	}

	if !math.IsInf(min, -1) && passEdges[0] < min {
		iMin := 0
		for iMin < len(passEdges) && passEdges[iMin] <= min {
			iMin++
		}
		iMin--
		passEdges = append([]float64{math.Max(min, passEdges[iMin])}, passEdges[iMin+1:]...)
		passValues = passValues[iMin:]
	}

	return passValues, passEdges
}
