package store

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/groot/rbytes"
	"go-hep.org/x/hep/groot/rcont"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/rtypes"
	"go-hep.org/x/hep/groot/rvers"
)

// error options of a TProfile
const (
	errorMean int32 = iota
	errorSpread
	errorSpreadI
	errorSpreadG
)

// profile mirrors the streamed layout of a TProfile. rhist.Profile1D keeps
// its per-bin sums unexported, so they are recovered by streaming the
// object through a buffer.
type profile struct {
	h1d        *rhist.H1D   // sum of w*y per bin, sumw2 holds sum of w*y*y
	binEntries rcont.ArrayD // sum of w per bin
	errMode    int32
	ymin       float64
	ymax       float64
	sumwy      float64
	sumwy2     float64
	binSumw2   rcont.ArrayD // sum of w*w per bin, empty for unit weights
}

func decodeProfile(p *rhist.Profile1D) (*profile, error) {
	w := rbytes.NewWBuffer(nil, nil, 0, nil)
	if _, err := p.MarshalROOT(w); err != nil {
		return nil, fmt.Errorf("could not stream profile: %w", err)
	}

	var out profile
	r := rbytes.NewRBuffer(w.Bytes(), nil, 0, nil)
	if err := out.UnmarshalROOT(r); err != nil {
		return nil, fmt.Errorf("could not decode profile: %w", err)
	}
	return &out, nil
}

func (*profile) Class() string   { return "TProfile" }
func (*profile) RVersion() int16 { return rvers.Profile }

func (p *profile) MarshalROOT(w *rbytes.WBuffer) (int, error) {
	if w.Err() != nil {
		return 0, w.Err()
	}

	hdr := w.WriteHeader(p.Class(), p.RVersion())
	w.WriteObject(p.h1d)
	w.WriteObject(&p.binEntries)
	w.WriteI32(p.errMode)
	w.WriteF64(p.ymin)
	w.WriteF64(p.ymax)
	w.WriteF64(p.sumwy)
	w.WriteF64(p.sumwy2)
	w.WriteObject(&p.binSumw2)

	return w.SetHeader(hdr)
}

func (p *profile) UnmarshalROOT(r *rbytes.RBuffer) error {
	if r.Err() != nil {
		return r.Err()
	}

	if p.h1d == nil {
		p.h1d = rtypes.Factory.Get("TH1D")().Interface().(*rhist.H1D)
	}

	hdr := r.ReadHeader(p.Class())
	if hdr.Vers != rvers.Profile {
		return fmt.Errorf("unsupported TProfile version %d", hdr.Vers)
	}
	r.ReadObject(p.h1d)
	r.ReadObject(&p.binEntries)
	p.errMode = r.ReadI32()
	p.ymin = r.ReadF64()
	p.ymax = r.ReadF64()
	p.sumwy = r.ReadF64()
	p.sumwy2 = r.ReadF64()
	r.ReadObject(&p.binSumw2)

	r.CheckHeader(hdr)
	return r.Err()
}

// bins returns the bin edges, the mean of every bin and the error on it.
// Under- and overflow bins are dropped.
func (p *profile) bins() (edges, means, errs []float64) {
	var (
		n      = p.h1d.NbinsX()
		sumwy  = p.h1d.Array().Data
		sumwy2 = p.h1d.SumW2s()
	)
	edges = make([]float64, n+1)
	means = make([]float64, n)
	errs = make([]float64, n)
	for i := 0; i < n; i++ {
		edges[i] = p.h1d.XBinLowEdge(i + 1)
		means[i], errs[i] = p.bin(i+1, at(sumwy, i+1), at(sumwy2, i+1))
	}
	if n > 0 {
		edges[n] = p.h1d.XBinLowEdge(n) + p.h1d.XBinWidth(n)
	}
	return edges, means, errs
}

func (p *profile) bin(i int, sumwy, sumwy2 float64) (mean, err float64) {
	sumw := at(p.binEntries.Data, i)
	if sumw == 0 {
		return 0, 0
	}

	mean = sumwy / sumw
	spread := math.Sqrt(math.Abs(sumwy2/sumw - mean*mean))

	neff := sumw
	if sumw2 := at(p.binSumw2.Data, i); sumw2 > 0 {
		neff = sumw * sumw / sumw2
	}

	switch p.errMode {
	case errorSpread:
		return mean, spread
	case errorSpreadG:
		return mean, 1 / math.Sqrt(sumw)
	case errorSpreadI:
		if spread == 0 {
			spread = 1 / math.Sqrt(12)
		}
	}
	return mean, spread / math.Sqrt(neff)
}

func at(data []float64, i int) float64 {
	if i < 0 || i >= len(data) {
		return 0
	}
	return data[i]
}
