package plotter

import (
	"fmt"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/hist"
	"github.com/decibelcooper/dqmplot/internal/store"
)

// LayerPairStats counts the SimDoublets of all layer pairs and of the
// layer pairs used in the reconstruction.
type LayerPairStats struct {
	Total      float64
	Reco       float64
	RecoNoSkip float64
}

func (s LayerPairStats) String() string {
	return fmt.Sprintf("Nrec / Ntot = %f / %f = %f\nNrec (no skip) / Ntot = %f / %f = %f",
		s.Reco, s.Total, s.Reco/s.Total,
		s.RecoNoSkip, s.Total, s.RecoNoSkip/s.Total,
	)
}

// LayerPairs draws the number of SimDoublets per inner and outer layer and
// marks the layer pairs used in the reconstruction. noSkip are the pairs
// of neighbouring layers among them.
func LayerPairs(cfg Config, st store.Store, pairs, noSkip [][2]int) (string, LayerPairStats, error) {
	var stats LayerPairStats

	h, err := hist.Load2D(st, "general/layerPairs", cfg.scale())
	if err != nil {
		return "", stats, fmt.Errorf("could not load layer pairs: %w", err)
	}

	stats.Total = h.Sum()
	for _, lp := range pairs {
		stats.Reco += h.At(float64(lp[0]), float64(lp[1]))
	}
	for _, lp := range noSkip {
		stats.RecoNoSkip += h.At(float64(lp[0]), float64(lp[1]))
	}

	p := cfg.newPlot()
	p.X.Label.Text = "Inner layer ID"
	p.Y.Label.Text = "Outer layer ID"

	bar := addHeatMap(p, h, 0, h.Max())
	bar.Y.Label.Text = "Number of SimDoublets" + cfg.perEvent()

	if len(pairs) > 0 {
		xys := make(plotter.XYs, len(pairs))
		for i, lp := range pairs {
			xys[i].X, xys[i].Y = float64(lp[0]), float64(lp[1])
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return "", stats, fmt.Errorf("could not mark layer pairs: %w", err)
		}
		s.GlyphStyle.Color = dqmplot.FakeColor
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(s)
		p.Legend.Add("layer pairs in reconstruction", s)
	}
	if err := markLayerBoxes(p); err != nil {
		return "", stats, err
	}

	fname := cfg.path("general/layerPairs")
	return fname, stats, saveHeatMap(fname, p, bar)
}
