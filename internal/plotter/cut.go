package plotter

import (
	"fmt"
	"image/color"
	"math"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/cuts"
	"github.com/decibelcooper/dqmplot/internal/hist"
	"github.com/decibelcooper/dqmplot/internal/store"
)

// CutParameter plots the distribution of the parameter a cut is applied
// on, for all SimDoublets, for those passing all cuts and for the doublets
// of true and fake reconstructed tracks. A lower panel shows the
// SimDoublet efficiency and the fake rate per bin. It returns the file the
// plot was saved to.
func CutParameter(cfg Config, st store.Store, cut cuts.CellCut) (string, error) {
	sub, err := cut.Subfolder()
	if err != nil {
		return "", err
	}
	load := func(dir, prefix string) (*hist.H1, error) {
		return hist.Load(st, dir+"/"+sub+prefix+cut.Name, 1)
	}

	total, err := load("SimPixelTracks", "")
	if err != nil {
		return "", fmt.Errorf("could not load %s distribution: %w", cut.Name, err)
	}
	pass, err := load("SimPixelTracks", "pass_")
	if err != nil {
		return "", fmt.Errorf("could not load %s distribution: %w", cut.Name, err)
	}
	trueReco, err := load("TruePixelTracks", "pass_")
	if err != nil {
		return "", fmt.Errorf("could not load %s distribution: %w", cut.Name, err)
	}
	fake, err := load("FakePixelTracks", "")
	if err != nil {
		return "", fmt.Errorf("could not load %s distribution: %w", cut.Name, err)
	}

	top := cfg.newPlot()
	bottom := cfg.newPlot()
	bottom.Title.Text = ""
	if cut.Log {
		setLogX(top, total.Edges)
		setLogX(bottom, total.Edges)
	}

	subject := cut.Subject()
	simSubject := "Sim" + subject

	if title := cut.LegendTitle(); title != "" {
		top.Legend.Add(title)
	}

	// SimDoublets
	if total.Sum() > 0 {
		if cut.Type() != cuts.None {
			values, edges := hist.PassRegion(total.Values, total.Edges, cut.Min, cut.Max)
			if len(values) > 0 {
				region := stairs(&hist.H1{Edges: edges, Values: values, Errors: make([]float64, len(values))}, nil, dqmplot.Fade(dqmplot.SimColor, 0.15))
				top.Add(region)
				top.Legend.Add(simSubject+"s (pass this cut)", region)
			}
		}
		if pass.Sum() > 0 {
			h := stairs(pass, dqmplot.PassColor, dqmplot.Fade(dqmplot.PassColor, 0.3))
			top.Add(h)
			top.Legend.Add(simSubject+"s (pass all cuts)", h)
		} else {
			top.Legend.Add("no "+simSubject+" passed all cuts", lineThumb(draw.LineStyle{Color: dqmplot.PassColor, Width: vg.Points(1.5)}))
		}
		h := stairs(total, dqmplot.SimColor, nil)
		top.Add(h)
		top.Legend.Add(simSubject+"s (all)", h)
	} else {
		top.Legend.Add("no "+simSubject+"s", lineThumb(draw.LineStyle{Color: dqmplot.SimColor, Width: vg.Points(1.5)}))
	}

	// doublets of reconstructed tracks
	for _, reco := range []struct {
		h     *hist.H1
		name  string
		color color.Color
	}{
		{trueReco, "true", dqmplot.TrueColor},
		{fake, "fake", dqmplot.FakeColor},
	} {
		label := fmt.Sprintf("%ss of %s PixelTracks", subject, reco.name)
		if reco.h.Sum() <= 0 {
			top.Legend.Add("no "+label, lineThumb(draw.LineStyle{Color: reco.color, Width: vg.Points(1)}))
			continue
		}
		h := stairs(reco.h, reco.color, dqmplot.Fade(reco.color, 0.25))
		h.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		top.Add(h)
		top.Legend.Add(label, h)
	}

	top.Y.Label.Text = "#" + simSubject + "s" + cfg.perEvent() + cut.YLabelSuffix
	top.Y.Tick.Marker = dqmplot.PerEventTicks{Ticker: dqmplot.PreciseTicks{NSuggestedTicks: 5}, NumEvents: cfg.NumEvents}
	top.X.Tick.Label.Color = color.Transparent

	// efficiency and fake rate
	cutMin, cutMax := cut.Min, cut.Max
	if total.Sum() > 0 {
		eff, err := hist.NewEfficiency(pass, total)
		if err != nil {
			return "", err
		}
		eff.ZeroOutside(cutMin, cutMax)
		if _, err := errorPoints(bottom, eff.Points(), dqmplot.PassColor); err != nil {
			return "", err
		}
	}
	recoAll, err := hist.Add(trueReco, fake)
	if err != nil {
		return "", err
	}
	if recoAll.Sum() > 0 {
		rate, err := hist.NewEfficiency(fake, recoAll)
		if err != nil {
			return "", err
		}
		rate.ZeroOutside(cutMin, cutMax)
		if _, err := errorPoints(bottom, rate.Points(), dqmplot.FakeColor); err != nil {
			return "", err
		}
	}
	hline(bottom, 0, color.Gray{Y: 0x80})
	hline(bottom, 1, color.Gray{Y: 0x80})
	bottom.Y.Min, bottom.Y.Max = -0.15, 1.15
	bottom.Y.Label.Text = simSubject + " eff. / fake rate"
	bottom.X.Label.Text = cut.Label

	// x range
	xmin, xmax := total.Edges[0], total.Edges[len(total.Edges)-1]
	if cfg.LimitX {
		lo, hi, ok := hist.XLimits(total, cut.Log)
		tlo, thi, tok := hist.XLimits(trueReco, cut.Log)
		flo, fhi, fok := hist.XLimits(fake, cut.Log)
		lo, hi, ok = hist.UnionLimits(lo, hi, ok, tlo, thi, tok)
		lo, hi, ok = hist.UnionLimits(lo, hi, ok, flo, fhi, fok)
		if ok {
			xmin, xmax = lo, hi
		}
	}
	for _, p := range []*hplot.Plot{top, bottom} {
		p.X.Min, p.X.Max = xmin, xmax
	}

	ymax := math.Max(total.Max(), recoAll.Max())
	if err := addCutValues(top, cut, xmin, xmax, ymax/2); err != nil {
		return "", err
	}

	fname := cut.OutputPath(cfg.Dir, cfg.format())
	w, h := width, 1.3*height
	err = saveCanvas(fname, w, h, func(dc draw.Canvas) {
		top.Draw(draw.Crop(dc, 0, 0, 0.3*h, 0))
		bottom.Draw(draw.Crop(dc, 0, 0, 0, -0.7*h))
	})
	return fname, err
}

// addCutValues draws the cut values as dashed vertical lines, or as
// arrows at the border of the plot if they lie outside [xmin, xmax].
func addCutValues(p *hplot.Plot, cut cuts.CellCut, xmin, xmax, ymid float64) error {
	var bounds []cuts.Type
	switch cut.Type() {
	case cuts.Min:
		bounds = []cuts.Type{cuts.Min}
	case cuts.Max:
		bounds = []cuts.Type{cuts.Max}
	case cuts.Both:
		bounds = []cuts.Type{cuts.Min, cuts.Max}
	}

	style := draw.LineStyle{
		Color:  dqmplot.CutColor,
		Width:  vg.Points(1.5),
		Dashes: []vg.Length{vg.Points(5), vg.Points(3)},
	}

	left, right := arrowPositions(p, xmin, xmax)
	var arrows plotter.XYLabels
	for _, t := range bounds {
		v := cut.Min
		if t == cuts.Max {
			v = cut.Max
		}
		label := cut.ValueLabel(t)

		switch {
		case v >= xmin && v <= xmax:
			l := hplot.VLine(v, nil, nil)
			l.Line = style
			p.Add(l)
			p.Legend.Add(label, lineThumb(style))
		case v > xmax:
			arrows.XYs = append(arrows.XYs, plotter.XY{X: right, Y: ymid})
			arrows.Labels = append(arrows.Labels, "→")
			p.Legend.Add(label+" (→)")
		default:
			arrows.XYs = append(arrows.XYs, plotter.XY{X: left, Y: ymid})
			arrows.Labels = append(arrows.Labels, "←")
			p.Legend.Add(label+" (←)")
		}
	}

	if len(arrows.XYs) == 0 {
		return nil
	}
	l, err := plotter.NewLabels(arrows)
	if err != nil {
		return fmt.Errorf("could not draw cut arrows: %w", err)
	}
	for i := range l.TextStyle {
		l.TextStyle[i].Color = dqmplot.CutColor
		l.TextStyle[i].XAlign = text.XCenter
	}
	p.Add(l)
	return nil
}

// arrowPositions keeps the arrows 3.75% of the x range away from the
// borders.
func arrowPositions(p *hplot.Plot, xmin, xmax float64) (float64, float64) {
	if _, ok := p.X.Scale.(plot.LogScale); ok && xmin > 0 {
		f := math.Pow(10, math.Log10(xmax/xmin)/20*0.75)
		return xmin * f, xmax / f
	}
	d := (xmax - xmin) / 20 * 0.75
	return xmin + d, xmax - d
}
