package plotter

import (
	"fmt"
	"image/color"
	"math"
	"path"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/hist"
	"github.com/decibelcooper/dqmplot/internal/store"
)

// passName returns the name of the histogram of the entries passing all
// cuts.
func passName(name string) string {
	dir, base := path.Split(name)
	return dir + "pass_" + base
}

func loadPair(cfg Config, st store.Store, name string) (total, pass *hist.H1, err error) {
	total, err = hist.Load(st, name, cfg.scale())
	if err != nil {
		return nil, nil, fmt.Errorf("could not load distribution: %w", err)
	}
	pass, err = hist.Load(st, passName(name), cfg.scale())
	if err != nil {
		return nil, nil, fmt.Errorf("could not load distribution: %w", err)
	}
	return total, pass, nil
}

// bars returns one rectangle per value, centered at x[i]+offset.
func bars(x, values []float64, offset, w float64, c color.Color) (*plotter.Polygon, error) {
	rings := make([]plotter.XYer, 0, len(values))
	for i, v := range values {
		lo, hi := x[i]+offset-w/2, x[i]+offset+w/2
		rings = append(rings, plotter.XYs{{X: lo, Y: 0}, {X: lo, Y: v}, {X: hi, Y: v}, {X: hi, Y: 0}})
	}
	poly, err := plotter.NewPolygon(rings...)
	if err != nil {
		return nil, fmt.Errorf("could not draw bars: %w", err)
	}
	poly.Color = c
	poly.LineStyle.Width = 0
	return poly, nil
}

// integerTicks labels the integer values among x.
func integerTicks(x []float64) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, 0, len(x))
	for _, v := range x {
		if v != math.Trunc(v) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.Itoa(int(v))})
	}
	return ticks
}

// DiscreteHist draws the total and passing counts of a discrete quantity
// side by side. xlim restricts the x range if not nil.
func DiscreteHist(cfg Config, st store.Store, name, xLabel, yLabel string, xlim *[2]float64) (string, error) {
	total, pass, err := loadPair(cfg, st, name)
	if err != nil {
		return "", err
	}
	if pass.Len() != total.Len() {
		return "", fmt.Errorf("%s and its passing histogram have %d and %d bins", name, total.Len(), pass.Len())
	}

	p := cfg.newPlot()
	x := total.Centers()
	for i, h := range []struct {
		h     *hist.H1
		label string
		color color.Color
	}{
		{total, "total", dqmplot.SimColor},
		{pass, "passing", dqmplot.PassColor},
	} {
		offset := -1.0 / 6
		if i == 1 {
			offset = 1.0 / 6
		}
		b, err := bars(x, h.h.Values, offset, 1.0/3, h.color)
		if err != nil {
			return "", err
		}
		p.Add(b)
		p.Legend.Add(h.label, b)
	}

	p.X.Tick.Marker = integerTicks(x)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel + cfg.perEvent()
	if xlim != nil {
		p.X.Min, p.X.Max = xlim[0], xlim[1]
	}

	fname := cfg.path(name)
	return fname, save(p, fname)
}

// Hist draws the total and passing distributions of a quantity.
func Hist(cfg Config, st store.Store, name, xLabel, yLabel string) (string, error) {
	total, pass, err := loadPair(cfg, st, name)
	if err != nil {
		return "", err
	}

	p := cfg.newPlot()
	if isLog(name) {
		setLogX(p, total.Edges)
	}

	hTotal := stairs(total, dqmplot.SimColor, nil)
	hPass := stairs(pass, nil, dqmplot.PassColor)
	if strings.Contains(name, "vs_dxy") {
		hTotal.LogY, hPass.LogY = true, true
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(hPass, hTotal)
	p.Legend.Add("total", hTotal)
	p.Legend.Add("passing", hPass)

	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel + cfg.perEvent()

	fname := cfg.path(name)
	return fname, save(p, fname)
}

// Particle species shown in the PdgID plot, in order.
var species = []struct {
	id   int
	name string
}{
	{11, "e-"},
	{-11, "e+"},
	{13, "μ-"},
	{-13, "μ+"},
	{211, "π+"},
	{-211, "π-"},
	{321, "K+"},
	{-321, "K-"},
	{2212, "p"},
	{-2212, "anti-p"},
}

// PdgID draws the total and passing number of TrackingParticles per
// particle species with the efficiency in a lower panel.
func PdgID(cfg Config, st store.Store) (string, error) {
	const name = "general/numTPVsPdgId"
	total, pass, err := loadPair(cfg, st, name)
	if err != nil {
		return "", err
	}

	n := cfg.NumEvents
	if n <= 0 {
		n = 1
	}

	var (
		x, yTotal, yPass []float64
		labels           []string
		eff              = &hist.Points{}
	)
	for _, sp := range species {
		bin := total.Bin(float64(sp.id))
		if bin < 0 || bin >= pass.Len() {
			cfg.logger().Debug("particle species not in histogram", "pdgid", sp.id, "hist", name)
			continue
		}
		xi := float64(len(x))
		x = append(x, xi)
		yTotal = append(yTotal, total.Values[bin])
		yPass = append(yPass, pass.Values[bin])
		labels = append(labels, sp.name)

		e, lo, hi := hist.ClopperPearson(math.Round(pass.Values[bin]*n), math.Round(total.Values[bin]*n), hist.OneSigma)
		if math.IsNaN(e) {
			continue
		}
		eff.X = append(eff.X, xi)
		eff.Y = append(eff.Y, e)
		eff.XErr = append(eff.XErr, [2]float64{1.0 / 3, 1.0 / 3})
		eff.YErr = append(eff.YErr, [2]float64{e - lo, hi - e})
	}
	if len(x) == 0 {
		return "", fmt.Errorf("%s holds none of the known particle species", name)
	}

	top := cfg.newPlot()
	for i, b := range []struct {
		y     []float64
		label string
		color color.Color
	}{
		{yTotal, "total", dqmplot.SimColor},
		{yPass, "passing", dqmplot.PassColor},
	} {
		offset := -1.0 / 6
		if i == 1 {
			offset = 1.0 / 6
		}
		poly, err := bars(x, b.y, offset, 1.0/3, b.color)
		if err != nil {
			return "", err
		}
		top.Add(poly)
		top.Legend.Add(b.label, poly)
	}
	top.Y.Label.Text = "#TrackingParticles" + cfg.perEvent()
	top.X.Tick.Marker = plot.ConstantTicks{}

	bottom := cfg.newPlot()
	bottom.Title.Text = ""
	if _, err := errorPoints(bottom, eff, dqmplot.SimColor); err != nil {
		return "", err
	}
	hline(bottom, 0, dqmplot.SimColor)
	hline(bottom, 1, dqmplot.SimColor)
	bottom.Y.Min, bottom.Y.Max = -0.1, 1.1
	bottom.Y.Label.Text = "Efficiency"
	ticks := make(plot.ConstantTicks, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: x[i], Label: l}
	}
	bottom.X.Tick.Marker = ticks

	for _, p := range []*plot.Plot{top.Plot, bottom.Plot} {
		p.X.Min, p.X.Max = -0.5, float64(len(x))-0.5
	}

	fname := cfg.path(name)
	h := 1.2 * height
	err = saveCanvas(fname, width, h, func(dc draw.Canvas) {
		top.Draw(draw.Crop(dc, 0, 0, h/3, 0))
		bottom.Draw(draw.Crop(dc, 0, 0, 0, -2*h/3+vg.Points(10)))
	})
	return fname, err
}
