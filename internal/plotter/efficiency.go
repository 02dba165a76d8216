package plotter

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/hist"
	"github.com/decibelcooper/dqmplot/internal/store"
)

// Input is one DQM file of a comparison.
type Input struct {
	Store store.Store
	Label string
}

// Efficiency plots a histogram holding an efficiency or another fraction
// per bin.
func Efficiency(cfg Config, st store.Store, name, xLabel, yLabel string) (string, error) {
	return EfficiencyComparison(cfg, []Input{{Store: st}}, name, xLabel, yLabel)
}

// EfficiencyComparison draws the same efficiency histogram of several DQM
// files on top of each other. With more than one input a lower panel shows
// the ratio to the first one.
func EfficiencyComparison(cfg Config, inputs []Input, name, xLabel, yLabel string) (string, error) {
	if len(inputs) == 0 {
		return "", fmt.Errorf("no input for %s", name)
	}

	hists := make([]*hist.H1, len(inputs))
	for i, in := range inputs {
		h, err := hist.Load(in.Store, name, 1)
		if err != nil {
			return "", fmt.Errorf("could not load efficiency: %w", err)
		}
		hists[i] = h
	}

	p := cfg.newPlot()
	p.X.Label.Text = dqmplot.Label(xLabel)
	p.Y.Label.Text = dqmplot.Label(yLabel)
	p.Y.Min, p.Y.Max = 0, 1
	if isLog(name) {
		setLogX(p, hists[0].Edges)
	}

	colors := make([]color.Color, len(inputs))
	for i, in := range inputs {
		colors[i] = dqmplot.Palette[i%len(dqmplot.Palette)]
		if len(inputs) == 1 {
			colors[i] = dqmplot.SimColor
		}
		thumb, err := errorPoints(p, hists[i].Points(), colors[i])
		if err != nil {
			return "", fmt.Errorf("could not draw %s: %w", name, err)
		}
		if in.Label != "" {
			p.Legend.Add(in.Label, thumb)
		}
	}

	fname := cfg.path(name)
	if len(inputs) == 1 {
		return fname, save(p, fname)
	}

	bottom := cfg.newPlot()
	bottom.Title.Text = ""
	bottom.X.Label.Text = p.X.Label.Text
	bottom.Y.Label.Text = "Ratio to " + inputs[0].Label
	if isLog(name) {
		setLogX(bottom, hists[0].Edges)
	}
	hline(bottom, 1, colors[0])
	edges := hists[0].Edges
	for _, pl := range []*hplot.Plot{p, bottom} {
		pl.X.Min, pl.X.Max = edges[0], edges[len(edges)-1]
	}
	for i := 1; i < len(hists); i++ {
		r, err := hist.Ratio(hists[i], hists[0])
		if err != nil {
			return "", fmt.Errorf("could not compare %s of %q: %w", name, inputs[i].Label, err)
		}
		if _, err := errorPoints(bottom, r.Points(), colors[i]); err != nil {
			return "", fmt.Errorf("could not draw %s: %w", name, err)
		}
	}
	p.X.Label.Text = ""
	p.X.Tick.Label.Color = color.Transparent

	h := 1.3 * height
	err := saveCanvas(fname, width, h, func(dc draw.Canvas) {
		p.Draw(draw.Crop(dc, 0, 0, 0.3*h, 0))
		bottom.Draw(draw.Crop(dc, 0, 0, 0, -0.7*h))
	})
	return fname, err
}

// Axes2D describes the axes of a two-dimensional plot.
type Axes2D struct {
	X, Y, Z string
	// Layer IDs on an axis get the barrel and endcap regions marked.
	LayersX, LayersY bool
}

// Efficiency2D draws a two-dimensional histogram as a heat map with a
// logarithmic color scale.
func Efficiency2D(cfg Config, st store.Store, name string, axes Axes2D) (string, error) {
	h, err := hist.Load2D(st, name, 1)
	if err != nil {
		return "", fmt.Errorf("could not load 2D histogram: %w", err)
	}

	p := cfg.newPlot()
	p.X.Label.Text = dqmplot.Label(axes.X)
	p.Y.Label.Text = dqmplot.Label(axes.Y)
	if strings.Contains(axes.X, "GeV") {
		setLogX(p, h.XEdges)
	}

	lo, hi := h.MinNonZero(), h.Max()
	if lo <= 0 || hi <= 0 {
		lo, hi = 1, 10
	}
	bar := addHeatMap(p, logGrid{h}, math.Log10(lo), math.Log10(hi))
	bar.Y.Label.Text = "log10 " + axes.Z

	switch {
	case axes.LayersX && axes.LayersY:
		if err := markLayerBoxes(p); err != nil {
			return "", err
		}
	case axes.LayersY:
		markLayerRows(p)
	}

	fname := cfg.path(name)
	return fname, saveHeatMap(fname, p, bar)
}

// logGrid shows the decimal logarithm of a grid. Empty bins are NaN.
type logGrid struct {
	plotter.GridXYZ
}

func (g logGrid) Z(c, r int) float64 {
	z := g.GridXYZ.Z(c, r)
	if z <= 0 {
		return math.NaN()
	}
	return math.Log10(z)
}

// addHeatMap adds g to p and returns the plot of the matching color bar.
func addHeatMap(p *hplot.Plot, g plotter.GridXYZ, zmin, zmax float64) *hplot.Plot {
	if !(zmax > zmin) {
		zmax = zmin + 1
	}

	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(zmin)
	colorMap.SetMax(zmax)
	pal := colorMap.Palette(255)

	heatMap := plotter.NewHeatMap(g, pal)
	heatMap.Min = zmin
	heatMap.Max = zmax
	heatMap.NaN = color.Transparent
	heatMap.Underflow = color.White
	p.Add(heatMap)

	bar := hplot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	bar.Add(colorBar)
	bar.HideX()
	bar.Y.Padding = 0
	return bar
}

// saveHeatMap lays out a heat map next to its color bar.
func saveHeatMap(fname string, p, bar *hplot.Plot) error {
	const barWidth = 1.2 * vg.Inch
	w := width + barWidth
	return saveCanvas(fname, w, height, func(dc draw.Canvas) {
		p.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
		bar.Draw(draw.Crop(dc, w-barWidth, 0, 0, -vg.Points(18)))
	})
}

// Layer ID ranges of the barrel and the two endcaps.
var layerRegions = [][2]float64{{-0.5, 3.5}, {3.5, 15.5}, {15.5, 27.5}}

// markLayerBoxes draws the boxes of layer pairs within the barrel and
// within each endcap.
func markLayerBoxes(p *hplot.Plot) error {
	for _, r := range layerRegions {
		box := plotter.XYs{{X: r[0], Y: r[0]}, {X: r[0], Y: r[1]}, {X: r[1], Y: r[1]}, {X: r[1], Y: r[0]}, {X: r[0], Y: r[0]}}

		solid, err := plotter.NewLine(box)
		if err != nil {
			return fmt.Errorf("could not mark layers: %w", err)
		}
		solid.LineStyle.Color = dqmplot.LayerColor
		solid.LineStyle.Width = vg.Points(1.5)

		dashed, err := plotter.NewLine(box)
		if err != nil {
			return fmt.Errorf("could not mark layers: %w", err)
		}
		dashed.LineStyle.Color = color.White
		dashed.LineStyle.Width = vg.Points(1.5)
		dashed.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}

		p.Add(solid, dashed)
	}
	return nil
}

// markLayerRows separates barrel and endcap layers on the y axis.
func markLayerRows(p *hplot.Plot) {
	for _, y := range []float64{3.5, 15.5} {
		solid := hplot.HLine(y, nil, nil)
		solid.Line.Color = dqmplot.LayerColor
		solid.Line.Width = vg.Points(1.5)
		dashed := hplot.HLine(y, nil, nil)
		dashed.Line.Color = color.White
		dashed.Line.Width = vg.Points(1.5)
		dashed.Line.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(solid, dashed)
	}
}
