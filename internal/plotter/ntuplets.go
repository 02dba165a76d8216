package plotter

import (
	"fmt"
	"image/color"
	"path"

	"gonum.org/v1/plot/vg"
	"golang.org/x/image/colornames"

	"github.com/decibelcooper/dqmplot/internal/hist"
	"github.com/decibelcooper/dqmplot/internal/store"
)

// Status categories of the SimNtuplet of a TrackingParticle, from the
// bottom of the stack to the top.
var ntupletCategories = []struct {
	name     string
	label    string
	color    color.Color
	optional bool // drawn only if not empty
}{
	{"Alive", "built", color.RGBA{R: 0xc0, G: 0xfb, B: 0x2d, A: 0xff}, false},
	{"NotStartingPair", "Ntuplet starts not in a starting pair", color.RGBA{R: 0x33, G: 0x63, B: 0x46, A: 0xff}, false},
	{"KilledConnections", "has killed connections", color.RGBA{R: 0x61, G: 0xe8, B: 0xe1, A: 0xff}, false},
	{"KilledDoublets", "has killed doublets", color.RGBA{R: 0x01, G: 0x6f, B: 0xb9, A: 0xff}, false},
	{"MissingLayerPair", "is missing a layer pair", color.RGBA{R: 0x1b, G: 0x20, B: 0x21, A: 0xff}, false},
	{"TooShort", "shorter than reco threshold", color.RGBA{R: 0x88, G: 0x95, B: 0x8d, A: 0xff}, false},
	{"UndefDoubletCuts", "has undef doublet cuts", colornames.Gold, true},
	{"UndefConnectionCuts", "has undef connection cuts", colornames.Magenta, true},
}

// SimNtuplets stacks the fractions of TrackingParticles per status of
// their longest or most alive SimNtuplet, binned in quantity. The rest up
// to one are TrackingParticles with two or less RecHits.
func SimNtuplets(cfg Config, st store.Store, ntuplet, quantity, xLabel string) (string, error) {
	type layer struct {
		h     *hist.H1
		label string
		color color.Color
	}

	var (
		stack []layer
		sum   *hist.H1
	)
	for _, c := range ntupletCategories {
		h, err := hist.Load(st, fmt.Sprintf("SimNtuplets/%s/frac%s_vs_%s", ntuplet, c.name, quantity), 1)
		if err != nil {
			return "", fmt.Errorf("could not load SimNtuplet fractions: %w", err)
		}
		if c.optional && h.Sum() == 0 {
			continue
		}
		if sum == nil {
			sum = h
		} else {
			sum, err = hist.Add(sum, h)
			if err != nil {
				return "", fmt.Errorf("could not stack %s: %w", c.name, err)
			}
		}
		stack = append(stack, layer{h: sum, label: c.label, color: c.color})
	}
	if sum == nil {
		return "", fmt.Errorf("no SimNtuplet fractions for %s", ntuplet)
	}

	p := cfg.newPlot()
	if isLog(quantity) {
		setLogX(p, sum.Edges)
	}
	p.Legend.Add("Status of TP's " + ntupletName(ntuplet) + " SimNtuplet")

	ones := &hist.H1{Edges: sum.Edges, Values: make([]float64, sum.Len()), Errors: make([]float64, sum.Len())}
	for i := range ones.Values {
		ones.Values[i] = 1
	}
	rest := stairs(ones, colornames.Lightgray, colornames.Whitesmoke)
	rest.LineStyle.Width = vg.Points(0.5)
	p.Add(rest)
	p.Legend.Add("has 2 or less RecHits", rest)

	// cumulative sums are drawn from the top of the stack down
	for i := len(stack) - 1; i >= 0; i-- {
		l := stack[i]
		h := stairs(l.h, nil, l.color)
		p.Add(h)
		p.Legend.Add(l.label, h)
	}

	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Fractions of TrackingParticles"
	p.Y.Min, p.Y.Max = 0, 1

	fname := cfg.path(path.Join("simNtuplets", ntuplet, "simNtupletsRate_vs_"+quantity))
	return fname, save(p, fname)
}

func ntupletName(ntuplet string) string {
	if ntuplet == "longest" {
		return "longest"
	}
	return "most alive"
}
