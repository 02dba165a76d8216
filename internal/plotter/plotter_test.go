package plotter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/dqmplot/internal/cuts"
	"github.com/decibelcooper/dqmplot/internal/store"
)

var (
	edges   = []float64{0, 1, 2, 3, 4}
	ptEdges = []float64{0.1, 1, 10, 100}
)

func fixture() *store.Memory {
	m := store.NewMemory()
	put := func(path string, values ...float64) {
		m.Put(store.NewCount1D(path, edges, values, nil))
	}

	// cut parameters
	for _, dir := range []string{"SimPixelTracks", "TruePixelTracks", "FakePixelTracks"} {
		put(dir+"/CAParameters/doubletCuts/lp_0_1/dr", 10, 8, 4, 1)
		put(dir+"/CAParameters/doubletCuts/lp_0_1/pass_dr", 9, 6, 0, 0)
	}
	for _, dir := range []string{"SimPixelTracks", "TruePixelTracks", "FakePixelTracks"} {
		put(dir+"/CAParameters/connectionCuts/layer_4/CAThetaCut", 0, 0, 0, 0)
		put(dir+"/CAParameters/connectionCuts/layer_4/pass_CAThetaCut", 0, 0, 0, 0)
	}

	// efficiencies
	put("general/efficiency_vs_eta", 0.5, 0.9, 0.95, math.NaN())
	m.Put(store.NewProfile("general/efficiencyTP_vs_pT", ptEdges, []float64{0.2, 0.8, 0.9}, []float64{0.1, 0.05, 0.02}))

	// 2D
	layers := []float64{-0.5, 0.5, 1.5, 2.5, 3.5}
	values := make([]float64, 16)
	for i := range values {
		values[i] = float64(i % 5)
	}
	m.Put(store.NewCount2D("general/efficiency_vs_layerPair", layers, layers, values))
	m.Put(store.NewCount2D("general/layerPairs", layers, layers, values))

	// distributions
	m.Put(store.NewCount1D("general/numSkippedLayers", []float64{-1.5, -0.5, 0.5, 1.5}, []float64{1, 20, 3}, nil))
	m.Put(store.NewCount1D("general/pass_numSkippedLayers", []float64{-1.5, -0.5, 0.5, 1.5}, []float64{0, 15, 1}, nil))
	put("general/numTPVsEta", 5, 10, 10, 5)
	put("general/pass_numTPVsEta", 4, 9, 8, 3)

	pdg := []float64{-212, -211, -210, 10, 11, 12, 210, 211, 212}
	m.Put(store.NewCount1D("general/numTPVsPdgId", pdg, []float64{0, 10, 0, 0, 4, 0, 0, 12}, nil))
	m.Put(store.NewCount1D("general/pass_numTPVsPdgId", pdg, []float64{0, 9, 0, 0, 2, 0, 0, 12}, nil))

	// SimNtuplets
	for _, c := range ntupletCategories {
		v := 0.1
		if c.optional {
			v = 0
		}
		put("SimNtuplets/longest/frac"+c.name+"_vs_eta", v, v, v, v)
	}

	return m
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "CMS", Label{}.String())
	assert.Equal(t, "CMS Private Work    (14 TeV)", Label{Left: "Private Work", CoM: 14}.String())
	assert.Equal(t, "CMS Simulation    ttbar (13.6 TeV)", Label{Left: "Simulation", Right: "ttbar", CoM: 13.6}.String())
}

func TestPassName(t *testing.T) {
	assert.Equal(t, "general/pass_numTPVsEta", passName("general/numTPVsEta"))
	assert.Equal(t, "pass_x", passName("x"))
}

func TestConfig(t *testing.T) {
	cfg := Config{Dir: "out"}
	assert.Equal(t, filepath.FromSlash("out/general/x.png"), cfg.path("general/x"))
	assert.Equal(t, 1.0, cfg.scale())
	assert.Equal(t, "", cfg.perEvent())

	cfg = Config{Dir: "out", NumEvents: 4, Format: ".pdf"}
	assert.Equal(t, filepath.FromSlash("out/general/x.pdf"), cfg.path("general/x"))
	assert.Equal(t, 0.25, cfg.scale())
	assert.Equal(t, " / event", cfg.perEvent())
}

func TestCutParameter(t *testing.T) {
	st := fixture()
	cfg := Config{Dir: t.TempDir(), NumEvents: 2, LimitX: true}

	cut := cuts.Global("dr", "dr [cm]")
	cut.Max = 2.5
	cut.Doublet = true
	cut.LayerDependent = true
	cut.Inner, cut.Outer = 0, 1

	fname, err := CutParameter(cfg, st, cut)
	require.NoError(t, err)
	assert.Equal(t, cut.OutputPath(cfg.Dir, "png"), fname)
	assert.FileExists(t, fname)

	// cut values outside of the histogram range are drawn as arrows
	cut.Min, cut.Max = -1, 10
	_, err = CutParameter(cfg, st, cut)
	require.NoError(t, err)

	// empty histograms
	theta := cuts.Global("CAThetaCut", "theta")
	theta.Max = 0.002
	theta.Connection = true
	theta.LayerDependent = true
	theta.Inner = 4
	fname, err = CutParameter(cfg, st, theta)
	require.NoError(t, err)
	assert.FileExists(t, fname)

	missing := cut
	missing.Name = "idphi"
	_, err = CutParameter(cfg, st, missing)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = CutParameter(cfg, st, cuts.CellCut{Name: "neither"})
	assert.Error(t, err)
}

func TestPlots(t *testing.T) {
	st := fixture()
	cfg := Config{Dir: t.TempDir(), NumEvents: 10, Label: Label{Left: "Private Work", CoM: 14}}

	var stats LayerPairStats
	jobs := []Job{
		{"efficiency", func() (string, error) {
			return Efficiency(cfg, st, "general/efficiency_vs_eta", "eta", "eff")
		}},
		{"efficiency pT", func() (string, error) {
			return Efficiency(cfg, st, "general/efficiencyTP_vs_pT", "pt", "eff")
		}},
		{"comparison", func() (string, error) {
			return EfficiencyComparison(cfg, []Input{{st, "a"}, {st, "b"}}, "general/efficiency_vs_eta", "eta", "eff")
		}},
		{"efficiency 2D", func() (string, error) {
			return Efficiency2D(cfg, st, "general/efficiency_vs_layerPair", Axes2D{X: "Inner layer ID", Y: "Outer layer ID", Z: "efficiency", LayersX: true, LayersY: true})
		}},
		{"layer pairs", func() (fname string, err error) {
			fname, stats, err = LayerPairs(cfg, st, [][2]int{{0, 1}, {1, 2}}, [][2]int{{0, 1}})
			return fname, err
		}},
		{"discrete", func() (string, error) {
			return DiscreteHist(cfg, st, "general/numSkippedLayers", "#(skipped layers)", "#SimDoublets", &[2]float64{-1.5, 5.5})
		}},
		{"hist", func() (string, error) {
			return Hist(cfg, st, "general/numTPVsEta", "eta", "#TrackingParticles")
		}},
		{"pdgid", func() (string, error) {
			return PdgID(cfg, st)
		}},
		{"simntuplets", func() (string, error) {
			return SimNtuplets(cfg, st, "longest", "eta", "eta")
		}},
	}

	var (
		files = make(chan string, len(jobs))
		wrapped []Job
	)
	for _, job := range jobs {
		job := job
		wrapped = append(wrapped, Job{Name: job.Name, Run: func() (string, error) {
			fname, err := job.Run()
			if err == nil {
				files <- fname
			}
			return fname, err
		}})
	}
	pool := Pool{Workers: 1}
	require.NoError(t, pool.Run(context.Background(), wrapped))
	close(files)

	n := 0
	for fname := range files {
		assert.FileExists(t, fname)
		assert.True(t, strings.HasPrefix(fname, cfg.Dir))
		n++
	}
	assert.Equal(t, len(jobs), n)

	assert.FileExists(t, filepath.Join(cfg.Dir, "simNtuplets", "longest", "simNtupletsRate_vs_eta.png"))

	// bin (i, j) holds (4i+j)%5, scaled by 1/10
	assert.InDelta(t, 3.0, stats.Total, 1e-9)
	assert.InDelta(t, 0.1+0.1, stats.Reco, 1e-9)
	assert.InDelta(t, 0.1, stats.RecoNoSkip, 1e-9)
}

func TestPlotMissing(t *testing.T) {
	st := store.NewMemory()
	cfg := Config{Dir: t.TempDir()}

	_, err := Efficiency(cfg, st, "general/nope", "", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = EfficiencyComparison(cfg, nil, "general/nope", "", "")
	assert.Error(t, err)
	_, err = Efficiency2D(cfg, st, "general/nope", Axes2D{})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, _, err = LayerPairs(cfg, st, nil, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = Hist(cfg, st, "general/nope", "", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = PdgID(cfg, st)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = SimNtuplets(cfg, st, "longest", "eta", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPoolErrors(t *testing.T) {
	errBoom := errors.New("boom")

	ran := make(chan string, 3)
	jobs := []Job{
		{"a", func() (string, error) { ran <- "a"; return "a.png", nil }},
		{"b", func() (string, error) { ran <- "b"; return "", errBoom }},
		{"c", func() (string, error) { ran <- "c"; return "c.png", nil }},
	}
	pool := Pool{Workers: 2}
	err := pool.Run(context.Background(), jobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "b: boom")
	close(ran)
	assert.Len(t, ran, 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n := 0
	err = (&Pool{}).Run(ctx, []Job{{"x", func() (string, error) { n++; return "", nil }}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, n)
}

func ExampleLayerPairStats() {
	fmt.Println(LayerPairStats{Total: 4, Reco: 3, RecoNoSkip: 2})
	// Output:
	// Nrec / Ntot = 3.000000 / 4.000000 = 0.750000
	// Nrec (no skip) / Ntot = 2.000000 / 4.000000 = 0.500000
}

func TestNumEvents(t *testing.T) {
	st := store.NewMemory()
	n, err := NumEvents(st, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, n)

	n, err = NumEvents(st, 25)
	require.NoError(t, err)
	assert.Equal(t, 25.0, n)

	st.Put(store.NewCount1D(store.EventsPath, []float64{0, 1}, []float64{100}, nil))
	n, err = NumEvents(st, 25)
	require.NoError(t, err)
	assert.Equal(t, 100.0, n)
}
