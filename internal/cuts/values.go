package cuts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Values holds the cut values applied in the reconstruction, as read from
// a YAML cut file.
type Values struct {
	Z0Cut       *float64 `yaml:"cellZ0Cut"`
	PtCut       *float64 `yaml:"cellPtCut"`
	MaxDYPred   *float64 `yaml:"cellMaxDYPred"`
	MaxDYSize12 *float64 `yaml:"cellMaxDYSize12"`
	MaxDYSize   *float64 `yaml:"cellMaxDYSize"`
	MinYSizeB1  *float64 `yaml:"cellMinYSizeB1"`
	MinYSizeB2  *float64 `yaml:"cellMinYSizeB2"`

	// Layer-pair dependent cuts, one value per entry of LayerPairs.
	MaxR       []float64 `yaml:"cellMaxr"`
	PhiCuts    []float64 `yaml:"cellPhiCuts"`
	MinZ       []float64 `yaml:"cellMinz"`
	MaxZ       []float64 `yaml:"cellMaxz"`
	LayerPairs [][2]int  `yaml:"layerPairs"`

	// Layer pairs of neighbouring layers, used for the layer pair
	// statistics only.
	NonSkippingLayerPairs [][2]int `yaml:"nonSkippingLayerPairs"`

	ConnectionCuts []ConnectionCut `yaml:"connectionCuts"`
}

// ConnectionCut configures a cut on the connection of two doublets. It
// applies globally unless layers are given, in which case one cut per
// inner layer is made.
type ConnectionCut struct {
	Name        string   `yaml:"name"`
	Label       string   `yaml:"label"`
	LabelPrefix string   `yaml:"labelPrefix"`
	Min         *float64 `yaml:"min"`
	Max         *float64 `yaml:"max"`
	Log         bool     `yaml:"log"`
	Layers      []int    `yaml:"layers"`
}

// Load reads the cut values from a YAML file.
func Load(fname string) (*Values, error) {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("could not read cut file: %w", err)
	}

	var v Values
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("could not decode cut file %q: %w", fname, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cut file %q: %w", fname, err)
	}
	return &v, nil
}

// Validate checks that every layer-pair dependent cut has one value per
// layer pair.
func (v *Values) Validate() error {
	n := len(v.LayerPairs)
	for _, c := range []struct {
		name string
		vals []float64
	}{
		{"cellMaxr", v.MaxR},
		{"cellPhiCuts", v.PhiCuts},
		{"cellMinz", v.MinZ},
		{"cellMaxz", v.MaxZ},
	} {
		if c.vals != nil && len(c.vals) != n {
			return fmt.Errorf("%s has %d values for %d layer pairs", c.name, len(c.vals), n)
		}
	}
	for i, c := range v.ConnectionCuts {
		if c.Name == "" {
			return fmt.Errorf("connection cut %d has no name", i)
		}
	}
	return nil
}

// Cuts returns the global doublet cuts, followed by the layer-pair
// dependent doublet cuts and the connection cuts. Cuts whose values are
// not configured are left out.
func (v *Values) Cuts() []CellCut {
	var out []CellCut

	global := func(name, label string, min, max *float64, log bool) {
		if min == nil && max == nil {
			return
		}
		c := Global(name, label)
		if min != nil {
			c.Min = *min
		}
		if max != nil {
			c.Max = *max
		}
		c.Log = log
		c.Doublet = true
		out = append(out, c)
	}
	global("z0", "Longitudinal impact parameter z0 [cm]", nil, v.Z0Cut, false)
	global("pTFromR", "Transverse momentum pT of circle through SimDoublet and beamspot [GeV]", v.PtCut, nil, true)
	global("DYPred", "Absolute difference between actual and expected inner cluster size [pixels]", nil, v.MaxDYPred, false)
	global("DYsize12", "Absolute difference between sizes of inner and outer cluster [pixels]", nil, v.MaxDYSize12, false)
	global("DYsize", "Absolute difference between sizes of inner and outer cluster [pixels]", nil, v.MaxDYSize, false)
	global("YsizeB1", "Size in z-direction of inner cluster [pixels]", v.MinYSizeB1, nil, false)
	global("YsizeB2", "Size in z-direction of inner cluster [pixels]", v.MinYSizeB2, nil, false)

	perPair := func(name, label string, min, max []float64) {
		if min == nil && max == nil {
			return
		}
		for i, lp := range v.LayerPairs {
			c := Global(name, label)
			if min != nil {
				c.Min = min[i]
			}
			if max != nil {
				c.Max = max[i]
			}
			c.Doublet = true
			c.LayerDependent = true
			c.Inner, c.Outer = lp[0], lp[1]
			out = append(out, c)
		}
	}
	perPair("dr", "dr between outer and inner RecHit [cm]", nil, v.MaxR)
	perPair("idphi", "Absolute integer dphi between outer and inner RecHit", nil, v.PhiCuts)
	perPair("innerZ", "z-coordinate of inner RecHit [cm]", v.MinZ, v.MaxZ)

	for _, cc := range v.ConnectionCuts {
		c := Global(cc.Name, cc.Label)
		c.LabelPrefix = cc.LabelPrefix
		c.Log = cc.Log
		c.Connection = true
		if cc.Min != nil {
			c.Min = *cc.Min
		}
		if cc.Max != nil {
			c.Max = *cc.Max
		}
		if len(cc.Layers) == 0 {
			out = append(out, c)
			continue
		}
		for _, l := range cc.Layers {
			lc := c
			lc.LayerDependent = true
			lc.Inner = l
			out = append(out, lc)
		}
	}

	return out
}

// Select returns the cuts on the named parameter. An empty name selects
// every cut.
func Select(cuts []CellCut, name string) ([]CellCut, error) {
	if name == "" {
		return cuts, nil
	}

	var (
		out   []CellCut
		names = make(map[string]struct{})
	)
	for _, c := range cuts {
		names[c.Name] = struct{}{}
		if c.Name == name {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		valid := make([]string, 0, len(names))
		for n := range names {
			valid = append(valid, n)
		}
		sort.Strings(valid)
		return nil, fmt.Errorf("invalid cut parameter %q (valid: %s)", name, strings.Join(valid, ", "))
	}
	return out, nil
}
