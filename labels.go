// Package dqmplot holds the pieces shared by the commands that plot and
// compare the SimDoublets DQM histograms of the pixel track reconstruction.
package dqmplot

import (
	"image/color"

	"golang.org/x/image/colornames"
)

// SimDoubletsFolder is the folder of the SimDoublets histograms in a DQM
// file.
const SimDoubletsFolder = "DQMData/Run 1/Tracking/Run summary/TrackingMCTruth/SimDoublets"

// Names of the validation rate histograms.
const (
	Efficiency     = "effic"
	DuplicatesRate = "duplicatesRate"
	PileupRate     = "pileuprate"
	FakeRate       = "fakerate"
)

var histNames = map[string]string{
	"eff":            Efficiency,
	"effic":          Efficiency,
	"efficiency":     Efficiency,
	"pil":            PileupRate,
	"pileup":         PileupRate,
	"pileuprate":     PileupRate,
	"fak":            FakeRate,
	"fake":           FakeRate,
	"fakerate":       FakeRate,
	"dup":            DuplicatesRate,
	"duplicate":      DuplicatesRate,
	"duplicates":     DuplicatesRate,
	"duplicatesRate": DuplicatesRate,
	"duplicatesrate": DuplicatesRate,
}

var binSuffixes = map[string]map[string]string{
	"eta":  {Efficiency: "", DuplicatesRate: "", PileupRate: "", FakeRate: ""},
	"phi":  {Efficiency: "_vs_phi", DuplicatesRate: "_phi", PileupRate: "_phi", FakeRate: "_vs_phi"},
	"pt":   {Efficiency: "Pt", DuplicatesRate: "_Pt", PileupRate: "_Pt", FakeRate: "Pt"},
	"coll": {Efficiency: "_vs_coll", DuplicatesRate: "_coll", PileupRate: "_coll", FakeRate: "_vs_coll"},
	"hit":  {Efficiency: "_vs_hit", DuplicatesRate: "_hit", PileupRate: "_hit", FakeRate: "_vs_hit"},
}

// HistName returns the name of the histogram of a counted quantity, e.g.
// "eff", binned in another one, e.g. "pt".
func HistName(count, bin string) string {
	name, ok := histNames[count]
	if !ok {
		name = count
	}
	if suffix, ok := binSuffixes[bin][name]; ok {
		return name + suffix
	}
	return name + bin
}

var labels = map[string]string{
	"eta": "Pseudorapidity η",
	"phi": "Azimuthal angle φ [rad]",
	"pt":  "Transverse momentum pT [GeV]",
	"hit": "Number of hits",

	Efficiency:     "Efficiency",
	DuplicatesRate: "Duplicates rate",
	PileupRate:     "Pileup rate",
	FakeRate:       "Fake rate",
}

// Label returns the axis label of a quantity. Unknown keys are returned
// unchanged.
func Label(key string) string {
	if l, ok := labels[key]; ok {
		return l
	}
	if name, ok := histNames[key]; ok {
		return labels[name]
	}
	return key
}

// Colors of the distributions.
var (
	SimColor   color.Color = colornames.Darkblue
	PassColor  color.Color = color.RGBA{R: 0x51, G: 0xbb, B: 0xfe, A: 0xff}
	TrueColor  color.Color = color.RGBA{R: 0x1c, G: 0xa0, B: 0x1c, A: 0xff}
	FakeColor  color.Color = colornames.Red
	CutColor   color.Color = colornames.Darkblue
	LayerColor color.Color = colornames.Black
)

// Palette is used for the files of a comparison, in order.
var Palette = []color.Color{
	colornames.Royalblue,
	colornames.Crimson,
	colornames.Forestgreen,
	colornames.Darkorange,
	colornames.Mediumpurple,
	colornames.Sienna,
	colornames.Hotpink,
	colornames.Gray,
}

// Fade returns c with its alpha set to a in [0, 1].
func Fade(c color.Color, a float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a * 0xff)}
}
