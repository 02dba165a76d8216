// Package cuts describes the doublet and connection cuts of the pixel
// track reconstruction whose parameters are plotted against their cut
// values.
package cuts

import (
	"fmt"
	"math"
	"path/filepath"
)

// Type tells which side of a parameter is cut.
type Type int

const (
	None Type = iota
	Min
	Max
	Both
)

func (t Type) String() string {
	switch t {
	case Min:
		return "min"
	case Max:
		return "max"
	case Both:
		return "both"
	}
	return "none"
}

// CellCut is a cut applied to doublets (cells) or to connections between
// doublets.
type CellCut struct {
	// Name of the histogram in the DQM file.
	Name  string
	Label string
	// LabelPrefix is prepended to the cut value in the legend.
	LabelPrefix string
	// YLabelSuffix is appended to the y axis label.
	YLabelSuffix string

	Min, Max float64
	Log      bool

	Doublet        bool
	Connection     bool
	LayerDependent bool
	Inner, Outer   int
}

// Global returns a cut without lower and upper bounds. Callers set Min or
// Max afterwards.
func Global(name, label string) CellCut {
	return CellCut{Name: name, Label: label, Min: math.Inf(-1), Max: math.Inf(1)}
}

func (c CellCut) Type() Type {
	hasMin, hasMax := !math.IsInf(c.Min, -1), !math.IsInf(c.Max, 1)
	switch {
	case hasMin && hasMax:
		return Both
	case hasMin:
		return Min
	case hasMax:
		return Max
	}
	return None
}

// Subfolder returns the folder of the cut histograms, relative to the
// SimPixelTracks, TruePixelTracks and FakePixelTracks folders.
func (c CellCut) Subfolder() (string, error) {
	switch {
	case c.Doublet && c.LayerDependent:
		return fmt.Sprintf("CAParameters/doubletCuts/lp_%d_%d/", c.Inner, c.Outer), nil
	case c.Doublet:
		return "CAParameters/doubletCuts/global/", nil
	case c.Connection && c.LayerDependent:
		return fmt.Sprintf("CAParameters/connectionCuts/layer_%d/", c.Inner), nil
	case c.Connection:
		return "CAParameters/connectionCuts/global/", nil
	}
	return "", fmt.Errorf("cuts: %q is neither a doublet nor a connection cut", c.Name)
}

// Subject names the objects the cut applies to.
func (c CellCut) Subject() string {
	if c.Doublet {
		return "Doublet"
	}
	return "Connection"
}

// LegendTitle returns the legend title of the cut plot.
func (c CellCut) LegendTitle() string {
	switch {
	case c.LayerDependent && c.Doublet:
		return fmt.Sprintf("Layer pair (%d,%d)", c.Inner, c.Outer)
	case c.LayerDependent && c.Connection:
		return fmt.Sprintf("Layer %d", c.Inner)
	}
	return ""
}

// OutputPath returns the file the plot of the cut is saved to.
func (c CellCut) OutputPath(dir, ext string) string {
	kind := "connectionCuts"
	if c.Doublet {
		kind = "doubletCuts"
	}
	dir = filepath.Join(dir, "CAParameters", kind)

	switch {
	case c.LayerDependent && c.Doublet:
		return filepath.Join(dir, c.Name, fmt.Sprintf("lp_%d_%d.%s", c.Inner, c.Outer, ext))
	case c.LayerDependent && c.Connection:
		return filepath.Join(dir, c.Name, fmt.Sprintf("layer_%d.%s", c.Inner, ext))
	}
	return filepath.Join(dir, c.Name+"."+ext)
}

// ValueLabel returns the legend label of one bound of the cut.
func (c CellCut) ValueLabel(t Type) string {
	v := c.Min
	if t == Max {
		v = c.Max
	}
	return fmt.Sprintf("cut_%s = %s%s", t, c.LabelPrefix, LabelValue(v))
}
