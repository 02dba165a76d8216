package store

import (
	"fmt"
	"strings"
)

// Kind is the histogram kind of an entry.
type Kind int

const (
	Unsupported Kind = iota
	Count1D
	Count2D
	Profile
)

func (k Kind) String() string {
	switch k {
	case Count1D:
		return "TH1"
	case Count2D:
		return "TH2"
	case Profile:
		return "TProfile"
	}
	return "unsupported"
}

// KindOf maps a ROOT class name to the histogram kind.
func KindOf(class string) Kind {
	switch {
	case class == "TProfile":
		return Profile
	case strings.HasPrefix(class, "TH1"):
		return Count1D
	case strings.HasPrefix(class, "TH2"):
		return Count2D
	}
	return Unsupported
}

// Entry is one histogram read from a store.
//
// Count1D and Profile entries use Edges (N+1) with N Values and Errors.
// Count2D entries use Edges and YEdges, with Values laid out x-major:
// Values[i*ny+j] is the content of x bin i and y bin j.
type Entry struct {
	Path   string
	Class  string
	Kind   Kind
	Edges  []float64
	YEdges []float64
	Values []float64
	Errors []float64
}

// Classify returns the kind of the entry.
func Classify(e Entry) Kind {
	return e.Kind
}

// Dims returns the number of bins along x and y. y is 1 for
// one-dimensional entries.
func (e Entry) Dims() (int, int) {
	nx := len(e.Edges) - 1
	if nx < 0 {
		nx = 0
	}
	if e.Kind != Count2D {
		return nx, 1
	}
	ny := len(e.YEdges) - 1
	if ny < 0 {
		ny = 0
	}
	return nx, ny
}

func NewCount1D(path string, edges, values, errors []float64) Entry {
	return Entry{Path: path, Class: "TH1D", Kind: Count1D, Edges: edges, Values: values, Errors: errors}
}

func NewCount2D(path string, xedges, yedges, values []float64) Entry {
	return Entry{Path: path, Class: "TH2D", Kind: Count2D, Edges: xedges, YEdges: yedges, Values: values}
}

func NewProfile(path string, edges, means, errors []float64) Entry {
	return Entry{Path: path, Class: "TProfile", Kind: Profile, Edges: edges, Values: means, Errors: errors}
}

// Validate checks the bin layout of the entry.
func (e Entry) Validate() error {
	nx, ny := e.Dims()
	switch e.Kind {
	case Count1D, Profile:
		if len(e.Values) != nx {
			return fmt.Errorf("store: %q has %d values for %d bins", e.Path, len(e.Values), nx)
		}
		if e.Errors != nil && len(e.Errors) != nx {
			return fmt.Errorf("store: %q has %d errors for %d bins", e.Path, len(e.Errors), nx)
		}
	case Count2D:
		if len(e.Values) != nx*ny {
			return fmt.Errorf("store: %q has %d values for %dx%d bins", e.Path, len(e.Values), nx, ny)
		}
	}
	return nil
}
