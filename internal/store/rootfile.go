package store

import (
	"fmt"
	"sort"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/root"
	"go-hep.org/x/hep/hbook/rootcnv"
)

// File is a store backed by a ROOT file.
type File struct {
	f     *groot.File
	dir   riofs.Directory
	keys  []string
	class map[string]string
}

// Open opens the ROOT file fname and indexes every object it holds.
func Open(fname string) (*File, error) {
	f, err := groot.Open(fname)
	if err != nil {
		return nil, &OpenError{Path: fname, Err: err}
	}

	s := &File{
		f:     f,
		dir:   riofs.Dir(f),
		class: make(map[string]string),
	}
	if err := s.index(f, ""); err != nil {
		f.Close()
		return nil, &OpenError{Path: fname, Err: err}
	}
	sort.Strings(s.keys)

	return s, nil
}

func (s *File) index(dir riofs.Directory, prefix string) error {
	for _, k := range dir.Keys() {
		path := k.Name()
		if prefix != "" {
			path = prefix + "/" + path
		}

		switch k.ClassName() {
		case "TDirectory", "TDirectoryFile":
			obj, err := k.Object()
			if err != nil {
				return fmt.Errorf("could not read directory %q: %w", path, err)
			}
			sub, ok := obj.(riofs.Directory)
			if !ok {
				return fmt.Errorf("object %q is not a directory", path)
			}
			if err := s.index(sub, path); err != nil {
				return err
			}
		default:
			// several cycles of the same key are listed once
			if _, dup := s.class[path]; dup {
				continue
			}
			s.class[path] = k.ClassName()
			s.keys = append(s.keys, path)
		}
	}
	return nil
}

func (s *File) Keys() ([]string, error) {
	return s.keys, nil
}

func (s *File) Get(path string) (Entry, error) {
	class, ok := s.class[path]
	if !ok {
		return Entry{}, notFound(path, nil)
	}

	obj, err := s.dir.Get(path)
	if err != nil {
		return Entry{}, notFound(path, err)
	}

	return entryFrom(path, class, obj)
}

func (s *File) Close() error {
	return s.f.Close()
}

// binned1D is the bin view shared by TH1D, TH1F and TH1I.
type binned1D interface {
	rhist.H1
	NbinsX() int
	XBinContent(i int) float64
	XBinError(i int) float64
	XBinLowEdge(i int) float64
	XBinWidth(i int) float64
}

var (
	_ binned1D = (*rhist.H1D)(nil)
	_ binned1D = (*rhist.H1F)(nil)
	_ binned1D = (*rhist.H1I)(nil)
)

func entryFrom(path, class string, obj root.Object) (Entry, error) {
	e := Entry{Path: path, Class: class, Kind: KindOf(class)}

	switch e.Kind {
	case Count1D:
		h, ok := obj.(binned1D)
		if !ok {
			e.Kind = Unsupported
			return e, nil
		}
		n := h.NbinsX()
		e.Edges = make([]float64, n+1)
		e.Values = make([]float64, n)
		e.Errors = make([]float64, n)
		for i := 0; i < n; i++ {
			e.Edges[i] = h.XBinLowEdge(i + 1)
			e.Values[i] = h.XBinContent(i + 1)
			e.Errors[i] = h.XBinError(i + 1)
		}
		if n > 0 {
			e.Edges[n] = h.XBinLowEdge(n) + h.XBinWidth(n)
		}

	case Profile:
		h, ok := obj.(*rhist.Profile1D)
		if !ok {
			e.Kind = Unsupported
			return e, nil
		}
		p, err := decodeProfile(h)
		if err != nil {
			return e, fmt.Errorf("could not read %q: %w", path, err)
		}
		e.Edges, e.Values, e.Errors = p.bins()

	case Count2D:
		h, ok := obj.(rhist.H2)
		if !ok {
			e.Kind = Unsupported
			return e, nil
		}
		hh := rootcnv.H2D(h)
		grid := hh.GridXYZ()
		nx, ny := grid.Dims()
		xc := make([]float64, nx)
		for i := range xc {
			xc[i] = grid.X(i)
		}
		yc := make([]float64, ny)
		for j := range yc {
			yc[j] = grid.Y(j)
		}
		e.Edges = edgesFromCenters(hh.XMin(), xc)
		e.YEdges = edgesFromCenters(hh.YMin(), yc)
		e.Values = make([]float64, nx*ny)
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				e.Values[i*ny+j] = grid.Z(i, j)
			}
		}
	}

	return e, nil
}

// edgesFromCenters rebuilds the bin edges of an axis from its lower limit
// and its bin centers.
func edgesFromCenters(low float64, centers []float64) []float64 {
	edges := make([]float64, len(centers)+1)
	edges[0] = low
	for i, c := range centers {
		edges[i+1] = 2*c - edges[i]
	}
	return edges
}
