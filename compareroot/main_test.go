package main

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/hbook"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/compare"
	"github.com/decibelcooper/dqmplot/internal/store"
)

var edges = []float64{0, 1, 2, 3}

func simDoublets(name string) string {
	return path.Join(dqmplot.SimDoubletsFolder, name)
}

func memoryFiles(files map[string]*store.Memory) opener {
	return func(fname string) (store.Store, error) {
		st, ok := files[fname]
		if !ok {
			return nil, &store.OpenError{Path: fname, Err: os.ErrNotExist}
		}
		return st, nil
	}
}

func execute(open opener, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := newCommand(open)
	cmd.SetOut(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func nearlyEqualFiles() opener {
	return memoryFiles(map[string]*store.Memory{
		"a.root": store.NewMemory(
			store.NewCount1D(simDoublets("general/h1"), edges, []float64{1, 2, 3}, nil),
			store.NewCount1D("DQMData/Run 1/Tracking/other", edges, []float64{1, 1, 1}, nil),
		),
		"b.root": store.NewMemory(
			store.NewCount1D(simDoublets("general/h1"), edges, []float64{1, 2, 3.000005}, nil),
			store.NewCount1D("DQMData/Run 1/Tracking/other", edges, []float64{2, 2, 2}, nil),
		),
	})
}

func TestDefaults(t *testing.T) {
	out, err := execute(nearlyEqualFiles(), "a.root", "b.root")
	require.NoError(t, err)

	assert.Contains(t, out, " * DQM file 1: a.root\n")
	assert.Contains(t, out, " * DQM file 2: b.root\n")
	assert.Contains(t, out, " * folder to be compared: "+dqmplot.SimDoubletsFolder+"\n")
	assert.Contains(t, out, " * accepted tolerance when comparing: 1e-05\n")
	assert.Contains(t, out, "All histograms identical.")
	assert.Contains(t, out, "   1 /    1 compared TH1 histograms passed")
	assert.Contains(t, out, "TEST PASSED")
	assert.NotContains(t, out, "Tracking/other")
}

func TestFailedReport(t *testing.T) {
	out, err := execute(nearlyEqualFiles(), "-t", "1e-7", "a.root", "b.root")
	require.NoError(t, err)
	assert.Contains(t, out, "The following histograms differ:\n -> "+simDoublets("general/h1")+"\n")
	assert.Contains(t, out, "TEST FAILED")
	assert.Contains(t, out, "End compareroot")

	_, err = execute(nearlyEqualFiles(), "--strict", "-t", "1e-7", "a.root", "b.root")
	assert.ErrorIs(t, err, errFailed)

	_, err = execute(nearlyEqualFiles(), "--strict", "a.root", "b.root")
	assert.NoError(t, err)
}

func TestFolderFlag(t *testing.T) {
	out, err := execute(nearlyEqualFiles(), "-f", "Tracking/other", "a.root", "b.root")
	require.NoError(t, err)
	assert.Contains(t, out, " -> DQMData/Run 1/Tracking/other\n")
	assert.NotContains(t, out, "general/h1")
}

func TestKindMismatchFlag(t *testing.T) {
	p := simDoublets("general/h")
	files := memoryFiles(map[string]*store.Memory{
		"a.root": store.NewMemory(store.NewCount1D(p, edges, []float64{1, 2, 3}, nil)),
		"b.root": store.NewMemory(store.NewProfile(p, edges, []float64{1, 2, 3}, []float64{0, 0, 0})),
	})

	out, err := execute(files, "a.root", "b.root")
	require.NoError(t, err)
	assert.Contains(t, out, "TEST PASSED")

	_, err = execute(files, "--kind-mismatch", "error", "a.root", "b.root")
	var kerr *compare.KindMismatchError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, p, kerr.Path)

	_, err = execute(files, "--kind-mismatch", "abort", "a.root", "b.root")
	assert.Error(t, err)
}

func TestInvalidTolerance(t *testing.T) {
	for _, tol := range []string{"-1", "NaN"} {
		t.Run(tol, func(t *testing.T) {
			_, err := execute(nearlyEqualFiles(), "--tolerance="+tol, "a.root", "b.root")
			assert.ErrorIs(t, err, compare.ErrInvalidTolerance)
		})
	}
}

func TestOpenError(t *testing.T) {
	_, err := execute(nearlyEqualFiles(), "a.root", "missing.root")
	var oerr *store.OpenError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, "missing.root", oerr.Path)

	_, err = execute(nearlyEqualFiles(), "a.root")
	assert.Error(t, err)
}

func writeDQM(t *testing.T, name string, values ...float64) string {
	t.Helper()

	fname := filepath.Join(t.TempDir(), name)
	f, err := groot.Create(fname)
	require.NoError(t, err)

	h := hbook.NewH1D(len(values), 0, float64(len(values)))
	for i, v := range values {
		h.Fill(float64(i)+0.5, v)
	}
	require.NoError(t, riofs.Dir(f).Put(simDoublets("general/h1"), rhist.NewH1DFrom(h)))
	require.NoError(t, f.Close())
	return fname
}

func TestROOTFiles(t *testing.T) {
	a := writeDQM(t, "a.root", 1, 2, 3)
	b := writeDQM(t, "b.root", 1, 2, 4)

	out, err := execute(openFile, a, a)
	require.NoError(t, err)
	assert.Contains(t, out, "TEST PASSED")

	out, err = execute(openFile, "--strict", a, b)
	assert.ErrorIs(t, err, errFailed)
	assert.Contains(t, out, " -> "+simDoublets("general/h1")+"\n")
	assert.Contains(t, out, "   0 /    1 compared TH1 histograms passed")
}
