package cuts

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cutFile = `
cellZ0Cut: 12.0
cellPtCut: 0.5
cellMaxDYSize12: 28
cellMinYSizeB1: 25
layerPairs:
  - [0, 1]
  - [1, 2]
nonSkippingLayerPairs: [[0, 1]]
cellMaxr: [20, 9]
cellMinz: [-16, -22]
cellMaxz: [16, 22]
connectionCuts:
  - name: hardCurv
    label: curvature
    max: 0.0328407
  - name: CAThetaCut
    labelPrefix: "theta "
    max: 0.002
    layers: [0, 4]
`

func writeCuts(t *testing.T, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "cuts.yml")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0o644))
	return fname
}

func TestType(t *testing.T) {
	c := Global("x", "")
	assert.Equal(t, None, c.Type())
	c.Min = 1
	assert.Equal(t, Min, c.Type())
	c.Max = 2
	assert.Equal(t, Both, c.Type())
	c.Min = math.Inf(-1)
	assert.Equal(t, Max, c.Type())
	assert.Equal(t, "max", c.Type().String())
}

func TestSubfolder(t *testing.T) {
	for _, tc := range []struct {
		cut  CellCut
		want string
	}{
		{CellCut{Doublet: true}, "CAParameters/doubletCuts/global/"},
		{CellCut{Doublet: true, LayerDependent: true, Inner: 0, Outer: 4}, "CAParameters/doubletCuts/lp_0_4/"},
		{CellCut{Connection: true}, "CAParameters/connectionCuts/global/"},
		{CellCut{Connection: true, LayerDependent: true, Inner: 3}, "CAParameters/connectionCuts/layer_3/"},
	} {
		got, err := tc.cut.Subfolder()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := CellCut{Name: "x"}.Subfolder()
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	c := CellCut{Name: "dr", Doublet: true, LayerDependent: true, Inner: 1, Outer: 2}
	assert.Equal(t, filepath.FromSlash("out/CAParameters/doubletCuts/dr/lp_1_2.png"), c.OutputPath("out", "png"))
	assert.Equal(t, "Layer pair (1,2)", c.LegendTitle())

	c = CellCut{Name: "CAThetaCut", Connection: true, LayerDependent: true, Inner: 4}
	assert.Equal(t, filepath.FromSlash("out/CAParameters/connectionCuts/CAThetaCut/layer_4.pdf"), c.OutputPath("out", "pdf"))
	assert.Equal(t, "Layer 4", c.LegendTitle())

	c = CellCut{Name: "z0", Doublet: true}
	assert.Equal(t, filepath.FromSlash("out/CAParameters/doubletCuts/z0.png"), c.OutputPath("out", "png"))
	assert.Equal(t, "", c.LegendTitle())
}

func TestLoadCuts(t *testing.T) {
	v, err := Load(writeCuts(t, cutFile))
	require.NoError(t, err)

	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, v.LayerPairs)
	assert.Equal(t, [][2]int{{0, 1}}, v.NonSkippingLayerPairs)

	all := v.Cuts()
	var names []string
	for _, c := range all {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"z0", "pTFromR", "DYsize12", "YsizeB1",
		"dr", "dr", "innerZ", "innerZ",
		"hardCurv", "CAThetaCut", "CAThetaCut",
	}, names)

	assert.Equal(t, Max, all[0].Type())
	assert.Equal(t, 12.0, all[0].Max)
	assert.True(t, all[1].Log)
	assert.Equal(t, Min, all[1].Type())

	inner, err := Select(all, "innerZ")
	require.NoError(t, err)
	require.Len(t, inner, 2)
	assert.Equal(t, Both, inner[1].Type())
	assert.Equal(t, -22.0, inner[1].Min)
	assert.Equal(t, [2]int{1, 2}, [2]int{inner[1].Inner, inner[1].Outer})

	theta, err := Select(all, "CAThetaCut")
	require.NoError(t, err)
	require.Len(t, theta, 2)
	assert.True(t, theta[1].Connection)
	assert.Equal(t, 4, theta[1].Inner)
	assert.Equal(t, "cut_max = theta 2×10^-3", theta[1].ValueLabel(Max))

	_, err = Select(all, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CAThetaCut, DYsize12")

	got, err := Select(all, "")
	require.NoError(t, err)
	assert.Len(t, got, len(all))
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeCuts(t, "layerPairs: [[0, 1]]\ncellMaxr: [1, 2]\n"))
	assert.ErrorContains(t, err, "cellMaxr has 2 values for 1 layer pairs")

	_, err = Load(writeCuts(t, "connectionCuts: [{max: 1}]\n"))
	assert.Error(t, err)

	_, err = Load(writeCuts(t, "cellZ0Cut: [\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLabelValue(t *testing.T) {
	for _, tc := range []struct {
		v    float64
		want string
	}{
		{100000, "10^5"},
		{5, "5"},
		{-3, "-3"},
		{2.3, "2.3"},
		{0.134, "0.13"},
		{0.00735, "7.35×10^-3"},
		{0.002, "2×10^-3"},
		{0.01, "10^-2"},
		{-0.01, "-10^-2"},
		{0.0025, "2.5×10^-3"},
		{250.7, "250"},
		{25000, "2.5×10^4"},
		{12345, "1.23×10^4"},
	} {
		assert.Equal(t, tc.want, LabelValue(tc.v), "value %v", tc.v)
	}
}
