package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "plotter.yml")
	require.NoError(t, os.WriteFile(fname, []byte(content), 0o644))
	return fname
}

func TestLoadConfig(t *testing.T) {
	fname := writeConfig(t, `
new:
  path: new/DQM.root
  label: "with new cuts"
ref:
  path: /data/ref/DQM.root
alt:
  path: alt/DQM.root
  label: alternative
`)

	inputs, err := loadConfig(fname, "/work")
	require.NoError(t, err)
	assert.Equal(t, []input{
		{Key: "new", Path: filepath.Join("/work", "new/DQM.root"), Label: "with new cuts"},
		{Key: "ref", Path: "/data/ref/DQM.root", Label: "ref"},
		{Key: "alt", Path: filepath.Join("/work", "alt/DQM.root"), Label: "alternative"},
	}, inputs)

	inputs, err = loadConfig(fname, "")
	require.NoError(t, err)
	assert.Equal(t, "new/DQM.root", inputs[0].Path)
}

func TestLoadConfigInvalid(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		msg     string
	}{
		{"empty", "", "is empty"},
		{"list", "- a\n- b\n", "is not a mapping"},
		{"no path", "a:\n  label: x\n", `input "a" has no path`},
		{"no input", "{}\n", "lists no input"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tc.content), "")
			assert.ErrorContains(t, err, tc.msg)
		})
	}

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"), "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseTrackHist(t *testing.T) {
	th, err := parseTrackHist("eff:pt")
	require.NoError(t, err)
	assert.Equal(t, trackHist{name: "efficPt", x: "Transverse momentum pT [GeV]", y: "Efficiency"}, th)

	th, err = parseTrackHist("fake:phi")
	require.NoError(t, err)
	assert.Equal(t, "fakerate_vs_phi", th.name)

	_, err = parseTrackHist("eff")
	assert.Error(t, err)
	_, err = parseTrackHist(":pt")
	assert.Error(t, err)
}
