package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/dqmplot"
)

// input is one DQM file of the comparison.
type input struct {
	Key   string `yaml:"-"`
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

// loadConfig reads the plotter config, a YAML mapping of keys to a DQM
// file path and its legend label. The order of the keys is kept. Relative
// paths are resolved against prefix if given.
func loadConfig(fname, prefix string) ([]input, error) {
	raw, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("could not read plotter config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("could not decode plotter config %q: %w", fname, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("plotter config %q is empty", fname)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("plotter config %q is not a mapping", fname)
	}

	var inputs []input
	for i := 0; i+1 < len(root.Content); i += 2 {
		in := input{Key: root.Content[i].Value}
		if err := root.Content[i+1].Decode(&in); err != nil {
			return nil, fmt.Errorf("could not decode input %q: %w", in.Key, err)
		}
		if in.Path == "" {
			return nil, fmt.Errorf("input %q has no path", in.Key)
		}
		if prefix != "" && !filepath.IsAbs(in.Path) {
			in.Path = filepath.Join(prefix, in.Path)
		}
		if in.Label == "" {
			in.Label = in.Key
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("plotter config %q lists no input", fname)
	}
	return inputs, nil
}

// trackHist is a tracking validation histogram given as "count:bin",
// e.g. "eff:pt".
type trackHist struct {
	name, x, y string
}

func parseTrackHist(s string) (trackHist, error) {
	count, bin, ok := strings.Cut(s, ":")
	if !ok || count == "" || bin == "" {
		return trackHist{}, fmt.Errorf("tracking histogram %q is not of the form count:bin", s)
	}
	return trackHist{
		name: dqmplot.HistName(count, bin),
		x:    dqmplot.Label(bin),
		y:    dqmplot.Label(count),
	}, nil
}
