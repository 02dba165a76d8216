package dqmplot

import (
	"fmt"
	"strconv"
	"strings"
)

// LayerPairFlags collects repeated "inner,outer" layer pair flags. The
// first use replaces the defaults.
type LayerPairFlags struct {
	Pairs   [][2]int
	beenSet bool
}

func (f *LayerPairFlags) Set(valueStr string) error {
	inner, outer, ok := strings.Cut(valueStr, ",")
	if !ok {
		return fmt.Errorf("layer pair %q is not of the form inner,outer", valueStr)
	}
	i, err := strconv.Atoi(strings.TrimSpace(inner))
	if err != nil {
		return err
	}
	o, err := strconv.Atoi(strings.TrimSpace(outer))
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Pairs = nil
	}

	f.Pairs = append(f.Pairs, [2]int{i, o})
	return nil
}

func (f *LayerPairFlags) String() string {
	s := make([]string, len(f.Pairs))
	for i, p := range f.Pairs {
		s[i] = fmt.Sprintf("%d,%d", p[0], p[1])
	}
	return "[" + strings.Join(s, " ") + "]"
}

func (f *LayerPairFlags) Type() string { return "inner,outer" }
