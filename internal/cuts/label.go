package cuts

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LabelValue formats a cut value for a legend: integers as such, large and
// small values in scientific notation, the rest with one or two decimals.
//
//	100000  => 10^5
//	5       => 5
//	2.3     => 2.3
//	0.134   => 0.13
//	0.00735 => 7.35×10^-3
func LabelValue(v float64) string {
	switch {
	case math.IsInf(v, 0) || math.IsNaN(v):
		return strconv.FormatFloat(v, 'g', -1, 64)
	case v == math.Trunc(v) || v > 100:
		if math.Abs(v) < 10000 {
			return strconv.Itoa(int(v))
		}
		return scientific(v)
	case math.Abs(v) >= 0.1:
		return decimals(v)
	}
	return scientific(v)
}

func decimals(v float64) string {
	if isInt(v * 10) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func scientific(v float64) string {
	coef, exp := splitScientific(v)
	var s string
	switch {
	case isInt(coef):
		s = strconv.Itoa(int(coef))
		switch s {
		case "1":
			return fmt.Sprintf("10^%d", exp)
		case "-1":
			return fmt.Sprintf("-10^%d", exp)
		}
	default:
		s = decimals(coef)
	}
	return fmt.Sprintf("%s×10^%d", s, exp)
}

// splitScientific returns the coefficient and exponent of v in scientific
// notation, with the coefficient rounded to six decimals.
func splitScientific(v float64) (float64, int) {
	s := strconv.FormatFloat(v, 'E', 6, 64)
	i := strings.IndexByte(s, 'E')
	coef, _ := strconv.ParseFloat(s[:i], 64)
	exp, _ := strconv.Atoi(s[i+1:])
	return coef, exp
}

func isInt(v float64) bool {
	return v == math.Trunc(v)
}
