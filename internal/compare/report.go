package compare

import (
	"fmt"
	"io"
	"strings"
)

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// WriteReport writes the human readable summary of res to w.
func WriteReport(w io.Writer, res *Result) error {
	ew := &errWriter{w: w}

	if s := res.Structural; s != nil {
		ew.printf("\n\nWARNING: Different structures in the files!\n")
		ew.printf("  -> only in file 1: %s\n", setString(s.OnlyInA))
		ew.printf("  -> only in file 2: %s\n", setString(s.OnlyInB))
		ew.printf("\nIgnore those paths in comparison...\n")
	}

	if len(res.Mismatches) > 0 {
		ew.printf("\n\nThe following histograms differ:\n")
		for _, p := range res.Mismatches {
			ew.printf(" -> %s\n", p)
		}
	} else {
		ew.printf("\n\nAll histograms identical.\n")
	}

	ew.printf("\n /************************************************/\n")
	ew.printf(" /*  %4d / %4d compared TH1 histograms passed  */\n", res.Count1D.Passed, res.Count1D.Total)
	ew.printf(" /*  %4d / %4d compared TH2 histograms passed  */\n", res.Count2D.Passed, res.Count2D.Total)
	ew.printf(" /*  %4d / %4d compared TProfiles passed       */\n", res.Profile.Passed, res.Profile.Total)
	ew.printf(" /*                                              */\n")
	ew.printf(" /*                 TEST %s                  */\n", res.Verdict())
	ew.printf(" /************************************************/\n\n")

	return ew.err
}

// setString formats paths as a set literal, {'a', 'b'}, or set() when empty.
func setString(paths []string) string {
	if len(paths) == 0 {
		return "set()"
	}
	quoted := make([]string, len(paths))
	for i, p := range paths {
		quoted[i] = "'" + p + "'"
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}
