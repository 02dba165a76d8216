// Command compareroot compares the histograms of two ROOT DQM files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/compare"
	"github.com/decibelcooper/dqmplot/internal/store"
)

var errFailed = errors.New("histograms differ")

type options struct {
	folder    string
	tolerance float64
	kinds     string
	unordered bool
	strict    bool
}

func main() {
	log.SetPrefix("compareroot: ")
	log.SetFlags(0)

	err := newCommand(openFile).Execute()
	switch {
	case errors.Is(err, errFailed):
		os.Exit(1)
	case err != nil:
		log.Fatalf("%+v", err)
	}
}

// opener opens the store held by a DQM file.
type opener func(fname string) (store.Store, error)

func openFile(fname string) (store.Store, error) {
	f, err := store.Open(fname)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func newCommand(open opener) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "compareroot [options] <dqm-file-1> <dqm-file-2>",
		Short: "Compare two ROOT DQM files and report which histograms differ",
		Args:  cobra.ExactArgs(2),

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), open, args[0], args[1], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.folder, "folder", "f", dqmplot.SimDoubletsFolder, "folder to check (default is SimDoublets folder)")
	flags.Float64VarP(&opts.tolerance, "tolerance", "t", 1e-5, "tolerance for comparison of values")
	flags.StringVar(&opts.kinds, "kind-mismatch", "skip", "what to do with histograms of different kinds in both files (skip|error)")
	flags.BoolVar(&opts.unordered, "unordered", false, "report differing histograms in iteration order instead of sorted")
	flags.BoolVar(&opts.strict, "strict", false, "exit with a non-zero status if the test fails")

	return cmd
}

func run(w io.Writer, open opener, fname1, fname2 string, opts *options) error {
	banner := strings.Repeat("=", 30)
	fmt.Fprintf(w, "%s\n  Start compareroot\n%s\n", banner, banner)
	fmt.Fprintf(w, "Compare the following two ROOT files:\n")
	fmt.Fprintf(w, " * DQM file 1: %s\n", fname1)
	fmt.Fprintf(w, " * DQM file 2: %s\n", fname2)
	fmt.Fprintf(w, "\nAdditional settings:\n")
	fmt.Fprintf(w, " * folder to be compared: %s\n", opts.folder)
	fmt.Fprintf(w, " * accepted tolerance when comparing: %g\n", opts.tolerance)

	kinds, err := compare.ParseKindPolicy(opts.kinds)
	if err != nil {
		return err
	}
	copts := compare.Options{
		Folder:    opts.folder,
		Tolerance: opts.tolerance,
		Kinds:     kinds,
	}
	if opts.unordered {
		copts.Order = compare.Unordered
	}

	f1, err := open(fname1)
	if err != nil {
		return err
	}
	defer f1.Close()

	f2, err := open(fname2)
	if err != nil {
		return err
	}
	defer f2.Close()

	res, err := compare.Check(f1, f2, copts)
	if err != nil {
		return fmt.Errorf("could not compare %q and %q: %w", fname1, fname2, err)
	}

	if err := compare.WriteReport(w, res); err != nil {
		return err
	}
	if n := len(res.Skipped); n > 0 {
		log.Printf("skipped %d histograms with different or unsupported kinds", n)
	}

	fmt.Fprintf(w, "%s\n  End compareroot\n%s\n", banner, banner)

	if opts.strict && res.Verdict() == compare.Failed {
		return errFailed
	}
	return nil
}
