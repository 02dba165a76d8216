// Command cutplots draws the distributions of the parameters the CA cuts
// are applied on, together with the configured cut values.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/cuts"
	"github.com/decibelcooper/dqmplot/internal/plotter"
	"github.com/decibelcooper/dqmplot/internal/store"
)

type options struct {
	cutFile    string
	dir        string
	cut        string
	nevents    int
	workers    int
	format     string
	limitX     bool
	cpuprofile string
	verbose    bool
	label      plotter.Label
}

func main() {
	log.SetPrefix("cutplots: ")
	log.SetFlags(0)

	if err := newCommand().Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cutplots [options] <dqm-file>",
		Short: "Plot the cut parameter distributions of the SimDoublets DQM histograms",
		Args:  cobra.ExactArgs(1),

		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cpuprofile != "" {
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(opts.cpuprofile), profile.Quiet).Stop()
			}
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.cutFile, "cuts", "c", "cutParameters/currentCuts.yml", "YAML file with the applied cut values")
	flags.StringVarP(&opts.dir, "dir", "d", "plots", "directory to save the plots in")
	flags.StringVar(&opts.cut, "cut", "", "cut parameter to be plotted (by default all are plotted)")
	flags.IntVarP(&opts.nevents, "nevents", "n", -1, "number of events used for scaling if the file does not record it")
	flags.IntVarP(&opts.workers, "jobs", "j", 0, "number of plots drawn concurrently (default is the number of CPUs)")
	flags.StringVar(&opts.format, "format", "png", "image format of the plots (png, pdf, svg, ...)")
	flags.BoolVar(&opts.limitX, "limit-x", false, "restrict x ranges to the non-empty bins")
	flags.StringVar(&opts.cpuprofile, "cpuprofile", "", "write a CPU profile to this directory")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every saved plot")
	opts.label.AddFlags(flags)

	return cmd
}

func run(ctx context.Context, w io.Writer, fname string, opts *options) error {
	banner := strings.Repeat("=", 30)
	fmt.Fprintf(w, "%s\n  Start cutplots\n%s\n", banner, banner)
	fmt.Fprintf(w, "Run the plotter with the following settings:\n")
	fmt.Fprintf(w, " * DQM file: %s\n", fname)
	fmt.Fprintf(w, " * cut file: %s\n", opts.cutFile)
	fmt.Fprintf(w, " * output directory: %s\n", opts.dir)

	values, err := cuts.Load(opts.cutFile)
	if err != nil {
		return err
	}
	selected, err := cuts.Select(values.Cuts(), opts.cut)
	if err != nil {
		return err
	}

	f, err := store.Open(fname)
	if err != nil {
		return err
	}
	defer f.Close()

	nevents, err := plotter.NumEvents(f, opts.nevents)
	if err != nil {
		return err
	}
	printEvents(w, nevents)

	cfg := plotter.Config{
		Dir:       filepath.Join(opts.dir, "cutParameters"),
		NumEvents: nevents,
		Label:     opts.label,
		Format:    opts.format,
		LimitX:    opts.limitX,
		Logger:    newLogger(opts.verbose),
	}
	st := store.Sub(f, dqmplot.SimDoubletsFolder)

	jobs := make([]plotter.Job, 0, len(selected))
	for _, cut := range selected {
		cut := cut
		name := cut.Name
		if cut.LayerDependent {
			name = fmt.Sprintf("%s (%s)", cut.Name, cut.LegendTitle())
		}
		jobs = append(jobs, plotter.Job{
			Name: name,
			Run:  func() (string, error) { return plotter.CutParameter(cfg, st, cut) },
		})
	}
	fmt.Fprintf(w, " * number of plots: %d\n\n", len(jobs))

	pool := plotter.Pool{Workers: opts.workers, Logger: cfg.Logger}
	if err := pool.Run(ctx, jobs); err != nil {
		return fmt.Errorf("could not draw all cut plots: %w", err)
	}

	fmt.Fprintf(w, "%s\n  End cutplots\n%s\n", banner, banner)
	return nil
}

func printEvents(w io.Writer, n float64) {
	if n <= 0 {
		fmt.Fprintf(w, " * do not scale plots to number of events\n")
		return
	}
	fmt.Fprintf(w, " * determined number of events: %g\n   (scale accordingly)\n", n)
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
