// Command comparisonplots compares the efficiencies of several DQM files.
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
	"github.com/decibelcooper/dqmplot/internal/plotter"
	"github.com/decibelcooper/dqmplot/internal/store"
)

const (
	etaLabel = "TrackingParticle pseudorapidity η"
	ptLabel  = "TrackingParticle transverse momentum pT [GeV]"

	effPerTP = "Average fraction of SimDoublets per TrackingParticle passing all cuts"
	effTP    = "Efficiency for TrackingParticles (having an alive SimNtuplet)"
	effTotal = "Total fraction of SimDoublets passing all cuts"
)

type options struct {
	prefix      string
	dir         string
	nevents     int
	workers     int
	format      string
	cpuprofile  string
	tracks      []string
	trackFolder string
	layerPairs  dqmplot.LayerPairFlags
	label       plotter.Label
}

func main() {
	log.SetPrefix("comparisonplots: ")
	log.SetFlags(0)

	if err := newCommand().Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "comparisonplots [options] <plotter-config.yml>",
		Short: "Compare the SimDoublets efficiencies of several DQM files",
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
	flags.StringVarP(&opts.prefix, "path", "p", "", "directory the relative paths of the config file refer to")
	flags.StringVarP(&opts.dir, "dir", "d", "plots", "directory to save the plots in")
	flags.IntVarP(&opts.nevents, "nevents", "n", -1, "number of events used for scaling if the files do not record it")
	flags.IntVarP(&opts.workers, "jobs", "j", 0, "number of plots drawn concurrently (default is the number of CPUs)")
	flags.StringVar(&opts.format, "format", "png", "image format of the plots (png, pdf, svg, ...)")
	flags.StringVar(&opts.cpuprofile, "cpuprofile", "", "write a CPU profile to this directory")
	flags.StringArrayVar(&opts.tracks, "track", nil, "tracking validation histogram to compare, as count:bin (e.g. eff:pt, may be repeated)")
	flags.StringVar(&opts.trackFolder, "track-folder", "DQMData/Run 1/Tracking/Run summary/Track/general_trackingParticleRecoAsssociation", "folder of the tracking validation histograms")
	flags.Var(&opts.layerPairs, "layerpair", "layer pair used in the reconstruction (may be repeated)")
	opts.label.AddFlags(flags)

	return cmd
}

func run(ctx context.Context, w io.Writer, fname string, opts *options) error {
	banner := strings.Repeat("=", 50)
	fmt.Fprintf(w, "%s\n  Start comparisonplots\n%s\n", banner, banner)
	fmt.Fprintf(w, "Run the plotter with the following settings:\n")
	fmt.Fprintf(w, " * config file: %s\n", fname)
	fmt.Fprintf(w, " * output directory: %s\n", opts.dir)

	inputs, err := loadConfig(fname, opts.prefix)
	if err != nil {
		return err
	}
	var tracks []trackHist
	for _, s := range opts.tracks {
		th, err := parseTrackHist(s)
		if err != nil {
			return err
		}
		tracks = append(tracks, th)
	}

	var (
		sims  []plotter.Input
		trks  []plotter.Input
		files []*store.File
	)
	for _, in := range inputs {
		fmt.Fprintf(w, " * %s: %s\n", in.Label, in.Path)
		f, err := store.Open(in.Path)
		if err != nil {
			return err
		}
		defer f.Close()
		files = append(files, f)
		sims = append(sims, plotter.Input{Store: store.Sub(f, dqmplot.SimDoubletsFolder), Label: in.Label})
		trks = append(trks, plotter.Input{Store: store.Sub(f, opts.trackFolder), Label: in.Label})
	}

	// the number of events is taken from the last file
	nevents, err := plotter.NumEvents(files[len(files)-1], opts.nevents)
	if err != nil {
		return err
	}
	if nevents > 0 {
		fmt.Fprintf(w, " * determined number of events: %g\n   (scale accordingly)\n\n", nevents)
	} else {
		fmt.Fprintf(w, " * do not scale plots to number of events\n\n")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := plotter.Config{
		Dir:       opts.dir,
		NumEvents: nevents,
		Label:     opts.label,
		Format:    opts.format,
		Logger:    logger,
	}

	var stats plotter.LayerPairStats
	jobs := []plotter.Job{
		{Name: "layer pairs", Run: func() (fname string, err error) {
			fname, stats, err = plotter.LayerPairs(cfg, sims[0].Store, opts.layerPairs.Pairs, nil)
			return fname, err
		}},
	}
	for _, e := range []struct{ name, x, y string }{
		{"general/efficiencyPerTP_vs_eta", etaLabel, effPerTP},
		{"general/efficiencyPerTP_vs_pT", ptLabel, effPerTP},
		{"general/efficiencyTP_vs_eta", etaLabel, effTP},
		{"general/efficiencyTP_vs_pT", ptLabel, effTP},
		{"general/efficiency_vs_eta", etaLabel, effTotal},
		{"general/efficiency_vs_pT", ptLabel, effTotal},
	} {
		e := e
		jobs = append(jobs, plotter.Job{Name: e.name, Run: func() (string, error) {
			return plotter.EfficiencyComparison(cfg, sims, e.name, e.x, e.y)
		}})
	}

	trackCfg := cfg
	trackCfg.Dir = filepath.Join(opts.dir, "tracking")
	for _, th := range tracks {
		th := th
		jobs = append(jobs, plotter.Job{Name: th.name, Run: func() (string, error) {
			return plotter.EfficiencyComparison(trackCfg, trks, th.name, th.x, th.y)
		}})
	}

	pool := plotter.Pool{Workers: opts.workers, Logger: logger}
	err = pool.Run(ctx, jobs)
	if stats.Total > 0 && len(opts.layerPairs.Pairs) > 0 {
		fmt.Fprintf(w, "\nStatistics from layerPairs:\n%v\n\n", stats)
	}
	if err != nil {
		return fmt.Errorf("could not draw all comparison plots: %w", err)
	}

	fmt.Fprintf(w, "%s\n  End comparisonplots\n%s\n", banner, banner)
	return nil
}
