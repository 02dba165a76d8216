// Command generalplots draws the general SimDoublets and SimNtuplets
// histograms of a DQM file.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/cuts"
	"github.com/decibelcooper/dqmplot/internal/plotter"
	"github.com/decibelcooper/dqmplot/internal/store"
)

const (
	etaLabel = "TrackingParticle pseudorapidity η"
	phiLabel = "TrackingParticle azimuthal angle φ [rad]"
	ptLabel  = "TrackingParticle transverse momentum pT [GeV]"

	effPerTP   = "Average fraction of SimDoublets per TrackingParticle passing all cuts"
	effTP      = "Efficiency for TrackingParticles (having an alive SimNtuplet)"
	effTotal   = "Total fraction of SimDoublets passing all cuts"
	fracRecHit = "Average fractional number of RecHits in longest surviving SimNtuplet"
)

type options struct {
	cutFile    string
	dir        string
	nevents    int
	workers    int
	format     string
	cpuprofile string
	verbose    bool
	layerPairs dqmplot.LayerPairFlags
	label      plotter.Label
}

func main() {
	log.SetPrefix("generalplots: ")
	log.SetFlags(0)

	if err := newCommand().Execute(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "generalplots [options] <dqm-file>",
		Short: "Plot the general SimDoublets and SimNtuplets histograms",
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
	flags.StringVarP(&opts.cutFile, "cuts", "c", "", "YAML file with the cut values, providing the layer pairs of the reconstruction")
	flags.StringVarP(&opts.dir, "dir", "d", "plots", "directory to save the plots in")
	flags.IntVarP(&opts.nevents, "nevents", "n", -1, "number of events used for scaling if the file does not record it")
	flags.IntVarP(&opts.workers, "jobs", "j", 0, "number of plots drawn concurrently (default is the number of CPUs)")
	flags.StringVar(&opts.format, "format", "png", "image format of the plots (png, pdf, svg, ...)")
	flags.StringVar(&opts.cpuprofile, "cpuprofile", "", "write a CPU profile to this directory")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every saved plot")
	flags.Var(&opts.layerPairs, "layerpair", "layer pair used in the reconstruction (may be repeated, replaces the pairs of the cut file)")
	opts.label.AddFlags(flags)

	return cmd
}

func run(ctx context.Context, w io.Writer, fname string, opts *options) error {
	banner := strings.Repeat("=", 30)
	fmt.Fprintf(w, "%s\n  Start generalplots\n%s\n", banner, banner)
	fmt.Fprintf(w, "Run the plotter with the following settings:\n")
	fmt.Fprintf(w, " * DQM file: %s\n", fname)
	fmt.Fprintf(w, " * output directory: %s\n", opts.dir)

	var pairs, noSkip [][2]int
	if opts.cutFile != "" {
		fmt.Fprintf(w, " * read layer pairs from cut file: %s\n", opts.cutFile)
		values, err := cuts.Load(opts.cutFile)
		if err != nil {
			return err
		}
		pairs, noSkip = values.LayerPairs, values.NonSkippingLayerPairs
	}
	if len(opts.layerPairs.Pairs) > 0 {
		fmt.Fprintf(w, " * layer pairs given on the command line: %s\n", opts.layerPairs.String())
		pairs = opts.layerPairs.Pairs
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
	if nevents > 0 {
		fmt.Fprintf(w, " * determined number of events: %g\n   (scale accordingly)\n\n", nevents)
	} else {
		fmt.Fprintf(w, " * do not scale plots to number of events\n\n")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if opts.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	cfg := plotter.Config{
		Dir:       opts.dir,
		NumEvents: nevents,
		Label:     opts.label,
		Format:    opts.format,
		Logger:    logger,
	}
	st := store.Sub(f, dqmplot.SimDoubletsFolder)

	var stats plotter.LayerPairStats
	jobs := []plotter.Job{
		{Name: "layer pairs", Run: func() (fname string, err error) {
			fname, stats, err = plotter.LayerPairs(cfg, st, pairs, noSkip)
			return fname, err
		}},
		{Name: "pdgId", Run: func() (string, error) { return plotter.PdgID(cfg, st) }},
	}
	jobs = append(jobs, generalJobs(cfg, st)...)
	jobs = append(jobs, simNtupletJobs(cfg, st)...)

	pool := plotter.Pool{Workers: opts.workers, Logger: logger}
	err = pool.Run(ctx, jobs)
	if stats.Total > 0 {
		fmt.Fprintf(w, "\nStatistics from layerPairs:\n%v\n\n", stats)
	}
	if err != nil {
		return fmt.Errorf("could not draw all general plots: %w", err)
	}

	fmt.Fprintf(w, "%s\n  End generalplots\n%s\n", banner, banner)
	return nil
}

type discrete struct {
	name, x, y string
	xlim       *[2]float64
}

type axes struct {
	name, x, y string
}

func generalJobs(cfg plotter.Config, st store.Store) []plotter.Job {
	var jobs []plotter.Job

	for _, d := range []discrete{
		{"general/numSimDoubletsPerTrackingParticle", "#SimDoublets / TrackingParticle", "#TrackingParticles", &[2]float64{-0.5, 10.5}},
		{"general/numLayersPerTrackingParticle", "#(hit layers / TrackingParticle)", "#TrackingParticles", &[2]float64{-0.5, 10.5}},
		{"general/numSkippedLayers", "#(skipped layers)", "#SimDoublets", &[2]float64{-1.5, 5.5}},
	} {
		d := d
		jobs = append(jobs, plotter.Job{Name: d.name, Run: func() (string, error) {
			return plotter.DiscreteHist(cfg, st, d.name, d.x, d.y, d.xlim)
		}})
	}

	for _, h := range []axes{
		{"general/numTPVsEta", etaLabel, "Number of TrackingParticles"},
		{"general/numTPVsPt", ptLabel, "Number of TrackingParticles"},
	} {
		h := h
		jobs = append(jobs, plotter.Job{Name: h.name, Run: func() (string, error) {
			return plotter.Hist(cfg, st, h.name, h.x, h.y)
		}})
	}

	for _, e := range []axes{
		{"general/efficiencyPerTP_vs_eta", etaLabel, effPerTP},
		{"general/efficiencyPerTP_vs_pT", ptLabel, effPerTP},
		{"general/efficiencyTP_vs_eta", etaLabel, effTP},
		{"general/efficiencyTP_vs_pT", ptLabel, effTP},
		{"general/efficiency_vs_eta", etaLabel, effTotal},
		{"general/efficiency_vs_pT", ptLabel, effTotal},
	} {
		e := e
		jobs = append(jobs, plotter.Job{Name: e.name, Run: func() (string, error) {
			return plotter.Efficiency(cfg, st, e.name, e.x, e.y)
		}})
	}

	for _, e := range []struct {
		name string
		axes plotter.Axes2D
	}{
		{"general/efficiency_vs_layerPair", plotter.Axes2D{X: "Inner layer ID", Y: "Outer layer ID", Z: effTotal, LayersX: true, LayersY: true}},
		{"general/efficiencyTP_vs_eta_phi", plotter.Axes2D{X: etaLabel, Y: phiLabel, Z: effTP}},
		{"general/numLayersVsEtaPt", plotter.Axes2D{X: etaLabel, Y: ptLabel, Z: "<#layers> hit by TrackingParticle"}},
		{"general/numLayersVsEta", plotter.Axes2D{X: etaLabel, Y: "#layers hit by TrackingParticle", Z: "#TrackingParticles"}},
		{"general/numSkippedLayersVsEta", plotter.Axes2D{X: etaLabel, Y: "#(skipped layers)", Z: "#TrackingParticles"}},
	} {
		e := e
		jobs = append(jobs, plotter.Job{Name: e.name, Run: func() (string, error) {
			return plotter.Efficiency2D(cfg, st, e.name, e.axes)
		}})
	}

	return jobs
}

func simNtupletJobs(cfg plotter.Config, st store.Store) []plotter.Job {
	var jobs []plotter.Job

	for _, ntuplet := range []string{"longest", "mostAlive"} {
		ntuplet := ntuplet
		for _, q := range []axes{{"eta", etaLabel, ""}, {"pT", ptLabel, ""}} {
			q := q
			jobs = append(jobs, plotter.Job{Name: "SimNtuplets " + ntuplet + " vs " + q.name, Run: func() (string, error) {
				return plotter.SimNtuplets(cfg, st, ntuplet, q.name, q.x)
			}})
		}
	}

	for _, d := range []discrete{
		{"simNtuplets/firstLayerId", "First layer ID of longest SimNtuplet", "#TrackingParticles", nil},
		{"simNtuplets/lastLayerId", "Last layer ID of longest SimNtuplet", "#TrackingParticles", nil},
		{"simNtuplets/numRecHits", "#RecHits in longest SimNtuplet", "#TrackingParticles", nil},
	} {
		d := d
		jobs = append(jobs, plotter.Job{Name: d.name, Run: func() (string, error) {
			return plotter.DiscreteHist(cfg, st, d.name, d.x, d.y, d.xlim)
		}})
	}

	for _, e := range []axes{
		{"simNtuplets/alive_fracNumRecHits_vs_eta", etaLabel, fracRecHit},
		{"simNtuplets/alive_fracNumRecHits_vs_pT", ptLabel, fracRecHit},
	} {
		e := e
		jobs = append(jobs, plotter.Job{Name: e.name, Run: func() (string, error) {
			return plotter.Efficiency(cfg, st, e.name, e.x, e.y)
		}})
	}

	layerSpan := func(z string) plotter.Axes2D {
		return plotter.Axes2D{X: "First layer ID", Y: "Last layer ID", Z: z, LayersX: true, LayersY: true}
	}
	firstLayer := func(z string) plotter.Axes2D {
		return plotter.Axes2D{X: etaLabel, Y: "First layer ID", Z: z, LayersY: true}
	}
	for _, e := range []struct {
		name string
		axes plotter.Axes2D
	}{
		{"simNtuplets/layerSpan", layerSpan("Longest SimNtuplet of TPs")},
		{"simNtuplets/alive_layerSpan", layerSpan("Longest alive SimNtuplet of TPs")},
		{"simNtuplets/fracAlive_layerSpan", layerSpan("Fraction of longest SimNtuplet of TPs being reconstructed")},
		{"simNtuplets/fracLost_layerSpan", layerSpan("Fraction of longest SimNtuplet of TPs being lost in reconstruction")},
		{"simNtuplets/firstLayerVsEta", firstLayer("Longest SimNtuplet of TPs")},
		{"simNtuplets/alive_firstLayerVsEta", firstLayer("Longest alive SimNtuplet of TPs")},
		{"simNtuplets/fracAlive_firstLayer_vs_eta", firstLayer("Fraction of longest SimNtuplet of TPs being reconstructed")},
		{"simNtuplets/fracLost_firstLayer_vs_eta", firstLayer("Fraction of longest SimNtuplet of TPs being lost in reconstruction")},
	} {
		e := e
		jobs = append(jobs, plotter.Job{Name: e.name, Run: func() (string, error) {
			return plotter.Efficiency2D(cfg, st, e.name, e.axes)
		}})
	}

	return jobs
}
