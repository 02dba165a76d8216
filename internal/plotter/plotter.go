// Package plotter draws the SimDoublets DQM histograms.
package plotter

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg" // png, jpg, tiff
	_ "gonum.org/v1/plot/vg/vgpdf"
	_ "gonum.org/v1/plot/vg/vgsvg"

	"github.com/decibelcooper/dqmplot"
	"github.com/decibelcooper/dqmplot/internal/hist"
	"github.com/decibelcooper/dqmplot/internal/store"
)

const (
	width  = 6 * vg.Inch
	height = 4.5 * vg.Inch
)

// Label is the experiment label drawn on top of every plot.
type Label struct {
	Left  string  // next to the experiment name, e.g. "Private Work"
	Right string  // upper right, e.g. the sample
	CoM   float64 // center of mass energy in TeV, 0 to omit
}

func (l Label) String() string {
	s := "CMS"
	if l.Left != "" {
		s += " " + l.Left
	}
	var right []string
	if l.Right != "" {
		right = append(right, l.Right)
	}
	if l.CoM > 0 {
		right = append(right, "("+strconv.FormatFloat(l.CoM, 'g', -1, 64)+" TeV)")
	}
	if len(right) > 0 {
		s += "    " + strings.Join(right, " ")
	}
	return s
}

// AddFlags registers the --llabel, --rlabel and --com flags.
func (l *Label) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&l.Left, "llabel", "Private Work", "label next to CMS in plot")
	flags.StringVar(&l.Right, "rlabel", "", "label displayed in upper right of plot")
	flags.Float64Var(&l.CoM, "com", 14, "center of mass energy displayed in plots")
}

// NumEvents returns the number of processed events recorded in st. If st
// has none, n is used when positive. Zero means counts are not scaled.
func NumEvents(st store.Store, n int) (float64, error) {
	v, ok, err := store.NumEvents(st)
	switch {
	case err != nil:
		return 0, fmt.Errorf("could not read number of events: %w", err)
	case ok:
		return v, nil
	case n > 0:
		return float64(n), nil
	}
	return 0, nil
}

// Config is shared by all plots.
type Config struct {
	// Dir is the directory plots are saved in.
	Dir string
	// NumEvents scales counts to counts per event when positive.
	NumEvents float64
	Label     Label
	// Format is the file extension deciding the image format, png by
	// default.
	Format string
	// LimitX tailors x ranges to the non-empty bins.
	LimitX bool

	Logger *slog.Logger
}

func (cfg Config) format() string {
	if cfg.Format == "" {
		return "png"
	}
	return strings.TrimPrefix(cfg.Format, ".")
}

func (cfg Config) logger() *slog.Logger {
	if cfg.Logger == nil {
		return slog.Default()
	}
	return cfg.Logger
}

// scale returns the factor turning counts into counts per event.
func (cfg Config) scale() float64 {
	if cfg.NumEvents > 0 {
		return 1 / cfg.NumEvents
	}
	return 1
}

func (cfg Config) perEvent() string {
	if cfg.NumEvents > 0 {
		return " / event"
	}
	return ""
}

// path returns the output file of a plot named after a histogram path.
func (cfg Config) path(name string) string {
	return filepath.Join(cfg.Dir, filepath.FromSlash(name)+"."+cfg.format())
}

func (cfg Config) newPlot() *hplot.Plot {
	p := hplot.New()
	p.Title.Text = cfg.Label.String()
	p.Legend.Top = true
	p.X.Tick.Marker = dqmplot.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = dqmplot.PreciseTicks{NSuggestedTicks: 5}
	return p
}

func save(p *hplot.Plot, fname string) error {
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return fmt.Errorf("could not create plot directory: %w", err)
	}
	if err := p.Save(width, height, fname); err != nil {
		return fmt.Errorf("could not save plot %q: %w", fname, err)
	}
	return nil
}

// saveCanvas draws onto a canvas of the format of fname and writes it.
func saveCanvas(fname string, w, h vg.Length, drawFn func(dc draw.Canvas)) error {
	if err := os.MkdirAll(filepath.Dir(fname), 0o755); err != nil {
		return fmt.Errorf("could not create plot directory: %w", err)
	}

	c, err := draw.NewFormattedCanvas(w, h, strings.TrimPrefix(filepath.Ext(fname), "."))
	if err != nil {
		return fmt.Errorf("could not create canvas for %q: %w", fname, err)
	}
	drawFn(draw.New(c))

	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create plot file: %w", err)
	}
	defer f.Close()

	if _, err := c.WriteTo(f); err != nil {
		return fmt.Errorf("could not write plot %q: %w", fname, err)
	}
	return f.Close()
}

// isLog tells whether the x axis of a histogram is drawn logarithmically.
func isLog(name string) bool {
	return strings.Contains(name, "pT") || strings.Contains(name, "pt") || strings.Contains(name, "Pt")
}

// setLogX draws the x axis logarithmically if the binning allows it.
func setLogX(p *hplot.Plot, edges []float64) {
	if len(edges) == 0 || edges[0] <= 0 {
		return
	}
	p.X.Min, p.X.Max = edges[0], edges[len(edges)-1]
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
}

// stairs draws h as a step line, filled when fill is not nil.
func stairs(h *hist.H1, line, fill color.Color) *hplot.H1D {
	hh := hplot.NewH1D(h.H1D())
	hh.Infos.Style = hplot.HInfoNone
	hh.LineStyle.Width = vg.Points(1.5)
	if line == nil {
		line = fill
		hh.LineStyle.Width = vg.Points(0.5)
	}
	hh.LineStyle.Color = line
	hh.FillColor = fill
	return hh
}

// errorPoints draws markers with x and y error bars.
func errorPoints(p *hplot.Plot, pts interface {
	plotter.XYer
	plotter.XErrorer
	plotter.YErrorer
}, c color.Color) (plot.Thumbnailer, error) {
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = draw.BoxGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)

	xerr, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return nil, err
	}
	xerr.LineStyle.Color = c
	yerr, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return nil, err
	}
	yerr.LineStyle.Color = c

	p.Add(xerr, yerr, s)
	return s, nil
}

// hline draws a dashed horizontal line across the plot.
func hline(p *hplot.Plot, y float64, c color.Color) {
	l := hplot.HLine(y, nil, nil)
	l.Line.Color = c
	l.Line.Width = vg.Points(1)
	l.Line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
	p.Add(l)
}

// lineThumb is a legend entry for a line.
func lineThumb(style draw.LineStyle) plot.Thumbnailer {
	return &plotter.Line{LineStyle: style}
}
