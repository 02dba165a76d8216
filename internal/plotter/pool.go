package plotter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Job produces one plot and returns the file it was saved to.
type Job struct {
	Name string
	Run  func() (string, error)
}

// Pool runs plot jobs on a fixed number of workers. A failing job does not
// stop the others; all failures are returned together.
type Pool struct {
	Workers int
	Logger  *slog.Logger
}

func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	grp := new(errgroup.Group)
	grp.SetLimit(workers)
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		job := job
		grp.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fname, err := job.Run()
			if err != nil {
				logger.Error("plot failed", "plot", job.Name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", job.Name, err))
				mu.Unlock()
				return nil
			}
			logger.Debug("plot saved", "plot", job.Name, "file", fname)
			return nil
		})
	}
	_ = grp.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
