package pipeline

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/spookworks/ganprep/internal/config"
	"github.com/spookworks/ganprep/internal/logging"
	"github.com/spookworks/ganprep/internal/term"
)

// ErrDispatch is returned when the worker pool cannot be established. It is
// the only fatal runner error; individual job failures never abort the batch.
var ErrDispatch = errors.New("worker pool could not be started")

// Job is one (source item, operation) work unit. Fn does the actual transform
// and returns a per-item error on failure.
type Job struct {
	Source string // Source file path (for logs).
	Output string // Resolved artifact path; empty for in-place operations.
	Op     string // Operation tag, e.g. "convert", "blur".
	Fn     func() error
}

// Runner dispatches jobs across a bounded worker pool with per-item failure
// isolation and progress reporting.
type Runner struct {
	cfg *config.Config
	log *logging.Logger
}

// NewRunner creates a runner bound to the given config and logger.
func NewRunner(cfg *config.Config, log *logging.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run executes jobs across cfg.Workers goroutines. Completion order is not
// guaranteed. A failing job is logged, counted in stats, and skipped; Run
// itself only fails with [ErrDispatch] when the pool cannot be set up.
// Context cancellation stops dispatching new jobs and lets in-flight ones
// finish.
func (r *Runner) Run(ctx context.Context, label string, jobs []Job, stats *RunStats) error {
	if r.cfg.Workers < 1 {
		return errors.Wrapf(ErrDispatch, "invalid worker count %d", r.cfg.Workers)
	}
	if len(jobs) == 0 {
		return nil
	}

	bar := r.newBar(len(jobs), label)

	var g errgroup.Group
	g.SetLimit(r.cfg.Workers)

	dispatched := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		dispatched++
		job := job
		g.Go(func() error {
			if ctx.Err() != nil {
				// Cancelled after dispatch: count as not run.
				return nil
			}
			err := job.Fn()
			stats.JobDone(err != nil)
			if err != nil {
				r.log.Error("%v", err)
			} else {
				r.log.Debug("%s ok: %s", job.Op, job.Source)
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	if bar != nil {
		_ = bar.Finish()
	}
	if dispatched < len(jobs) {
		r.log.Warn("Interrupted: %d %s jobs not dispatched", len(jobs)-dispatched, label)
	}
	return nil
}

// newBar builds the progress bar for a phase, or returns nil when progress
// display is off or stderr is not a terminal.
func (r *Runner) newBar(total int, label string) *progressbar.ProgressBar {
	if !r.cfg.Progress || !term.IsTerminal(os.Stderr) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionEnableColorCodes(term.Enabled()),
		progressbar.OptionSetTheme(progressbar.ThemeUnicode),
		progressbar.OptionClearOnFinish(),
	)
}
