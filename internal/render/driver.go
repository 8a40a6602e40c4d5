package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/ctxlog"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/expand"
)

// ErrRenderFailed matches every *RenderError via errors.Is.
var ErrRenderFailed = errors.New("render failed")

// RenderError describes the render that stopped a fail-fast batch.
type RenderError struct {
	Name     string
	ExitCode int
	Err      error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("render %s failed: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("render %s exited with status %d", e.Name, e.ExitCode)
}

// Unwrap returns the underlying invocation error, if any.
func (e *RenderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRenderFailed.
func (e *RenderError) Is(target error) bool { return target == ErrRenderFailed }

// Options tunes how a Driver runs a batch.
type Options struct {
	// FailFast stops the batch after the first failed render.
	FailFast bool
	// Workers is the number of renders allowed to run at once. Values below
	// one mean one.
	Workers int
	// DryRun prints each command instead of running it.
	DryRun bool
}

// Job is a single render about to be executed.
type Job struct {
	Index   int
	Name    string // base name plus configuration name
	Output  string
	Command Command
}

// Result is the outcome of one Job.
type Result struct {
	Job
	ExitCode int
	Err      error
	Duration time.Duration
	DryRun   bool
	// Cancelled is set when the render was killed because the batch was
	// interrupted or another render failed in fail-fast mode.
	Cancelled bool
}

// Failed reports whether the renderer could not run or exited non-zero.
// Cancelled renders are not failures.
func (r Result) Failed() bool {
	return !r.Cancelled && (r.Err != nil || r.ExitCode != 0)
}

func (r Result) asError() *RenderError {
	return &RenderError{Name: r.Name, ExitCode: r.ExitCode, Err: r.Err}
}

// Notifier observes render progress.
type Notifier interface {
	RenderStarted(ctx context.Context, job Job)
	RenderFinished(ctx context.Context, result Result)
}

// Report collects the results of a batch, ordered by job index.
type Report struct {
	Results []Result
	Elapsed time.Duration
}

// Failed returns the failed results.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Failed() {
			failed = append(failed, res)
		}
	}
	return failed
}

// Cancelled returns the renders that were cut short by cancellation.
func (r *Report) Cancelled() []Result {
	var cancelled []Result
	for _, res := range r.Results {
		if res.Cancelled {
			cancelled = append(cancelled, res)
		}
	}
	return cancelled
}

// Succeeded returns the number of renders that exited zero.
func (r *Report) Succeeded() int {
	return len(r.Results) - len(r.Failed()) - len(r.Cancelled())
}

// Driver runs the renderer once per configuration.
type Driver struct {
	renderer  config.Renderer
	invoker   Invoker
	notifiers []Notifier
	opts      Options

	outMu sync.Mutex
	out   io.Writer
}

// NewDriver creates a Driver that prints progress lines to out.
func NewDriver(renderer config.Renderer, invoker Invoker, out io.Writer, opts Options, notifiers ...Notifier) *Driver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Driver{
		renderer:  renderer,
		invoker:   invoker,
		notifiers: notifiers,
		opts:      opts,
		out:       out,
	}
}

// Run renders every configuration in configs. The returned report holds one
// result per render that was started. The error is non-nil when the batch
// was cut short: by ctx, or by a failed render in fail-fast mode (a
// *RenderError).
func (d *Driver) Run(ctx context.Context, configs iter.Seq[expand.Configuration]) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	if d.renderer.CreateOutputDir && !d.opts.DryRun && d.renderer.OutputDir != "" {
		logger.Debug("Creating output directory.", "path", d.renderer.OutputDir)
		if err := os.MkdirAll(d.renderer.OutputDir, 0o755); err != nil {
			return &Report{}, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var (
		report *Report
		err    error
	)
	if d.opts.Workers == 1 {
		report, err = d.runSequential(ctx, configs)
	} else {
		report, err = d.runParallel(ctx, configs)
	}
	report.Elapsed = time.Since(start)
	return report, err
}

func (d *Driver) runSequential(ctx context.Context, configs iter.Seq[expand.Configuration]) (*Report, error) {
	report := &Report{}
	index := 0
	for cfg := range configs {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("render batch interrupted: %w", err)
		}

		res := d.render(ctx, index, cfg)
		index++
		report.Results = append(report.Results, res)

		if res.Failed() && d.opts.FailFast {
			return report, res.asError()
		}
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("render batch interrupted: %w", err)
	}
	return report, nil
}

func (d *Driver) runParallel(ctx context.Context, configs iter.Seq[expand.Configuration]) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running renders in parallel.", "workers", d.opts.Workers)

	report := &Report{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)

	index := 0
	for cfg := range configs {
		if gctx.Err() != nil {
			break
		}
		i := index
		index++
		g.Go(func() error {
			res := d.render(gctx, i, cfg)
			mu.Lock()
			report.Results = append(report.Results, res)
			mu.Unlock()
			if res.Failed() && d.opts.FailFast {
				return res.asError()
			}
			return nil
		})
	}
	err := g.Wait()

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Index < report.Results[j].Index
	})

	if err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("render batch interrupted: %w", err)
	}
	return report, nil
}

// render executes a single configuration and never returns early without
// producing a Result.
func (d *Driver) render(ctx context.Context, index int, cfg expand.Configuration) Result {
	name := d.renderer.BaseName + cfg.Name()
	ctx = ctxlog.With(ctx, "render", name)
	logger := ctxlog.FromContext(ctx)

	job := Job{Index: index, Name: name, Output: OutputPath(d.renderer, cfg)}
	cmd, err := BuildCommand(d.renderer, cfg)
	if err != nil {
		logger.Error("Failed to build renderer command.", "error", err)
		return Result{Job: job, ExitCode: -1, Err: err}
	}
	job.Command = cmd

	d.printf("Rendering %s...\n", name)
	for _, n := range d.notifiers {
		n.RenderStarted(ctx, job)
	}

	res := Result{Job: job}
	if d.opts.DryRun {
		d.printf("%s\n", cmd)
		res.DryRun = true
	} else {
		logger.Debug("Invoking renderer.", "command", cmd.String())
		started := time.Now()
		res.ExitCode, res.Err = d.invoker.Invoke(ctx, cmd)
		res.Duration = time.Since(started)
		res.Cancelled = res.Err != nil && ctx.Err() != nil && errors.Is(res.Err, ctx.Err())
	}

	switch {
	case res.Cancelled:
		logger.Warn("Render cancelled.", "error", res.Err)
	case res.Err != nil:
		logger.Error("Render failed.", "error", res.Err)
	case res.ExitCode != 0:
		logger.Error("Renderer exited with non-zero status.", "exit_code", res.ExitCode)
	default:
		logger.Debug("Render finished.", "duration", res.Duration)
	}

	for _, n := range d.notifiers {
		n.RenderFinished(ctx, res)
	}
	return res
}

func (d *Driver) printf(format string, args ...any) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintf(d.out, format, args...)
}
