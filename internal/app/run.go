package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/catalog"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/ctxlog"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/expand"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/notify"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/render"
)

// Run loads the catalog, renders every configuration and reports the
// outcome. Failed renders are logged and summarised but only abort the batch
// in fail-fast mode.
func (a *App) Run(ctx context.Context) error {
	ctx = a.withLogger(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	model, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}

	total := model.Combinations()
	a.progress.begin(total)
	defer a.progress.finish()

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheckServer(ctx, a.config.HealthcheckPort)
		defer func() {
			if err := a.closeHealthcheckServer(ctx); err != nil {
				logger.Warn("Health check server did not shut down cleanly.", "error", err)
			}
		}()
	}

	notifiers := []render.Notifier{a.progress}
	var publisher *notify.Publisher
	if a.config.NotifyURL != "" {
		publisher, err = notify.Dial(ctx, notify.Options{URL: a.config.NotifyURL})
		if err != nil {
			return fmt.Errorf("failed to connect progress publisher: %w", err)
		}
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
	}

	if total == 0 {
		logger.Warn("Catalog expands to no configurations, nothing to render.")
		return nil
	}

	logger.Info("🚀 Starting render batch...",
		"renders", total,
		"workers", a.config.Workers,
		"dry_run", a.config.DryRun,
		"fail_fast", a.config.FailFast,
	)

	driver := render.NewDriver(model.Renderer, a.invoker, a.outW, render.Options{
		FailFast: a.config.FailFast,
		Workers:  a.config.Workers,
		DryRun:   a.config.DryRun,
	}, notifiers...)

	report, runErr := driver.Run(ctx, expand.FromModel(model))

	if publisher != nil {
		publisher.BatchFinished(ctx, report)
	}
	a.summarize(ctx, report)

	if runErr != nil {
		return fmt.Errorf("render batch aborted: %w", runErr)
	}
	logger.Debug("App.Run method finished.")
	return nil
}

// loadCatalog reads, validates and filters the render catalog.
func (a *App) loadCatalog(ctx context.Context) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var (
		model *config.Model
		err   error
	)
	if a.config.CatalogPath == "" {
		logger.Debug("Using embedded catalog.", "file", catalog.Filename)
		model, err = a.loader.Parse(ctx, catalog.Filename, catalog.Default)
	} else {
		model, err = a.loader.Load(ctx, a.config.CatalogPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	model, err = model.Filter(a.config.Only)
	if err != nil {
		return nil, fmt.Errorf("invalid -only filter: %w", err)
	}
	logger.Debug("Catalog loaded and validated.", "categories", len(model.Categories), "combinations", model.Combinations())
	return model, nil
}

// summarize logs the batch outcome and prints failed renders to the progress
// output, where they are visible regardless of the log level.
func (a *App) summarize(ctx context.Context, report *render.Report) {
	logger := ctxlog.FromContext(ctx)
	failed := report.Failed()

	logger.Info("🏁 Render batch finished.",
		"started", len(report.Results),
		"succeeded", report.Succeeded(),
		"failed", len(failed),
		"cancelled", len(report.Cancelled()),
		"elapsed", report.Elapsed.Round(time.Millisecond),
	)
	if n := len(report.Cancelled()); n > 0 {
		fmt.Fprintf(a.outW, "%d renders cancelled before finishing\n", n)
	}
	if len(failed) == 0 {
		return
	}

	names := make([]string, 0, len(failed))
	for _, res := range failed {
		names = append(names, res.Name)
		if res.Err != nil {
			logger.Warn("Failed render.", "render", res.Name, "error", res.Err)
		} else {
			logger.Warn("Failed render.", "render", res.Name, "exit_code", res.ExitCode)
		}
	}
	fmt.Fprintf(a.outW, "%d of %d renders failed:\n  %s\n", len(failed), len(report.Results), strings.Join(names, "\n  "))
}
