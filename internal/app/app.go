package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/ctxlog"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/render"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	loader     config.Loader
	invoker    render.Invoker
	progress   *progress
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Progress lines go to
// outW, logs to logW. invoker runs the renderer; the CLI passes an
// *render.ExecInvoker, tests a fake.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, invoker render.Invoker) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		loader:   loader,
		invoker:  invoker,
		progress: &progress{},
	}
}

// withLogger returns a context carrying the application's logger.
func (a *App) withLogger(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
