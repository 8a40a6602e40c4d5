package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/app"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/cli"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/hcl"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/render"
)

// main is the entrypoint for the renderall tool.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The real main function handles errors and exit codes.
	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		stop()
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Renderer output is passed through untouched.
	invoker := &render.ExecInvoker{
		Stdout:  outW,
		Stderr:  errW,
		Timeout: appConfig.Timeout,
	}

	renderApp := app.NewApp(outW, errW, appConfig, hcl.NewLoader(), invoker)
	return renderApp.Run(ctx)
}
