package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// With no arguments at all the embedded catalog is rendered in full.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("renderall", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
renderall - Render every combination of the herringbone gear options.

Usage:
  renderall [options] [CATALOG_PATH]

Arguments:
  CATALOG_PATH
    Path to an HCL render catalog. Defaults to the built-in gear catalog.

Options:
`)
		flagSet.PrintDefaults()
	}

	only := make(map[string][]string)
	catalogFlag := flagSet.String("catalog", "", "Path to the render catalog (.hcl). Defaults to the built-in catalog.")
	flagSet.Func("only", "Restrict a category to the given labels, as `category=label[,label...]`. Repeatable.", func(s string) error {
		name, labels, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		var kept []string
		for _, l := range strings.Split(labels, ",") {
			if l = strings.TrimSpace(l); l != "" {
				kept = append(kept, l)
			}
		}
		if !ok || name == "" || len(kept) == 0 {
			return fmt.Errorf("expected category=label[,label...], got %q", s)
		}
		only[name] = append(only[name], kept...)
		return nil
	})
	dryRunFlag := flagSet.Bool("dry-run", false, "Print renderer commands without executing them.")
	failFastFlag := flagSet.Bool("fail-fast", false, "Stop the batch at the first failed render.")
	workersFlag := flagSet.Int("workers", 1, "Number of renders to run concurrently.")
	timeoutFlag := flagSet.Duration("timeout", 0, "Maximum duration of a single render. 0 disables the limit.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health/status server. 0 is disabled.")
	notifyURLFlag := flagSet.String("notify-url", "", "socket.io server URL that receives render progress events.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}
	path := *catalogFlag
	if flagSet.NArg() == 1 {
		if path != "" {
			return nil, false, &ExitError{Code: 2, Message: "catalog given both as -catalog and as an argument"}
		}
		path = flagSet.Arg(0)
	}
	slog.Debug("Catalog path determined.", "path", path)

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	if len(only) == 0 {
		only = nil
	}

	config, err := app.NewConfig(app.Config{
		CatalogPath:     path,
		Only:            only,
		DryRun:          *dryRunFlag,
		FailFast:        *failFastFlag,
		Workers:         *workersFlag,
		Timeout:         *timeoutFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		HealthcheckPort: *healthPortFlag,
		NotifyURL:       *notifyURLFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
