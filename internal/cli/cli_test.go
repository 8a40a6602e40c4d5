package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/app"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		args     []string
		want     *app.Config
		wantExit bool
		wantCode int
		wantErr  string
	}{
		{
			name: "no arguments renders the built-in catalog",
			args: nil,
			want: &app.Config{Workers: 1, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "positional catalog path",
			args: []string{"gears.hcl"},
			want: &app.Config{CatalogPath: "gears.hcl", Workers: 1, LogFormat: "text", LogLevel: "info"},
		},
		{
			name: "catalog flag",
			args: []string{"-catalog", "a.hcl"},
			want: &app.Config{CatalogPath: "a.hcl", Workers: 1, LogFormat: "text", LogLevel: "info"},
		},
		{
			name:     "catalog flag and positional path",
			args:     []string{"-catalog", "a.hcl", "b.hcl"},
			wantCode: 2,
			wantErr:  "catalog given both",
		},
		{
			name: "all options",
			args: []string{
				"-only", "shaft=5mm", "-only", "decoration=solid, spokes", "-only", "shaft=4mm",
				"-dry-run", "-fail-fast", "-workers", "4", "-timeout", "90s",
				"-log-format", "JSON", "-log-level", "Debug",
				"-healthcheck-port", "8080", "-notify-url", "http://localhost:3000/renders",
			},
			want: &app.Config{
				Only:            map[string][]string{"shaft": {"5mm", "4mm"}, "decoration": {"solid", "spokes"}},
				DryRun:          true,
				FailFast:        true,
				Workers:         4,
				Timeout:         90 * time.Second,
				LogFormat:       "json",
				LogLevel:        "debug",
				HealthcheckPort: 8080,
				NotifyURL:       "http://localhost:3000/renders",
			},
		},
		{
			name:     "help",
			args:     []string{"-h"},
			wantExit: true,
		},
		{
			name:     "unknown flag",
			args:     []string{"-nope"},
			wantCode: 2,
			wantErr:  "flag provided but not defined: -nope",
		},
		{
			name:     "malformed only",
			args:     []string{"-only", "shaft"},
			wantCode: 2,
			wantErr:  "expected category=label",
		},
		{
			name:     "only without labels",
			args:     []string{"-only", "shaft=, "},
			wantCode: 2,
			wantErr:  "expected category=label",
		},
		{
			name:     "only with separators and no labels",
			args:     []string{"-only", "shaft=,"},
			wantCode: 2,
			wantErr:  "expected category=label",
		},
		{
			name:     "invalid log format",
			args:     []string{"-log-format", "xml"},
			wantCode: 2,
			wantErr:  "invalid log-format",
		},
		{
			name:     "invalid log level",
			args:     []string{"-log-level", "trace"},
			wantCode: 2,
			wantErr:  "invalid log-level",
		},
		{
			name:     "zero workers",
			args:     []string{"-workers", "0"},
			wantCode: 2,
			wantErr:  "Workers must be at least 1",
		},
		{
			name:     "too many positional arguments",
			args:     []string{"a.hcl", "b.hcl"},
			wantCode: 2,
			wantErr:  "unexpected arguments: b.hcl",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			out := &bytes.Buffer{}

			// --- Act ---
			cfg, shouldExit, err := Parse(tc.args, out)

			// --- Assert ---
			if tc.wantErr != "" {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				require.Equal(t, tc.wantCode, exitErr.Code)
				require.Contains(t, exitErr.Message, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantExit, shouldExit)
			if tc.wantExit {
				require.Nil(t, cfg)
				require.Contains(t, out.String(), "Usage:")
				return
			}
			if diff := cmp.Diff(tc.want, cfg); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
