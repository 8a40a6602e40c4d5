package config

import "context"

// Loader is the interface for a format-specific catalog loader.
type Loader interface {
	// Load reads the catalog at path and translates it into the
	// format-agnostic model.
	Load(ctx context.Context, path string) (*Model, error)

	// Parse translates an in-memory catalog. filename is only used in
	// diagnostics.
	Parse(ctx context.Context, filename string, src []byte) (*Model, error)
}
