package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL catalog loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

// Load reads and parses the catalog file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Reading catalog file.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return l.Parse(ctx, path, src)
}

// Parse parses catalog source and translates it into the agnostic model.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "file", filename, "bytes", len(src))

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root catalogFile
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model, err := translateCatalog(ctx, &root)
	if err != nil {
		return nil, fmt.Errorf("failed to translate HCL file %s: %w", filename, err)
	}

	logger.Debug("HCL loading complete.",
		"categories", len(model.Categories),
		"defaults", model.Defaults.Len(),
		"combinations", model.Combinations(),
	)
	return model, nil
}
