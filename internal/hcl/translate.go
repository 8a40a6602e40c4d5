// This file contains the logic for translating decoded HCL blocks into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/ctxlog"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/params"
)

// translateCatalog converts the decoded file into the agnostic model.
func translateCatalog(ctx context.Context, root *catalogFile) (*config.Model, error) {
	model := &config.Model{
		Renderer: translateRenderer(root.Renderer),
		Defaults: params.New(),
	}

	if root.Defaults != nil {
		defaults, err := translateParams(ctx, root.Defaults.Body)
		if err != nil {
			return nil, fmt.Errorf("in defaults: %w", err)
		}
		model.Defaults = defaults
	}

	for _, cb := range root.Categories {
		c := &config.Category{Name: cb.Name}
		for _, ob := range cb.Options {
			p, err := translateParams(ctx, ob.Body)
			if err != nil {
				return nil, fmt.Errorf("in category '%s', option '%s': %w", cb.Name, ob.Label, err)
			}
			c.Options = append(c.Options, &config.Option{Label: ob.Label, Params: p})
		}
		model.Categories = append(model.Categories, c)
	}
	return model, nil
}

// translateRenderer overlays the attributes present in the block on top of
// the built-in renderer settings.
func translateRenderer(b *rendererBlock) config.Renderer {
	r := config.DefaultRenderer()
	if b == nil {
		return r
	}
	setIfPresent(&r.Program, b.Program)
	setIfPresent(&r.Input, b.Input)
	setIfPresent(&r.OutputDir, b.OutputDir)
	setIfPresent(&r.BaseName, b.BaseName)
	setIfPresent(&r.Extension, b.Extension)
	setIfPresent(&r.CreateOutputDir, b.CreateOutputDir)
	return r
}

func setIfPresent[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// translateParams evaluates every attribute of body into a parameter set,
// preserving the order in which the attributes appear in the source.
func translateParams(ctx context.Context, body hcl.Body) (*params.Set, error) {
	logger := ctxlog.FromContext(ctx)

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	set := params.New()
	for _, attr := range ordered {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		if !params.IsScalar(val) {
			rng := attr.Expr.Range()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unsupported parameter value",
				Detail:   fmt.Sprintf("Parameter %q must be a number, string or bool, got %s.", attr.Name, val.Type().FriendlyName()),
				Subject:  &rng,
			})
			continue
		}
		logger.Debug("Translated parameter.", "name", attr.Name, "type", val.Type().FriendlyName())
		set.Put(attr.Name, val)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return set, nil
}
