package hcl

import "github.com/hashicorp/hcl/v2"

// catalogFile represents the top-level structure of a catalog file.
type catalogFile struct {
	Renderer   *rendererBlock   `hcl:"renderer,block"`
	Defaults   *paramsBlock     `hcl:"defaults,block"`
	Categories []*categoryBlock `hcl:"category,block"`
}

// rendererBlock holds the renderer settings. Omitted attributes fall back to
// config.DefaultRenderer.
type rendererBlock struct {
	Program         *string `hcl:"program,optional"`
	Input           *string `hcl:"input,optional"`
	OutputDir       *string `hcl:"output_dir,optional"`
	BaseName        *string `hcl:"base_name,optional"`
	Extension       *string `hcl:"extension,optional"`
	CreateOutputDir *bool   `hcl:"create_output_dir,optional"`
}

// paramsBlock is a free-form body of `name = expression` parameters.
type paramsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// categoryBlock represents a `category "<name>"` block.
type categoryBlock struct {
	Name    string         `hcl:"name,label"`
	Options []*optionBlock `hcl:"option,block"`
}

// optionBlock represents an `option "<label>"` block inside a category.
type optionBlock struct {
	Label string   `hcl:"label,label"`
	Body  hcl.Body `hcl:",remain"`
}
