// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for parsing catalog files, evaluating
// parameter expressions into cty values and translating the result into the
// format-agnostic config.Model.
//
// HCL attributes come back from the parser as a map; this package restores
// their source order so that parameter order on the renderer's command line
// matches the order the author wrote them in.
package hcl
