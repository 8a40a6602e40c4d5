// Package config defines the format-agnostic render catalog: the renderer
// settings, the default parameters and the ordered option categories that the
// expander turns into concrete configurations.
//
// The `config.Model` is the single source of truth for the `expand` and
// `render` packages. Concrete loaders, such as the HCL one, live in separate
// packages and implement the Loader interface.
package config
