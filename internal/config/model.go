package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/params"
)

// Model is the unified representation of a render catalog.
type Model struct {
	Renderer   Renderer
	Defaults   *params.Set
	Categories []*Category
}

// Renderer describes how the external renderer is invoked.
type Renderer struct {
	Program         string
	Input           string
	OutputDir       string
	BaseName        string
	Extension       string
	CreateOutputDir bool
}

// Category is a named dimension of the product. Options keep their source
// order, which decides the order of the generated configurations.
type Category struct {
	Name    string
	Options []*Option
}

// Option is one labelled choice within a category.
type Option struct {
	Label  string
	Params *params.Set
}

// DefaultRenderer returns the settings used when a catalog leaves a renderer
// attribute out.
func DefaultRenderer() Renderer {
	return Renderer{
		Program:   "openscad",
		Input:     "WadeHerringboneGears.scad",
		OutputDir: "renders",
		BaseName:  "herringbonegears",
		Extension: ".stl",
	}
}

// Option returns the option with the given label.
func (c *Category) Option(label string) (*Option, bool) {
	for _, o := range c.Options {
		if o.Label == label {
			return o, true
		}
	}
	return nil, false
}

// Labels returns the option labels in order.
func (c *Category) Labels() []string {
	labels := make([]string, 0, len(c.Options))
	for _, o := range c.Options {
		labels = append(labels, o.Label)
	}
	return labels
}

// Category returns the category with the given name.
func (m *Model) Category(name string) (*Category, bool) {
	for _, c := range m.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Combinations returns the number of configurations the catalog expands to.
func (m *Model) Combinations() int {
	n := 1
	for _, c := range m.Categories {
		n *= len(c.Options)
	}
	return n
}

// Validate checks the catalog for problems that would otherwise surface as
// broken renderer invocations or colliding output files. All problems are
// reported together.
func (m *Model) Validate() error {
	var errs []error

	r := m.Renderer
	if r.Program == "" {
		errs = append(errs, errors.New("renderer program must not be empty"))
	}
	if r.Input == "" {
		errs = append(errs, errors.New("renderer input must not be empty"))
	}
	if r.Extension == "" {
		errs = append(errs, errors.New("renderer extension must not be empty"))
	}
	if err := checkFragment("base name", r.BaseName, true); err != nil {
		errs = append(errs, err)
	}

	for k, v := range m.Defaults.All() {
		if !params.IsScalar(v) {
			errs = append(errs, fmt.Errorf("default parameter %q must be a number, string or bool", k))
		}
	}

	seenCategories := make(map[string]struct{}, len(m.Categories))
	for _, c := range m.Categories {
		if err := checkFragment("category name", c.Name, false); err != nil {
			errs = append(errs, err)
		}
		if _, dup := seenCategories[c.Name]; dup {
			errs = append(errs, fmt.Errorf("category %q is defined more than once", c.Name))
		}
		seenCategories[c.Name] = struct{}{}

		if len(c.Options) == 0 {
			errs = append(errs, fmt.Errorf("category %q has no options; it would produce no renders", c.Name))
		}

		seenLabels := make(map[string]struct{}, len(c.Options))
		for _, o := range c.Options {
			if err := checkFragment(fmt.Sprintf("option label in category %q", c.Name), o.Label, false); err != nil {
				errs = append(errs, err)
			}
			if _, dup := seenLabels[o.Label]; dup {
				errs = append(errs, fmt.Errorf("option %q is defined more than once in category %q", o.Label, c.Name))
			}
			seenLabels[o.Label] = struct{}{}

			for k, v := range o.Params.All() {
				if !params.IsScalar(v) {
					errs = append(errs, fmt.Errorf("parameter %q of option %q in category %q must be a number, string or bool", k, o.Label, c.Name))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// checkFragment rejects names that cannot be embedded in an output file name.
func checkFragment(what, s string, allowEmpty bool) error {
	if s == "" {
		if allowEmpty {
			return nil
		}
		return fmt.Errorf("%s must not be empty", what)
	}
	if strings.ContainsAny(s, `/\`) || s != filepath.Base(s) || s == "." || s == ".." {
		return fmt.Errorf("%s %q must not contain path separators", what, s)
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r < 0x20 || r == 0x7f }) {
		return fmt.Errorf("%s %q must not contain control characters", what, s)
	}
	return nil
}

// Filter returns a copy of the model in which the named categories are
// restricted to the given labels, in catalog order. Unknown categories or
// labels are errors.
func (m *Model) Filter(only map[string][]string) (*Model, error) {
	if len(only) == 0 {
		return m, nil
	}

	var errs []error
	for name, labels := range only {
		c, ok := m.Category(name)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown category %q", name))
			continue
		}
		for _, l := range labels {
			if _, ok := c.Option(l); !ok {
				errs = append(errs, fmt.Errorf("unknown option %q in category %q (have %s)", l, name, strings.Join(c.Labels(), ", ")))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	out := &Model{
		Renderer:   m.Renderer,
		Defaults:   m.Defaults,
		Categories: make([]*Category, 0, len(m.Categories)),
	}
	for _, c := range m.Categories {
		labels, restricted := only[c.Name]
		if !restricted {
			out.Categories = append(out.Categories, c)
			continue
		}
		keep := make(map[string]struct{}, len(labels))
		for _, l := range labels {
			keep[l] = struct{}{}
		}
		fc := &Category{Name: c.Name}
		for _, o := range c.Options {
			if _, ok := keep[o.Label]; ok {
				fc.Options = append(fc.Options, o)
			}
		}
		out.Categories = append(out.Categories, fc)
	}
	return out, nil
}
