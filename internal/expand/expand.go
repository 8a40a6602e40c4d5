// Package expand turns a catalog's option categories into the Cartesian
// product of concrete render configurations.
//
// A Configuration starts from a base (the output extension plus the default
// parameters) and is extended once per category by Merge. Expand folds Merge
// over every category and yields the results lazily: the first category
// varies slowest, the last category fastest.
package expand

import (
	"iter"
	"strings"

	"github.com/Frans-Willem/WadeHerringboneGears/internal/config"
	"github.com/Frans-Willem/WadeHerringboneGears/internal/params"
)

// Choice records the option picked for one category.
type Choice struct {
	Category string
	Label    string
}

// Fragment returns the `_<category>_<label>` piece of the output name.
func (c Choice) Fragment() string {
	return "_" + c.Category + "_" + c.Label
}

// Configuration is one fully or partially expanded render.
type Configuration struct {
	Choices   []Choice
	Extension string
	Params    *params.Set
}

// Base returns the configuration every expansion starts from.
func Base(extension string, defaults *params.Set) Configuration {
	if defaults == nil {
		defaults = params.New()
	}
	return Configuration{Extension: extension, Params: defaults}
}

// Name is the output file suffix: one fragment per choice in processing
// order, followed by the extension.
func (c Configuration) Name() string {
	var b strings.Builder
	for _, ch := range c.Choices {
		b.WriteString(ch.Fragment())
	}
	b.WriteString(c.Extension)
	return b.String()
}

// Label returns the label chosen for category.
func (c Configuration) Label(category string) (string, bool) {
	for _, ch := range c.Choices {
		if ch.Category == category {
			return ch.Label, true
		}
	}
	return "", false
}

// Merge extends cur with option from the named category. The new fragment is
// placed after the existing ones and before the extension; the option's
// parameters are overlaid on cur's and win on collision. cur is not modified.
func Merge(category string, cur Configuration, option *config.Option) Configuration {
	choices := make([]Choice, len(cur.Choices), len(cur.Choices)+1)
	copy(choices, cur.Choices)
	return Configuration{
		Choices:   append(choices, Choice{Category: category, Label: option.Label}),
		Extension: cur.Extension,
		Params:    cur.Params.Overlay(option.Params),
	}
}

// Expand yields every combination of one option per category, merged onto
// base. With no categories it yields base alone; a category without options
// makes the product empty.
func Expand(base Configuration, categories []*config.Category) iter.Seq[Configuration] {
	return func(yield func(Configuration) bool) {
		expand(base, categories, yield)
	}
}

// expand recurses over the remaining categories and reports whether the
// consumer wants more values.
func expand(cur Configuration, rest []*config.Category, yield func(Configuration) bool) bool {
	if len(rest) == 0 {
		return yield(cur)
	}
	category := rest[0]
	for _, option := range category.Options {
		if !expand(Merge(category.Name, cur, option), rest[1:], yield) {
			return false
		}
	}
	return true
}

// Count returns the number of configurations Expand yields for categories.
func Count(categories []*config.Category) int {
	n := 1
	for _, c := range categories {
		n *= len(c.Options)
	}
	return n
}

// FromModel expands a whole catalog.
func FromModel(m *config.Model) iter.Seq[Configuration] {
	return Expand(Base(m.Renderer.Extension, m.Defaults), m.Categories)
}
