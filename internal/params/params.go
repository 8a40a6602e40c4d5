// Package params holds the ordered parameter sets that are passed to the
// renderer as `-D key=value` definitions.
//
// Order matters: it decides the order of the definitions on the renderer's
// command line, so a Set remembers insertion order instead of relying on Go
// map iteration.
package params

import (
	"fmt"
	"iter"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// Set is an insertion-ordered mapping from parameter name to a scalar
// cty.Value (number, string or bool).
type Set struct {
	keys   []string
	values map[string]cty.Value
}

// New returns an empty Set.
func New() *Set {
	return &Set{values: make(map[string]cty.Value)}
}

// Put stores v under key. A key that is already present keeps its position
// and only has its value replaced.
func (s *Set) Put(key string, v cty.Value) {
	if s.values == nil {
		s.values = make(map[string]cty.Value)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Get returns the value stored under key.
func (s *Set) Get(key string) (cty.Value, bool) {
	if s == nil {
		return cty.NilVal, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Len returns the number of parameters.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns a copy of the parameter names in insertion order.
func (s *Set) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// All iterates over the parameters in insertion order.
func (s *Set) All() iter.Seq2[string, cty.Value] {
	return func(yield func(string, cty.Value) bool) {
		if s == nil {
			return
		}
		for _, k := range s.keys {
			if !yield(k, s.values[k]) {
				return
			}
		}
	}
}

// Overlay returns a new Set holding the entries of s followed by the entries
// of top. Entries of top win on key collision. Neither input is modified.
func (s *Set) Overlay(top *Set) *Set {
	out := &Set{
		keys:   make([]string, 0, s.Len()+top.Len()),
		values: make(map[string]cty.Value, s.Len()+top.Len()),
	}
	for k, v := range s.All() {
		out.Put(k, v)
	}
	for k, v := range top.All() {
		out.Put(k, v)
	}
	return out
}

// Definitions renders every parameter as `key=value` in insertion order.
func (s *Set) Definitions() ([]string, error) {
	defs := make([]string, 0, s.Len())
	for k, v := range s.All() {
		text, err := FormatValue(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		defs = append(defs, k+"="+text)
	}
	return defs, nil
}

// Equal reports whether both sets hold the same keys in the same order with
// equal values.
func (s *Set) Equal(other *Set) bool {
	if s.Len() != other.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	for i, k := range s.keys {
		if other.keys[i] != k {
			return false
		}
		if !s.values[k].RawEquals(other.values[k]) {
			return false
		}
	}
	return true
}

// String implements fmt.Stringer for log output.
func (s *Set) String() string {
	defs, err := s.Definitions()
	if err != nil {
		return fmt.Sprintf("<invalid params: %v>", err)
	}
	return fmt.Sprint(defs)
}

// IsScalar reports whether v can be passed to the renderer.
func IsScalar(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return false
	}
	ty := v.Type()
	return ty == cty.Number || ty == cty.String || ty == cty.Bool
}

// FormatValue stringifies a scalar for the command line. Whole numbers are
// printed without a fractional part, other numbers in their shortest decimal
// form, strings verbatim and bools as true/false.
func FormatValue(v cty.Value) (string, error) {
	if !IsScalar(v) {
		if v.IsNull() {
			return "", fmt.Errorf("value is null")
		}
		if !v.IsKnown() {
			return "", fmt.Errorf("value is unknown")
		}
		return "", fmt.Errorf("unsupported value type %s", v.Type().FriendlyName())
	}

	switch v.Type() {
	case cty.String:
		return v.AsString(), nil
	case cty.Bool:
		return strconv.FormatBool(v.True()), nil
	}

	bf := v.AsBigFloat()
	if bf.IsInt() {
		return bf.Text('f', 0), nil
	}
	f, _ := bf.Float64()
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
