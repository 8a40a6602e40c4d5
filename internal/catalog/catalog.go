// Package catalog embeds the default render catalog shipped with the binary.
package catalog

import _ "embed"

// Filename is the name reported in diagnostics for the embedded catalog.
const Filename = "gears.hcl"

// Default is the HCL source of the built-in catalog.
//
//go:embed gears.hcl
var Default []byte
