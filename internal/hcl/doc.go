// Package hcl provides the HCL implementation of config.Loader. It parses
// run files made of `pipeline "<name>" { ... }` blocks and translates them
// into the format-agnostic config.Model.
//
// Expressions are evaluated with a small context: the `env` object exposes
// the process environment, and the upper, lower, format and join functions
// are available.
package hcl
