// Package config defines the format-agnostic run configuration: which
// pipeline templates to compile, with which run identifier, suffix,
// parameter overrides and job images, and where to write the result.
//
// Concrete loaders, such as the HCL one, live in separate packages and
// translate their own syntax into a Model.
package config
