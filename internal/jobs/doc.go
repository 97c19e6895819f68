// Package jobs holds the operation builders of the code search index
// pipeline. Each builder takes a typed input struct and returns exactly one
// op.Descriptor. Builders perform no I/O and never modify their inputs.
//
// The argument lists are the invocation contract of the job images: flag
// style `--name=value` tokens in a fixed order, no positional arguments.
package jobs
