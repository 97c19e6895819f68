// Package op defines the Operation Descriptor: the immutable description of
// one containerized step (image, command, flag-style arguments, secret
// volumes and environment variables).
//
// Descriptors are built once with New and never change afterwards. Every
// accessor returns a copy, so callers cannot reach back into a descriptor
// that has already been placed in a pipeline. Volumes, mounts and env vars
// are expressed with the Kubernetes core/v1 types the execution engine
// consumes; secret values are referenced by name and key only.
package op
