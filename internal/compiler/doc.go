// Package compiler turns an assembled pipeline into a versioned artifact
// and writes it to disk.
//
// Compile is pure: it validates the pipeline and builds an in-memory
// Artifact. WriteFile serializes the artifact completely before touching
// the filesystem and publishes it with an atomic rename, so a failed
// compilation never leaves a partial file at the output path.
//
// The artifact is YAML by default. A ".json" path selects JSON with the
// same field names, and ".tar.gz" / ".tgz" wraps the YAML document as
// pipeline.yaml inside a gzip-compressed tarball.
package compiler
