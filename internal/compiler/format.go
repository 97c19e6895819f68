package compiler

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"
)

// Format is an artifact serialization.
type Format int

const (
	YAML Format = iota
	JSON
	TarGz
)

// ArchiveEntry is the name of the YAML document inside a TarGz artifact.
const ArchiveEntry = "pipeline.yaml"

func (f Format) String() string {
	switch f {
	case YAML:
		return "yaml"
	case JSON:
		return "json"
	case TarGz:
		return "tar.gz"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatForPath picks the format from the output file's extension.
func FormatForPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return YAML, nil
	case strings.HasSuffix(lower, ".json"):
		return JSON, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return TarGz, nil
	default:
		return 0, fmt.Errorf("cannot infer artifact format from %q: use .yaml, .yml, .json, .tar.gz or .tgz", path)
	}
}

// Marshal serializes a in the given format. Equal artifacts always produce
// equal bytes.
func Marshal(a *Artifact, f Format) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("cannot marshal a nil artifact")
	}
	switch f {
	case YAML:
		return marshalYAML(a)
	case JSON:
		b, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding artifact as json: %w", err)
		}
		return append(b, '\n'), nil
	case TarGz:
		doc, err := marshalYAML(a)
		if err != nil {
			return nil, err
		}
		return archive(doc)
	default:
		return nil, fmt.Errorf("unsupported artifact format %s", f)
	}
}

// Unmarshal parses a YAML or JSON artifact and checks its schema version.
func Unmarshal(data []byte) (*Artifact, error) {
	var a Artifact
	// JSON is a subset of YAML, so one decoder reads both.
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decoding artifact: %w", err)
	}
	if a.APIVersion != APIVersion || a.Kind != Kind {
		return nil, fmt.Errorf("unsupported artifact %s/%s, want %s/%s", a.APIVersion, a.Kind, APIVersion, Kind)
	}
	return &a, nil
}

func marshalYAML(a *Artifact) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("encoding artifact as yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding artifact as yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// archive wraps doc as ArchiveEntry in a gzip'ed tarball. Header times are
// fixed so the output only depends on doc.
func archive(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(zw)

	hdr := &tar.Header{
		Name:     ArchiveEntry,
		Mode:     0644,
		Size:     int64(len(doc)),
		ModTime:  time.Unix(0, 0).UTC(),
		Typeflag: tar.TypeReg,
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, fmt.Errorf("writing archive header: %w", err)
	}
	if _, err := tw.Write(doc); err != nil {
		return nil, fmt.Errorf("writing archive entry: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing gzip stream: %w", err)
	}
	return buf.Bytes(), nil
}
