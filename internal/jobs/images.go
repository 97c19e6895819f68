package jobs

import (
	"errors"
	"fmt"
	"sort"
)

// Kind identifies one of the job builders. The kind is also the step name
// of the descriptor the builder returns.
type Kind string

const (
	KindFunctionEmbedding  Kind = "dataflow_function_embedding"
	KindSearchIndexCreator Kind = "search_index_creator"
	KindUpdateIndex        Kind = "update_index"
)

// Kinds returns every job kind in pipeline order.
func Kinds() []Kind {
	return []Kind{KindFunctionEmbedding, KindSearchIndexCreator, KindUpdateIndex}
}

// ParseKind converts a string to a known Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown job kind %q", s)
}

// DefaultImage is the build all three jobs are pinned to.
const DefaultImage = "gcr.io/kubeflow-examples/code-search/ks:v20181210-d7487dd-dirty-eb371e"

// Images maps a job kind to the container image it runs.
type Images map[Kind]string

// DefaultImages returns a fresh map pinning every kind to DefaultImage.
func DefaultImages() Images {
	images := make(Images, 3)
	for _, k := range Kinds() {
		images[k] = DefaultImage
	}
	return images
}

// With returns a copy of the map with the given overrides applied.
func (im Images) With(overrides map[string]string) (Images, error) {
	out := make(Images, len(im)+len(overrides))
	for k, v := range im {
		out[k] = v
	}
	// sorted for a stable first error
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kind, err := ParseKind(k)
		if err != nil {
			return nil, err
		}
		if overrides[k] == "" {
			return nil, fmt.Errorf("image for %q must not be empty", k)
		}
		out[kind] = overrides[k]
	}
	return out, nil
}

func (im Images) lookup(kind Kind) (string, error) {
	if ref, ok := im[kind]; ok && ref != "" {
		return ref, nil
	}
	if im == nil {
		return DefaultImage, nil
	}
	return "", errors.New("no image configured for " + string(kind))
}
