package config

import (
	"fmt"
	"maps"
)

// Model is the unified representation of every run found in the
// configuration sources.
type Model struct {
	Runs []*Run
}

// Run configures one compilation of a pipeline template.
type Run struct {
	// Pipeline is the registered template name.
	Pipeline string
	RunID    string
	Suffix   string
	// Output is the artifact path. Its extension selects the format.
	Output string
	// Dot is an optional path for a Graphviz rendering of the graph.
	Dot        string
	Parameters map[string]string
	// Images maps a job kind to the image reference that replaces the
	// pinned default.
	Images map[string]string
}

// Add appends r, rejecting a second run for the same pipeline.
func (m *Model) Add(r *Run) error {
	if r == nil || r.Pipeline == "" {
		return fmt.Errorf("run must name a pipeline")
	}
	if _, exists := m.Run(r.Pipeline); exists {
		return fmt.Errorf("pipeline %q is configured more than once", r.Pipeline)
	}
	m.Runs = append(m.Runs, r)
	return nil
}

// Run returns the run configured for the named pipeline.
func (m *Model) Run(pipeline string) (*Run, bool) {
	if m == nil {
		return nil, false
	}
	for _, r := range m.Runs {
		if r.Pipeline == pipeline {
			return r, true
		}
	}
	return nil, false
}

// Merge returns a new run with every non-empty field of override applied
// over r. Map entries are merged key by key.
func (r *Run) Merge(override *Run) *Run {
	out := &Run{}
	if r != nil {
		*out = *r
		out.Parameters = maps.Clone(r.Parameters)
		out.Images = maps.Clone(r.Images)
	}
	if override == nil {
		return out
	}
	if override.Pipeline != "" {
		out.Pipeline = override.Pipeline
	}
	if override.RunID != "" {
		out.RunID = override.RunID
	}
	if override.Suffix != "" {
		out.Suffix = override.Suffix
	}
	if override.Output != "" {
		out.Output = override.Output
	}
	if override.Dot != "" {
		out.Dot = override.Dot
	}
	out.Parameters = mergeMaps(out.Parameters, override.Parameters)
	out.Images = mergeMaps(out.Images, override.Images)
	return out
}

func mergeMaps(base, override map[string]string) map[string]string {
	if len(override) == 0 {
		return base
	}
	if base == nil {
		base = make(map[string]string, len(override))
	}
	maps.Copy(base, override)
	return base
}
