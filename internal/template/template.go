// Package template turns a named, versioned pipeline definition into an
// assembled pipeline. A Template is constructed once and may be
// instantiated any number of times; every call resolves its own parameter
// set, run identifier and suffix, and builds fresh descriptors.
package template

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
	"github.com/specialistvlad/pipegridgo/internal/param"
	"github.com/specialistvlad/pipegridgo/internal/pipeline"
)

// WorkflowNamePlaceholder is substituted by the execution engine with the
// name of the workflow run. It is the run identifier when none is given.
const WorkflowNamePlaceholder = "{{workflow.name}}"

const suffixLength = 6

var suffixRegex = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Inputs are the per-call values of one instantiation.
type Inputs struct {
	// RunID namespaces the run's working directory. Empty means
	// WorkflowNamePlaceholder.
	RunID string
	// Suffix uniquifies derived table names. Empty means a fresh one is
	// generated for this call.
	Suffix    string
	Overrides map[string]string
}

// Run is handed to the Assemble function. Values, RunID and Suffix are
// fixed for the whole call.
type Run struct {
	Pipeline *pipeline.Pipeline
	Values   param.Values
	RunID    string
	Suffix   string
}

// Template is a named, versioned pipeline definition.
type Template struct {
	Name        string
	Description string
	Version     string
	Params      param.Schema
	// Assemble adds descriptors and "after" edges to run.Pipeline.
	Assemble func(ctx context.Context, run *Run) error
	// SuffixFunc generates a suffix when Inputs.Suffix is empty. Nil means
	// NewSuffix.
	SuffixFunc func() string
}

// NewSuffix returns a short upper-case token derived from a random UUID.
func NewSuffix() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:suffixLength])
}

// Validate checks the template definition itself.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("template name is required")
	}
	if t.Assemble == nil {
		return fmt.Errorf("template %q has no assemble function", t.Name)
	}
	if err := t.Params.Validate(); err != nil {
		return fmt.Errorf("template %q: %w", t.Name, err)
	}
	return nil
}

// Instantiate resolves the inputs and assembles a new pipeline. The result
// is not compiled.
func (t *Template) Instantiate(ctx context.Context, in Inputs) (*pipeline.Pipeline, error) {
	logger := ctxlog.FromContext(ctx).With("template", t.Name)

	if err := t.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("Resolving parameters.", "overrides", len(in.Overrides))
	values, err := t.Params.Resolve(in.Overrides)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Name, err)
	}

	runID := in.RunID
	if runID == "" {
		runID = WorkflowNamePlaceholder
	}
	suffix := in.Suffix
	if suffix == "" {
		gen := t.SuffixFunc
		if gen == nil {
			gen = NewSuffix
		}
		suffix = gen()
		logger.Debug("Generated suffix.", "suffix", suffix)
	}
	if !suffixRegex.MatchString(suffix) {
		return nil, fmt.Errorf("template %q: suffix %q must contain only letters, digits and underscores", t.Name, suffix)
	}

	p := pipeline.New(pipeline.Metadata{
		Name:        t.Name,
		Description: t.Description,
		Version:     t.Version,
		RunID:       runID,
		Suffix:      suffix,
	}, values)

	logger.Debug("Assembling pipeline.", "run_id", runID, "suffix", suffix)
	if err := t.Assemble(ctx, &Run{Pipeline: p, Values: values, RunID: runID, Suffix: suffix}); err != nil {
		return nil, fmt.Errorf("template %q: %w", t.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Pipeline assembled.", "nodes", p.Len())
	return p, nil
}
