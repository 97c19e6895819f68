// Package pipeline assembles operation descriptors into a dependency graph.
// It is the "after" layer: descriptors are added as nodes and ordering
// constraints between them are declared explicitly. Definition errors
// (duplicate names, unknown nodes, cycles) surface at the call that
// introduces them.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pipegridgo/internal/dag"
	"github.com/specialistvlad/pipegridgo/internal/op"
	"github.com/specialistvlad/pipegridgo/internal/param"
)

// Metadata identifies a pipeline and the run it was assembled for.
type Metadata struct {
	Name        string
	Description string
	// Version is the version of the template that produced the pipeline.
	Version string
	// RunID namespaces every derived path of the run.
	RunID string
	// Suffix is the uniquifying token baked into derived table names.
	Suffix string
}

// Pipeline is an assembled, not yet compiled, graph of operations.
type Pipeline struct {
	meta   Metadata
	values param.Values
	graph  *dag.Graph
	ops    map[string]*op.Descriptor
}

// New creates an empty pipeline bound to its resolved parameter values.
func New(meta Metadata, values param.Values) *Pipeline {
	return &Pipeline{
		meta:   meta,
		values: values,
		graph:  dag.New(),
		ops:    make(map[string]*op.Descriptor),
	}
}

// Metadata returns the pipeline's identifying metadata.
func (p *Pipeline) Metadata() Metadata { return p.meta }

// Values returns the resolved parameter set.
func (p *Pipeline) Values() param.Values { return p.values }

// Len returns the number of operations.
func (p *Pipeline) Len() int { return p.graph.Len() }

// Add places a descriptor in the graph. Names are unique per pipeline.
func (p *Pipeline) Add(d *op.Descriptor) error {
	if d == nil {
		return errors.New("cannot add a nil operation")
	}
	if err := p.graph.AddNode(d.Name()); err != nil {
		return fmt.Errorf("adding operation: %w", err)
	}
	p.ops[d.Name()] = d
	return nil
}

// After records that node must not start until every one of deps has
// completed successfully.
func (p *Pipeline) After(node string, deps ...string) error {
	for _, dep := range deps {
		if err := p.graph.AddEdge(dep, node); err != nil {
			return fmt.Errorf("declaring %q after %q: %w", node, dep, err)
		}
	}
	return nil
}

// Node returns the descriptor with the given name.
func (p *Pipeline) Node(name string) (*op.Descriptor, bool) {
	d, ok := p.ops[name]
	return d, ok
}

// Nodes returns all descriptors in the order they were added.
func (p *Pipeline) Nodes() []*op.Descriptor {
	names := p.graph.Nodes()
	out := make([]*op.Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, p.ops[name])
	}
	return out
}

// Ordered returns all descriptors in dependency order.
func (p *Pipeline) Ordered() ([]*op.Descriptor, error) {
	names, err := p.graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}
	out := make([]*op.Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, p.ops[name])
	}
	return out, nil
}

// DependenciesOf returns the sorted names of the operations node waits for.
func (p *Pipeline) DependenciesOf(node string) ([]string, error) {
	return p.graph.Dependencies(node)
}

// Edges returns every dependency edge in a stable order.
func (p *Pipeline) Edges() []dag.Edge {
	return p.graph.Edges()
}

// Validate re-checks the whole definition before compilation.
func (p *Pipeline) Validate() error {
	if p.meta.Name == "" {
		return errors.New("pipeline name is required")
	}
	if p.graph.Len() == 0 {
		return fmt.Errorf("pipeline %q has no operations", p.meta.Name)
	}
	if err := p.graph.DetectCycles(); err != nil {
		return fmt.Errorf("pipeline %q: %w", p.meta.Name, err)
	}
	for _, e := range p.graph.Edges() {
		if _, ok := p.ops[e.From]; !ok {
			return fmt.Errorf("pipeline %q: %w: %q", p.meta.Name, dag.ErrUnknownNode, e.From)
		}
		if _, ok := p.ops[e.To]; !ok {
			return fmt.Errorf("pipeline %q: %w: %q", p.meta.Name, dag.ErrUnknownNode, e.To)
		}
	}
	if err := p.values.Check(); err != nil {
		return fmt.Errorf("pipeline %q: %w", p.meta.Name, err)
	}
	return nil
}
