package compiler

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
	"github.com/specialistvlad/pipegridgo/internal/op"
	"github.com/specialistvlad/pipegridgo/internal/pipeline"
	"github.com/specialistvlad/pipegridgo/internal/template"
)

// Compile validates p and converts it to an Artifact. Nodes are listed in
// dependency order with ties broken by insertion order.
func Compile(ctx context.Context, p *pipeline.Pipeline) (*Artifact, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot compile a nil pipeline")
	}
	logger := ctxlog.FromContext(ctx).With("pipeline", p.Metadata().Name)

	logger.Debug("Validating pipeline...")
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("compiling: %w", err)
	}
	ordered, err := p.Ordered()
	if err != nil {
		return nil, fmt.Errorf("compiling: %w", err)
	}

	meta := p.Metadata()
	a := &Artifact{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata: Metadata{
			Name:            meta.Name,
			Description:     meta.Description,
			TemplateVersion: meta.Version,
			RunID:           meta.RunID,
			Suffix:          meta.Suffix,
		},
		Parameters: parameters(p),
		Nodes:      make([]Node, 0, len(ordered)),
		Edges:      []Edge{},
	}

	for _, d := range ordered {
		deps, err := p.DependenciesOf(d.Name())
		if err != nil {
			return nil, fmt.Errorf("compiling: %w", err)
		}
		a.Nodes = append(a.Nodes, node(d, deps))
	}
	for _, e := range p.Edges() {
		a.Edges = append(a.Edges, Edge{From: e.From, To: e.To})
	}

	logger.Debug("Pipeline compiled.", "nodes", len(a.Nodes), "edges", len(a.Edges))
	return a, nil
}

// Build instantiates tmpl and compiles the result. Nothing is written.
func Build(ctx context.Context, tmpl *template.Template, in template.Inputs) (*Artifact, error) {
	p, err := tmpl.Instantiate(ctx, in)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, p)
}

func parameters(p *pipeline.Pipeline) []Parameter {
	values := p.Values()
	schema := values.Schema()
	out := make([]Parameter, 0, len(schema))
	for _, prm := range schema {
		v, _ := values.Lookup(prm.Name)
		entry := Parameter{
			Name:        prm.Name,
			Type:        string(prm.Type),
			Value:       v,
			Description: prm.Description,
		}
		if prm.Default != nil {
			def := *prm.Default
			entry.Default = &def
		}
		out = append(out, entry)
	}
	return out
}

func node(d *op.Descriptor, deps []string) Node {
	n := Node{
		Name:         d.Name(),
		Image:        d.Image(),
		Command:      d.Command(),
		Arguments:    d.Args(),
		Dependencies: deps,
	}
	if n.Arguments == nil {
		n.Arguments = []string{}
	}
	for _, v := range d.Volumes() {
		vol := Volume{Name: v.Name, MountPath: d.MountPath(v.Name)}
		if v.Secret != nil {
			vol.Secret = v.Secret.SecretName
		}
		n.Volumes = append(n.Volumes, vol)
	}
	for _, e := range d.Env() {
		env := EnvVar{Name: e.Name, Value: e.Value}
		if e.ValueFrom != nil && e.ValueFrom.SecretKeyRef != nil {
			env.SecretKeyRef = &SecretKeyRef{
				Name: e.ValueFrom.SecretKeyRef.Name,
				Key:  e.ValueFrom.SecretKeyRef.Key,
			}
		}
		n.Env = append(n.Env, env)
	}
	return n
}
