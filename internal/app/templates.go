package app

import (
	"github.com/specialistvlad/pipegridgo/internal/codesearch"
	"github.com/specialistvlad/pipegridgo/internal/jobs"
	"github.com/specialistvlad/pipegridgo/internal/template"
)

// DefaultPipeline is compiled when neither a flag nor a configuration file
// names a pipeline.
const DefaultPipeline = codesearch.Name

// TemplateFactory builds a template for the given job images.
type TemplateFactory func(images jobs.Images) *template.Template

// coreTemplates is the definitive list of all templates that are compiled
// into the pipegridgo binary.
var coreTemplates = []TemplateFactory{
	codesearch.NewTemplate,
}

// newRegistry instantiates every factory with images.
func newRegistry(factories []TemplateFactory, images jobs.Images) (*template.Registry, error) {
	reg := template.NewRegistry()
	for _, f := range factories {
		if err := reg.Register(f(images)); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
