package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pipegridgo/internal/config"
	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
	"github.com/specialistvlad/pipegridgo/internal/fsutil"
)

const fileExtension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL configuration loader reading the process
// environment.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// fileRoot decodes every top-level block a run file may contain. Any other
// block or attribute is a decode error.
type fileRoot struct {
	Pipelines []*pipelineBlock `hcl:"pipeline,block"`
}

type pipelineBlock struct {
	Name       string         `hcl:"name,label"`
	RunID      *string        `hcl:"run_id,optional"`
	Suffix     *string        `hcl:"suffix,optional"`
	Output     *string        `hcl:"output,optional"`
	Dot        *string        `hcl:"dot,optional"`
	Parameters hcl.Expression `hcl:"parameters,optional"`
	Images     hcl.Expression `hcl:"images,optional"`
}

// Load parses every .hcl file under paths. Directories are searched
// recursively and files are read in lexical order. A path that does not
// exist, a file without the .hcl extension and a directory holding no .hcl
// files are errors.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	evalCtx := l.evalContext()
	parser := hclparse.NewParser()
	model := &config.Model{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, block := range root.Pipelines {
			run, err := translateRun(ctx, block, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			if err := model.Add(run); err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
		}
	}

	logger.Debug("HCL loading complete.", "runs", len(model.Runs))
	return model, nil
}

// findAllHCLFiles expands paths into a sorted, de-duplicated list of files.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var all []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		if !info.IsDir() {
			if filepath.Ext(path) != fileExtension {
				return nil, fmt.Errorf("config file %s must have the %s extension", path, fileExtension)
			}
			add(filepath.Clean(path))
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, fileExtension)
		if err != nil {
			return nil, fmt.Errorf("error searching %s: %w", path, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no %s files found in %s", fileExtension, path)
		}
		sort.Strings(found)
		for _, p := range found {
			add(filepath.Clean(p))
		}
	}
	return all, nil
}
