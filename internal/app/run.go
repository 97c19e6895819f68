package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/specialistvlad/pipegridgo/internal/compiler"
	"github.com/specialistvlad/pipegridgo/internal/config"
	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
	"github.com/specialistvlad/pipegridgo/internal/jobs"
	"github.com/specialistvlad/pipegridgo/internal/template"
)

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if appConfig.List {
		return a.list()
	}

	runs, err := a.plan(appConfig)
	if err != nil {
		return err
	}
	a.logger.Debug("Runs resolved.", "count", len(runs))

	for _, run := range runs {
		if err := a.compile(ctx, run); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// plan merges the command line over the configured runs.
func (a *App) plan(appConfig *Config) ([]*config.Run, error) {
	override := appConfig.override()

	if appConfig.Pipeline != "" {
		base, _ := a.model.Run(appConfig.Pipeline)
		return []*config.Run{base.Merge(override)}, nil
	}
	if len(a.model.Runs) == 0 {
		if len(appConfig.ConfigPaths) > 0 {
			return nil, fmt.Errorf("no pipeline blocks found in %s; select a template with -pipeline", strings.Join(appConfig.ConfigPaths, ", "))
		}
		override.Pipeline = DefaultPipeline
		return []*config.Run{override}, nil
	}
	if len(a.model.Runs) > 1 && (appConfig.Output != "" || appConfig.Dot != "") {
		return nil, errors.New("output paths cannot be overridden when several pipelines are configured; select one with -pipeline")
	}
	runs := make([]*config.Run, 0, len(a.model.Runs))
	for _, r := range a.model.Runs {
		runs = append(runs, r.Merge(override))
	}
	return runs, nil
}

func (a *App) compile(ctx context.Context, run *config.Run) error {
	logger := a.logger.With("pipeline", run.Pipeline)
	ctx = ctxlog.WithLogger(ctx, logger)

	images, err := jobs.DefaultImages().With(run.Images)
	if err != nil {
		return fmt.Errorf("pipeline %q: %w", run.Pipeline, err)
	}
	reg, err := newRegistry(a.templates, images)
	if err != nil {
		return err
	}
	tmpl, ok := reg.Lookup(run.Pipeline)
	if !ok {
		return fmt.Errorf("unknown pipeline %q (available: %s)", run.Pipeline, strings.Join(reg.Names(), ", "))
	}

	logger.Debug("Building pipeline...", "run_id", run.RunID, "overrides", len(run.Parameters))
	artifact, err := compiler.Build(ctx, tmpl, template.Inputs{
		RunID:     run.RunID,
		Suffix:    run.Suffix,
		Overrides: run.Parameters,
	})
	if err != nil {
		return fmt.Errorf("failed to compile pipeline: %w", err)
	}

	output := run.Output
	if output == "" {
		output = run.Pipeline + ".yaml"
	}
	if err := compiler.WriteFiles(ctx, output, run.Dot, artifact); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	logger.Info("Pipeline compiled.", "output", output, "nodes", len(artifact.Nodes), "suffix", artifact.Metadata.Suffix)
	return nil
}

// list prints the registered templates with their default images.
func (a *App) list() error {
	reg, err := newRegistry(a.templates, jobs.DefaultImages())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.outW, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tPARAMETERS\tDESCRIPTION")
	for _, name := range reg.Names() {
		tmpl, _ := reg.Lookup(name)
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", tmpl.Name, tmpl.Version, len(tmpl.Params), tmpl.Description)
	}
	return tw.Flush()
}
