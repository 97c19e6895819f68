package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/specialistvlad/pipegridgo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, outW io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("pipegridgo", flag.ContinueOnError)
	flagSet.SetOutput(outW)

	flagSet.Usage = func() {
		fmt.Fprint(outW, `
PipeGridGo - Compiles containerized pipeline templates into workflow artifacts.

Usage:
  pipegridgo [options] [CONFIG_PATH...]

Arguments:
  CONFIG_PATH
    Path to a single .hcl run file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Template to compile. Default: every configured run, or "+app.DefaultPipeline+".")
	configFlag := flagSet.String("config", "", "Path to the run file or directory.")
	cFlag := flagSet.String("c", "", "Path to the run file or directory (shorthand).")
	outputFlag := flagSet.String("output", "", "Artifact path; .yaml, .yml, .json, .tar.gz or .tgz. Default: <pipeline>.yaml.")
	oFlag := flagSet.String("o", "", "Artifact path (shorthand).")
	dotFlag := flagSet.String("dot", "", "Optional path for a Graphviz rendering of the pipeline graph.")
	runIDFlag := flagSet.String("run-id", "", "Run identifier. Default: the {{workflow.name}} placeholder.")
	suffixFlag := flagSet.String("suffix", "", "Table name suffix. Default: generated per compilation.")
	listFlag := flagSet.Bool("list", false, "List the available pipeline templates and exit.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	var params, images keyValueFlag
	flagSet.Var(&params, "param", "Parameter override as name=value. Repeatable.")
	flagSet.Var(&images, "image", "Job image override as kind=reference. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	var paths []string
	for _, p := range []string{*configFlag, *cFlag} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	paths = append(paths, flagSet.Args()...)
	slog.Debug("Config paths determined.", "paths", paths)

	output := *outputFlag
	if output == "" {
		output = *oFlag
	} else if *oFlag != "" && *oFlag != output {
		return nil, false, &ExitError{Code: 2, Message: "conflicting values for -output and -o"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	if !slices.Contains(app.LogLevels(), logLevel) {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		Pipeline:    *pipelineFlag,
		ConfigPaths: paths,
		Output:      output,
		Dot:         *dotFlag,
		RunID:       *runIDFlag,
		Suffix:      *suffixFlag,
		Params:      params.values,
		Images:      images.values,
		List:        *listFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
