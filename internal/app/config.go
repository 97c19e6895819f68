package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pipegridgo/internal/compiler"
	"github.com/specialistvlad/pipegridgo/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
// Values set here override the matching run loaded from ConfigPaths.
type Config struct {
	// Pipeline selects one template. Empty compiles every run found in the
	// configuration files, or DefaultPipeline when there are none.
	Pipeline    string
	ConfigPaths []string // hcl files or directories

	Output string
	Dot    string
	RunID  string
	Suffix string
	Params map[string]string
	Images map[string]string

	// List prints the registered templates instead of compiling.
	List bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy that is safe to hand to NewApp.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Output != "" {
		if _, err := compiler.FormatForPath(cfg.Output); err != nil {
			return nil, err
		}
	}
	if cfg.List && (cfg.Output != "" || cfg.Dot != "") {
		return nil, errors.New("list cannot be combined with output options")
	}
	for k := range cfg.Params {
		if k == "" {
			return nil, fmt.Errorf("parameter override with empty name")
		}
	}
	return &cfg, nil
}

// override returns the flag-level values as a run for merging over the
// configuration file.
func (c *Config) override() *config.Run {
	return &config.Run{
		Pipeline:   c.Pipeline,
		RunID:      c.RunID,
		Suffix:     c.Suffix,
		Output:     c.Output,
		Dot:        c.Dot,
		Parameters: c.Params,
		Images:     c.Images,
	}
}
