package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/pipegridgo/internal/config"
	"github.com/specialistvlad/pipegridgo/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	model     *config.Model
	templates []TemplateFactory
}

// NewApp is the constructor for the main application. It builds the App's
// own isolated logger and loads the run configuration.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, templates ...TemplateFactory) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model := &config.Model{}
	if len(appConfig.ConfigPaths) > 0 {
		loaded, err := loader.Load(ctx, appConfig.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		model = loaded
		logger.Debug("Configuration loaded and translated into unified model.", "runs", len(model.Runs))
	}

	if len(templates) == 0 {
		templates = coreTemplates
	}
	logger.Debug("Templates registered.", "count", len(templates))

	return &App{
		outW:      outW,
		logger:    logger,
		model:     model,
		templates: templates,
	}, nil
}

// Model returns the loaded configuration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}
