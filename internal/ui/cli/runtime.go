package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	coreapp "layered/internal/core/app"
	"layered/internal/core/config"
	"layered/internal/shared/observability"
	"layered/internal/shared/version"
)

// configureLogging installs a charm logger as the slog default. Logs go to
// w (stderr) so that stdout only carries command output.
func configureLogging(w io.Writer, verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "layered",
		ReportTimestamp: verbose,
		TimeFormat:      time.TimeOnly,
	})
	slog.SetDefault(slog.New(logger))
}

type session struct {
	app    *coreapp.App
	tracer *observability.TracerProvider
}

// openSession loads the configuration, applies command-line overrides and
// builds the app. Positional args replace the configured input paths.
func openSession(cmd *cobra.Command, opts *globalOptions, args []string, override func(*config.Config)) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("detect working directory: %w", err)
	}

	cfg, err := loadConfig(cmd, opts, cwd)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Paths = append([]string(nil), args...)
	}
	if override != nil {
		override(cfg)
	}

	app, err := coreapp.New(cfg, cwd)
	if err != nil {
		return nil, err
	}

	tracer, err := observability.InitTracing(cmd.Context(), observability.TracingConfig{
		ServiceName:    "layered",
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		SampleRate:     cfg.Observability.SampleRate,
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("session ready",
		"project_root", app.Paths.ProjectRoot,
		"inputs", app.Paths.Inputs,
		"output_dir", app.Paths.OutputDir,
		"in_place", cfg.Expand.InPlace,
	)
	return &session{app: app, tracer: tracer}, nil
}

func (s *session) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.tracer.Shutdown(ctx); err != nil {
		slog.Warn("failed to flush traces", "error", err)
	}
}

func loadConfig(cmd *cobra.Command, opts *globalOptions, cwd string) (*config.Config, error) {
	path := opts.configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	explicit := cmd.Flags().Changed("config")
	cfg, err := config.LoadOrDefault(path, explicit)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resultCode maps a finished run onto the process exit code.
func resultCode(report *coreapp.Report) error {
	if report.Failed() {
		return &exitError{code: exitDiagnostics}
	}
	return nil
}
