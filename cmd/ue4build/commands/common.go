package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/ue4build/internal/config"
	"git.home.luguber.info/inful/ue4build/internal/metrics"
)

// Global context passed to subcommands.
type Global struct {
	// Out receives user-facing output. Defaults to os.Stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:".ue4build.json" type:"path"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`
	MetricsFile string           `name:"metrics-file" help:"Write Prometheus metrics for the run to this file (textfile collector format)" type:"path"`

	Build   BuildCmd   `cmd:"" default:"1" help:"Build the project and all mod plugins (generates a configuration on first run)"`
	Init    InitCmd    `cmd:"" help:"Generate a configuration file from the project in the working directory"`
	Plan    PlanCmd    `cmd:"" help:"Print the tool invocations and copies a build would perform"`
	Restore RestoreCmd `cmd:"" help:"Restore the project descriptor from the backup of an interrupted build"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ProjectRoot is the directory holding the configuration file. Relative
// paths in the configuration are resolved against it.
func (c *CLI) ProjectRoot() string {
	return filepath.Dir(c.Config)
}

// LoadConfig loads and validates the configuration file.
func (c *CLI) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// metricsRecorder returns the recorder for a run and a flush function that
// writes the collected metrics to --metrics-file.
func (c *CLI) metricsRecorder() (metrics.Recorder, func()) {
	if c.MetricsFile == "" {
		return metrics.NoopRecorder{}, func() {}
	}
	reg := prometheus.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	return rec, func() {
		if err := metrics.WriteTextfile(c.MetricsFile, reg); err != nil {
			slog.Warn("Failed to write metrics file", "path", c.MetricsFile, "error", err)
		}
	}
}

// interruptContext is canceled on Ctrl-C, which stops a running AutomationTool.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
