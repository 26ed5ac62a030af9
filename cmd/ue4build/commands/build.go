package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/ue4build/internal/build"
	"git.home.luguber.info/inful/ue4build/internal/config"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	if !config.Exists(root.Config) {
		slog.Info("No configuration found; generating one", "path", root.Config)
		return RunGenerate(g.out(), root.Config, root.ProjectRoot())
	}

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	return RunBuild(g, root, build.NewBuildService(), cfg)
}

// RunBuild executes the pipeline for cfg and reports where the build went.
func RunBuild(g *Global, root *CLI, svc *build.DefaultBuildService, cfg *config.Config) error {
	recorder, flush := root.metricsRecorder()
	defer flush()

	ctx, stop := interruptContext()
	defer stop()

	result, err := svc.WithRecorder(recorder).Run(ctx, build.BuildRequest{
		Config:      cfg,
		ProjectRoot: root.ProjectRoot(),
	})
	if err != nil {
		return err
	}

	out := g.out()
	_, _ = fmt.Fprintf(out, "Build complete: %s\n", result.OutputPath)
	for _, mod := range result.RecoveredMods {
		_, _ = fmt.Fprintf(out, "  %s: recovered from the editor resource update bug\n", mod)
	}
	return nil
}
