package build

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/ue4build/internal/config"
	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/metrics"
	"git.home.luguber.info/inful/ue4build/internal/observability"
	"git.home.luguber.info/inful/ue4build/internal/uat"
)

// ToolFactory creates the AutomationTool invoker for a run. log is the build log sink.
type ToolFactory func(cfg *config.Config, log io.Writer) uat.Tool

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	toolFactory ToolFactory
	recorder    metrics.Recorder
}

// NewBuildService creates a new DefaultBuildService invoking the configured RunUAT script.
func NewBuildService() *DefaultBuildService {
	return &DefaultBuildService{
		toolFactory: func(cfg *config.Config, log io.Writer) uat.Tool {
			return uat.NewRunner(cfg.UATCommand.Value, log)
		},
		recorder: metrics.NoopRecorder{},
	}
}

// WithToolFactory allows injecting a custom tool factory (for testing).
func (s *DefaultBuildService) WithToolFactory(factory ToolFactory) *DefaultBuildService {
	s.toolFactory = factory
	return s
}

// WithRecorder sets the metrics recorder.
func (s *DefaultBuildService) WithRecorder(r metrics.Recorder) *DefaultBuildService {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	s.recorder = r
	return s
}

// Stages returns the pipeline in execution order.
func Stages() []StageDef {
	noMods := func(bs *BuildState) bool { return len(bs.Mods) == 0 }
	return []StageDef{
		{Name: StagePrepare, Fn: stagePrepare},
		{Name: StageMainBuild, Fn: stageMainBuild},
		{Name: StageModBuilds, Fn: stageModBuilds, SkipIf: noMods},
		{Name: StageStageOutput, Fn: stageStageOutput},
		{Name: StageInjectMods, Fn: stageInjectMods, SkipIf: noMods},
		{Name: StageCleanup, Fn: stageCleanup},
		{Name: StageManifest, Fn: stageManifest, SkipIf: func(bs *BuildState) bool { return !bs.Config.WriteManifest.Value }},
	}
}

// Run executes the complete build pipeline.
func (s *DefaultBuildService) Run(ctx context.Context, req BuildRequest) (*BuildResult, error) {
	startTime := time.Now()
	result := &BuildResult{
		StartTime: startTime,
		RunID:     uuid.NewString(),
	}
	ctx = observability.WithRunID(ctx, result.RunID)

	if req.Config == nil {
		return s.fail(result, dberrors.ConfigError("config required").Build())
	}
	cfg := req.Config

	root := req.ProjectRoot
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return s.fail(result, dberrors.FileSystemError("failed to resolve project root").WithCause(err).Build())
	}

	bs := newBuildState(cfg, root, result.RunID)
	bs.recorder = s.recorder
	bs.Log = uat.NewLogSink(resolve(root, cfg.BuildLog.Value), cfg.BuildLogMaxSize.Value)
	defer func() {
		if err := bs.Log.Close(); err != nil {
			observability.WarnContext(ctx, "Failed to close build log", logfields.Error(err))
		}
	}()
	bs.Tool = s.toolFactory(cfg, bs.Log)

	observability.InfoContext(ctx, "Starting build",
		slog.String("project", cfg.ProjectName.Value),
		logfields.Platform(cfg.TargetPlatform.Value),
		slog.String("config", cfg.BuildConfig.Value),
		slog.Int("mods", len(bs.Mods)))

	err = runStages(ctx, bs, Stages(), s.recorder)

	result.OutputPath = bs.OutputDir
	result.Mods = bs.InjectedMods
	result.RecoveredMods = bs.RecoveredMods
	result.ManifestPath = bs.ManifestPath
	result.StageDurations = bs.StageDurations

	if err != nil {
		var se *StageError
		if errors.As(err, &se) {
			result.FailedStage = se.Stage
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			result.Status = BuildStatusCancelled
			s.finish(result, metrics.BuildOutcomeFailed)
			return result, err
		}
		observability.ErrorContext(ctx, "Build failed; descriptor backup kept",
			logfields.Stage(string(result.FailedStage)),
			logfields.Path(bs.ProjectFile))
		return s.fail(result, err)
	}

	result.Status = BuildStatusSuccess
	s.finish(result, metrics.BuildOutcomeSuccess)
	observability.InfoContext(ctx, "Build complete",
		logfields.Path(result.OutputPath),
		slog.Int("mods", len(result.Mods)),
		slog.Int("recovered", len(result.RecoveredMods)),
		logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

func (s *DefaultBuildService) fail(result *BuildResult, err error) (*BuildResult, error) {
	result.Status = BuildStatusFailed
	s.finish(result, metrics.BuildOutcomeFailed)
	return result, err
}

func (s *DefaultBuildService) finish(result *BuildResult, outcome metrics.BuildOutcomeLabel) {
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	s.recorder.IncBuildOutcome(outcome)
	s.recorder.ObserveBuildDuration(result.Duration)
}
