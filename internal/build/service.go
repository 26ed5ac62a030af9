package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/ue4build/internal/config"
)

// BuildService is the canonical interface for executing a mod build.
type BuildService interface {
	// Run executes the complete pipeline: prepare → main build → mod builds → stage output → inject mods → cleanup.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a build.
type BuildRequest struct {
	// Config is the loaded and validated configuration.
	Config *config.Config

	// ProjectRoot is the directory relative paths are resolved against: the
	// project file, the build log, the output path and the Saved/ and
	// Plugins/ trees. Defaults to the working directory.
	ProjectRoot string
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// Status indicates overall build outcome.
	Status BuildStatus

	// RunID uniquely identifies this run in logs and in the manifest.
	RunID string

	// OutputPath is the directory the build was copied to. It differs from the
	// configured outputPath when that directory already existed.
	OutputPath string

	// Mods lists the mods built and injected, in build order.
	Mods []string

	// RecoveredMods lists mods whose build failed with the known resource
	// update error but still produced their artifacts.
	RecoveredMods []string

	// FailedStage names the stage that aborted the run.
	FailedStage StageName

	// ManifestPath is set when a build manifest was written.
	ManifestPath string

	// StageDurations records how long every executed stage took.
	StageDurations map[StageName]time.Duration

	// Duration is the total build execution time.
	Duration time.Duration

	// StartTime is when the build started.
	StartTime time.Time

	// EndTime is when the build completed.
	EndTime time.Time
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates every stage completed.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates a stage failed and the run was aborted.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusCancelled indicates the run was cancelled between stages.
	BuildStatusCancelled BuildStatus = "cancelled"
)
