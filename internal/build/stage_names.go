package build

import "context"

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepare     StageName = "prepare"
	StageMainBuild   StageName = "main_build"
	StageModBuilds   StageName = "mod_builds"
	StageStageOutput StageName = "stage_output"
	StageInjectMods  StageName = "inject_mods"
	StageCleanup     StageName = "cleanup"
	StageManifest    StageName = "manifest"
)

// Stage executes one step of the pipeline against the shared state.
type Stage func(ctx context.Context, bs *BuildState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
	// SkipIf reports whether the stage has nothing to do for this run.
	SkipIf func(bs *BuildState) bool
}
