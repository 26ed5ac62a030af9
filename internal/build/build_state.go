package build

import (
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/ue4build/internal/config"
	"git.home.luguber.info/inful/ue4build/internal/metrics"
	"git.home.luguber.info/inful/ue4build/internal/project"
	"git.home.luguber.info/inful/ue4build/internal/uat"
)

// BuildState carries the run's inputs and everything stages hand to each other.
type BuildState struct {
	Config *config.Config
	RunID  string

	// Root is the absolute project root.
	Root string
	// ProjectFile is the absolute path of the .uproject descriptor.
	ProjectFile string
	// Mods are the mod-flagged plugins in declaration order.
	Mods []string

	Descriptor *project.Descriptor
	Tool       uat.Tool
	Log        *uat.LogSink

	// OutputDir is the directory chosen by stage_output.
	OutputDir     string
	RecoveredMods []string
	InjectedMods  []string
	ManifestPath  string

	StageDurations map[StageName]time.Duration
	start          time.Time
	recorder       metrics.Recorder
}

func newBuildState(cfg *config.Config, root, runID string) *BuildState {
	return &BuildState{
		Config:         cfg,
		RunID:          runID,
		Root:           root,
		ProjectFile:    resolve(root, cfg.ProjectFile.Value),
		Mods:           cfg.Mods(),
		StageDurations: make(map[StageName]time.Duration),
		start:          time.Now(),
		recorder:       metrics.NoopRecorder{},
	}
}

// Params returns the values the BuildCookRun templates need.
func (bs *BuildState) Params() uat.Params {
	return uat.Params{
		ProjectFile:    bs.ProjectFile,
		BuildConfig:    bs.Config.BuildConfig.Value,
		TargetPlatform: bs.Config.TargetPlatform.Value,
	}
}

// StagedBuildDir is where the main build leaves the packaged game.
func (bs *BuildState) StagedBuildDir() string {
	return filepath.Join(bs.Root, "Saved", "StagedBuilds", bs.Config.PlatformDirName.Value)
}

// PaksDir is the directory mod artifacts are injected into within dir.
func (bs *BuildState) PaksDir(dir string) string {
	return filepath.Join(dir, bs.Config.ProjectName.Value, "Content", "Paks")
}

// ModArtifacts returns the two files a mod build produces, mapped to their
// destinations inside the output directory dir.
func (bs *BuildState) ModArtifacts(mod, dir string) []CopyStep {
	platform := bs.Config.PlatformDirName.Value
	name := bs.Config.ProjectName.Value
	pluginDir := filepath.Join(bs.Root, config.PluginDir, mod, "Saved")
	paks := bs.PaksDir(dir)
	return []CopyStep{
		{
			Source: filepath.Join(pluginDir, "Cooked", platform, name, "AssetRegistry.bin"),
			Dest:   filepath.Join(paks, mod+".bin"),
		},
		{
			Source: filepath.Join(pluginDir, "StagedBuilds", platform, name, "Content", "Paks", name+"-"+platform+".pak"),
			Dest:   filepath.Join(paks, mod+".pak"),
		},
	}
}

// CopyStep is a single file or tree copy performed by the pipeline.
type CopyStep struct {
	Source string
	Dest   string
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
