package build

import (
	"context"
	"errors"
	"time"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/manifest"
	"git.home.luguber.info/inful/ue4build/internal/observability"
	"git.home.luguber.info/inful/ue4build/internal/project"
	"git.home.luguber.info/inful/ue4build/internal/version"
)

func stageCleanup(ctx context.Context, bs *BuildState) error {
	if err := project.RemoveBackup(bs.ProjectFile); err != nil {
		return err
	}
	if err := bs.Log.Close(); err != nil {
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to close build log").Fatal().Build()
	}
	observability.DebugContext(ctx, "Removed descriptor backup", logfields.Path(project.BackupPath(bs.ProjectFile)))
	return nil
}

// stageManifest records the run in the output directory.
func stageManifest(ctx context.Context, bs *BuildState) error {
	finished := time.Now()
	m := &manifest.BuildManifest{
		ID:          bs.RunID,
		ToolVersion: version.Version,
		StartedAt:   bs.start,
		FinishedAt:  finished,
		Duration:    finished.Sub(bs.start).Milliseconds(),
		Status:      string(BuildStatusSuccess),
		Inputs: manifest.Inputs{
			Project:        bs.Config.ProjectName.Value,
			ProjectFile:    bs.ProjectFile,
			BuildConfig:    bs.Config.BuildConfig.Value,
			TargetPlatform: bs.Config.TargetPlatform.Value,
			Mods:           bs.Mods,
		},
		Outputs: manifest.Outputs{
			Dir:           bs.OutputDir,
			Mods:          bs.InjectedMods,
			RecoveredMods: bs.RecoveredMods,
		},
	}
	if bs.Descriptor != nil {
		m.Inputs.EngineAssociation = bs.Descriptor.EngineAssociation()
	}

	rev, err := manifest.HeadRevision(bs.Root)
	switch {
	case err == nil:
		m.Inputs.Source = rev
	case errors.Is(err, manifest.ErrNotRepository):
		observability.DebugContext(ctx, "Project is not a git work tree; manifest has no source revision")
	default:
		observability.WarnContext(ctx, "Failed to read source revision", logfields.Error(err))
	}

	hash, err := m.Hash()
	if err != nil {
		return dberrors.WrapError(err, dberrors.CategoryInternal, "failed to hash manifest inputs").Fatal().Build()
	}
	m.InputsHash = hash

	path, err := m.Write(bs.OutputDir)
	if err != nil {
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to write build manifest").Fatal().Build()
	}
	bs.ManifestPath = path
	observability.InfoContext(ctx, "Wrote build manifest", logfields.Path(path))
	return nil
}
