package build

import (
	"context"
	"log/slog"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/observability"
	"git.home.luguber.info/inful/ue4build/internal/project"
)

// stagePrepare puts the descriptor into main build shape: every mod plugin
// disabled, with the unmodified descriptor saved as a backup beside it.
func stagePrepare(ctx context.Context, bs *BuildState) error {
	restored, err := project.RestoreBackup(bs.ProjectFile)
	if err != nil {
		return err
	}
	if restored {
		observability.WarnContext(ctx, "Restored project descriptor from the backup of an interrupted run",
			logfields.Path(bs.ProjectFile))
	}

	desc, err := project.Load(bs.ProjectFile)
	if err != nil {
		return err
	}
	if err := project.Backup(bs.ProjectFile); err != nil {
		return err
	}
	bs.Descriptor = desc

	observability.InfoContext(ctx, "Disabling mod plugins", slog.Int("count", len(bs.Mods)))
	return setModsEnabled(bs, false)
}

func setModsEnabled(bs *BuildState, enabled bool) error {
	if len(bs.Mods) == 0 {
		return nil
	}
	for _, mod := range bs.Mods {
		if err := bs.Descriptor.SetPluginEnabled(mod, enabled); err != nil {
			return dberrors.WrapError(err, dberrors.CategoryProject, "failed to update plugin entry").
				Fatal().
				WithContext("mod", mod).
				Build()
		}
	}
	return bs.Descriptor.Save(bs.ProjectFile)
}
