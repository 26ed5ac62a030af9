package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/ue4build/internal/config"
	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/project"
)

// RestoreCmd implements the 'restore' command.
type RestoreCmd struct{}

func (r *RestoreCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	projectFile := cfg.ProjectFile.Value
	if !filepath.IsAbs(projectFile) {
		projectFile = filepath.Join(root.ProjectRoot(), projectFile)
	}

	restored, err := project.RestoreBackup(projectFile)
	if err != nil {
		return err
	}
	if !restored {
		return dberrors.NewError(dberrors.CategoryNotFound, "no descriptor backup to restore").
			WithContext("path", project.BackupPath(projectFile)).
			Build()
	}
	if err := project.RemoveBackup(projectFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(g.out(), "Restored %s\n", projectFile)
	return nil
}
