package project

import (
	"errors"
	"io/fs"
	"os"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/fsutil"
)

// BackupPath returns the location of the backup kept for the descriptor at path.
func BackupPath(path string) string {
	return path + ".bak"
}

// HasBackup reports whether a backup of the descriptor at path exists.
func HasBackup(path string) bool {
	_, err := os.Stat(BackupPath(path))
	return err == nil
}

// Backup replaces any existing backup with a copy of the descriptor at path.
func Backup(path string) error {
	if err := RemoveBackup(path); err != nil {
		return err
	}
	if err := fsutil.CopyFile(path, BackupPath(path)); err != nil {
		return dberrors.WrapError(err, dberrors.CategoryProject, "failed to back up project descriptor").
			Fatal().WithContext("path", path).Build()
	}
	return nil
}

// RestoreBackup copies the backup over the descriptor at path. It reports
// false without touching anything when no backup exists.
func RestoreBackup(path string) (bool, error) {
	if !HasBackup(path) {
		return false, nil
	}
	if err := fsutil.CopyFile(BackupPath(path), path); err != nil {
		return false, dberrors.WrapError(err, dberrors.CategoryProject, "failed to restore project descriptor").
			Fatal().WithContext("path", path).Build()
	}
	return true, nil
}

// RemoveBackup deletes the backup of the descriptor at path. A missing backup is not an error.
func RemoveBackup(path string) error {
	if err := os.Remove(BackupPath(path)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return dberrors.WrapError(err, dberrors.CategoryProject, "failed to remove descriptor backup").
			Fatal().WithContext("path", BackupPath(path)).Build()
	}
	return nil
}
