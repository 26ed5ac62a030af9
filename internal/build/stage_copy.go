package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/fsutil"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/observability"
)

// stageStageOutput copies the staged game into the first free variant of the
// configured output path, so earlier builds are never overwritten.
func stageStageOutput(ctx context.Context, bs *BuildState) error {
	dest, err := fsutil.NextFreeDir(resolve(bs.Root, bs.Config.OutputPath.Value))
	if err != nil {
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to choose output directory").Fatal().Build()
	}
	src := bs.StagedBuildDir()
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to create output parent directory").
			Fatal().WithContext("path", filepath.Dir(dest)).Build()
	}
	bs.OutputDir = dest

	observability.InfoContext(ctx, "Copying staged build", logfields.Source(src), logfields.Dest(dest))
	if err := fsutil.CopyDir(ctx, src, dest); err != nil {
		return dberrors.WrapError(fmt.Errorf("%w: %w", ErrStageCopy, err), dberrors.CategoryFileSystem, "failed to copy staged build").
			Fatal().
			WithContext("source", src).
			WithContext("dest", dest).
			Build()
	}
	return nil
}

// stageInjectMods copies every mod's AssetRegistry.bin and .pak into the
// output tree. Mods are handled one at a time; the two files of a mod are
// copied concurrently.
func stageInjectMods(ctx context.Context, bs *BuildState) error {
	for _, mod := range bs.Mods {
		modCtx := observability.WithMod(ctx, mod)
		var g errgroup.Group
		for _, step := range bs.ModArtifacts(mod, bs.OutputDir) {
			observability.DebugContext(modCtx, "Copying mod artifact", logfields.Source(step.Source), logfields.Dest(step.Dest))
			g.Go(func() error { return fsutil.CopyFile(step.Source, step.Dest) })
		}
		if err := g.Wait(); err != nil {
			return dberrors.WrapError(fmt.Errorf("%w: %w", ErrInjectMods, err), dberrors.CategoryFileSystem, "failed to copy mod artifacts").
				Fatal().
				WithContext("mod", mod).
				Build()
		}
		bs.InjectedMods = append(bs.InjectedMods, mod)
		observability.InfoContext(modCtx, "Injected mod artifacts", logfields.Path(bs.PaksDir(bs.OutputDir)))
	}
	return nil
}
