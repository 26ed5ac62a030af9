package build

import (
	"context"
	"errors"
	"fmt"
	"time"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/metrics"
	"git.home.luguber.info/inful/ue4build/internal/observability"
	"git.home.luguber.info/inful/ue4build/internal/uat"
)

// mainTarget labels the base game build in tool metrics.
const mainTarget = "main"

func stageMainBuild(ctx context.Context, bs *BuildState) error {
	observability.InfoContext(ctx, "Executing main build", logfields.Platform(bs.Config.TargetPlatform.Value))
	start := time.Now()
	_, err := bs.Tool.Run(ctx, uat.MainBuildArgs(bs.Params()))
	if err != nil {
		bs.recorder.ObserveToolRun(mainTarget, time.Since(start), metrics.ResultFatal)
		return toolFailure(err, ErrMainBuild, mainTarget)
	}
	bs.recorder.ObserveToolRun(mainTarget, time.Since(start), metrics.ResultSuccess)
	return nil
}

// stageModBuilds re-enables the mod plugins and builds each one as DLC, in
// declaration order. A build failing with the known resource update error
// has already written its artifacts and is treated as success.
func stageModBuilds(ctx context.Context, bs *BuildState) error {
	observability.InfoContext(ctx, "Re-enabling mod plugins")
	if err := setModsEnabled(bs, true); err != nil {
		return err
	}

	for _, mod := range bs.Mods {
		modCtx := observability.WithMod(ctx, mod)
		observability.InfoContext(modCtx, "Executing mod build")

		start := time.Now()
		_, err := bs.Tool.Run(modCtx, uat.ModBuildArgs(bs.Params(), mod))
		if err == nil {
			bs.recorder.ObserveToolRun(mod, time.Since(start), metrics.ResultSuccess)
			continue
		}

		var exitErr *uat.ExitError
		if !errors.As(err, &exitErr) || !uat.IsResourceUpdateBug(exitErr.Output) {
			bs.recorder.ObserveToolRun(mod, time.Since(start), metrics.ResultFatal)
			return toolFailure(err, ErrModBuild, mod)
		}

		bs.recorder.ObserveToolRun(mod, time.Since(start), metrics.ResultRecovered)
		bs.RecoveredMods = append(bs.RecoveredMods, mod)
		observability.WarnContext(modCtx, "Mod build hit the editor resource update bug; artifacts are complete, continuing",
			logfields.ExitCode(exitErr.Code))
		if err := bs.Log.Note(uat.ResourceUpdateNote); err != nil {
			observability.WarnContext(modCtx, "Failed to write note to build log", logfields.Error(err))
		}
	}
	return nil
}

func toolFailure(err, sentinel error, target string) error {
	b := dberrors.WrapError(fmt.Errorf("%w: %w", sentinel, err), dberrors.CategoryTool, "AutomationTool failed").
		Fatal().
		WithContext("target", target)
	var exitErr *uat.ExitError
	if errors.As(err, &exitErr) {
		b = b.WithContext("exit_code", exitErr.Code)
	}
	return b.Build()
}
