package build

import (
	"context"
	"errors"
	"time"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/metrics"
	"git.home.luguber.info/inful/ue4build/internal/observability"
)

// runStages executes stages in order, recording timing and stopping on the first error.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef, recorder metrics.Recorder) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			recorder.IncStageResult(string(st.Name), metrics.ResultSkipped)
			return &StageError{Stage: st.Name, Err: err}
		}

		stageCtx := observability.WithStage(ctx, string(st.Name))
		if st.SkipIf != nil && st.SkipIf(bs) {
			observability.DebugContext(stageCtx, "Stage has nothing to do")
			recorder.IncStageResult(string(st.Name), metrics.ResultSkipped)
			continue
		}

		observability.InfoContext(stageCtx, "Starting stage")
		t0 := time.Now()
		err := st.Fn(stageCtx, bs)
		dur := time.Since(t0)
		bs.StageDurations[st.Name] = dur
		recorder.ObserveStageDuration(string(st.Name), dur)

		if err != nil {
			recorder.IncStageResult(string(st.Name), metrics.ResultFatal)
			observability.ErrorContext(stageCtx, "Stage failed",
				logfields.Error(err),
				logfields.DurationMS(float64(dur.Milliseconds())))
			return &StageError{Stage: st.Name, Err: classifyStageError(st.Name, err)}
		}

		result := metrics.ResultSuccess
		if st.Name == StageModBuilds && len(bs.RecoveredMods) > 0 {
			result = metrics.ResultRecovered
		}
		recorder.IncStageResult(string(st.Name), result)
		observability.InfoContext(stageCtx, "Stage completed",
			logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return nil
}

// classifyStageError gives stage failures that carry no classification the
// build category so they still map to the build exit code.
func classifyStageError(stage StageName, err error) error {
	if dberrors.IsClassified(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return dberrors.BuildError("stage failed").
		WithCause(err).
		WithContext("stage", string(stage)).
		Build()
}
