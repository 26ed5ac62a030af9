package metrics

import "time"

// testRecorder is a compile-time check that hand-written recorders satisfy the interface.
type testRecorder struct {
	stageResults map[string]map[ResultLabel]int
	outcomes     map[BuildOutcomeLabel]int
}

func (t *testRecorder) ObserveStageDuration(string, time.Duration) {}

func (t *testRecorder) ObserveBuildDuration(time.Duration) {}

func (t *testRecorder) IncStageResult(stage string, result ResultLabel) {
	m, ok := t.stageResults[stage]
	if !ok {
		m = map[ResultLabel]int{}
		t.stageResults[stage] = m
	}
	m[result]++
}

func (t *testRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) { t.outcomes[outcome]++ }

func (t *testRecorder) ObserveToolRun(string, time.Duration, ResultLabel) {}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)
