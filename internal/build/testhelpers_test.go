package build

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ue4build/internal/config"
	"git.home.luguber.info/inful/ue4build/internal/metrics"
	"git.home.luguber.info/inful/ue4build/internal/project"
	"git.home.luguber.info/inful/ue4build/internal/uat"
)

const (
	testProject  = "Game"
	testPlatform = "WindowsNoEditor"
)

// fixture is a project root laid out the way the engine leaves it after a
// successful main build and mod builds.
type fixture struct {
	root string
	cfg  *config.Config
}

func newFixture(t *testing.T, descriptor string, mods ...config.ModPlugin) *fixture {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, testProject+".uproject"), descriptor)

	staged := filepath.Join(root, "Saved", "StagedBuilds", testPlatform)
	writeFile(t, filepath.Join(staged, testProject, "Content", "Paks", testProject+"-"+testPlatform+".pak"), "main pak")
	writeFile(t, filepath.Join(staged, testProject, "Binaries", "Win64", testProject+".exe"), "exe")
	writeFile(t, filepath.Join(staged, testProject+".exe"), "launcher")

	for _, m := range mods {
		name := m.Name.Value
		plugin := filepath.Join(root, config.PluginDir, name, "Saved")
		writeFile(t, filepath.Join(plugin, "Cooked", testPlatform, testProject, "AssetRegistry.bin"), name+" registry")
		writeFile(t, filepath.Join(plugin, "StagedBuilds", testPlatform, testProject, "Content", "Paks", testProject+"-"+testPlatform+".pak"), name+" pak")
	}

	cfg := config.Default()
	cfg.ProjectName.Value = testProject
	cfg.ProjectFile.Value = testProject + ".uproject"
	cfg.PlatformDirName.Value = testPlatform
	cfg.OutputPath.Value = filepath.Join("Releases", "ModBuild")
	cfg.UATCommand.Value = "/engine/RunUAT.sh"
	cfg.ModPlugins.Value = mods
	return &fixture{root: root, cfg: cfg}
}

func (f *fixture) projectFile() string {
	return filepath.Join(f.root, testProject+".uproject")
}

func (f *fixture) path(parts ...string) string {
	return filepath.Join(append([]string{f.root}, parts...)...)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// toolCall records one invocation together with the plugin states the
// descriptor on disk held at that moment.
type toolCall struct {
	target  string
	args    []string
	plugins map[string]bool
}

// fakeTool stands in for RunUAT. Results are keyed by target: "main" or the mod name.
type fakeTool struct {
	mu          sync.Mutex
	projectFile string
	log         io.Writer
	results     map[string]error
	calls       []toolCall
}

func (f *fakeTool) Run(_ context.Context, args []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := mainTarget
	for _, a := range args {
		if mod, ok := strings.CutPrefix(a, "-dlcname="); ok {
			target = mod
		}
	}

	states := map[string]bool{}
	if desc, err := project.Load(f.projectFile); err == nil {
		for _, p := range desc.Plugins() {
			states[p.Name] = p.Enabled
		}
	}
	f.calls = append(f.calls, toolCall{target: target, args: args, plugins: states})

	output := "LogInit: building " + target + "\n"
	if f.log != nil {
		_, _ = io.WriteString(f.log, output)
	}
	if err := f.results[target]; err != nil {
		var exitErr *uat.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Output, err
		}
		return output, err
	}
	return output, nil
}

func (f *fakeTool) targets() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.target
	}
	return out
}

func newService(tool *fakeTool, recorder metrics.Recorder) *DefaultBuildService {
	return NewBuildService().
		WithRecorder(recorder).
		WithToolFactory(func(_ *config.Config, log io.Writer) uat.Tool {
			tool.log = log
			return tool
		})
}

// recordingRecorder captures stage results and build outcomes.
type recordingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	stages   map[string]metrics.ResultLabel
	toolRuns map[string]metrics.ResultLabel
	outcomes []metrics.BuildOutcomeLabel
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{
		stages:   map[string]metrics.ResultLabel{},
		toolRuns: map[string]metrics.ResultLabel{},
	}
}

func (r *recordingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stage] = result
}

func (r *recordingRecorder) IncBuildOutcome(outcome metrics.BuildOutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func (r *recordingRecorder) ObserveToolRun(target string, _ time.Duration, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toolRuns[target] = result
}
