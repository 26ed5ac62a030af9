package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ue4build/internal/config"
	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/manifest"
	"git.home.luguber.info/inful/ue4build/internal/metrics"
	"git.home.luguber.info/inful/ue4build/internal/project"
	"git.home.luguber.info/inful/ue4build/internal/uat"
)

const twoPluginDescriptor = `{
	"FileVersion": 3,
	"EngineAssociation": "4.20",
	"Modules": [{"Name": "Game", "Type": "Runtime"}],
	"Plugins": [
		{"Name": "A", "Enabled": true},
		{"Name": "B", "Enabled": true}
	]
}`

const (
	resourceUpdateFailure = "Program.Main: ERROR: AutomationTool terminated with exception: System.Exception: Couldn't update resource"
	unrealPakDone         = "Project.RunUnrealPak: UnrealPak Done"
)

func TestRun_ModAndNonModPlugins(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true), config.NewModPlugin("B", false))
	tool := &fakeTool{projectFile: f.projectFile()}
	rec := newRecordingRecorder()

	result, err := newService(tool, rec).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.NoError(t, err)
	assert.Equal(t, BuildStatusSuccess, result.Status)

	require.Equal(t, []string{"main", "A"}, tool.targets())
	assert.Equal(t, map[string]bool{"A": false, "B": true}, tool.calls[0].plugins, "A is disabled for the main build, B untouched")
	assert.Contains(t, tool.calls[0].args, "-createreleaseversion=1.0")
	assert.Equal(t, map[string]bool{"A": true, "B": true}, tool.calls[1].plugins, "A is re-enabled before its DLC build")
	assert.Contains(t, tool.calls[1].args, "-dlcname=A")
	assert.Contains(t, tool.calls[1].args, "-basedonreleaseversion=1.0")

	out := f.path("Releases", "ModBuild")
	assert.Equal(t, out, result.OutputPath)
	assert.Equal(t, "launcher", readFile(t, filepath.Join(out, testProject+".exe")))
	paks := filepath.Join(out, testProject, "Content", "Paks")
	assert.Equal(t, "A pak", readFile(t, filepath.Join(paks, "A.pak")))
	assert.Equal(t, "A registry", readFile(t, filepath.Join(paks, "A.bin")))
	assert.NoFileExists(t, filepath.Join(paks, "B.pak"))
	assert.NoFileExists(t, filepath.Join(paks, "B.bin"))
	assert.Equal(t, []string{"A"}, result.Mods)
	assert.Empty(t, result.RecoveredMods)

	assert.False(t, project.HasBackup(f.projectFile()), "backup is removed after a successful run")
	desc, err := project.Load(f.projectFile())
	require.NoError(t, err)
	assert.Len(t, desc.Plugins(), 2)
	assert.Contains(t, readFile(t, f.projectFile()), `"Modules"`)

	m, err := manifest.Read(out)
	require.NoError(t, err)
	assert.Equal(t, result.ManifestPath, filepath.Join(out, manifest.Filename))
	assert.Equal(t, result.RunID, m.ID)
	assert.Equal(t, "4.20", m.Inputs.EngineAssociation)
	assert.Equal(t, []string{"A"}, m.Outputs.Mods)
	wantHash, err := m.Hash()
	require.NoError(t, err)
	assert.Equal(t, wantHash, m.InputsHash)
	assert.Len(t, m.InputsHash, 64)

	assert.Contains(t, readFile(t, f.path(".ue4build.log")), "LogInit: building A")
	assert.Equal(t, metrics.ResultSuccess, rec.stages[string(StageInjectMods)])
	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)
}

func TestRun_NoMods(t *testing.T) {
	f := newFixture(t, `{"FileVersion": 3}`)
	f.cfg.WriteManifest.Value = false
	tool := &fakeTool{projectFile: f.projectFile()}
	rec := newRecordingRecorder()

	result, err := newService(tool, rec).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.NoError(t, err)

	assert.Equal(t, []string{"main"}, tool.targets())
	assert.Empty(t, result.Mods)
	assert.DirExists(t, result.OutputPath)
	assert.Empty(t, result.ManifestPath)
	assert.NoFileExists(t, filepath.Join(result.OutputPath, manifest.Filename))
	assert.False(t, project.HasBackup(f.projectFile()))

	assert.Equal(t, metrics.ResultSkipped, rec.stages[string(StageModBuilds)])
	assert.Equal(t, metrics.ResultSkipped, rec.stages[string(StageInjectMods)])
	assert.Equal(t, metrics.ResultSkipped, rec.stages[string(StageManifest)])
	assert.Equal(t, metrics.ResultSuccess, rec.stages[string(StageCleanup)])
	assert.NotContains(t, result.StageDurations, StageModBuilds)
	assert.Contains(t, result.StageDurations, StageCleanup)
}

func TestRun_OutputPathTaken(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true))
	require.NoError(t, os.MkdirAll(f.path("Releases", "ModBuild"), 0o755))
	require.NoError(t, os.MkdirAll(f.path("Releases", "ModBuild_1"), 0o755))
	tool := &fakeTool{projectFile: f.projectFile()}

	result, err := newService(tool, nil).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.NoError(t, err)
	assert.Equal(t, f.path("Releases", "ModBuild_2"), result.OutputPath)
	assert.FileExists(t, filepath.Join(result.OutputPath, testProject, "Content", "Paks", "A.pak"))
}

func TestRun_MainBuildFailure(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true))
	tool := &fakeTool{
		projectFile: f.projectFile(),
		results:     map[string]error{"main": &uat.ExitError{Code: 5, Output: "ERROR: cook failed"}},
	}
	rec := newRecordingRecorder()

	result, err := newService(tool, rec).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.Error(t, err)

	assert.Equal(t, BuildStatusFailed, result.Status)
	assert.Equal(t, StageMainBuild, result.FailedStage)
	assert.ErrorIs(t, err, ErrMainBuild)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageMainBuild, se.Stage)
	assert.Equal(t, 5, dberrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	assert.Equal(t, []string{"main"}, tool.targets())
	assert.True(t, project.HasBackup(f.projectFile()), "backup is kept as evidence")
	assert.NoDirExists(t, f.path("Releases", "ModBuild"))
	assert.Equal(t, metrics.ResultFatal, rec.stages[string(StageMainBuild)])
	assert.NotContains(t, rec.stages, string(StageModBuilds))
	assert.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeFailed}, rec.outcomes)
}

func TestRun_ResourceUpdateBugIsRecovered(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true), config.NewModPlugin("B", true))
	tool := &fakeTool{
		projectFile: f.projectFile(),
		results: map[string]error{"A": &uat.ExitError{
			Code:   1,
			Output: unrealPakDone + "\n" + resourceUpdateFailure + "\n",
		}},
	}
	rec := newRecordingRecorder()

	result, err := newService(tool, rec).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.NoError(t, err)

	assert.Equal(t, []string{"main", "A", "B"}, tool.targets())
	assert.Equal(t, []string{"A"}, result.RecoveredMods)
	assert.Equal(t, []string{"A", "B"}, result.Mods)
	assert.Contains(t, readFile(t, f.path(".ue4build.log")), uat.ResourceUpdateNote)
	assert.Equal(t, metrics.ResultRecovered, rec.stages[string(StageModBuilds)])
	assert.Equal(t, metrics.ResultRecovered, rec.toolRuns["A"])
	assert.Equal(t, metrics.ResultSuccess, rec.toolRuns["B"])
}

func TestRun_ModBuildFailure(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true), config.NewModPlugin("B", true))
	tool := &fakeTool{
		projectFile: f.projectFile(),
		results:     map[string]error{"A": &uat.ExitError{Code: 3, Output: resourceUpdateFailure}},
	}

	result, err := newService(tool, nil).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.Error(t, err)

	assert.Equal(t, StageModBuilds, result.FailedStage)
	assert.ErrorIs(t, err, ErrModBuild)
	assert.Equal(t, 3, dberrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	assert.Equal(t, []string{"main", "A"}, tool.targets(), "B is never built")
	assert.NotContains(t, readFile(t, f.path(".ue4build.log")), "NOTE")
}

func TestRun_MissingModArtifact(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true))
	require.NoError(t, os.Remove(f.path(config.PluginDir, "A", "Saved", "Cooked", testPlatform, testProject, "AssetRegistry.bin")))
	tool := &fakeTool{projectFile: f.projectFile()}

	result, err := newService(tool, nil).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.Error(t, err)
	assert.Equal(t, StageInjectMods, result.FailedStage)
	assert.ErrorIs(t, err, ErrInjectMods)
	assert.True(t, dberrors.HasCategory(err, dberrors.CategoryFileSystem))
	assert.Equal(t, 11, dberrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestRun_RestoresBackupOfInterruptedRun(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true))
	// An aborted run left the descriptor with A disabled and the original as backup.
	require.NoError(t, os.WriteFile(project.BackupPath(f.projectFile()), []byte(twoPluginDescriptor), 0o644))
	writeFile(t, f.projectFile(), `{"Plugins": [{"Name": "A", "Enabled": false}], "Leftover": true}`)
	tool := &fakeTool{projectFile: f.projectFile()}

	_, err := newService(tool, nil).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.NoError(t, err)

	final := readFile(t, f.projectFile())
	assert.NotContains(t, final, "Leftover")
	assert.Contains(t, final, `"EngineAssociation"`)
	assert.Equal(t, map[string]bool{"A": false, "B": true}, tool.calls[0].plugins)
}

func TestRun_InvalidDescriptor(t *testing.T) {
	f := newFixture(t, `not json`, config.NewModPlugin("A", true))
	tool := &fakeTool{projectFile: f.projectFile()}

	result, err := newService(tool, nil).Run(context.Background(), BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.Error(t, err)
	assert.Equal(t, StagePrepare, result.FailedStage)
	assert.True(t, dberrors.HasCategory(err, dberrors.CategoryProject))
	assert.Empty(t, tool.calls)
}

func TestRun_NilConfig(t *testing.T) {
	result, err := NewBuildService().Run(context.Background(), BuildRequest{})
	require.Error(t, err)
	assert.Equal(t, BuildStatusFailed, result.Status)
	assert.True(t, dberrors.HasCategory(err, dberrors.CategoryConfig))
	assert.NotEmpty(t, result.RunID)
}

func TestRun_Cancelled(t *testing.T) {
	f := newFixture(t, twoPluginDescriptor, config.NewModPlugin("A", true))
	tool := &fakeTool{projectFile: f.projectFile()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newService(tool, nil).Run(ctx, BuildRequest{Config: f.cfg, ProjectRoot: f.root})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, BuildStatusCancelled, result.Status)
	assert.Equal(t, StagePrepare, result.FailedStage)
	assert.Empty(t, tool.calls)
	assert.NoFileExists(t, f.path(".ue4build.log"))
}
