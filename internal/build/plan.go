package build

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/ue4build/internal/config"
	"git.home.luguber.info/inful/ue4build/internal/fsutil"
	"git.home.luguber.info/inful/ue4build/internal/manifest"
	"git.home.luguber.info/inful/ue4build/internal/project"
	"git.home.luguber.info/inful/ue4build/internal/uat"
)

// PlanStep is one action a run would perform.
type PlanStep struct {
	Stage       StageName
	Description string
	// Args is set for AutomationTool invocations.
	Args []string
	// Copy is set for file and tree copies.
	Copy *CopyStep
}

// Plan lists the actions a run with cfg would perform, without touching
// anything. The output directory is probed the same way a run chooses it.
func Plan(cfg *config.Config, root string) ([]PlanStep, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	bs := newBuildState(cfg, root, "")

	out, err := fsutil.NextFreeDir(resolve(root, cfg.OutputPath.Value))
	if err != nil {
		return nil, err
	}

	steps := []PlanStep{{
		Stage:       StagePrepare,
		Description: fmt.Sprintf("back up %s to %s and disable %d mod plugin(s)", bs.ProjectFile, project.BackupPath(bs.ProjectFile), len(bs.Mods)),
	}, {
		Stage:       StageMainBuild,
		Description: "build and package the base game",
		Args:        uat.MainBuildArgs(bs.Params()),
	}}
	for _, mod := range bs.Mods {
		steps = append(steps, PlanStep{
			Stage:       StageModBuilds,
			Description: "build mod " + mod + " as DLC",
			Args:        uat.ModBuildArgs(bs.Params(), mod),
		})
	}
	steps = append(steps, PlanStep{
		Stage:       StageStageOutput,
		Description: "copy the staged build",
		Copy:        &CopyStep{Source: bs.StagedBuildDir(), Dest: out},
	})
	for _, mod := range bs.Mods {
		for _, step := range bs.ModArtifacts(mod, out) {
			steps = append(steps, PlanStep{
				Stage:       StageInjectMods,
				Description: "inject " + mod + " artifact",
				Copy:        &step,
			})
		}
	}
	steps = append(steps, PlanStep{Stage: StageCleanup, Description: "remove the descriptor backup"})
	if cfg.WriteManifest.Value {
		steps = append(steps, PlanStep{
			Stage:       StageManifest,
			Description: "write " + filepath.Join(out, manifest.Filename),
		})
	}
	return steps, nil
}
