package commands

import (
	"fmt"

	"git.home.luguber.info/inful/ue4build/internal/build"
	"git.home.luguber.info/inful/ue4build/internal/uat"
)

// PlanCmd implements the 'plan' command.
type PlanCmd struct{}

func (p *PlanCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	steps, err := build.Plan(cfg, root.ProjectRoot())
	if err != nil {
		return err
	}

	runner := uat.NewRunner(cfg.UATCommand.Value, nil)
	out := g.out()
	for i, step := range steps {
		_, _ = fmt.Fprintf(out, "%d. [%s] %s\n", i+1, step.Stage, step.Description)
		switch {
		case step.Args != nil:
			_, _ = fmt.Fprintf(out, "   %s\n", runner.CommandLine(step.Args))
		case step.Copy != nil:
			_, _ = fmt.Fprintf(out, "   %s -> %s\n", step.Copy.Source, step.Copy.Dest)
		}
	}
	return nil
}
