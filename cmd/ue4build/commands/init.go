package commands

import (
	"fmt"
	"io"

	"git.home.luguber.info/inful/ue4build/internal/config"
	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	if config.Exists(root.Config) && !i.Force {
		return dberrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", root.Config).
			Build()
	}
	return RunGenerate(g.out(), root.Config, root.ProjectRoot())
}

// RunGenerate inspects the project in dir, writes a default configuration to
// configPath and prints it for review.
func RunGenerate(out io.Writer, configPath, dir string) error {
	cfg, err := config.NewGenerator(dir).Generate()
	if err != nil {
		return err
	}
	if err := config.Write(configPath, cfg); err != nil {
		return dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to write configuration").
			Fatal().WithContext("path", configPath).Build()
	}
	data, err := config.Marshal(configPath, cfg)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "generated config %s, please double check that everything is correct:\n%s", configPath, data)
	return nil
}
