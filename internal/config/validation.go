package config

import (
	"errors"
	"fmt"
	"slices"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
)

// BuildConfigurations lists the accepted values of the buildConfig setting.
var BuildConfigurations = []string{"DebugGame", "Development", "Shipping"}

// Validate checks that every setting carries a real value. A configuration
// produced by the generator usually fails here until the user edits it.
func (c *Config) Validate() error {
	var problems []error

	required := []struct {
		key   string
		value string
	}{
		{"projectName", c.ProjectName.Value},
		{"projectFile", c.ProjectFile.Value},
		{"buildConfig", c.BuildConfig.Value},
		{"targetPlatform", c.TargetPlatform.Value},
		{"platformDirName", c.PlatformDirName.Value},
		{"buildLog", c.BuildLog.Value},
		{"outputPath", c.OutputPath.Value},
		{"uatCommand", c.UATCommand.Value},
	}
	for _, r := range required {
		if r.value == "" {
			problems = append(problems, fmt.Errorf("%s must be set", r.key))
		}
	}

	if c.UATCommand.Value == PlaceholderUATCommand {
		problems = append(problems, errors.New("uatCommand still holds the placeholder path"))
	}
	if c.BuildConfig.Value != "" && !slices.Contains(BuildConfigurations, c.BuildConfig.Value) {
		problems = append(problems, fmt.Errorf("buildConfig %q must be one of %v", c.BuildConfig.Value, BuildConfigurations))
	}
	if c.BuildLogMaxSize.Value < 0 {
		problems = append(problems, errors.New("buildLogMaxSize must not be negative"))
	}

	seen := make(map[string]bool, len(c.ModPlugins.Value))
	for i, p := range c.ModPlugins.Value {
		name := p.Name.Value
		switch {
		case name == "":
			problems = append(problems, fmt.Errorf("modPlugins[%d] has no name", i))
		case seen[name]:
			problems = append(problems, fmt.Errorf("modPlugins lists %q more than once", name))
		}
		seen[name] = true
	}

	if len(problems) == 0 {
		return nil
	}
	return dberrors.WrapError(errors.Join(problems...), dberrors.CategoryConfig, "invalid configuration").
		Fatal().
		WithContext("problems", len(problems)).
		Build()
}
