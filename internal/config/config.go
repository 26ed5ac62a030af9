package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
)

// DefaultFilename is the configuration file looked up in the project root.
const DefaultFilename = ".ue4build.json"

// PlaceholderUATCommand is written when no RunUAT script could be located.
const PlaceholderUATCommand = "/path/to/RunUAT"

// ErrNotFound is returned by Load when the configuration file does not exist.
var ErrNotFound = errors.New("configuration file not found")

// Config is the on-disk build configuration.
type Config struct {
	ProjectName     Setting[string]      `json:"projectName" yaml:"projectName"`
	ProjectFile     Setting[string]      `json:"projectFile" yaml:"projectFile"`
	BuildConfig     Setting[string]      `json:"buildConfig" yaml:"buildConfig"`
	TargetPlatform  Setting[string]      `json:"targetPlatform" yaml:"targetPlatform"`
	PlatformDirName Setting[string]      `json:"platformDirName" yaml:"platformDirName"`
	BuildLog        Setting[string]      `json:"buildLog" yaml:"buildLog"`
	BuildLogMaxSize Setting[int]         `json:"buildLogMaxSize" yaml:"buildLogMaxSize"`
	OutputPath      Setting[string]      `json:"outputPath" yaml:"outputPath"`
	UATCommand      Setting[string]      `json:"uatCommand" yaml:"uatCommand"`
	WriteManifest   Setting[bool]        `json:"writeManifest" yaml:"writeManifest"`
	ModPlugins      Setting[[]ModPlugin] `json:"modPlugins" yaml:"modPlugins"`
}

// ModPlugin identifies a plugin directory under Plugins/ and whether it is
// packaged as a separate DLC unit.
type ModPlugin struct {
	Name  Setting[string] `json:"name" yaml:"name"`
	AsMod Setting[bool]   `json:"asMod" yaml:"asMod"`
}

// NewModPlugin returns a documented mod plugin entry.
func NewModPlugin(name string, asMod bool) ModPlugin {
	return ModPlugin{
		Name:  NewSetting("# Name of the Mod (DLC) plugin", name),
		AsMod: NewSetting("# if 'true' will be handled as a mod", asMod),
	}
}

// Default returns the configuration template with every setting documented.
func Default() *Config {
	return &Config{
		ProjectName:     NewSetting("# the project name", ""),
		ProjectFile:     NewSetting("# the .uproject file to build", ""),
		BuildConfig:     NewSetting("# 'DebugGame', 'Development', or 'Shipping'", "Development"),
		TargetPlatform:  NewSetting("# Unreal build target platform", "Win64"),
		PlatformDirName: NewSetting("# The name unreal will give to StagedBuild platform directories", "WindowsNoEditor"),
		BuildLog:        NewSetting("# where to output AutomationTool.exe messages", ".ue4build.log"),
		BuildLogMaxSize: NewSetting("# rotate the build log once it grows past this many megabytes", 100),
		OutputPath:      NewSetting("# will copy the build tree to this destination", filepath.Join("Releases", "ModBuild")),
		UATCommand:      NewSetting("# path to the RunUAT batch or shell script", PlaceholderUATCommand),
		WriteManifest:   NewSetting("# write BuildManifest.json into the output directory", true),
		ModPlugins:      NewSetting("# list of plugins to treat as dlc mods", []ModPlugin{}),
	}
}

// Mods returns the names of plugins flagged as mods, in declaration order.
func (c *Config) Mods() []string {
	mods := make([]string, 0, len(c.ModPlugins.Value))
	for _, p := range c.ModPlugins.Value {
		if p.AsMod.Value {
			mods = append(mods, p.Name.Value)
		}
	}
	return mods
}

// Exists reports whether a configuration file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads the configuration at path. Environment variables from a .env or
// .env.local file beside the configuration are loaded first, and ${VAR}
// references inside string settings are expanded.
func Load(path string) (*Config, error) {
	loadEnvFile(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, dberrors.WrapError(ErrNotFound, dberrors.CategoryConfig, "configuration file not found").
				Fatal().WithContext("path", path).Build()
		}
		return nil, dberrors.WrapError(err, dberrors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", path).Build()
	}

	var cfg Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, dberrors.WrapError(err, dberrors.CategoryConfig, "failed to parse config file").
			Fatal().WithContext("path", path).Build()
	}

	cfg.expandEnv()
	return &cfg, nil
}

// Write stores cfg at path as JSON, or YAML when path has a .yaml/.yml extension.
func Write(path string, cfg *Config) error {
	data, err := Marshal(path, cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders cfg in the format implied by path.
func Marshal(path string, cfg *Config) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append(data, '\n'), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
