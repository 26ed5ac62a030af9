package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/project"
)

// PluginDir is the project-relative directory scanned for mod plugins.
const PluginDir = "Plugins"

// ErrNoProjectFile is returned when the project root holds no .uproject file.
var ErrNoProjectFile = errors.New("no .uproject file found")

// Generator synthesises a default configuration by inspecting a project root.
type Generator struct {
	// Dir is the project root holding the .uproject file and the Plugins directory.
	Dir string
	// GOOS selects the target platform defaults.
	GOOS string
	// exists probes candidate RunUAT locations.
	exists func(string) bool
}

// NewGenerator returns a Generator for dir using the host operating system.
func NewGenerator(dir string) *Generator {
	return &Generator{Dir: dir, GOOS: runtime.GOOS, exists: fileExists}
}

// Generate inspects the project root and returns a documented default configuration.
func (g *Generator) Generate() (*Config, error) {
	root, err := filepath.Abs(g.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	cfg := Default()
	cfg.OutputPath.Value = filepath.Join(root, cfg.OutputPath.Value)

	projectFile, err := findProjectFile(root)
	if err != nil {
		return nil, dberrors.WrapError(err, dberrors.CategoryConfig, "cannot generate configuration").
			Fatal().WithContext("dir", root).Build()
	}
	cfg.ProjectFile.Value = projectFile
	cfg.ProjectName.Value = strings.TrimSuffix(filepath.Base(projectFile), filepath.Ext(projectFile))

	desc, err := project.Load(projectFile)
	if err != nil {
		return nil, err
	}
	engineVersion := desc.EngineAssociation()
	disabled := desc.DisabledPlugins()

	cfg.TargetPlatform.Value, cfg.PlatformDirName.Value = platformFor(g.GOOS)

	if candidate := uatCandidate(g.GOOS, engineVersion); engineVersion != "" && g.probe(candidate) {
		cfg.UATCommand.Value = candidate
	} else {
		slog.Warn("RunUAT not found; edit uatCommand before building", logfields.Path(candidate))
	}

	plugins, err := scanPlugins(filepath.Join(root, PluginDir))
	if err != nil {
		return nil, dberrors.WrapError(err, dberrors.CategoryFileSystem, "failed to scan plugin directory").
			Fatal().WithContext("dir", filepath.Join(root, PluginDir)).Build()
	}
	for _, name := range plugins {
		cfg.ModPlugins.Value = append(cfg.ModPlugins.Value, NewModPlugin(name, !disabled[name]))
	}

	return cfg, nil
}

func (g *Generator) probe(path string) bool {
	if g.exists == nil {
		return fileExists(path)
	}
	return g.exists(path)
}

// platformFor maps the host OS to the AutomationTool platform and the staged build directory name.
func platformFor(goos string) (targetPlatform, platformDirName string) {
	switch goos {
	case "darwin":
		return "Darwin", "MacNoEditor"
	default:
		return "Win64", "WindowsNoEditor"
	}
}

// uatCandidate returns the default launcher install location of RunUAT for an engine version.
func uatCandidate(goos, engineVersion string) string {
	if goos == "darwin" {
		return "/Users/Shared/Epic Games/UE_" + engineVersion + "/Engine/Build/BatchFiles/RunUAT.sh"
	}
	return `C:\Program Files\Epic Games\UE_` + engineVersion + `\Engine\Build\BatchFiles\RunUAT.bat`
}

func findProjectFile(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}
	var found []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".uproject") {
			found = append(found, filepath.Join(root, e.Name()))
		}
	}
	if len(found) == 0 {
		return "", ErrNoProjectFile
	}
	sort.Strings(found)
	if len(found) > 1 {
		slog.Warn("Multiple .uproject files found; using the first", logfields.Path(found[0]), slog.Int("count", len(found)))
	}
	return found[0], nil
}

func scanPlugins(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Plugin directory not found; no mods configured", logfields.Path(dir))
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
