// Package build runs the mod build pipeline for an Unreal project.
//
// A run is a fixed sequence of stages over one BuildState: the project
// descriptor is backed up and every mod plugin disabled, the base game is
// built and packaged, each mod is built as DLC against that release, the
// staged game is copied to a fresh output directory and the mod .pak and
// AssetRegistry.bin files are injected into it. The first failing stage
// aborts the run; its error carries the stage name and, when the external
// tool failed, the tool's exit code.
//
// All entry points route through BuildService.
package build
