package uat

import "strings"

// ReleaseVersion is the version tag of the base game that mods are built against.
const ReleaseVersion = "1.0"

// Params carries the configuration values the BuildCookRun templates depend on.
type Params struct {
	ProjectFile    string
	BuildConfig    string
	TargetPlatform string
}

func commonArgs(p Params, releaseArgs ...string) []string {
	args := []string{
		"BuildCookRun",
		`-project="` + p.ProjectFile + `"`,
		"-noP4",
		"-clientconfig=" + p.BuildConfig,
		"-serverconfig=" + p.BuildConfig,
		"-nocompile",
		"-nocompileeditor",
		"-installed",
		"-ue4exe=UE4Editor-Cmd.exe",
		"-utf8output",
		"-platform=" + p.TargetPlatform,
		"-targetplatform=" + p.TargetPlatform,
		"-build",
		"-cook",
		"-map=",
		"-pak",
	}
	args = append(args, releaseArgs...)
	return append(args, "-compressed", "-stage", "-package")
}

// MainBuildArgs returns the arguments for the base game build, which also
// creates the release every mod is based on.
func MainBuildArgs(p Params) []string {
	return commonArgs(p, "-createreleaseversion="+ReleaseVersion)
}

// ModBuildArgs returns the arguments for building mod as DLC.
func ModBuildArgs(p Params, mod string) []string {
	return commonArgs(p, "-dlcname="+mod, "-basedonreleaseversion="+ReleaseVersion)
}

const (
	resourceUpdateFailure = "Program.Main: ERROR: AutomationTool terminated with exception: System.Exception: Couldn't update resource"
	unrealPakDone         = "Project.RunUnrealPak: UnrealPak Done"
)

// ResourceUpdateNote is written to the build log when a mod build failure is
// recognised by IsResourceUpdateBug.
const ResourceUpdateNote = "^-- NOTE: this is an editor bug... the build failed but not before generating\n" +
	"the needed .pak and AssetRegistry.bin files. Everything is OK, proceeding...\n"

// IsResourceUpdateBug reports whether output shows the editor failing to update
// an executable resource after UnrealPak already finished. The .pak and
// AssetRegistry.bin are complete in that case.
func IsResourceUpdateBug(output string) bool {
	return strings.Contains(output, resourceUpdateFailure) && strings.Contains(output, unrealPakDone)
}
