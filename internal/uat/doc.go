// Package uat drives the Unreal AutomationTool through its RunUAT launcher
// script. It builds the BuildCookRun argument lists for the main game and for
// DLC mods, runs the launcher through the host shell while mirroring its
// output into the build log, and recognises the one failure signature that
// still leaves usable build artifacts behind.
package uat
