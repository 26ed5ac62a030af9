//go:build windows

package uat

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// shellCommand hands line to cmd.exe untouched. The quoted launcher path and
// the -project="..." argument must reach cmd.exe verbatim, which Go's default
// argument escaping would break.
func shellCommand(ctx context.Context, line string) *exec.Cmd {
	shell := os.Getenv("ComSpec")
	if shell == "" {
		shell = "cmd.exe"
	}
	cmd := exec.CommandContext(ctx, shell)
	cmd.SysProcAttr = &syscall.SysProcAttr{CmdLine: `/d /s /c "` + line + `"`}
	return cmd
}
