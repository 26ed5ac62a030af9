package uat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	dberrors "git.home.luguber.info/inful/ue4build/internal/foundation/errors"
	"git.home.luguber.info/inful/ue4build/internal/logfields"
	"git.home.luguber.info/inful/ue4build/internal/observability"
)

// Tool runs one AutomationTool invocation and returns its captured stdout.
type Tool interface {
	Run(ctx context.Context, args []string) (string, error)
}

// ExitError reports a non-zero exit of the launcher. Output holds everything
// the tool wrote to stdout before exiting.
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("RunUAT exited with code %d", e.Code)
}

// ExitCode returns the launcher's exit status.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Runner invokes the RunUAT launcher script through the host shell.
type Runner struct {
	// Command is the path to RunUAT.bat or RunUAT.sh.
	Command string
	// Log receives the tool's stdout verbatim. Optional.
	Log io.Writer
	// Stdout receives one progress dot per chunk of tool output. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr receives the tool's stderr unchanged. Defaults to os.Stderr.
	Stderr io.Writer
}

// NewRunner returns a Runner for command writing tool output to log.
func NewRunner(command string, log io.Writer) *Runner {
	return &Runner{Command: command, Log: log}
}

// CommandLine renders the shell command line used for args.
func (r *Runner) CommandLine(args []string) string {
	return `"` + r.Command + `" ` + strings.Join(args, " ")
}

// Run executes the launcher with args and blocks until it exits. There is no
// timeout; canceling ctx kills the child process.
func (r *Runner) Run(ctx context.Context, args []string) (string, error) {
	line := r.CommandLine(args)
	observability.InfoContext(ctx, "Running AutomationTool", logfields.Command(line))

	cmd := shellCommand(ctx, line)
	cmd.Stderr = r.stderr()
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", dberrors.ToolError("failed to attach to RunUAT output").WithCause(err).Build()
	}
	if err := cmd.Start(); err != nil {
		return "", dberrors.ToolError("failed to start RunUAT").
			WithCause(err).
			WithContext("command", r.Command).
			Build()
	}

	var output bytes.Buffer
	progress := r.stdout()
	logErr := r.pump(stdout, &output, progress)
	_, _ = io.WriteString(progress, "\n")

	waitErr := cmd.Wait()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && exitErr.ExitCode() > 0 {
			observability.DebugContext(ctx, "AutomationTool exited", logfields.ExitCode(exitErr.ExitCode()))
			return output.String(), &ExitError{Code: exitErr.ExitCode(), Output: output.String()}
		}
		return output.String(), dberrors.ToolError("RunUAT did not complete").
			WithCause(waitErr).
			WithContext("command", r.Command).
			Build()
	}
	if logErr != nil {
		return output.String(), dberrors.FileSystemError("failed to write build log").WithCause(logErr).Build()
	}
	return output.String(), nil
}

// pump copies tool output chunk by chunk into the capture buffer and the log.
// A failing log write is remembered but does not stop the drain, so the child
// never blocks on a full pipe.
func (r *Runner) pump(src io.Reader, capture *bytes.Buffer, progress io.Writer) error {
	var logErr error
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			capture.Write(chunk)
			if r.Log != nil && logErr == nil {
				if _, werr := r.Log.Write(chunk); werr != nil {
					logErr = werr
				}
			}
			_, _ = io.WriteString(progress, ".")
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && logErr == nil {
				logErr = err
			}
			return logErr
		}
	}
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
