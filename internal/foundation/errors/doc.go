// Package errors provides the classified error primitives used across ue4build.
//
// Every failure that reaches the CLI is either a ClassifiedError built through the
// fluent ErrorBuilder, or an error whose chain carries an exit code from the external
// build tool. The CLIErrorAdapter turns either into a process exit code.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, project, tool, filesystem, ...)
//   - ErrorSeverity: Impact level (fatal, error)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and user-facing formatting
//
// Example usage:
//
//	err := errors.ToolError("main build failed").
//		WithContext("exit_code", code).
//		WithCause(runErr).
//		Build()
package errors
