// Package errors provides the classified error primitives used across docsite.
//
// Key features:
//   - ErrorCategory: broad error classification (config, docs, render, source, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit codes and user-facing messages for the CLI
//
// Example usage:
//
//	err := errors.NotFoundError("document not found").
//		WithContext("docname", name).
//		Build()
package errors
