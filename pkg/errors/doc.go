// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Capture failures carry an ErrorCode that the CLI maps to a process exit
// status with ExitCode: identity ambiguity or absence exits with 2, the
// privilege check with 3, anything else with 1.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeRootNotFound,
//	    "application root not found",
//	    err,
//	    map[string]any{
//	        "root": appDir,
//	    },
//	)
package errors
