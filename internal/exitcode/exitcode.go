// Package exitcode defines exit codes for the CLI.
package exitcode

// Process exit codes shared by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates bad input: arguments, task refs, validation or
	// a missing task.
	UserError = 1

	// AuthError indicates a missing or rejected session.
	AuthError = 2

	// BackendError indicates a server, network or unexpected failure.
	BackendError = 3
)
