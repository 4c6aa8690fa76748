// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"mytasks/internal/apiclient"
	"mytasks/internal/config"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsClient returns true if the command calls the MyTasks API.
	// help, version, serve and devbackend return false.
	NeedsClient() bool

	// NeedsAuth returns true if the command requires a stored session.
	// Commands like login, register and logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, server URL).
	// api is nil if NeedsClient() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int
}
