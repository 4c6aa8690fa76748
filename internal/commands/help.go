package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mytasks/internal/apiclient"
	"mytasks/internal/config"
	"mytasks/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "mytasks help" }
func (c *HelpCmd) NeedsClient() bool { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  mytasks                                            List tasks
  mytasks list [common flags] [--status pending|done] [--search <text>]
               [--limit <n>] [--cursor <c>] [--order asc|desc]
  mytasks add [common flags] [--priority <p>] [--due <date>] [--desc <text>] <title...>
  mytasks show [common flags] <ref>
  mytasks edit [common flags] [--title <t>] [--priority <p>] [--due <date>] [--desc <text>] <ref>
  mytasks done [common flags] <ref>
  mytasks status [common flags] <ref> pending|done
  mytasks rm [common flags] <ref>
  mytasks register [common flags] <email> <name...>
  mytasks login [common flags] <email>
  mytasks logout [common flags]
  mytasks whoami [common flags]
  mytasks serve [common flags] [--file <server.yaml>]
  mytasks devbackend [common flags] [--addr <host:port>]
  mytasks help
  mytasks version

A <ref> is a task ID or the number shown by "mytasks list".
Passwords are read from the first line of stdin or $MYTASKS_PASSWORD.

Common flags:
  --config <dir>   Override config directory
  --server <url>   MyTasks server URL (default $MYTASKS_SERVER or http://localhost:3000)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
