package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mytasks/internal/apiclient"
	"mytasks/internal/config"
	"mytasks/internal/exitcode"
	"mytasks/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&StatusCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task done" }
func (c *DoneCmd) Usage() string     { return "mytasks done <ref>" }
func (c *DoneCmd) NeedsClient() bool { return true }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	return setStatus(ctx, cfg, api, args, service.StatusDone, out, errOut)
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Set a task's status" }
func (c *StatusCmd) Usage() string     { return "mytasks status <ref> pending|done" }
func (c *StatusCmd) NeedsClient() bool { return true }
func (c *StatusCmd) NeedsAuth() bool   { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: task reference and status required")
		return exitcode.UserError
	}
	status := service.Status(args[1])
	if !status.Valid() {
		fmt.Fprintf(errOut, "error: invalid status: %s (want pending or done)\n", args[1])
		return exitcode.UserError
	}
	return setStatus(ctx, cfg, api, args[:1], status, out, errOut)
}

func setStatus(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, status service.Status, out, errOut io.Writer) int {
	task, code, ok := resolveTask(ctx, api, args, errOut)
	if !ok {
		return code
	}

	if _, err := api.UpdateTaskStatus(ctx, task.ID, status); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
