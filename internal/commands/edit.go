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
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	priority    optionalString
	due         optionalString
	description optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's fields" }
func (c *EditCmd) Usage() string {
	return "mytasks edit [--title <t>] [--priority <p>] [--due <date>] [--desc <text>] <ref>"
}
func (c *EditCmd) NeedsClient() bool { return true }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.priority, c.due, c.description = optionalString{}, optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.description, "desc", "")
}

func (c *EditCmd) input() service.UpdateTaskInput {
	in := service.UpdateTaskInput{
		Title:       c.title.ptr(),
		DueDate:     c.due.ptr(),
		Description: c.description.ptr(),
	}
	if p := c.priority.ptr(); p != nil {
		pr := service.Priority(*p)
		in.Priority = &pr
	}
	return in
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	in := c.input()
	if err := in.Validate(); err != nil {
		if in == (service.UpdateTaskInput{}) {
			fmt.Fprintln(errOut, "error: nothing to change (use --title, --priority, --due or --desc)")
			return exitcode.UserError
		}
		return reportError(errOut, err)
	}

	task, code, ok := resolveTask(ctx, api, args, errOut)
	if !ok {
		return code
	}

	if _, err := api.UpdateTask(ctx, task.ID, in); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
