package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"mytasks/internal/apiclient"
	"mytasks/internal/config"
	"mytasks/internal/exitcode"
	"mytasks/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	priority    string
	due         string
	description string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "mytasks add [--priority low|medium|high] [--due YYYY-MM-DD] [--desc <text>] <title...>"
}
func (c *AddCmd) NeedsClient() bool { return true }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.description, "desc", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	// Join args to form title
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	in := service.CreateTaskInput{
		Title:    title,
		Priority: service.Priority(c.priority),
	}
	if c.due != "" {
		in.DueDate = &c.due
	}
	if c.description != "" {
		in.Description = &c.description
	}
	if err := in.Validate(); err != nil {
		return reportError(errOut, err)
	}

	task, err := api.CreateTask(ctx, in)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, task.ID)
	}
	return exitcode.Success
}
