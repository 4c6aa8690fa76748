package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"mytasks/internal/apiclient"
	"mytasks/internal/config"
	"mytasks/internal/exitcode"
	"mytasks/internal/output"
	"mytasks/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `mytasks` (no args) and `mytasks list [filters]`.
type ListCmd struct {
	status string
	search string
	limit  int
	cursor string
	order  string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "mytasks list [--status pending|done] [--search <text>] [--limit <n>] [--cursor <c>] [--order asc|desc]"
}
func (c *ListCmd) NeedsClient() bool { return true }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.search, "search", "", "")
	fs.IntVar(&c.limit, "limit", 0, "")
	fs.StringVar(&c.cursor, "cursor", "", "")
	fs.StringVar(&c.order, "order", "", "")
}

func (c *ListCmd) filters() service.TaskFilters {
	return service.TaskFilters{
		Status:    service.Status(c.status),
		Search:    c.search,
		Limit:     c.limit,
		Cursor:    c.cursor,
		SortOrder: service.SortOrder(c.order),
	}
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	f := c.filters()
	if err := f.Validate(); err != nil {
		return reportError(errOut, err)
	}

	page, err := api.ListTasks(ctx, f)
	if err != nil {
		return reportError(errOut, err)
	}

	if len(page.Data) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	// Numbers only address tasks in the unfiltered listing, so filtered
	// output shows IDs instead.
	numbered := f == (service.TaskFilters{})
	for i, task := range page.Data {
		if numbered {
			output.FormatTask(out, i+1, task)
		} else {
			output.FormatTaskWithID(out, task)
		}
	}
	if !cfg.Quiet {
		output.FormatNextPage(out, page.PageInfo)
	}
	return exitcode.Success
}
