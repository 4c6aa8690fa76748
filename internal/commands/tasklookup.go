package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mytasks/internal/apiclient"
	"mytasks/internal/exitcode"
	"mytasks/internal/service"
)

// pageSize is the page size used when walking the default listing.
const pageSize = service.MaxPageLimit

var errOutOfRange = errors.New("task number out of range")

// findTaskByNumber finds a task by its 1-based number in the default listing.
// Fetches pages as needed until the task is found.
func findTaskByNumber(ctx context.Context, api *apiclient.Client, num int) (service.Task, error) {
	if num < 1 {
		return service.Task{}, fmt.Errorf("%w: %d", errOutOfRange, num)
	}

	f := service.TaskFilters{Limit: pageSize}
	seen := 0
	for {
		page, err := api.ListTasks(ctx, f)
		if err != nil {
			return service.Task{}, err
		}
		if num <= seen+len(page.Data) {
			return page.Data[num-seen-1], nil
		}
		seen += len(page.Data)
		if !page.PageInfo.HasNextPage || page.PageInfo.NextCursor == nil {
			return service.Task{}, fmt.Errorf("%w: %d", errOutOfRange, num)
		}
		f.Cursor = *page.PageInfo.NextCursor
	}
}

// resolveTask turns the reference in args into a task, printing any error.
// ok is false when the command should stop with the returned exit code.
func resolveTask(ctx context.Context, api *apiclient.Client, args []string, errOut io.Writer) (task service.Task, code int, ok bool) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}

	if ref.ID != "" {
		task, err = api.GetTask(ctx, ref.ID)
	} else {
		task, err = findTaskByNumber(ctx, api, ref.Num)
	}
	if err != nil {
		if errors.Is(err, errOutOfRange) {
			fmt.Fprintf(errOut, "error: task number out of range: %d\n", ref.Num)
			return service.Task{}, exitcode.UserError, false
		}
		return service.Task{}, reportError(errOut, err), false
	}
	return task, exitcode.Success, true
}
