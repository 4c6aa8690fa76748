// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"mytasks/internal/service"
)

// FormatTask formats a task line of a listing.
// Format: "{N:>4}  [{MARK}] {TITLE}{DETAILS}\n" where MARK is "x" for done
// tasks and DETAILS lists a non-default priority and the due date.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  [%s] %s%s\n", num, mark(task), normalizeTitle(task.Title), details(task))
}

// FormatTaskWithID formats a task line keyed by ID instead of number.
// Format: "{ID}  [{MARK}] {TITLE}{DETAILS}\n"
func FormatTaskWithID(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%s  [%s] %s%s\n", task.ID, mark(task), normalizeTitle(task.Title), details(task))
}

func mark(task service.Task) string {
	if task.Status == service.StatusDone {
		return "x"
	}
	return " "
}

func details(task service.Task) string {
	var parts []string
	if task.Priority != "" && task.Priority != service.PriorityMedium {
		parts = append(parts, string(task.Priority))
	}
	if task.DueDate != nil && *task.DueDate != "" {
		parts = append(parts, "due "+*task.DueDate)
	}
	if len(parts) == 0 {
		return ""
	}
	return "  (" + strings.Join(parts, ", ") + ")"
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%-12s %s\n", label+":", value)
	}
	row("ID", task.ID)
	row("Title", normalizeTitle(task.Title))
	row("Status", string(task.Status))
	row("Priority", string(task.Priority))
	row("Due", optional(task.DueDate))
	row("Description", optional(task.Description))
	row("Created", task.CreatedAt)
	row("Updated", optional(task.UpdatedAt))
}

// FormatUser prints the signed-in user.
func FormatUser(w io.Writer, u service.User) {
	fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
}

// FormatNextPage prints the hint for fetching the following page.
func FormatNextPage(w io.Writer, info service.PageInfo) {
	if !info.HasNextPage || info.NextCursor == nil {
		return
	}
	fmt.Fprintf(w, "more: --cursor %s\n", *info.NextCursor)
}

func optional(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
