package output

import (
	"bytes"
	"testing"

	"mytasks/internal/service"
	"mytasks/internal/testutil"
)

func ptr(s string) *string { return &s }

var fixtures = []service.Task{
	{
		ID:        "0b6f0a44-5a2b-4d7e-9a52-6f6c1b0c8e11",
		Title:     "Write report",
		Status:    service.StatusPending,
		Priority:  service.PriorityHigh,
		DueDate:   ptr("2026-11-01"),
		CreatedAt: "2026-10-01T12:00:00Z",
	},
	{
		ID:        "5f1d9c3e-8e2a-4b6f-a0d4-2c7e9b1a3f55",
		Title:     "Buy\nmilk",
		Status:    service.StatusDone,
		Priority:  service.PriorityMedium,
		CreatedAt: "2026-10-02T08:30:00Z",
	},
	{
		ID:        "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d",
		Title:     "   ",
		Status:    service.StatusPending,
		Priority:  service.PriorityLow,
		CreatedAt: "2026-10-03T09:00:00Z",
	},
}

func TestFormatTask(t *testing.T) {
	var buf bytes.Buffer
	for i, task := range fixtures {
		FormatTask(&buf, i+1, task)
	}
	testutil.GoldenString(t, "list", buf.String())
}

func TestFormatTaskWithID(t *testing.T) {
	var buf bytes.Buffer
	for _, task := range fixtures {
		FormatTaskWithID(&buf, task)
	}
	next := "bzoy"
	FormatNextPage(&buf, service.PageInfo{NextCursor: &next, HasNextPage: true})
	FormatNextPage(&buf, service.PageInfo{})
	testutil.GoldenString(t, "list_ids", buf.String())
}

func TestFormatTaskDetail(t *testing.T) {
	task := fixtures[0]
	task.Description = ptr("Quarterly numbers")
	task.UpdatedAt = ptr("2026-10-05T10:00:00Z")

	var buf bytes.Buffer
	FormatTaskDetail(&buf, task)
	FormatTaskDetail(&buf, fixtures[2])
	testutil.GoldenString(t, "detail", buf.String())
}

func TestFormatUser(t *testing.T) {
	var buf bytes.Buffer
	FormatUser(&buf, service.User{Name: "Ada", Email: "ada@example.com"})
	if buf.String() != "Ada <ada@example.com>\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"":          "(untitled)",
		" \t":       "(untitled)",
		"a\r\nb":    "a  b",
		"plain":     "plain",
		"\nleading": " leading",
	}
	for in, want := range tests {
		if got := normalizeTitle(in); got != want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
