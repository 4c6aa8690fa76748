package service

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "0b6f0a44-5a2b-4d7e-9a52-6f6c1b0c8e11"

func ptr[T any](v T) *T { return &v }

func fields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	out := make([]string, len(verr.Issues))
	for i, is := range verr.Issues {
		out[i] = is.Field
	}
	return out
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("ada@example.com"))
	assert.False(t, ValidEmail("Ada <ada@example.com>"))
	assert.False(t, ValidEmail("not-an-email"))
	assert.False(t, ValidEmail(""))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2026-01-31"))
	assert.True(t, ValidDate("2026-01-31T10:00:00Z"))
	assert.False(t, ValidDate("2026-02-30"))
	assert.False(t, ValidDate("tomorrow"))
}

func TestTaskUnmarshalDefaults(t *testing.T) {
	var task Task
	require.NoError(t, json.Unmarshal([]byte(`{"id":"`+testID+`","title":"x","createdAt":"2026-01-01T00:00:00Z"}`), &task))
	assert.Equal(t, StatusPending, task.Status)
	assert.Equal(t, PriorityMedium, task.Priority)
	assert.NoError(t, task.Validate())
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID(testID))
	assert.False(t, ValidID("42"))
	assert.False(t, ValidID(""))
}

func TestTaskValidate(t *testing.T) {
	task := Task{ID: "42", Title: "", Status: "archived", Priority: "urgent"}
	assert.Equal(t, []string{"id", "title", "status", "priority", "createdAt"}, fields(t, task.Validate()))

	var verr *ValidationError
	require.ErrorAs(t, task.Validate(), &verr)
	assert.Equal(t, Issue{Field: "status", Message: "must be pending or done"}, verr.Issues[2])
	assert.Equal(t, Issue{Field: "priority", Message: "must be low, medium or high"}, verr.Issues[3])
}

func TestTaskValidate_TitleLength(t *testing.T) {
	task := Task{ID: testID, Title: "   ", Status: StatusPending, Priority: PriorityLow, CreatedAt: "2026-01-01T00:00:00Z"}
	assert.NoError(t, task.Validate(), "blank titles are within length")

	task.Title = strings.Repeat("é", MaxTitleLen)
	assert.NoError(t, task.Validate(), "length counts characters, not bytes")

	task.Title += "é"
	assert.Equal(t, []string{"title"}, fields(t, task.Validate()))
}

func TestTaskPageValidate(t *testing.T) {
	good := Task{ID: testID, Title: "a", Status: StatusDone, Priority: PriorityLow, CreatedAt: "2026-01-01T00:00:00Z"}

	assert.NoError(t, TaskPage{Data: []Task{good}}.Validate())
	assert.Equal(t, []string{"data"}, fields(t, TaskPage{}.Validate()))
	assert.Equal(t, []string{"data[1].id"}, fields(t, TaskPage{Data: []Task{good, {ID: "x", Title: "b", Status: StatusDone, Priority: PriorityLow, CreatedAt: "now"}}}.Validate()))
	assert.NoError(t, TaskPage{Data: []Task{}, PageInfo: PageInfo{HasNextPage: true}}.Validate(), "a next page may come without a cursor")
}

func TestCreateTaskInputValidate(t *testing.T) {
	assert.NoError(t, CreateTaskInput{Title: "Buy milk", DueDate: ptr("2026-03-01")}.Validate())
	assert.Equal(t, []string{"title"}, fields(t, CreateTaskInput{Title: strings.Repeat("a", MaxTitleLen+1)}.Validate()))
	assert.Equal(t, []string{"title", "priority", "dueDate"}, fields(t, CreateTaskInput{Priority: "urgent", DueDate: ptr("soon")}.Validate()))
}

func TestUpdateTaskInputValidate(t *testing.T) {
	assert.Equal(t, []string{"body"}, fields(t, UpdateTaskInput{}.Validate()))
	assert.NoError(t, UpdateTaskInput{Description: ptr("")}.Validate())
	assert.Equal(t, []string{"title"}, fields(t, UpdateTaskInput{Title: ptr("")}.Validate()))
	assert.Equal(t, []string{"status"}, fields(t, UpdateTaskInput{Status: ptr(Status("archived"))}.Validate()))
	assert.Equal(t, []string{"priority", "dueDate"}, fields(t, UpdateTaskInput{Priority: ptr(Priority("urgent")), DueDate: ptr("soon")}.Validate()))
	assert.NoError(t, UpdateTaskInput{ClearDescription: true}.Validate())
}

func TestUpdateTaskInputNullDescription(t *testing.T) {
	var in UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &in))
	assert.True(t, in.ClearDescription)
	assert.Nil(t, in.Description)
	assert.NoError(t, in.Validate())

	out, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"description":null}`, string(out))

	in = UpdateTaskInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"x"}`), &in))
	assert.False(t, in.ClearDescription)
	out, err = json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x"}`, string(out))
}

func TestUpdateTaskStatusInputValidate(t *testing.T) {
	assert.NoError(t, UpdateTaskStatusInput{Status: StatusDone}.Validate())
	assert.Equal(t, []string{"status"}, fields(t, UpdateTaskStatusInput{}.Validate()))
}

func TestAuthValidate(t *testing.T) {
	assert.NoError(t, LoginInput{Email: "ada@example.com", Password: "secret1"}.Validate())
	assert.Equal(t, []string{"email", "password"}, fields(t, LoginInput{Email: "ada", Password: "123"}.Validate()))
	assert.Equal(t, []string{"name"}, fields(t, RegisterInput{Name: "A", Email: "ada@example.com", Password: "secret1"}.Validate()))

	var verr *ValidationError
	require.ErrorAs(t, LoginInput{Email: "ada@example.com", Password: "123"}.Validate(), &verr)
	assert.Equal(t, []Issue{{Field: "password", Message: "must be at least 6 characters"}}, verr.Issues)

	res := AuthResult{AccessToken: "a", User: User{ID: testID, Name: "Ada", Email: "bad"}}
	assert.Equal(t, []string{"refreshToken", "user.email"}, fields(t, res.Validate()))
}

func TestParseTaskFilters(t *testing.T) {
	f, err := ParseTaskFilters(url.Values{"status": {"done"}, "limit": {"5"}, "sortOrder": {"asc"}, "search": {"milk"}})
	require.NoError(t, err)
	assert.Equal(t, TaskFilters{Search: "milk", Status: StatusDone, Limit: 5, SortOrder: SortAsc}, f)
	assert.NoError(t, f.Validate())
	assert.Equal(t, "limit=5&search=milk&sortOrder=asc&status=done", f.Query().Encode())

	_, err = ParseTaskFilters(url.Values{"limit": {"ten"}})
	assert.Equal(t, []string{"limit"}, fields(t, err))

	bad := TaskFilters{Status: "archived", Limit: MaxPageLimit + 1, SortOrder: "up"}
	assert.Equal(t, []string{"status", "limit", "sortOrder"}, fields(t, bad.Validate()))
}
