package service

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
)

// Status is the completion state of a task.
type Status string

// Task statuses understood by the backend.
const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
)

// Priority ranks a task.
type Priority string

// Task priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// SortOrder orders a task listing by creation time.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Limits enforced on inputs. The validate tags repeat them.
const (
	MaxTitleLen    = 200
	MinNameLen     = 2
	MinPasswordLen = 6
	MaxPageLimit   = 100
)

// Task is a single task as returned by the backend.
type Task struct {
	ID          string   `json:"id" validate:"uuid"`
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description,omitempty"`
	Status      Status   `json:"status" validate:"oneof=pending done"`
	Priority    Priority `json:"priority" validate:"oneof=low medium high"`
	DueDate     *string  `json:"dueDate,omitempty"`
	CreatedAt   string   `json:"createdAt" validate:"required"`
	UpdatedAt   *string  `json:"updatedAt,omitempty"`
}

// UnmarshalJSON applies the status and priority defaults when the backend
// omits them.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task
	p := plain{Status: StatusPending, Priority: PriorityMedium}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = Task(p)
	return nil
}

// PageInfo describes the position of a page in a cursor-paginated listing.
type PageInfo struct {
	NextCursor  *string `json:"nextCursor"`
	HasNextPage bool    `json:"hasNextPage"`
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Data     []Task   `json:"data" validate:"required,dive"`
	PageInfo PageInfo `json:"pageInfo"`
}

// TaskFilters narrows a task listing. Zero values are omitted from queries.
type TaskFilters struct {
	Search    string    `json:"search"`
	Status    Status    `json:"status" validate:"omitempty,oneof=pending done"`
	Limit     int       `json:"limit" validate:"omitempty,min=1,max=100"`
	Cursor    string    `json:"cursor"`
	SortOrder SortOrder `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// ParseTaskFilters reads filters from a query string. Values are not
// validated here; call Validate.
func ParseTaskFilters(q url.Values) (TaskFilters, error) {
	f := TaskFilters{
		Search:    q.Get("search"),
		Status:    Status(q.Get("status")),
		Cursor:    q.Get("cursor"),
		SortOrder: SortOrder(q.Get("sortOrder")),
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return f, &ValidationError{Issues: []Issue{{Field: "limit", Message: "must be an integer"}}}
		}
		f.Limit = n
	}
	return f, nil
}

// Query encodes the non-empty filters.
func (f TaskFilters) Query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Cursor != "" {
		q.Set("cursor", f.Cursor)
	}
	if f.SortOrder != "" {
		q.Set("sortOrder", string(f.SortOrder))
	}
	return q
}

// CreateTaskInput is the payload for creating a task.
type CreateTaskInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description *string  `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     *string  `json:"dueDate,omitempty" validate:"omitempty,duedate"`
}

// UpdateTaskInput is a partial task update. Nil fields are left untouched.
// A JSON null description sets ClearDescription and is sent on as null.
type UpdateTaskInput struct {
	Title            *string   `json:"title,omitempty" validate:"omitnil,min=1,max=200"`
	Description      *string   `json:"description,omitempty"`
	Priority         *Priority `json:"priority,omitempty" validate:"omitnil,oneof=low medium high"`
	DueDate          *string   `json:"dueDate,omitempty" validate:"omitempty,duedate"`
	Status           *Status   `json:"status,omitempty" validate:"omitnil,oneof=pending done"`
	ClearDescription bool      `json:"-"`
}

// UnmarshalJSON tells an explicit "description": null apart from an absent key.
func (in *UpdateTaskInput) UnmarshalJSON(b []byte) error {
	type plain UpdateTaskInput
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if v, ok := raw["description"]; ok && string(bytes.TrimSpace(v)) == "null" {
		p.ClearDescription = true
	}
	*in = UpdateTaskInput(p)
	return nil
}

// MarshalJSON writes "description": null when ClearDescription is set.
func (in UpdateTaskInput) MarshalJSON() ([]byte, error) {
	type plain UpdateTaskInput
	b, err := json.Marshal(plain(in))
	if err != nil || !in.ClearDescription || in.Description != nil {
		return b, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	raw["description"] = json.RawMessage("null")
	return json.Marshal(raw)
}

// UpdateTaskStatusInput is the payload of the status endpoint.
type UpdateTaskStatusInput struct {
	Status Status `json:"status" validate:"required,oneof=pending done"`
}

// User is the authenticated account.
type User struct {
	ID    string `json:"id" validate:"uuid"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// LoginInput holds login credentials.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// RegisterInput holds the fields for a new account.
type RegisterInput struct {
	Name     string `json:"name" validate:"min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// AuthTokens is a token pair issued by the backend.
type AuthTokens struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthResult is the backend response to login and register.
type AuthResult struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
	User         User   `json:"user"`
}

// Tokens returns the token pair of the result.
func (r AuthResult) Tokens() AuthTokens {
	return AuthTokens{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}
