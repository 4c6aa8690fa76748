package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Issue is a single field-level validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every issue found in a value.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Field + ": " + is.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		return ValidDate(fl.Field().String())
	})
	v.RegisterStructValidation(updateHasField, UpdateTaskInput{})
	return v
}

func updateHasField(sl validator.StructLevel) {
	in := sl.Current().Interface().(UpdateTaskInput)
	if in.Title == nil && in.Description == nil && !in.ClearDescription && in.Priority == nil && in.DueDate == nil && in.Status == nil {
		sl.ReportError(in, "body", "body", "notempty", "")
	}
}

// check validates the tags of v and converts failures to a *ValidationError.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}
	out := &ValidationError{Issues: make([]Issue, 0, len(fes))}
	for _, fe := range fes {
		out.Issues = append(out.Issues, Issue{Field: fieldPath(fe), Message: message(fe)})
	}
	return out
}

// fieldPath drops the root type name: "TaskPage.data[1].id" becomes "data[1].id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "uuid":
		return "must be a UUID"
	case "duedate":
		return "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"
	case "notempty":
		return "at least one field must be provided"
	case "oneof":
		return "must be " + orList(strings.Fields(param))
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	}
	return "failed " + fe.Tag() + " check"
}

// orList renders ["a", "b", "c"] as "a, b or c".
func orList(words []string) string {
	if len(words) < 2 {
		return strings.Join(words, "")
	}
	return strings.Join(words[:len(words)-1], ", ") + " or " + words[len(words)-1]
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusDone
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidID reports whether id is a UUID.
func ValidID(id string) bool {
	return validate.Var(id, "required,uuid") == nil
}

// ValidEmail reports whether s is a bare email address.
func ValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// ValidDate reports whether s is a calendar date or an RFC 3339 timestamp.
func ValidDate(s string) bool {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// Validate checks a task returned by the backend.
func (t Task) Validate() error { return check(t) }

// Validate checks every task of the page. A next page without a cursor is
// accepted as the backend sends it.
func (p TaskPage) Validate() error { return check(p) }

// Validate checks filter values.
func (f TaskFilters) Validate() error { return check(f) }

// Validate checks a create payload.
func (in CreateTaskInput) Validate() error { return check(in) }

// Validate checks a partial update. At least one field must be set.
func (in UpdateTaskInput) Validate() error { return check(in) }

// Validate checks a status change.
func (in UpdateTaskStatusInput) Validate() error { return check(in) }

// Validate checks a user returned by the backend.
func (u User) Validate() error { return check(u) }

// Validate checks login credentials.
func (in LoginInput) Validate() error { return check(in) }

// Validate checks registration fields.
func (in RegisterInput) Validate() error { return check(in) }

// Validate checks a token pair.
func (t AuthTokens) Validate() error { return check(t) }

// Validate checks a login or register response.
func (r AuthResult) Validate() error { return check(r) }
