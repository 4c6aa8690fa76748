package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"mytasks/internal/service"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	ID  string // task UUID, empty if a number was given
	Num int    // 1-based position in the default listing, 0 if an ID was given
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the task reference in the first arg.
//
// Parsing rules:
// 1. All digits → position in the default listing (as printed by `list`)
// 2. A UUID → task ID
// 3. Otherwise → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	arg := args[0]

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if service.ValidID(arg) {
		return TaskRef{ID: arg}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
