package commands

import (
	"errors"
	"testing"
)

func TestParseTaskRef_Number(t *testing.T) {
	ref, err := ParseTaskRef([]string{"12"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Num != 12 || ref.ID != "" {
		t.Errorf("expected Num=12, got %+v", ref)
	}
}

func TestParseTaskRef_UUID(t *testing.T) {
	id := "0b6f0a44-5a2b-4d7e-9a52-6f6c1b0c8e11"
	ref, err := ParseTaskRef([]string{id, "ignored"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.ID != id || ref.Num != 0 {
		t.Errorf("expected ID=%s, got %+v", id, ref)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRef(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_Invalid_Error(t *testing.T) {
	for _, arg := range []string{"abc", "1a", "-1", "", "١٢"} {
		if _, err := ParseTaskRef([]string{arg}); err == nil {
			t.Errorf("expected error for %q", arg)
		}
	}
}

func TestParseTaskRef_Overflow_Error(t *testing.T) {
	if _, err := ParseTaskRef([]string{"99999999999999999999999"}); err == nil {
		t.Error("expected error for overflowing number")
	}
}
