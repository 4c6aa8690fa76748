package commands

import (
	"testing"
)

func TestDefaultRegistry_Aliases(t *testing.T) {
	aliases := map[string]string{
		"ls":     "list",
		"create": "add",
		"delete": "rm",
		"me":     "whoami",
		"signup": "register",
	}
	for alias, name := range aliases {
		cmd, ok := DefaultRegistry.Find(alias)
		if !ok {
			t.Errorf("alias %q not registered", alias)
			continue
		}
		if cmd.Name() != name {
			t.Errorf("alias %q resolves to %q, want %q", alias, cmd.Name(), name)
		}
	}
}

func TestDefaultRegistry_All(t *testing.T) {
	var names []string
	for _, cmd := range DefaultRegistry.All() {
		names = append(names, cmd.Name())
	}
	want := []string{"add", "devbackend", "done", "edit", "help", "list", "login", "logout", "register", "rm", "serve", "show", "status", "version", "whoami"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
			break
		}
	}
}

func TestRegistry_Duplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&ListCmd{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&ListCmd{}); err == nil {
		t.Error("expected error for duplicate name")
	}
	if _, ok := r.Find("ls"); !ok {
		t.Error("expected alias lookup to work")
	}
	if _, ok := r.Find("nope"); ok {
		t.Error("expected unknown command to be missing")
	}
}
