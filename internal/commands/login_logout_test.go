package commands_test

import (
	"strings"
	"testing"

	"mytasks/internal/apiclient"
	"mytasks/internal/commands"
	"mytasks/internal/exitcode"
)

func TestLoginCommand_Success(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "")
	e := newTestEnv(t)
	e.svc.AddUser("Ada", "ada@example.com", "secret1")

	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader("secret1\n"))
	stdout, stderr, code := e.runCommand(t, cmd, "ada@example.com")

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "logged in as ada@example.com\n" {
		t.Errorf("unexpected output %q", stdout)
	}
	if !e.cfg.HasSession() {
		t.Error("expected session file to exist")
	}
}

func TestLoginCommand_PasswordFromEnv(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "secret1")
	e := newTestEnv(t)
	e.svc.AddUser("Ada", "ada@example.com", "secret1")

	_, stderr, code := e.runCommand(t, &commands.LoginCmd{}, "ada@example.com")
	expectCode(t, exitcode.Success, code, stderr)
}

func TestLoginCommand_WrongPassword(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "")
	e := newTestEnv(t)
	e.svc.AddUser("Ada", "ada@example.com", "secret1")

	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader("wrong-password\n"))
	_, stderr, code := e.runCommand(t, cmd, "ada@example.com")

	expectCode(t, exitcode.AuthError, code, stderr)
	if stderr != "error: auth error: invalid credentials\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if e.cfg.HasSession() {
		t.Error("expected no session after failed login")
	}
}

func TestLoginCommand_Validation(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "")
	e := newTestEnv(t)

	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader("123\n"))
	_, stderr, code := e.runCommand(t, cmd, "ada")

	expectCode(t, exitcode.UserError, code, stderr)
	expected := "error: email must be a valid email\nerror: password must be at least 6 characters\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
	if e.svc.Calls("Login") != 0 {
		t.Error("expected no backend call")
	}
}

func TestLoginCommand_NoPassword(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "")
	e := newTestEnv(t)

	cmd := &commands.LoginCmd{}
	cmd.SetInput(strings.NewReader(""))
	_, stderr, code := e.runCommand(t, cmd, "ada@example.com")

	expectCode(t, exitcode.UserError, code, stderr)
	if !strings.Contains(stderr, "password required") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRegisterCommand(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "")
	e := newTestEnv(t)

	cmd := &commands.RegisterCmd{}
	cmd.SetInput(strings.NewReader("secret1\n"))
	stdout, stderr, code := e.runCommand(t, cmd, "ada@example.com", "Ada", "Lovelace")

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "registered ada@example.com\n" {
		t.Errorf("unexpected output %q", stdout)
	}

	cmd.SetInput(strings.NewReader("secret1\n"))
	_, stderr, code = e.runCommand(t, cmd, "ada@example.com", "Ada")
	expectCode(t, exitcode.UserError, code, stderr)
	if stderr != "error: email already registered\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestLogoutCommand(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)

	stdout, stderr, code := e.runCommand(t, &commands.LogoutCmd{})

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if e.cfg.HasSession() {
		t.Error("expected session to be removed")
	}
	if e.svc.Calls("Logout") != 1 {
		t.Errorf("expected one revoke call, got %d", e.svc.Calls("Logout"))
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	e := newTestEnv(t)

	stdout, stderr, code := e.runCommand(t, &commands.LogoutCmd{})

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in', got %q", stdout)
	}

	e.cfg.Quiet = true
	stdout, _, _ = e.runCommand(t, &commands.LogoutCmd{})
	if stdout != "" {
		t.Errorf("expected no output in quiet mode, got %q", stdout)
	}
}

func TestLogoutCommand_ServerUnreachable(t *testing.T) {
	e := newTestEnv(t)
	e.login(t)
	e.api = apiclient.New("http://127.0.0.1:1", e.api.Jar(), nil)

	stdout, stderr, code := e.runCommand(t, &commands.LogoutCmd{})

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if e.cfg.HasSession() {
		t.Error("expected session to be removed")
	}
}
