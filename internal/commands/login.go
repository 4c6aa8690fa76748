package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"mytasks/internal/apiclient"
	"mytasks/internal/config"
	"mytasks/internal/exitcode"
	"mytasks/internal/service"
)

// PasswordEnv names the environment variable read before stdin.
const PasswordEnv = "MYTASKS_PASSWORD"

func init() {
	Register(&LoginCmd{})
	Register(&RegisterCmd{})
}

// readPassword returns $MYTASKS_PASSWORD, or the first line of in.
func readPassword(in io.Reader) (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, nil
	}
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		return "", errors.New("password required (stdin or " + PasswordEnv + ")")
	}
	return pw, nil
}

// LoginCmd implements the login command.
type LoginCmd struct {
	in io.Reader
}

// SetInput sets the reader the password is read from (for testing).
func (c *LoginCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Sign in" }
func (c *LoginCmd) Usage() string     { return "mytasks login <email>" }
func (c *LoginCmd) NeedsClient() bool { return true }
func (c *LoginCmd) NeedsAuth() bool   { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}

	password, err := readPassword(c.in)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	in := service.LoginInput{Email: strings.TrimSpace(args[0]), Password: password}
	if err := in.Validate(); err != nil {
		return reportError(errOut, err)
	}

	user, err := api.Login(ctx, in)
	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			fmt.Fprintf(errOut, "error: auth error: %s\n", apiErr)
			return exitcode.AuthError
		}
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "logged in as %s\n", user.Email)
	}
	return exitcode.Success
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	in io.Reader
}

// SetInput sets the reader the password is read from (for testing).
func (c *RegisterCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and sign in" }
func (c *RegisterCmd) Usage() string     { return "mytasks register <email> <name...>" }
func (c *RegisterCmd) NeedsClient() bool { return true }
func (c *RegisterCmd) NeedsAuth() bool   { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: email and name required")
		return exitcode.UserError
	}

	password, err := readPassword(c.in)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	in := service.RegisterInput{
		Email:    strings.TrimSpace(args[0]),
		Name:     strings.TrimSpace(strings.Join(args[1:], " ")),
		Password: password,
	}
	if err := in.Validate(); err != nil {
		return reportError(errOut, err)
	}

	user, err := api.Register(ctx, in)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "registered %s\n", user.Email)
	}
	return exitcode.Success
}
