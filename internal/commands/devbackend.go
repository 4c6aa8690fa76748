package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"mytasks/internal/apiclient"
	"mytasks/internal/config"
	"mytasks/internal/devbackend"
	"mytasks/internal/exitcode"
	"mytasks/internal/logging"
)

// DevSecretEnv names the variable holding the devbackend signing key.
const DevSecretEnv = "DEVBACKEND_SECRET"

func init() {
	Register(&DevBackendCmd{})
}

// DevBackendCmd implements the devbackend command.
type DevBackendCmd struct {
	addr string
}

func (c *DevBackendCmd) Name() string      { return "devbackend" }
func (c *DevBackendCmd) Aliases() []string { return nil }
func (c *DevBackendCmd) Synopsis() string  { return "Run an in-memory task API for development" }
func (c *DevBackendCmd) Usage() string     { return "mytasks devbackend [--addr <host:port>]" }
func (c *DevBackendCmd) NeedsClient() bool { return false }
func (c *DevBackendCmd) NeedsAuth() bool   { return false }

func (c *DevBackendCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", ":4000", "")
}

func (c *DevBackendCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	logger := logging.New(errOut, logging.Options{Debug: cfg.Debug})

	secret := []byte(os.Getenv(DevSecretEnv))
	if len(secret) == 0 {
		secret = devbackend.NewSecret()
	}

	srv := &http.Server{
		Addr:              c.addr,
		Handler:           devbackend.NewServer(devbackend.NewStore(secret), logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("devbackend listening", "addr", c.addr)
	if !cfg.Quiet {
		fmt.Fprintf(out, "export MY_TASKS_API_URL=http://localhost%s\n", c.addr)
	}

	select {
	case err := <-errCh:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
