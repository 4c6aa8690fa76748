package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"mytasks/internal/apiclient"
	"mytasks/internal/backend/restapi"
	"mytasks/internal/config"
	"mytasks/internal/exitcode"
	"mytasks/internal/httpapi"
	"mytasks/internal/logging"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	file string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run the web server" }
func (c *ServeCmd) Usage() string     { return "mytasks serve [--file <server.yaml>]" }
func (c *ServeCmd) NeedsClient() bool { return false }
func (c *ServeCmd) NeedsAuth() bool   { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.file, "file", "", "")
}

// settingsFile picks the YAML file: --file, else server.yaml in the config
// dir when present, else none.
func (c *ServeCmd) settingsFile(cfg *config.Config) string {
	if c.file != "" {
		return c.file
	}
	if _, err := os.Stat(cfg.ServerFilePath()); err == nil {
		return cfg.ServerFilePath()
	}
	return ""
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, api *apiclient.Client, args []string, out, errOut io.Writer) int {
	sc, err := config.LoadServer(c.settingsFile(cfg))
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid server config: %v\n", err)
		return exitcode.UserError
	}

	logger := logging.New(errOut, logging.Options{Debug: cfg.Debug, Format: sc.LogFormat})

	backend, err := restapi.New(sc.BackendURL, sc.Timeout())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := httpapi.NewServer(sc, backend, logger).ListenAndServe(ctx); err != nil {
		logger.Error("server stopped", "err", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
