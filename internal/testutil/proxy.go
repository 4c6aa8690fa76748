package testutil

import (
	"net/http/httptest"
	"testing"

	"mytasks/internal/config"
	"mytasks/internal/httpapi"
	"mytasks/internal/service"
)

// TestServerConfig returns proxy settings suitable for tests.
func TestServerConfig() config.ServerConfig {
	return config.ServerConfig{
		AppName:        config.DefaultAppName,
		Env:            config.EnvTest,
		ListenAddr:     "127.0.0.1:0",
		BackendURL:     "http://backend.invalid",
		BackendTimeout: "5s",
		LogFormat:      "text",
	}
}

// NewProxy starts the browser-facing server in front of svc. It is closed
// when the test ends.
func NewProxy(t *testing.T, svc service.Service) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(httpapi.NewServer(TestServerConfig(), svc, nil).Handler())
	t.Cleanup(srv.Close)
	return srv
}
