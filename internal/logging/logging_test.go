package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{})

	logger.Debug("hidden")
	logger.Info("listening", "addr", ":3000")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=listening")
	assert.Contains(t, out, "addr=:3000")
}

func TestNew_JSONDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Debug: true, Format: "json"})

	logger.Debug("refresh rejected", "status", 401)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "refresh rejected", rec["msg"])
	assert.Equal(t, float64(401), rec["status"])
}
