package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriter(t *testing.T) {
	var buf bytes.Buffer
	pw := NewPrefixWriter("> ", &buf)

	n, err := pw.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "> first\n", buf.String(), "partial line must be held")

	_, err = pw.Write([]byte("ond\nthird"))
	require.NoError(t, err)
	assert.Equal(t, "> first\n> second\n", buf.String())

	require.NoError(t, pw.Flush())
	assert.Equal(t, "> first\n> second\n> third", buf.String())

	require.NoError(t, pw.Flush())
	assert.Equal(t, "> first\n> second\n> third", buf.String(), "second Flush writes nothing")
}

func TestNewLoggerText(t *testing.T) {
	t.Setenv(EnvJSONLog, "")

	var buf bytes.Buffer
	logger := NewLogger("ppmsteg", "info", &buf)
	logger.Debug("hidden")
	logger.Info("🔍 visible", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.HasPrefix(out, Prefix), "output %q lacks prefix", out)
	assert.Contains(t, out, "key=value")
}

func TestNewLoggerJSON(t *testing.T) {
	t.Setenv(EnvJSONLog, "")

	var buf bytes.Buffer
	logger := NewLogger("ppmsteg", "json:debug", &buf)
	assert.Equal(t, hclog.Debug, logger.GetLevel())
	logger.Debug("structured", "bytes", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "structured", entry["@message"])
	assert.Equal(t, float64(42), entry["bytes"])
}

func TestResolveLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	level, source := ResolveLevel("")
	assert.Equal(t, DefaultLevel, level)
	assert.Equal(t, "default", source)

	t.Setenv(EnvLogLevel, "trace")
	level, source = ResolveLevel("")
	assert.Equal(t, "trace", level)
	assert.Equal(t, EnvLogLevel, source)

	level, source = ResolveLevel("error")
	assert.Equal(t, "error", level)
	assert.Equal(t, "flag", source)
}
