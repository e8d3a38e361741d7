package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBeforeSetupIsDiscarded(t *testing.T) {
	require.NoError(t, Close())
	assert.NotPanics(t, func() {
		LogInfo("nobody listens", map[string]interface{}{"k": "v"})
		LogDebug("nil details", nil)
	})
}

func TestSetOutput(t *testing.T) {
	defer Close()
	var buf bytes.Buffer
	SetOutput(&buf, logrus.InfoLevel)

	LogInfo("chunks scored", map[string]interface{}{"count": 42})
	LogDebug("hidden", nil)

	out := buf.String()
	assert.Contains(t, out, "chunks scored")
	assert.Contains(t, out, "count=42")
	assert.NotContains(t, out, "hidden")
}

func TestSetup(t *testing.T) {
	defer Close()
	dir := t.TempDir()

	path, err := Setup(Options{Dir: dir, Level: "debug", MaxSizeMB: 1, MaxBackups: 1, Command: "search"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "docrank-search.log"), path)

	LogWarn("file skipped", map[string]interface{}{"path": "a.txt"})
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logger initialized")
	assert.Contains(t, string(data), "file skipped")
	assert.Contains(t, string(data), "path=a.txt")
}

func TestSetup_BadLevel(t *testing.T) {
	_, err := Setup(Options{Dir: t.TempDir(), Level: "loud"})
	assert.Error(t, err)
}
