package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestSetVerbose_And_IsVerbose(t *testing.T) {
	// save original state and restore after test
	original := IsVerbose()
	defer SetVerbose(original)

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestVerbose_SuppressedWhenDisabled(t *testing.T) {
	original := IsVerbose()
	defer SetVerbose(original)

	buf := captureOutput(t)
	SetVerbose(false)
	Verbose("test message %s %d", "arg", 42)

	assert.Empty(t, buf.String())
}

func TestVerbose_WrittenWhenEnabled(t *testing.T) {
	original := IsVerbose()
	defer SetVerbose(original)

	buf := captureOutput(t)
	SetVerbose(true)
	Verbose("test message %s %d", "arg", 42)

	assert.Contains(t, buf.String(), "test message arg 42")
	assert.Contains(t, buf.String(), "level=debug")
}

func TestInfoWarnError_Levels(t *testing.T) {
	buf := captureOutput(t)

	Info("test info %s", "message")
	Warn("careful")
	Error("broken %d", 7)

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "test info message")
	assert.Contains(t, out, "level=warning")
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "broken 7")
}

func TestWithFields_TagsLines(t *testing.T) {
	buf := captureOutput(t)

	WithFields(map[string]interface{}{"reporter": "keypress"}).Info("sent")

	assert.Contains(t, buf.String(), "reporter=keypress")
}

func TestSetLogFile_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "agent.log")

	require.NoError(t, SetLogFile(path))
	Info("into the file")
	require.NoError(t, SetLogFile(""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "into the file")
}
