package commands

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/mobile-next/inputmeter/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	keyring.MockInit()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{config.EnvURL, config.EnvKeypressURL, config.EnvMouseURL, config.EnvCredential, config.EnvInterval} {
		t.Setenv(k, "")
	}
	return filepath.Join(t.TempDir(), "config.ini")
}

func TestNewResponses(t *testing.T) {
	ok := NewSuccessResponse("data")
	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, "data", ok.Data)

	failed := NewErrorResponse(errors.New("boom"))
	assert.Equal(t, "error", failed.Status)
	assert.Equal(t, "boom", failed.Error)
}

func TestCredentialCommands_Lifecycle(t *testing.T) {
	isolate(t)

	resp := ShowCredentialCommand("", false)
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, CredentialInfo{Source: config.CredentialNone}, resp.Data)

	assert.Equal(t, "error", SetCredentialCommand("   ").Status)
	require.Equal(t, "ok", SetCredentialCommand("supersecret").Status)

	resp = ShowCredentialCommand("", false)
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, CredentialInfo{Source: config.CredentialKeyring, Credential: "su*******et"}, resp.Data)

	resp = ShowCredentialCommand("", true)
	assert.Equal(t, CredentialInfo{Source: config.CredentialKeyring, Credential: "supersecret"}, resp.Data)

	require.Equal(t, "ok", DeleteCredentialCommand().Status)
	assert.Equal(t, "error", DeleteCredentialCommand().Status)
}

func TestMaskCredential(t *testing.T) {
	assert.Equal(t, "", maskCredential(""))
	assert.Equal(t, "***", maskCredential("abc"))
	assert.Equal(t, "ab**ef", maskCredential("abcdef"))
}

func TestConfigInitAndShow(t *testing.T) {
	path := isolate(t)

	resp := ConfigInitCommand(ConfigInitRequest{Path: path, URL: "https://collector.example.com/r"})
	require.Equal(t, "ok", resp.Status, resp.Error)

	resp = ConfigInitCommand(ConfigInitRequest{Path: path, URL: "https://other"})
	assert.Equal(t, "error", resp.Status)

	resp = ConfigInitCommand(ConfigInitRequest{Path: path, KeypressURL: "https://k/x", MouseURL: "https://m/x", Force: true})
	require.Equal(t, "ok", resp.Status, resp.Error)

	resp = ConfigShowCommand(path)
	require.Equal(t, "ok", resp.Status, resp.Error)
	cfg, ok := resp.Data.(*config.Config)
	require.True(t, ok)
	assert.True(t, cfg.FileLoaded)
	assert.Equal(t, "https://k/x", cfg.Report.KeypressURL)
	assert.Equal(t, "https://m/x", cfg.Report.MouseURL)
}

func TestConfigShow_MissingExplicitFile(t *testing.T) {
	path := isolate(t)

	resp := ConfigShowCommand(path)
	assert.Equal(t, "error", resp.Status)
}

func TestDoctorCommand_ReportsConfigWithoutSecret(t *testing.T) {
	path := isolate(t)
	require.NoError(t, os.WriteFile(path, []byte("[report]\nurl = https://c/r\ncredential = hidden\n"), 0o600))

	resp := DoctorCommand("1.2.3", path)
	require.Equal(t, "ok", resp.Status)

	info, ok := resp.Data.(DoctorInfo)
	require.True(t, ok)
	assert.Equal(t, "1.2.3", info.Version)
	assert.True(t, info.ConfigLoaded)
	assert.True(t, info.KeypressURLSet)
	assert.True(t, info.MouseURLSet)
	assert.Equal(t, config.CredentialFile, info.CredentialSource)
	assert.Empty(t, info.ConfigError)
	assert.NotEmpty(t, info.HookDetail)
}

func TestDoctorCommand_ReportsMissingEndpoint(t *testing.T) {
	isolate(t)

	resp := DoctorCommand("dev", "")
	require.Equal(t, "ok", resp.Status)

	info := resp.Data.(DoctorInfo)
	assert.False(t, info.ConfigLoaded)
	assert.Contains(t, info.ConfigError, "endpoint")
}

func TestAgentStatusCommand(t *testing.T) {
	path := isolate(t)
	pidPath := filepath.Join(t.TempDir(), "agent.pid")
	require.NoError(t, os.WriteFile(path, []byte("[agent]\npid_file = "+pidPath+"\n"), 0o600))

	resp := AgentStatusCommand(path)
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, AgentStatus{Running: false, PidFile: pidPath}, resp.Data)

	require.NoError(t, os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644))
	resp = AgentStatusCommand(path)
	require.Equal(t, "ok", resp.Status)
	assert.Equal(t, AgentStatus{Running: true, PID: os.Getpid(), PidFile: pidPath}, resp.Data)
}

func TestAgentStopCommand_NotRunning(t *testing.T) {
	path := isolate(t)
	pidPath := filepath.Join(t.TempDir(), "agent.pid")
	require.NoError(t, os.WriteFile(path, []byte("[agent]\npid_file = "+pidPath+"\n"), 0o600))

	resp := AgentStopCommand(path)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "not running")
}
