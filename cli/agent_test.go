package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsConfigPath(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	abs, err := absConfigPath("conf/agent.ini")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "conf", "agent.ini"), abs)

	abs, err = absConfigPath("")
	require.NoError(t, err)
	assert.Empty(t, abs)
}

func TestDaemonArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"/usr/bin/inputmeter", "agent", "run", "--daemon"},
		daemonArgs("/usr/bin/inputmeter", "", false))

	assert.Equal(t,
		[]string{"inputmeter", "agent", "run", "--daemon", "--config", "/home/me/agent.ini", "--verbose"},
		daemonArgs("inputmeter", "/home/me/agent.ini", true))
}

func TestDaemonArgs_ParseBackToAgentRun(t *testing.T) {
	t.Cleanup(func() {
		runDaemon = false
		configPath = ""
	})
	args := daemonArgs("inputmeter", "/home/me/agent.ini", false)

	cmd, rest, err := rootCmd.Find(args[1:])
	require.NoError(t, err)
	assert.Equal(t, agentRunCmd, cmd)

	require.NoError(t, cmd.ParseFlags(rest))
	daemonFlag, err := cmd.Flags().GetBool("daemon")
	require.NoError(t, err)
	assert.True(t, daemonFlag)
	config, err := cmd.Flags().GetString("config")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/agent.ini", config)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
