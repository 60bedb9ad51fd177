package cli

var (
	verbose bool

	// all commands
	configPath string

	// for agent run command
	runDaemon bool

	// for credential show command
	revealCredential bool

	// for config init command
	initURL         string
	initKeypressURL string
	initMouseURL    string
	initForce       bool
)
