package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mobile-next/inputmeter/commands"
	"github.com/mobile-next/inputmeter/config"
	"github.com/mobile-next/inputmeter/daemon"
	"github.com/mobile-next/inputmeter/utils"
	"github.com/spf13/cobra"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Agent management commands",
	Long:  `Commands for running, stopping and inspecting the input activity agent.`,
}

var agentRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the input activity agent",
	Long:  `Starts counting input events and reporting them until interrupted.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runDaemon {
			abs, err := absConfigPath(configPath)
			if err != nil {
				return err
			}
			configPath = abs

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// the parent spawns the child; the child passes through here
			// again and takes over the pid file
			dctx := daemon.Context(cfg.Agent.PidFile, cfg.Agent.LogFile, daemonArgs(os.Args[0], configPath, verbose))
			child, err := daemon.Daemonize(dctx)
			if err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}
			if child != nil {
				printJson(commands.NewSuccessResponse(commands.AgentStatus{
					Running: true,
					PID:     child.Pid,
					PidFile: cfg.Agent.PidFile,
				}))
				return nil
			}
			defer func() {
				if err := dctx.Release(); err != nil {
					utils.Warn("failed to release pid file: %v", err)
				}
			}()
		}

		response := commands.AgentRunCommand(cmd.Context(), commands.AgentRunRequest{
			ConfigPath: configPath,
			Daemonized: runDaemon && daemon.IsChild(),
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func absConfigPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path %s: %w", path, err)
	}
	return abs, nil
}

// daemonArgs is the command line of the daemon child. configPath must already
// be absolute since the child starts in /.
func daemonArgs(program, configPath string, verbose bool) []string {
	args := []string{program, "agent", "run", "--daemon"}
	if configPath != "" {
		args = append(args, "--config", configPath)
	}
	if verbose {
		args = append(args, "--verbose")
	}
	return args
}

var agentStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running agent",
	Long:  `Sends SIGTERM to the agent recorded in the pid file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.AgentStopCommand(configPath)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

var agentStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the agent is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.AgentStatusCommand(configPath)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(agentCmd)

	agentCmd.AddCommand(agentRunCmd)
	agentCmd.AddCommand(agentStopCmd)
	agentCmd.AddCommand(agentStatusCmd)

	agentRunCmd.Flags().BoolVarP(&runDaemon, "daemon", "d", false, "Run agent in daemon mode (background)")
}
