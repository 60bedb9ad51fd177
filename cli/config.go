package cli

import (
	"fmt"

	"github.com/mobile-next/inputmeter/commands"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Prints the configuration after applying the file, environment and keyring. The credential is never printed.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ConfigShowCommand(configPath)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the collector endpoints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ConfigInitCommand(commands.ConfigInitRequest{
			Path:        configPath,
			URL:         initURL,
			KeypressURL: initKeypressURL,
			MouseURL:    initMouseURL,
			Force:       initForce,
		})
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)

	configInitCmd.Flags().StringVar(&initURL, "url", "", "collector URL used for both reports")
	configInitCmd.Flags().StringVar(&initKeypressURL, "keypress-url", "", "collector URL for keypress reports")
	configInitCmd.Flags().StringVar(&initMouseURL, "mouse-url", "", "collector URL for mouse reports")
	configInitCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
