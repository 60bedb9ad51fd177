package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mobile-next/inputmeter/commands"
	"github.com/spf13/cobra"
)

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Report credential commands",
	Long:  `Commands for managing the credential embedded in every report, stored in the OS keyring.`,
}

var credentialSetCmd = &cobra.Command{
	Use:   "set [value]",
	Short: "Store the report credential in the OS keyring",
	Long:  `Stores the credential in the OS keyring. Reads it from stdin when no value is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value string
		if len(args) == 1 {
			value = args[0]
		} else {
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read credential from stdin: %w", err)
			}
			value = strings.TrimSpace(line)
		}

		response := commands.SetCredentialCommand(value)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

var credentialShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show where the effective credential comes from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.ShowCredentialCommand(configPath, revealCredential)
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

var credentialDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the report credential from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		response := commands.DeleteCredentialCommand()
		printJson(response)
		if response.Status == "error" {
			return fmt.Errorf("%s", response.Error)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(credentialCmd)
	credentialCmd.AddCommand(credentialSetCmd, credentialShowCmd, credentialDeleteCmd)

	credentialShowCmd.Flags().BoolVar(&revealCredential, "reveal", false, "print the credential unmasked")
}
