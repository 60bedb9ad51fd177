package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mobile-next/inputmeter/utils"
	"github.com/spf13/cobra"
)

const version = "dev"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "inputmeter",
	Short: "Input activity meter agent",
	Long:  `Counts keystrokes, mouse clicks and mouse travel and reports them to a remote collector at fixed intervals.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func GetVersion() string {
	return version
}

func initConfig() {
	utils.SetVerbose(verbose)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (default: <user config dir>/inputmeter/config.ini)")
}

// ExecuteContext runs the root command; cancelling ctx stops a running agent.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		utils.Error("failed to encode response: %v", err)
		return
	}
	fmt.Println(string(jsonData))
}
