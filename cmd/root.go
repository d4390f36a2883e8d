package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the padel-mcp application
var rootCmd = &cobra.Command{
	Use:   "padel-mcp",
	Short: "MCP server for finding bookable padel courts",
	Long: `padel-mcp exposes a court availability search as an MCP (Model Context
Protocol) tool. It forwards queries to a court booking aggregation API and
returns the slots in each club's local time.

It can run as:
  - An MCP server for AI assistants (serve)
  - A one-shot CLI query (availability, clubs)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "padel-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAvailabilityCmd())
	rootCmd.AddCommand(newClubsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
