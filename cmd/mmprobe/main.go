// Mmprobe is a terminal client for a Mattermost server's public API.
//
// It provides an account signup form, a server health widget, local
// network discovery of Mattermost servers, and saved server profiles.
//
// Usage:
//
//	mmprobe [command] [flags]
//
// See 'mmprobe --help' for available commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/mmprobe/internal/logging"
	"github.com/muurk/mmprobe/internal/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mmprobe",
	Short: "Terminal client for a Mattermost server",
	Long: `A terminal client for the public Mattermost server API.

Sign up for an account, check server health, and find servers on the local
network. Servers can be saved as named profiles.`,
	Version:       version.Version,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless --log-level or MMPROBE_LOG_LEVEL is set
		return logging.Initialize(logLevel, logFile)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat == formatJSON {
			return printJSON(map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
				"runtime": version.Runtime(),
			})
		}
		fmt.Printf("mmprobe %s\n%s\n", version.Full(), version.Runtime())
		return nil
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
