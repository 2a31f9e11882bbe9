package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/muurk/mmprobe/internal/stubserver"
)

var (
	stubHost           string
	stubPort           int
	stubToken          string
	stubSignupDisabled bool
	stubStatus         string
)

func init() {
	stubServerCmd.Flags().StringVar(&stubHost, "host", "127.0.0.1", "Address to listen on")
	stubServerCmd.Flags().IntVar(&stubPort, "port", 8065, "Port to listen on")
	stubServerCmd.Flags().StringVar(&stubToken, "token", "", "Token the event stream requires (empty accepts any)")
	stubServerCmd.Flags().BoolVar(&stubSignupDisabled, "signup-disabled", false, "Answer signups with 501 like a server with account creation off")
	stubServerCmd.Flags().StringVar(&stubStatus, "status", "OK", "Health status to report from ping")

	rootCmd.AddCommand(stubServerCmd)
}

// stubServerCmd runs an in-memory stand-in server
var stubServerCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run a local stand-in Mattermost server",
	Long: `Run an in-memory server that answers ping, signup, and the event stream.

Useful for trying mmprobe without a real deployment. Accounts are lost on
exit. Send SIGHUP to broadcast a config_changed event to every watcher.`,
	Example: `  # Terminal 1
  mmprobe stub-server --token secret

  # Terminal 2
  mmprobe ping --watch --token secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		config := stubserver.DefaultConfig()
		config.Host = stubHost
		config.Port = stubPort
		config.Token = stubToken
		config.SignupDisabled = stubSignupDisabled
		config.Ping.Status = stubStatus

		cmd.Printf("Stub server on http://%s:%d (ctrl+c to stop)\n", stubHost, stubPort)
		return stubserver.New(config).Start(context.Background())
	},
}
