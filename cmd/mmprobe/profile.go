package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/mmprobe/internal/config"
	"github.com/muurk/mmprobe/internal/ui"
)

var (
	profileNickname   string
	profileSetDefault bool
)

func init() {
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	profileCmd.AddCommand(profileUseCmd)
	rootCmd.AddCommand(profileCmd)

	profileAddCmd.Flags().StringVar(&profileNickname, "nickname", "", "Display name for the server")
	profileAddCmd.Flags().BoolVar(&profileSetDefault, "default", false, "Make this the default server")
}

// profileCmd manages saved servers
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved servers",
	Long: `Manage saved server profiles.

Commands pick their server in this order: --server, --profile, the default
profile, then ` + config.DefaultServerURL + `.`,
}

var profileAddCmd = &cobra.Command{
	Use:     "add <name> <url>",
	Short:   "Save a server",
	Example: `  mmprobe profile add work https://chat.example.com --default`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return updateRegistry(func(r *config.Registry) (string, error) {
			server, err := r.AddServer(args[0], args[1], profileNickname)
			if err != nil {
				return "", err
			}
			if profileSetDefault {
				if err := r.SetDefault(args[0]); err != nil {
					return "", err
				}
			}
			return fmt.Sprintf("Saved %s (%s)", args[0], server.URL), nil
		})
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a saved server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return updateRegistry(func(r *config.Registry) (string, error) {
			if err := r.RemoveServer(args[0]); err != nil {
				return "", err
			}
			return "Removed " + args[0], nil
		})
	},
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the default server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return updateRegistry(func(r *config.Registry) (string, error) {
			if err := r.SetDefault(args[0]); err != nil {
				return "", err
			}
			return "Default server is now " + args[0], nil
		})
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		registry, err := config.Load(configPath)
		if err != nil {
			return err
		}

		if outputFormat == formatJSON {
			return printJSON(registry.Servers)
		}

		p := ui.NewPrinter(nil)
		if len(registry.Servers) == 0 {
			p.PrintWarning("No saved servers",
				ui.Detail{Key: "Config", Value: registry.Path()},
				ui.Detail{Key: "Add one", Value: "mmprobe profile add <name> <url>"},
			)
			return nil
		}
		p.PrintTable([]string{"", "Name", "URL", "Nickname", "Last seen", "Status"}, profileRows(registry, time.Now()))
		p.Println(ui.StepNoteStyle.Render("Config: " + registry.Path()))
		return nil
	},
}

// profileRows builds the profile table, marking the default with a star
func profileRows(r *config.Registry, now time.Time) [][]string {
	def := ""
	if r.Preferences != nil {
		def = r.Preferences.DefaultServer
	}

	names := r.Names()
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		s := r.Servers[name]
		mark := ""
		if name == def {
			mark = "*"
		}
		seen := "never"
		if !s.LastSeen.IsZero() {
			seen = now.Sub(s.LastSeen).Round(time.Second).String() + " ago"
		}
		rows = append(rows, []string{mark, name, s.URL, s.Nickname, seen, s.LastStatus})
	}
	return rows
}

// updateRegistry loads the config, applies change, and saves it
func updateRegistry(change func(*config.Registry) (string, error)) error {
	registry, err := config.Load(configPath)
	if err != nil {
		return err
	}
	msg, err := change(registry)
	if err != nil {
		return err
	}
	if err := registry.Save(); err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}
