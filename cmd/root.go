package cmd

import (
	"github.com/abhisek/elfplan/internal/kv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "elfplan",
	Short: "Personalized Elf on the Shelf month planner",
	Long:  "Elfplan — generates a personalized 30-day elf activity plan for a family and delivers one idea each night.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ELFPLAN_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(deliverCmd)
	rootCmd.AddCommand(hotlineCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then config/env, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, kv.EnsureDir(p)
	}
	if configured != "" {
		return configured, kv.EnsureDir(configured)
	}
	return kv.DefaultDBPath()
}
