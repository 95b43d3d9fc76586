// Package cli implements the taskboard command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskboard/internal/core"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "taskboard - a multi-client live task list",
	Long: `taskboard is a shared to-do list whose clients stay consistent without
manual refresh: every mutation is announced over a realtime channel and
each connected client re-fetches the authoritative list from the server.

It provides a server, one-shot task commands, and a live terminal board.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taskboard %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "directory containing taskboard.yaml (default: current directory)")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration honoring the --config-dir flag.
func loadConfig() (*core.Config, error) {
	return core.LoadConfig(configDirFlag)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
