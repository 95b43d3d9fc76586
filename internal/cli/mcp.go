package cli

import (
	"github.com/spf13/cobra"

	"taskboard/internal/client"
	"taskboard/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing the task board as tools",
	Long: `Run a Model Context Protocol server on stdio.

The tools (create_task, get_task, list_tasks, update_task, delete_task) go
through the HTTP API of the configured server, so mutations made by an AI
assistant are announced to every connected client like any other change.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		api, err := client.NewAPI(cfg.ServerURL, cfg.RequestTimeout)
		if err != nil {
			return err
		}

		return mcp.NewServer(api, appVersion).Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
