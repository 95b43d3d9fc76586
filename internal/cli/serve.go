package cli

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskboard/internal/core"
	"taskboard/internal/notify"
	"taskboard/internal/observability"
	"taskboard/internal/server"
	"taskboard/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the taskboard server",
	Long: `Run the HTTP server backing the task board.

The server persists tasks in a sqlite database, serves the REST endpoints,
and fans mutation announcements out to every websocket client. Use
--memory for an ephemeral store that vanishes on shutdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		memory, _ := cmd.Flags().GetBool("memory")

		var store storage.TaskStore
		if memory || cfg.DatabasePath == "" {
			store = storage.NewMemoryStore()
		} else {
			store, err = storage.NewSQLiteStore(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening task store: %w", err)
			}
		}
		defer func() { _ = store.Close() }()

		events := observability.NewNopEventLog()
		if cfg.EventLogPath != "" {
			events, err = observability.NewJSONLEventLog(cfg.EventLogPath)
			if err != nil {
				return fmt.Errorf("opening event log: %w", err)
			}
		}
		defer func() { _ = events.Close() }()

		broker := notify.NewBroker(func(text string) {
			_ = events.Log(observability.LevelError, observability.EventAnnounceDropped, text, nil)
		})

		service := core.NewTaskService(store, events, broker)
		srv := server.New(service, broker, events)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		slog.Info("taskboard server listening", "addr", cfg.ListenAddr)
		return srv.Run(ctx, cfg.ListenAddr)
	},
}

func init() {
	serveCmd.Flags().Bool("memory", false, "use an ephemeral in-memory store instead of sqlite")
	rootCmd.AddCommand(serveCmd)
}
