package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskboard/internal/storage"
	"taskboard/pkg/models"
)

// seedEntry is one task in a seed fixture file.
type seedEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	DueDate     string `yaml:"due_date"`
	Status      string `yaml:"status"`
}

// seedFile is the top-level structure of a seed fixture.
type seedFile struct {
	Tasks []seedEntry `yaml:"tasks"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load fixture tasks into the sqlite store",
	Long: `Load tasks from a YAML fixture directly into the configured store.

This writes to the database file, not to a running server, so no change
announcements are sent. Use it to prepare a board before starting serve.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.DatabasePath == "" {
			return fmt.Errorf("seeding requires server.database to be set")
		}

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading seed file: %w", err)
		}
		var file seedFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return fmt.Errorf("parsing seed file: %w", err)
		}

		store, err := storage.NewSQLiteStore(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening task store: %w", err)
		}
		defer func() { _ = store.Close() }()

		for i, entry := range file.Tasks {
			task, err := seedTask(entry)
			if err != nil {
				return fmt.Errorf("seed entry %d: %w", i+1, err)
			}
			if _, err := store.Insert(cmd.Context(), task); err != nil {
				return fmt.Errorf("inserting seed entry %d: %w", i+1, err)
			}
		}

		fmt.Printf("Seeded %d tasks into %s\n", len(file.Tasks), cfg.DatabasePath)
		return nil
	},
}

// seedTask validates and converts one fixture entry.
func seedTask(entry seedEntry) (models.Task, error) {
	if entry.Name == "" {
		return models.Task{}, fmt.Errorf("name must not be empty")
	}
	due, err := time.Parse("2006-01-02", entry.DueDate)
	if err != nil {
		return models.Task{}, fmt.Errorf("parsing due_date %q (want YYYY-MM-DD): %w", entry.DueDate, err)
	}

	status := models.StatusNotStarted
	if entry.Status != "" {
		if status, err = models.ParseStatus(entry.Status); err != nil {
			return models.Task{}, err
		}
	}

	return models.Task{
		Name:        entry.Name,
		Description: entry.Description,
		DueDate:     due,
		Status:      status,
	}, nil
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
