package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/client"
	"taskboard/internal/core"
	"taskboard/internal/query"
	"taskboard/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks on a running server (add, get, list, edit, rm)",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		dueFlag, _ := cmd.Flags().GetString("due")
		descFlag, _ := cmd.Flags().GetString("description")

		due, err := parseDateFlag(dueFlag)
		if err != nil {
			return err
		}

		task, err := api.Create(cmd.Context(), models.CreateTaskRequest{
			Name:        args[0],
			Description: descFlag,
			DueDate:     due,
		})
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		fmt.Printf("Created task %d (%s), due %s\n", task.ID, task.Name, task.DueDate.Format("2006-01-02"))
		return nil
	},
}

var taskGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		task, err := api.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fetching task: %w", err)
		}

		fmt.Printf("Task %d\n", task.ID)
		fmt.Printf("  Name:     %s\n", task.Name)
		if task.Description != "" {
			fmt.Printf("  Desc:     %s\n", task.Description)
		}
		fmt.Printf("  Due:      %s\n", task.DueDate.Format("2006-01-02"))
		fmt.Printf("  Status:   %s\n", task.Status)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks with optional filters and sorting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}

		params, err := listParamsFromFlags(cmd)
		if err != nil {
			return err
		}

		tasks, err := api.List(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}

		printTaskTable(tasks)
		return nil
	},
}

var taskEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Replace a task's name, description, due date, and status",
	Long: `Replace a task with the full target state.

Updates are a replace, not a patch: the server overwrites all four fields.
Flags that are omitted keep the task's current value, which the command
reads first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		// Fetch the current record so omitted flags carry over, then send
		// the full target state.
		current, err := api.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("fetching task: %w", err)
		}

		req := models.UpdateTaskRequest{
			Name:        current.Name,
			Description: current.Description,
			DueDate:     current.DueDate,
			Status:      current.Status,
		}
		if cmd.Flags().Changed("name") {
			req.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("description") {
			req.Description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("due") {
			dueFlag, _ := cmd.Flags().GetString("due")
			if req.DueDate, err = parseDateFlag(dueFlag); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("status") {
			statusFlag, _ := cmd.Flags().GetString("status")
			if req.Status, err = models.ParseStatus(statusFlag); err != nil {
				return err
			}
		}

		if err := api.Update(cmd.Context(), id, req); err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		fmt.Printf("Updated task %d\n", id)
		return nil
	},
}

var taskRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}

		if err := api.Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		fmt.Printf("Deleted task %d\n", id)
		return nil
	},
}

func init() {
	taskAddCmd.Flags().String("due", "", "due date, YYYY-MM-DD (default: today)")
	taskAddCmd.Flags().String("description", "", "task description")

	taskListCmd.Flags().String("status", "", "filter by status (NotStarted, InProgress, Completed)")
	taskListCmd.Flags().String("due", "", "filter by due date, YYYY-MM-DD")
	taskListCmd.Flags().String("sort-by", "name", "sort key: name, duedate, or status")
	taskListCmd.Flags().String("direction", "asc", "sort direction: asc or desc")

	taskEditCmd.Flags().String("name", "", "new task name")
	taskEditCmd.Flags().String("description", "", "new task description")
	taskEditCmd.Flags().String("due", "", "new due date, YYYY-MM-DD")
	taskEditCmd.Flags().String("status", "", "new status (NotStarted, InProgress, Completed)")

	taskCmd.AddCommand(taskAddCmd, taskGetCmd, taskListCmd, taskEditCmd, taskRmCmd)
	rootCmd.AddCommand(taskCmd)
}

// newAPI builds an API client from the loaded configuration.
func newAPI() (*client.API, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return client.NewAPI(cfg.ServerURL, cfg.RequestTimeout)
}

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing task id %q: %w", raw, err)
	}
	return id, nil
}

func parseDateFlag(raw string) (time.Time, error) {
	if raw == "" {
		return core.Day(time.Now()), nil
	}
	due, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q (want YYYY-MM-DD): %w", raw, err)
	}
	return due, nil
}

// listParamsFromFlags translates the shared list/watch flags into engine
// parameters.
func listParamsFromFlags(cmd *cobra.Command) (query.Params, error) {
	sortByFlag, _ := cmd.Flags().GetString("sort-by")
	directionFlag, _ := cmd.Flags().GetString("direction")
	statusFlag, _ := cmd.Flags().GetString("status")
	dueFlag, _ := cmd.Flags().GetString("due")

	params := query.DefaultParams()
	params.SortBy = query.ParseSortKey(sortByFlag)
	params.Direction = query.ParseDirection(directionFlag)

	if statusFlag != "" {
		status, err := models.ParseStatus(statusFlag)
		if err != nil {
			return params, err
		}
		params.Status = &status
	}
	if dueFlag != "" {
		due, err := time.Parse("2006-01-02", dueFlag)
		if err != nil {
			return params, fmt.Errorf("parsing date %q (want YYYY-MM-DD): %w", dueFlag, err)
		}
		params.DueDate = &due
	}
	return params, nil
}

func printTaskTable(tasks []models.Task) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDUE\tSTATUS")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.DueDate.Format("2006-01-02"), t.Status)
	}
	_ = w.Flush()
}
