package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"taskboard/internal/client"
	"taskboard/internal/query"
	"taskboard/pkg/models"
)

// Style definitions.
var (
	watchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	watchHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	stateConnected    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	stateReconnecting = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	stateDisconnected = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusNotStartedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusInProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusCompletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))

	watchHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	watchErrStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// vmChangedMsg signals that the view model's state or list changed.
type vmChangedMsg struct{}

// connectedMsg carries the result of the initial connection attempt.
type connectedMsg struct{ err error }

type watchModel struct {
	vm     *client.ViewModel
	width  int
	height int

	// statusCycle drives the f hotkey: index 0 means no filter.
	statusCycle int
}

func newWatchModel(vm *client.ViewModel) watchModel {
	return watchModel{vm: vm}
}

func (m watchModel) Init() tea.Cmd {
	return func() tea.Msg {
		return connectedMsg{err: m.vm.Connect(context.Background())}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s":
			m.cycleSortKey()
			return m, nil
		case "d":
			m.toggleDirection()
			return m, nil
		case "f":
			m.statusCycle = (m.statusCycle + 1) % (len(models.AllStatuses) + 1)
			m.applyStatusFilter()
			return m, nil
		case "r":
			// Local re-fetch; the server is not involved in knowing the
			// view is stale.
			m.vm.SetParams(m.vm.Params())
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case connectedMsg:
		return m, nil

	case vmChangedMsg:
		return m, nil
	}

	return m, nil
}

func (m watchModel) cycleSortKey() {
	params := m.vm.Params()
	switch params.SortBy {
	case query.SortByName:
		params.SortBy = query.SortByDueDate
	case query.SortByDueDate:
		params.SortBy = query.SortByStatus
	default:
		params.SortBy = query.SortByName
	}
	m.vm.SetParams(params)
}

func (m watchModel) toggleDirection() {
	params := m.vm.Params()
	if params.Direction == query.Ascending {
		params.Direction = query.Descending
	} else {
		params.Direction = query.Ascending
	}
	m.vm.SetParams(params)
}

func (m watchModel) applyStatusFilter() {
	params := m.vm.Params()
	if m.statusCycle == 0 {
		params.Status = nil
	} else {
		status := models.AllStatuses[m.statusCycle-1]
		params.Status = &status
	}
	m.vm.SetParams(params)
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(watchTitleStyle.Render("taskboard"))
	b.WriteString("  ")
	b.WriteString(renderState(m.vm.State()))
	b.WriteString("\n\n")

	params := m.vm.Params()
	filter := "all"
	if params.Status != nil {
		filter = string(*params.Status)
	}
	b.WriteString(watchHeaderStyle.Render(fmt.Sprintf("sort: %s %s   filter: %s", params.SortBy, params.Direction, filter)))
	b.WriteString("\n\n")

	tasks := m.vm.Tasks()
	if len(tasks) == 0 {
		b.WriteString("No tasks.\n")
	} else {
		for _, t := range tasks {
			b.WriteString(fmt.Sprintf("%4d  %-30s  %s  %s\n",
				t.ID,
				truncate(t.Name, 30),
				t.DueDate.Format("2006-01-02"),
				renderStatus(t.Status),
			))
		}
	}

	if err := m.vm.Err(); err != nil {
		b.WriteString("\n")
		b.WriteString(watchErrStyle.Render(err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(watchHelpStyle.Render("s: sort key • d: direction • f: status filter • r: refresh • q: quit"))
	b.WriteString("\n")
	return b.String()
}

func renderState(state client.ConnState) string {
	switch state {
	case client.StateConnected:
		return stateConnected.Render("connected")
	case client.StateReconnecting, client.StateConnecting:
		return stateReconnecting.Render(string(state))
	default:
		return stateDisconnected.Render(string(state))
	}
}

func renderStatus(status models.TaskStatus) string {
	switch status {
	case models.StatusInProgress:
		return statusInProgressStyle.Render(string(status))
	case models.StatusCompleted:
		return statusCompletedStyle.Render(string(status))
	default:
		return statusNotStartedStyle.Render(string(status))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live terminal board that follows the server in real time",
	Long: `Open a live board that stays consistent with the server.

The board fetches the task list once on connect and then re-fetches it
every time any client announces a change. Sorting and filtering happen
server-side; hotkeys change the parameters and re-fetch immediately.`,
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

		var program *tea.Program
		vm := client.NewViewModel(api, client.Options{
			ReconnectDelay:    cfg.ReconnectDelay,
			ReconnectAttempts: cfg.ReconnectAttempts,
			OnChange: func() {
				if program != nil {
					program.Send(vmChangedMsg{})
				}
			},
		})
		defer vm.Close()

		program = tea.NewProgram(newWatchModel(vm), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("running watch: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
