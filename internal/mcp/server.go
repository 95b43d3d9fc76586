// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the task board as MCP tools for AI coding assistants. The tools go
// through the HTTP API of a running taskboard server, so every mutation is
// announced to connected clients like any other.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"taskboard/internal/client"
	"taskboard/internal/query"
	"taskboard/pkg/models"
)

// Server wraps the taskboard API client and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	api    *client.API
}

// NewServer creates an MCP server backed by the given API client.
func NewServer(api *client.API, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{api: api}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskboard", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type taskOutput struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

type getTaskInput struct {
	ID int64 `json:"id" jsonschema:"required,the numeric task id"`
}

type listTasksInput struct {
	Status        string `json:"status,omitempty" jsonschema:"filter by status (NotStarted, InProgress, Completed)"`
	DueDate       string `json:"due_date,omitempty" jsonschema:"filter by due date, YYYY-MM-DD"`
	SortBy        string `json:"sort_by,omitempty" jsonschema:"sort key: name, duedate, or status (default name)"`
	SortDirection string `json:"sort_direction,omitempty" jsonschema:"asc or desc (default asc)"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type createTaskInput struct {
	Name        string `json:"name" jsonschema:"required,the task name"`
	Description string `json:"description,omitempty" jsonschema:"a longer description of the task"`
	DueDate     string `json:"due_date" jsonschema:"required,the due date, YYYY-MM-DD"`
}

type updateTaskInput struct {
	ID          int64  `json:"id" jsonschema:"required,the numeric task id"`
	Name        string `json:"name" jsonschema:"required,the task name"`
	Description string `json:"description,omitempty" jsonschema:"a longer description of the task"`
	DueDate     string `json:"due_date" jsonschema:"required,the due date, YYYY-MM-DD"`
	Status      string `json:"status" jsonschema:"required,the new status (NotStarted, InProgress, Completed)"`
}

type deleteTaskInput struct {
	ID int64 `json:"id" jsonschema:"required,the numeric task id"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get one task by id, including name, description, due date, and status.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional status and due-date filters, sorted by name, duedate, or status.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "create_task",
		Description: "Create a new task. New tasks always start as NotStarted.",
	}, s.handleCreateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task",
		Description: "Replace a task's name, description, due date, and status. This is a full replace, not a patch.",
	}, s.handleUpdateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task by id.",
	}, s.handleDeleteTask)
}

// --- Tool handlers ---

func (s *Server) handleGetTask(ctx context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, err := s.api.Get(ctx, input.ID)
	if err != nil {
		return errorResult(fmt.Sprintf("getting task %d: %s", input.ID, err)), taskOutput{}, nil
	}
	return nil, taskToOutput(*task), nil
}

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	params := query.DefaultParams()
	params.SortBy = query.ParseSortKey(input.SortBy)
	params.Direction = query.ParseDirection(input.SortDirection)

	if input.Status != "" {
		status, err := models.ParseStatus(input.Status)
		if err != nil {
			return errorResult(fmt.Sprintf("parsing status filter: %s", err)), listTasksOutput{}, nil
		}
		params.Status = &status
	}
	if input.DueDate != "" {
		due, err := time.Parse("2006-01-02", input.DueDate)
		if err != nil {
			return errorResult(fmt.Sprintf("parsing due date filter: %s", err)), listTasksOutput{}, nil
		}
		params.DueDate = &due
	}

	tasks, err := s.api.List(ctx, params)
	if err != nil {
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, t := range tasks {
		out.Tasks[i] = taskToOutput(t)
	}
	return nil, out, nil
}

func (s *Server) handleCreateTask(ctx context.Context, _ *gomcp.CallToolRequest, input createTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	due, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing due date: %s", err)), taskOutput{}, nil
	}

	task, err := s.api.Create(ctx, models.CreateTaskRequest{
		Name:        input.Name,
		Description: input.Description,
		DueDate:     due,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), taskOutput{}, nil
	}
	return nil, taskToOutput(*task), nil
}

func (s *Server) handleUpdateTask(ctx context.Context, _ *gomcp.CallToolRequest, input updateTaskInput) (*gomcp.CallToolResult, messageOutput, error) {
	due, err := time.Parse("2006-01-02", input.DueDate)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing due date: %s", err)), messageOutput{}, nil
	}
	status, err := models.ParseStatus(input.Status)
	if err != nil {
		return errorResult(fmt.Sprintf("parsing status: %s", err)), messageOutput{}, nil
	}

	err = s.api.Update(ctx, input.ID, models.UpdateTaskRequest{
		Name:        input.Name,
		Description: input.Description,
		DueDate:     due,
		Status:      status,
	})
	if err != nil {
		return errorResult(fmt.Sprintf("updating task %d: %s", input.ID, err)), messageOutput{}, nil
	}
	return nil, messageOutput{Message: fmt.Sprintf("task %d updated", input.ID)}, nil
}

func (s *Server) handleDeleteTask(ctx context.Context, _ *gomcp.CallToolRequest, input deleteTaskInput) (*gomcp.CallToolResult, messageOutput, error) {
	if err := s.api.Delete(ctx, input.ID); err != nil {
		return errorResult(fmt.Sprintf("deleting task %d: %s", input.ID, err)), messageOutput{}, nil
	}
	return nil, messageOutput{Message: fmt.Sprintf("task %d deleted", input.ID)}, nil
}

// --- Helpers ---

func taskToOutput(t models.Task) taskOutput {
	return taskOutput{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate.Format("2006-01-02"),
		Status:      string(t.Status),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
