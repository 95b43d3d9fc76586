// Package client talks to a running taskboard server: an HTTP API client
// for the REST boundary and a view model that keeps a local copy of the
// task list consistent with the server via the realtime channel.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"taskboard/internal/query"
	"taskboard/pkg/models"
)

// API is an HTTP client for the task endpoints. Network failures surface as
// models.ErrTransport; server-signalled failures keep their taxonomy
// (ErrNotFound for 404, ErrValidation for 400).
type API struct {
	baseURL *url.URL
	http    *http.Client
}

// NewAPI creates an API client for the server at serverURL. timeout bounds
// every request; it must be finite.
func NewAPI(serverURL string, timeout time.Duration) (*API, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url %q: %w", serverURL, err)
	}
	return &API{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// WebsocketURL returns the ws:// or wss:// address of the realtime channel.
func (a *API) WebsocketURL() string {
	u := *a.baseURL
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	return u.JoinPath("ws").String()
}

// List fetches the task list computed for the given query parameters.
func (a *API) List(ctx context.Context, params query.Params) ([]models.Task, error) {
	u := a.baseURL.JoinPath("tasks")
	values := url.Values{}
	values.Set("sortBy", string(params.SortBy))
	values.Set("sortDirection", string(params.Direction))
	if params.Status != nil {
		values.Set("status", string(*params.Status))
	}
	if params.DueDate != nil {
		values.Set("dueDate", params.DueDate.Format("2006-01-02"))
	}
	u.RawQuery = values.Encode()

	var tasks []models.Task
	if err := a.do(ctx, http.MethodGet, u.String(), nil, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get fetches a single task by id.
func (a *API) Get(ctx context.Context, id int64) (*models.Task, error) {
	u := a.baseURL.JoinPath("tasks", fmt.Sprintf("%d", id))
	var task models.Task
	if err := a.do(ctx, http.MethodGet, u.String(), nil, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Create persists a new task on the server and returns the created record.
func (a *API) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	u := a.baseURL.JoinPath("tasks")
	var task models.Task
	if err := a.do(ctx, http.MethodPost, u.String(), req, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update replaces the task with the given id with the full target state.
func (a *API) Update(ctx context.Context, id int64, req models.UpdateTaskRequest) error {
	u := a.baseURL.JoinPath("tasks", fmt.Sprintf("%d", id))
	return a.do(ctx, http.MethodPut, u.String(), req, http.StatusNoContent, nil)
}

// Delete removes the task with the given id.
func (a *API) Delete(ctx context.Context, id int64) error {
	u := a.baseURL.JoinPath("tasks", fmt.Sprintf("%d", id))
	return a.do(ctx, http.MethodDelete, u.String(), nil, http.StatusNoContent, nil)
}

// do performs one request and decodes the response into out when the status
// matches wantStatus. Other statuses are mapped back onto the error
// taxonomy using the server's JSON error body.
func (a *API) do(ctx context.Context, method, rawURL string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(request)
	if err != nil {
		return models.Transportf("%s %s: %s", method, rawURL, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.Transportf("decoding response: %s", err.Error())
	}
	return nil
}

// apiError converts a non-expected status into the matching taxonomy error,
// carrying the server's message when one was provided.
func apiError(resp *http.Response) error {
	message := resp.Status
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		message = body.Message
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return models.NotFoundf("%s", message)
	case http.StatusBadRequest:
		return models.Validationf("%s", message)
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, message)
	}
}

type errorBody struct {
	Message string `json:"message"`
}
