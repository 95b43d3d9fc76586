package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"taskboard/internal/observability"
	"taskboard/internal/query"
	"taskboard/pkg/models"
)

// errorResponse is the JSON body returned for every non-2xx status.
type errorResponse struct {
	Message string `json:"message"`
}

func (s *Server) listTasks(writer http.ResponseWriter, request *http.Request) {
	params, err := parseListParams(request)
	if err != nil {
		s.writeError(writer, models.Validationf("%s", err.Error()))
		return
	}

	tasks, err := s.service.List(request.Context(), params)
	if err != nil {
		s.writeError(writer, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.writeJSON(writer, http.StatusOK, tasks)
}

func (s *Server) getTask(writer http.ResponseWriter, request *http.Request) {
	id, err := pathID(request)
	if err != nil {
		s.writeError(writer, models.Validationf("%s", err.Error()))
		return
	}

	task, err := s.service.GetByID(request.Context(), id)
	if err != nil {
		s.writeError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusOK, task)
}

func (s *Server) createTask(writer http.ResponseWriter, request *http.Request) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		s.writeError(writer, models.Validationf("decoding request body: %s", err.Error()))
		return
	}

	task, err := s.service.Create(request.Context(), req)
	if err != nil {
		s.writeError(writer, err)
		return
	}
	s.writeJSON(writer, http.StatusCreated, task)
}

func (s *Server) updateTask(writer http.ResponseWriter, request *http.Request) {
	id, err := pathID(request)
	if err != nil {
		s.writeError(writer, models.Validationf("%s", err.Error()))
		return
	}

	var req models.UpdateTaskRequest
	if err := json.NewDecoder(request.Body).Decode(&req); err != nil {
		s.writeError(writer, models.Validationf("decoding request body: %s", err.Error()))
		return
	}

	if err := s.service.Update(request.Context(), id, req); err != nil {
		s.writeError(writer, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTask(writer http.ResponseWriter, request *http.Request) {
	id, err := pathID(request)
	if err != nil {
		s.writeError(writer, models.Validationf("%s", err.Error()))
		return
	}

	if err := s.service.Delete(request.Context(), id); err != nil {
		s.writeError(writer, err)
		return
	}
	writer.WriteHeader(http.StatusNoContent)
}

// parseListParams translates the query string into engine parameters.
// sortBy and sortDirection are permissive (unknown values fall back to the
// defaults); status and dueDate reject values that cannot be interpreted.
func parseListParams(request *http.Request) (query.Params, error) {
	values := request.URL.Query()
	params := query.DefaultParams()
	params.SortBy = query.ParseSortKey(values.Get("sortBy"))
	params.Direction = query.ParseDirection(values.Get("sortDirection"))

	if raw := values.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return params, fmt.Errorf("parsing status filter: %w", err)
		}
		params.Status = &status
	}
	if raw := values.Get("dueDate"); raw != "" {
		due, err := parseDate(raw)
		if err != nil {
			return params, fmt.Errorf("parsing dueDate filter: %w", err)
		}
		params.DueDate = &due
	}
	return params, nil
}

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp;
// only the date component is meaningful for filtering.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func pathID(request *http.Request) (int64, error) {
	raw := mux.Vars(request)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing task id %q: %w", raw, err)
	}
	return id, nil
}

func (s *Server) writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		slog.Error("failed to encode response", "err", err)
	}
}

// writeError maps the failure taxonomy onto distinct HTTP statuses:
// validation failures to 400, missing resources to 404, everything else to
// 500. Unexpected failures are also recorded in the event log.
func (s *Server) writeError(writer http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	default:
		if s.events != nil {
			_ = s.events.Log(observability.LevelError, observability.EventServerError, err.Error(), nil)
		}
	}
	s.writeJSON(writer, status, errorResponse{Message: err.Error()})
}
