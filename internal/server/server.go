// Package server exposes the task service over HTTP and fans change
// announcements out to connected clients over a websocket channel.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"taskboard/internal/core"
	"taskboard/internal/notify"
	"taskboard/internal/observability"
)

// Server wires the task service, the change broker, and the event log
// behind an HTTP handler.
type Server struct {
	service core.TaskService
	broker  *notify.Broker
	events  observability.EventLog
	router  *mux.Router
}

// New creates a Server and registers its routes.
func New(service core.TaskService, broker *notify.Broker, events observability.EventLog) *Server {
	s := &Server{
		service: service,
		broker:  broker,
		events:  events,
	}

	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			slog.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})

	r.Methods(http.MethodGet).Path("/tasks").HandlerFunc(s.listTasks)
	r.Methods(http.MethodPost).Path("/tasks").HandlerFunc(s.createTask)
	r.Methods(http.MethodGet).Path("/tasks/{id:[0-9]+}").HandlerFunc(s.getTask)
	r.Methods(http.MethodPut).Path("/tasks/{id:[0-9]+}").HandlerFunc(s.updateTask)
	r.Methods(http.MethodDelete).Path("/tasks/{id:[0-9]+}").HandlerFunc(s.deleteTask)
	r.Methods(http.MethodGet).Path("/ws").HandlerFunc(s.handleWS)

	s.router = r
	return s
}

// Handler returns the HTTP handler serving the REST and websocket routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
