package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"taskboard/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The board is open to any origin; there is no auth layer in front.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWS upgrades the connection, registers it with the broker, and pumps
// announcements until the client goes away. Each connection is independent:
// closing one never affects delivery to the rest.
func (s *Server) handleWS(writer http.ResponseWriter, request *http.Request) {
	conn, err := upgrader.Upgrade(writer, request, nil)
	if err != nil {
		slog.Error("failed to upgrade", "err", err)
		return
	}

	sub := s.broker.Subscribe()
	slog.Info("client connected", "remote", conn.RemoteAddr())

	// Writer pump. The subscription channel preserves send order, and
	// gorilla connections allow one concurrent writer, so all writes happen
	// here.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for text := range sub.C {
			frame := models.Announcement{Type: models.FrameChanged, Message: text}
			if err := conn.WriteJSON(frame); err != nil {
				slog.Error("failed to write announcement", "err", err)
				return
			}
		}
	}()

	// Read loop. Client frames of type "announce" are rebroadcast verbatim
	// to every subscriber, the sender included.
	for {
		var frame models.Announcement
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		if frame.Type == models.FrameAnnounce {
			s.broker.Announce(frame.Message)
		}
	}

	s.broker.Unsubscribe(sub)
	<-done
	_ = conn.Close()
	slog.Info("client disconnected", "remote", conn.RemoteAddr())
}
