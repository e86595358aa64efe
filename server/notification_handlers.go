package server

import (
	"log"
	"net/http"
	"time"

	"github.com/barefootnomad/api/server/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already filtered by the cors middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (s *Server) handleListNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, apiErr := s.NotificationService.ListNotifications(c.GetUint("userID"))
		if apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "notifications", http.StatusOK, notifications, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiErr := s.NotificationService.MarkAsRead(c.Param("id"), c.GetUint("userID")); apiErr != nil {
			response.HandleErrors(c, apiErr)
			return
		}
		response.JSON(c, "notification marked as read", http.StatusOK, nil, nil)
	}
}

// handleNotificationStream upgrades to a websocket and forwards every
// notification pushed to the hub for the caller.
func (s *Server) handleNotificationStream() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Registered before the handshake completes so nothing published
		// after the client sees the upgrade is lost.
		client := s.Hub.Register(c.GetUint("userID"))
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade to WebSocket: %v", err)
			s.Hub.Unregister(client)
			return
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			readPump(conn)
		}()

		writePump(conn, client.Messages(), done)
		s.Hub.Unregister(client)
		conn.Close()
	}
}

// readPump discards client frames; it only exists to process control
// messages and notice when the peer goes away.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func writePump(conn *websocket.Conn, messages <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-messages:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("notification stream: write: %v", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
