package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"parcelmama/internal/adapter/api/middleware"
	ws "parcelmama/internal/infrastructure/websocket"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/response"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	upgrader  gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origins are already restricted by the CORS middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleWebSocket subscribes the caller to their parcel notifications.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	email := middleware.CallerEmail(c)
	if email == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		return nil
	}

	client := &ws.Client{
		Email: email,
		Conn:  conn,
		Send:  make(chan []byte, 256),
	}
	if !h.wsManager.Register(client) {
		conn.Close()
		return nil
	}

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
