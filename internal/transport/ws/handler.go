package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"feedbackhub/internal/model"
	"feedbackhub/internal/service"
	"feedbackhub/internal/transport/rest/middleware"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // tokens gate access, not origins
	},
}

// FormOwnership resolves a form owned by a user
type FormOwnership interface {
	Owned(ctx context.Context, id, ownerID string) (*model.Form, error)
}

// EventOwnership resolves an event owned by a user
type EventOwnership interface {
	Owned(ctx context.Context, id, ownerID string) (*model.Event, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub    *Hub
	tokens middleware.TokenValidator
	forms  FormOwnership
	events EventOwnership
	logger *zap.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, tokens middleware.TokenValidator, forms FormOwnership, events EventOwnership, logger *zap.Logger) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		forms:  forms,
		events: events,
		logger: logger,
	}
}

// FormWS handles GET /ws/forms/{id}
func (h *Handler) FormWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.serve(w, r, FormTopic(id), func(ctx context.Context, userID string) error {
		_, err := h.forms.Owned(ctx, id, userID)
		return err
	})
}

// EventWS handles GET /ws/events/{id}
func (h *Handler) EventWS(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	h.serve(w, r, EventTopic(id), func(ctx context.Context, userID string) error {
		_, err := h.events.Owned(ctx, id, userID)
		return err
	})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, topic Topic, authorize func(context.Context, string) error) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.ExtractToken(r)
	}
	if token == "" {
		middleware.WriteError(w, r, http.StatusUnauthorized, "No token provided")
		return
	}

	userID, err := h.tokens.ValidateToken(token)
	if err != nil {
		middleware.WriteError(w, r, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	if err := authorize(r.Context(), userID); err != nil {
		var svcErr *service.Error
		if !errors.As(err, &svcErr) {
			h.logger.Error("ws authorization failed", zap.Error(err))
			middleware.WriteError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		status := http.StatusForbidden
		switch {
		case errors.Is(err, service.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrNotFound):
			status = http.StatusNotFound
		}
		middleware.WriteError(w, r, status, svcErr.Message)
		return
	}

	// subscribed before the handshake completes so no notification is missed
	conn := NewConnection(topic, userID)
	if !h.hub.Register(conn) {
		middleware.WriteError(w, r, http.StatusServiceUnavailable, "Server is shutting down")
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.Unregister(conn)
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := wsConn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}
		// notifications only; client messages are ignored
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
