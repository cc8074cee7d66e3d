package handlers

import (
	"net/http"

	"github.com/paimonworks/harem-service/internal/service"
	"github.com/paimonworks/harem-service/internal/websocket"
)

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// Handle subscribes the caller to a guild's event feed. Browsers
// cannot set headers on websocket requests, so the token rides in a
// query parameter.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	if _, err := h.authService.ValidateToken(token); err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	guildID := r.URL.Query().Get("guildId")
	if guildID == "" {
		http.Error(w, "Guild ID required", http.StatusBadRequest)
		return
	}

	websocket.ServeWS(h.hub, w, r, guildID)
}
