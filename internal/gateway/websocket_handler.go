package gateway

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades subscription requests for league event feeds.
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a handler backed by the connection manager.
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{connectionManager: cm}
}

// ServeHTTP handles GET /ws/leagues/{leagueID}?user_id=<uuid>.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	leagueID, err := uuid.Parse(r.PathValue("leagueID"))
	if err != nil {
		http.Error(w, "invalid league ID", http.StatusBadRequest)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, userID, leagueID); err != nil {
		log.Error().Err(err).Str("league_id", leagueID.String()).Msg("websocket upgrade failed")
	}
}
