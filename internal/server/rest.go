package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// GameListHandler serves the lobby view over plain HTTP so pages can
// render the table list before opening a socket.
type GameListHandler struct {
	registry *Registry
	log      *slog.Logger
}

func NewGameListHandler(registry *Registry, log *slog.Logger) *GameListHandler {
	return &GameListHandler{registry: registry, log: log}
}

func (h *GameListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(struct {
		Games []GameSummary `json:"games"`
	}{Games: h.registry.GameList()}); err != nil {
		h.log.Warn("game list encode failed", "err", err)
	}
}
