package api

import "net/http"

// handlePlayerEvents handles GET /api/debug/events/{player} requests.
func (s *Server) handlePlayerEvents(w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("player")
	if player == "" {
		writeError(w, http.StatusBadRequest, "player name required", nil)
		return
	}

	result, err := s.events.PlayerEvents(r.Context(), player)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
