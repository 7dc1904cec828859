package api

import "net/http"

// handleStatus handles GET /api/status requests.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status.GetStatus(r.Context()))
}

// handlePlayers handles GET /api/players requests.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status.GetPlayers(r.Context()))
}
