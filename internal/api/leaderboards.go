package api

import "net/http"

// handleLeaderboards handles GET /api/leaderboards requests.
func (s *Server) handleLeaderboards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.leaderboards.GetLeaderboards(r.Context()))
}
