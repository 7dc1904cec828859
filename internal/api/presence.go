package api

import "net/http"

// Daily reports always answer 200: a failed store read comes back as a
// report with empty players and the error field set, so dashboards keep
// rendering during an outage.

// handleToday handles GET /api/today requests.
func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.presence.Today(r.Context()))
}

// handleYesterday handles GET /api/yesterday requests.
func (s *Server) handleYesterday(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.presence.Yesterday(r.Context()))
}
