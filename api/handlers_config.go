package api

import (
	"net/http"
)

// handleHealth returns the health status of the API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":   "ok",
		"model":    s.engine.Model(),
		"ai":       s.advisor != nil,
		"readings": s.readings != nil,
	}
	if s.advisor != nil {
		status["provider"] = s.advisor.Provider()
	}
	respondJSON(w, http.StatusOK, status)
}
