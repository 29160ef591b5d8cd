package api

import (
	"net/http"
)

// handleListReadings returns the most recent stored readings
func (s *Server) handleListReadings(w http.ResponseWriter, r *http.Request) {
	if s.readings == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Reading history is not enabled"})
		return
	}

	minLimit, maxLimit := 1, 100
	limit := getIntParam(r, "limit", 20, &minLimit, &maxLimit)

	readings, err := s.readings.ListRecent(r.Context(), limit)
	if err != nil {
		s.respondWithError(w, "Failed to list readings", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"readings": readings,
		"count":    len(readings),
	})
}

// handleGetReading returns one stored reading with its full analysis
func (s *Server) handleGetReading(w http.ResponseWriter, r *http.Request) {
	if s.readings == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Reading history is not enabled"})
		return
	}

	reading, err := s.readings.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondWithError(w, "Failed to load reading", err)
		return
	}

	analysis, err := reading.Analysis()
	if err != nil {
		s.respondWithError(w, "Failed to decode reading", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"reading":  reading,
		"analysis": analysis,
	})
}
