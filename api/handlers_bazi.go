package api

import (
	"net/http"

	"bazi-fengshui/bazi"
	"bazi-fengshui/realtime"

	"go.uber.org/zap"
)

// DailyRequest asks for the colors of one calendar day
type DailyRequest struct {
	bazi.Request
	TargetDate string `json:"targetDate,omitempty"`
}

// handleAnalyze computes a reading and stores it when history is enabled
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req bazi.Request
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, "Invalid request body", err)
		return
	}

	analysis, err := s.engine.Analyze(req)
	if err != nil {
		s.respondWithError(w, "Failed to analyze birth date", err)
		return
	}

	if s.readings != nil {
		reading, err := s.readings.Save(r.Context(), req, analysis)
		if err != nil {
			// History is best effort; the reading itself succeeded
			s.logger.Warn("failed to store reading", zap.Error(err))
		} else {
			id := reading.ID.String()
			w.Header().Set("X-Reading-ID", id)
			w.Header().Set("Location", "/api/readings/"+id)
			if s.broker != nil {
				s.broker.Broadcast(realtime.EventReadingCreated, map[string]interface{}{
					"id":             id,
					"day_master":     reading.DayMaster,
					"strength":       reading.Strength,
					"lucky_elements": reading.LuckyElements,
				})
			}
			if s.notifier != nil {
				s.notifier.SendReading(reading)
			}
		}
	}

	respondJSON(w, http.StatusOK, analysis)
}

// handleDaily recommends colors for targetDate (today when empty)
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	var req DailyRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, "Invalid request body", err)
		return
	}

	analysis, err := s.engine.Analyze(bazi.Request{BirthDate: req.BirthDate, BirthTime: req.BirthTime})
	if err != nil {
		s.respondWithError(w, "Failed to analyze birth date", err)
		return
	}

	daily, err := s.engine.Daily(analysis, req.TargetDate, s.now())
	if err != nil {
		s.respondWithError(w, "Failed to compute daily recommendation", err)
		return
	}
	respondJSON(w, http.StatusOK, daily)
}
