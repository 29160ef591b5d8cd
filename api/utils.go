package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"bazi-fengshui/advisor"
	"bazi-fengshui/bazi"
	"bazi-fengshui/database"

	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies; 360 captures carry four photos
const maxBodyBytes = 32 << 20

// setupSSE configures the response writer for Server-Sent Events streaming
// Returns the Flusher if supported, or an error if not
func setupSSE(w http.ResponseWriter) (http.Flusher, bool) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	return flusher, true
}

// getIntParam retrieves an integer query parameter with default value and optional range validation
func getIntParam(r *http.Request, key string, defaultVal int, minVal, maxVal *int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}

	if minVal != nil && val < *minVal {
		return defaultVal
	}
	if maxVal != nil && val > *maxVal {
		return defaultVal
	}

	return val
}

// decodeBody decodes a JSON request body into dest
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return bazi.NewValidationError("body", "is empty")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return bazi.NewValidationError("body", "is too large")
		}
		return bazi.NewValidationError("body", "must be valid JSON")
	}
	return nil
}

// respondJSON writes v as a JSON response
func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, bazi.ErrInvalidInput), errors.Is(err, database.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, bazi.ErrUnsupportedDate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, advisor.ErrCooldown):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError logs the error and sends a JSON error response.
// Internal errors are logged but replaced by message in the response.
func (s *Server) respondWithError(w http.ResponseWriter, message string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("API error", zap.Int("status", code), zap.String("message", message), zap.Error(err))
		respondJSON(w, code, map[string]string{"error": message})
		return
	}
	s.logger.Debug("API request rejected", zap.Int("status", code), zap.Error(err))
	respondJSON(w, code, map[string]string{"error": err.Error()})
}
