package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"bazi-fengshui/advisor"
	"bazi-fengshui/bazi"
	"bazi-fengshui/helpers"
	"bazi-fengshui/llm"

	"go.uber.org/zap"
)

// ImageRequest carries one photo and the profile to judge it against
type ImageRequest struct {
	advisor.ProfileInput
	Image string `json:"image"`
}

// ViewInput is one photo of a 360 capture
type ViewInput struct {
	Direction string `json:"direction"`
	Image     string `json:"image"`
}

// ViewsRequest carries the four photos of a 360 capture
type ViewsRequest struct {
	advisor.ProfileInput
	Images []ViewInput `json:"images"`
}

// WorkspaceReportRequest carries either one photo or a 360 capture
type WorkspaceReportRequest struct {
	advisor.ProfileInput
	SingleImage string      `json:"singleImage,omitempty"`
	Images      []ViewInput `json:"images,omitempty"`
	Is360Mode   bool        `json:"is360Mode,omitempty"`
}

// SpeechRequest asks for a spoken version of a report
type SpeechRequest struct {
	Report string `json:"report"`
	Type   string `json:"type"`
}

func decodeImage(field, s string) (llm.Image, error) {
	if strings.TrimSpace(s) == "" {
		return llm.Image{}, bazi.NewValidationError(field, "no image provided")
	}
	mime, data, err := helpers.DecodeImage(s)
	if err != nil {
		return llm.Image{}, bazi.NewValidationError(field, err.Error())
	}
	return llm.Image{MIMEType: mime, Data: data}, nil
}

func decodeViews(inputs []ViewInput) ([]advisor.View, error) {
	views := make([]advisor.View, len(inputs))
	for i, in := range inputs {
		img, err := decodeImage(fmt.Sprintf("images[%d]", i), in.Image)
		if err != nil {
			return nil, err
		}
		views[i] = advisor.View{Direction: in.Direction, Image: img}
	}
	return views, nil
}

// requireAdvisor writes 503 when AI is disabled
func (s *Server) requireAdvisor(w http.ResponseWriter) bool {
	if s.advisor == nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "AI advisor is not enabled"})
		return false
	}
	return true
}

// imageRequest decodes an ImageRequest and resolves its profile
func (s *Server) imageRequest(w http.ResponseWriter, r *http.Request, directional bool) (llm.Profile, llm.Image, bool) {
	var req ImageRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, "Invalid request body", err)
		return llm.Profile{}, llm.Image{}, false
	}
	img, err := decodeImage("image", req.Image)
	if err != nil {
		s.respondWithError(w, "Invalid image", err)
		return llm.Profile{}, llm.Image{}, false
	}
	profile, err := req.Resolve(s.engine, directional)
	if err != nil {
		s.respondWithError(w, "Failed to analyze birth date", err)
		return llm.Profile{}, llm.Image{}, false
	}
	return profile, img, true
}

func (s *Server) handleOutfitAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	profile, img, ok := s.imageRequest(w, r, false)
	if !ok {
		return
	}

	result, err := s.advisor.AnalyzeOutfit(r.Context(), profile, img)
	if err != nil {
		s.respondWithError(w, "Failed to analyze outfit", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleOutfitReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	profile, img, ok := s.imageRequest(w, r, false)
	if !ok {
		return
	}

	report, err := s.advisor.OutfitReport(r.Context(), profile, img)
	if err != nil {
		s.respondWithError(w, "Failed to generate report", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"report": report})
}

func (s *Server) handleWorkspaceAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	profile, img, ok := s.imageRequest(w, r, true)
	if !ok {
		return
	}

	result, err := s.advisor.AnalyzeWorkspace(r.Context(), profile, img)
	if err != nil {
		s.respondWithError(w, "Failed to analyze workspace", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleWorkspaceStream streams the workspace analysis as SSE text chunks
func (s *Server) handleWorkspaceStream(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	profile, img, ok := s.imageRequest(w, r, true)
	if !ok {
		return
	}

	flusher, ok := setupSSE(w)
	if !ok {
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "Streaming not supported"})
		return
	}

	send := func(v interface{}) {
		data, _ := json.Marshal(v)
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	err := s.advisor.StreamWorkspace(r.Context(), profile, img, func(chunk string) error {
		send(map[string]string{"text": chunk})
		return r.Context().Err()
	})
	if err != nil {
		s.logger.Warn("workspace stream failed", zap.Error(err))
		send(map[string]string{"error": "Stream failed"})
		return
	}
	send(map[string]bool{"done": true})
}

func (s *Server) handleWorkspaceReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	var req WorkspaceReportRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, "Invalid request body", err)
		return
	}

	var views []advisor.View
	if req.Is360Mode || (req.SingleImage == "" && len(req.Images) > 0) {
		decoded, err := decodeViews(req.Images)
		if err != nil {
			s.respondWithError(w, "Invalid image", err)
			return
		}
		views = decoded
	} else {
		img, err := decodeImage("singleImage", req.SingleImage)
		if err != nil {
			s.respondWithError(w, "No image(s) provided", err)
			return
		}
		views = []advisor.View{{Image: img}}
	}

	profile, err := req.Resolve(s.engine, true)
	if err != nil {
		s.respondWithError(w, "Failed to analyze birth date", err)
		return
	}

	report, err := s.advisor.WorkspaceReport(r.Context(), profile, views)
	if err != nil {
		s.respondWithError(w, "Failed to generate report", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"report": report})
}

func (s *Server) handleWorkspace360(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	var req ViewsRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, "Invalid request body", err)
		return
	}
	views, err := decodeViews(req.Images)
	if err != nil {
		s.respondWithError(w, "Invalid image", err)
		return
	}
	profile, err := req.Resolve(s.engine, true)
	if err != nil {
		s.respondWithError(w, "Failed to analyze birth date", err)
		return
	}

	result, err := s.advisor.Analyze360(r.Context(), profile, views)
	if err != nil {
		s.respondWithError(w, "Failed to analyze 360 workspace", err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSpeechScript(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdvisor(w) {
		return
	}
	var req SpeechRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.respondWithError(w, "Invalid request body", err)
		return
	}

	script, err := s.advisor.SpeechScript(r.Context(), req.Report, req.Type)
	if err != nil {
		s.respondWithError(w, "Failed to generate speech script", err)
		return
	}
	respondJSON(w, http.StatusOK, script)
}
