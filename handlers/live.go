package handlers

import (
	"context"
	"encoding/json"

	"bazi-fengshui/advisor"
	"bazi-fengshui/bazi"
	"bazi-fengshui/helpers"
	"bazi-fengshui/llm"

	"go.uber.org/zap"
)

// LiveAnalyzer analyzes one camera frame of a live session.
// *advisor.Advisor implements it.
type LiveAnalyzer interface {
	AnalyzeLive(ctx context.Context, session, subject string, p llm.Profile, img llm.Image) (interface{}, error)
}

// FramePayload is the payload of a live "outfit" or "workspace" message
type FramePayload struct {
	advisor.ProfileInput
	Image string `json:"image"`
}

// LiveFrameHandler analyzes frames of one subject
type LiveFrameHandler struct {
	subject  string
	analyzer LiveAnalyzer
	engine   *bazi.Engine
	logger   *zap.Logger
}

// NewLiveFrameHandler creates a handler for subject (advisor.LiveOutfit or
// advisor.LiveWorkspace)
func NewLiveFrameHandler(subject string, analyzer LiveAnalyzer, engine *bazi.Engine, logger *zap.Logger) *LiveFrameHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveFrameHandler{
		subject:  subject,
		analyzer: analyzer,
		engine:   engine,
		logger:   logger,
	}
}

// GetMessageType returns the subject
func (h *LiveFrameHandler) GetMessageType() string {
	return h.subject
}

// Handle decodes the frame, resolves the profile and runs the analysis
func (h *LiveFrameHandler) Handle(ctx context.Context, session string, payload json.RawMessage) (interface{}, error) {
	var frame FramePayload
	if err := json.Unmarshal(payload, &frame); err != nil {
		return nil, bazi.NewValidationError("payload", "must be a JSON object")
	}

	mime, data, err := helpers.DecodeImage(frame.Image)
	if err != nil {
		return nil, bazi.NewValidationError("image", err.Error())
	}

	profile, err := frame.Resolve(h.engine, h.subject == advisor.LiveWorkspace)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("live frame",
		zap.String("session", session),
		zap.String("subject", h.subject),
		zap.Int("bytes", len(data)),
	)
	return h.analyzer.AnalyzeLive(ctx, session, h.subject, profile, llm.Image{MIMEType: mime, Data: data})
}
