package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Raw PCM format of the Gemini speech models
const (
	ttsSampleRate    = 24000
	ttsChannels      = 1
	ttsBitsPerSample = 16
)

// contentGenerator is the subset of *genai.Models the provider uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// GeminiConfig configures the Gemini provider
type GeminiConfig struct {
	APIKey           string
	Model            string
	TTSModel         string
	TTSFallbackModel string
	Voice            string
	Temperature      float64
}

// GeminiProvider generates text and speech with Google's Gemini API.
type GeminiProvider struct {
	models contentGenerator
	cfg    GeminiConfig
	logger *zap.Logger
}

var _ Provider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a Gemini provider
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiProvider(client.Models, cfg, logger), nil
}

func newGeminiProvider(models contentGenerator, cfg GeminiConfig, logger *zap.Logger) *GeminiProvider {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Voice == "" {
		cfg.Voice = "Kore"
	}
	return &GeminiProvider{models: models, cfg: cfg, logger: logger}
}

// Name identifies the provider and model
func (g *GeminiProvider) Name() string {
	return "gemini:" + g.cfg.Model
}

func (g *GeminiProvider) contents(prompt string, images []Image) []*genai.Content {
	parts := make([]*genai.Part, 0, len(images)+1)
	parts = append(parts, genai.NewPartFromText(prompt))
	for _, img := range images {
		mime := img.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		parts = append(parts, genai.NewPartFromBytes(img.Data, mime))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

func (g *GeminiProvider) textConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if g.cfg.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(g.cfg.Temperature))
	}
	return cfg
}

// Generate answers a prompt with optional images
func (g *GeminiProvider) Generate(ctx context.Context, prompt string, images []Image) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.cfg.Model, g.contents(prompt, images), g.textConfig())
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

// GenerateStream streams the answer to a prompt with optional images
func (g *GeminiProvider) GenerateStream(ctx context.Context, prompt string, images []Image, callback StreamCallback) error {
	for resp, err := range g.models.GenerateContentStream(ctx, g.cfg.Model, g.contents(prompt, images), g.textConfig()) {
		if err != nil {
			return fmt.Errorf("gemini stream failed: %w", err)
		}
		if text := resp.Text(); text != "" {
			if err := callback(text); err != nil {
				return fmt.Errorf("callback error: %w", err)
			}
		}
	}
	return nil
}

// Speak synthesizes text with the primary speech model and retries once with
// the fallback model.
func (g *GeminiProvider) Speak(ctx context.Context, text string) (*Speech, error) {
	models := []string{g.cfg.TTSModel, g.cfg.TTSFallbackModel}

	var errs []error
	for _, model := range models {
		if model == "" {
			continue
		}
		pcm, err := g.speakWith(ctx, model, text)
		if err == nil {
			return &Speech{WAV: PCMToWAV(pcm, ttsSampleRate, ttsChannels, ttsBitsPerSample), Source: model}, nil
		}
		g.logger.Warn("speech synthesis failed", zap.String("model", model), zap.Error(err))
		errs = append(errs, fmt.Errorf("%s: %w", model, err))
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		return nil, ErrAudioUnsupported
	}
	return nil, errors.Join(errs...)
}

func (g *GeminiProvider) speakWith(ctx context.Context, model, text string) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: g.cfg.Voice},
			},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoAudio
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "audio/") && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, ErrNoAudio
}
