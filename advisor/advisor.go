// Package advisor enriches a BaZi reading with AI analysis of outfit and
// workspace photos, long-form reports and spoken scripts.
package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"bazi-fengshui/bazi"
	"bazi-fengshui/cache"
	"bazi-fengshui/llm"

	"go.uber.org/zap"
)

// ErrCooldown is returned when a live session asks again too soon.
var ErrCooldown = errors.New("live analysis is cooling down")

// ResultCache stores AI results by kind and input hash. *cache.AICache
// implements it.
type ResultCache interface {
	Load(ctx context.Context, kind, hash string, dest interface{}) bool
	Store(ctx context.Context, kind, hash string, value interface{}, ttl time.Duration) error
	AcquireCooldown(ctx context.Context, session string, ttl time.Duration) bool
}

var _ ResultCache = (*cache.AICache)(nil)

// Cache kinds
const (
	kindOutfit          = "outfit"
	kindOutfitReport    = "outfit-report"
	kindWorkspace       = "workspace"
	kindWorkspaceReport = "workspace-report"
	kindWorkspace360    = "workspace-360"
)

// Advisor runs prompts against a provider.
type Advisor struct {
	provider llm.Provider
	cache    ResultCache
	cacheTTL time.Duration
	cooldown time.Duration
	logger   *zap.Logger
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithCache caches parsed results and reports for ttl.
func WithCache(c ResultCache, ttl time.Duration) Option {
	return func(a *Advisor) {
		a.cache = c
		a.cacheTTL = ttl
	}
}

// WithCooldown sets the minimum gap between live frames of one session.
func WithCooldown(d time.Duration) Option {
	return func(a *Advisor) { a.cooldown = d }
}

// New creates an Advisor over provider.
func New(provider llm.Provider, logger *zap.Logger, opts ...Option) *Advisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Advisor{
		provider: provider,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Provider reports the name of the underlying model.
func (a *Advisor) Provider() string {
	return a.provider.Name()
}

// ProfileFromAnalysis extracts what the prompts need from a reading.
func ProfileFromAnalysis(an *bazi.Analysis) llm.Profile {
	if an == nil {
		return llm.Profile{}
	}
	p := llm.Profile{
		DayMaster:     fmt.Sprintf("%s (%s, %s)", an.DayMaster, an.DayMasterElement.Title(), an.DayMasterStrength),
		LuckyColors:   colorNames(an.LuckyColors),
		UnluckyColors: colorNames(an.UnluckyColors),
	}
	if d := an.Directional; d != nil {
		p.Directions = &llm.DirectionHints{
			Sitting:      string(d.SittingDirection.PrimaryDirection),
			Desk:         string(d.DeskPosition.PrimaryDirection),
			WealthCorner: string(d.WealthCorner.Direction),
		}
	}
	return p
}

func colorNames(colors []bazi.ColorRecommendation) []string {
	seen := make(map[string]bool, len(colors))
	names := make([]string, 0, len(colors))
	for _, c := range colors {
		if seen[c.Color] {
			continue
		}
		seen[c.Color] = true
		names = append(names, c.Color)
	}
	return names
}

// inputHash identifies a prompt and its images for caching.
func inputHash(prompt string, images []llm.Image) string {
	sums := make([]string, len(images))
	for i, img := range images {
		sum := sha256.Sum256(img.Data)
		sums[i] = img.MIMEType + ":" + hex.EncodeToString(sum[:])
	}
	return cache.GenerateDataHash(struct {
		Prompt string   `json:"prompt"`
		Images []string `json:"images"`
	}{prompt, sums})
}

func (a *Advisor) load(ctx context.Context, kind, hash string, dest interface{}) bool {
	if a.cache == nil {
		return false
	}
	if a.cache.Load(ctx, kind, hash, dest) {
		a.logger.Debug("AI result served from cache", zap.String("kind", kind), zap.String("hash", hash))
		return true
	}
	return false
}

func (a *Advisor) store(ctx context.Context, kind, hash string, v interface{}) {
	if a.cache == nil || a.cacheTTL <= 0 {
		return
	}
	if err := a.cache.Store(ctx, kind, hash, v, a.cacheTTL); err != nil {
		a.logger.Debug("AI result not cached", zap.String("kind", kind), zap.Error(err))
	}
}

// structured runs a JSON prompt into dest. Answers that do not decode go
// through fallback and are not cached.
func (a *Advisor) structured(ctx context.Context, kind, prompt string, images []llm.Image, dest interface{}, fallback func(text string)) error {
	hash := inputHash(prompt, images)
	if a.load(ctx, kind, hash, dest) {
		return nil
	}

	text, err := a.provider.Generate(ctx, prompt, images)
	if err != nil {
		return fmt.Errorf("%s analysis failed: %w", kind, err)
	}
	if !llm.DecodeJSON(text, dest) {
		a.logger.Warn("AI response was not valid JSON, using fallback",
			zap.String("kind", kind),
			zap.Int("length", len(text)),
		)
		fallback(text)
		return nil
	}
	a.store(ctx, kind, hash, dest)
	return nil
}

// report runs a free-text prompt with caching.
func (a *Advisor) report(ctx context.Context, kind, prompt string, images []llm.Image) (string, error) {
	hash := inputHash(prompt, images)
	var cached string
	if a.load(ctx, kind, hash, &cached) && cached != "" {
		return cached, nil
	}

	text, err := a.provider.Generate(ctx, prompt, images)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", kind, err)
	}
	a.store(ctx, kind, hash, text)
	return text, nil
}

func requireImage(images ...llm.Image) error {
	for _, img := range images {
		if len(img.Data) == 0 {
			return bazi.NewValidationError("image", "no image provided")
		}
	}
	return nil
}
