package advisor

import (
	"context"

	"bazi-fengshui/llm"
)

// OutfitAnalysis is the structured verdict on one outfit photo.
type OutfitAnalysis struct {
	Analysis         string   `json:"analysis"`
	DetectedColors   []string `json:"detectedColors"`
	ColorMatch       string   `json:"colorMatch"`
	Suggestions      []string `json:"suggestions"`
	ElementAlignment string   `json:"elementAlignment"`
}

func (o *OutfitAnalysis) normalize() {
	if o.DetectedColors == nil {
		o.DetectedColors = []string{}
	}
	if o.Suggestions == nil {
		o.Suggestions = []string{}
	}
	if o.ColorMatch == "" {
		o.ColorMatch = MatchNeutral
	}
}

// Color match grades used by the prompts
const (
	MatchExcellent = "excellent"
	MatchGood      = "good"
	MatchNeutral   = "neutral"
	MatchPoor      = "poor"
)

// AnalyzeOutfit grades an outfit photo against the profile's colors.
func (a *Advisor) AnalyzeOutfit(ctx context.Context, p llm.Profile, img llm.Image) (*OutfitAnalysis, error) {
	if err := requireImage(img); err != nil {
		return nil, err
	}

	var out OutfitAnalysis
	err := a.structured(ctx, kindOutfit, llm.OutfitAnalysisPrompt(p), []llm.Image{img}, &out, func(text string) {
		out = OutfitAnalysis{
			Analysis:         text,
			DetectedColors:   []string{},
			ColorMatch:       MatchNeutral,
			Suggestions:      []string{"Unable to parse detailed suggestions"},
			ElementAlignment: "Analysis in progress",
		}
	})
	if err != nil {
		return nil, err
	}
	out.normalize()
	return &out, nil
}

// OutfitReport writes a long-form markdown report on an outfit photo.
func (a *Advisor) OutfitReport(ctx context.Context, p llm.Profile, img llm.Image) (string, error) {
	if err := requireImage(img); err != nil {
		return "", err
	}
	return a.report(ctx, kindOutfitReport, llm.OutfitReportPrompt(p), []llm.Image{img})
}
