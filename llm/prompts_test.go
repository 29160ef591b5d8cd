package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptsCarryProfile(t *testing.T) {
	p := Profile{
		DayMaster:     "庚",
		LuckyColors:   []string{"Green", "Red"},
		UnluckyColors: []string{"Yellow"},
		Directions:    &DirectionHints{Sitting: "E", Desk: "E", WealthCorner: "SE"},
	}

	for name, prompt := range map[string]string{
		"outfit":           OutfitAnalysisPrompt(p),
		"outfit report":    OutfitReportPrompt(p),
		"workspace":        WorkspaceAnalysisPrompt(p),
		"workspace stream": WorkspaceStreamPrompt(p),
		"report single":    WorkspaceReportPrompt(p, false),
		"report 360":       WorkspaceReportPrompt(p, true),
		"360":              Workspace360Prompt(p),
	} {
		assert.Contains(t, prompt, "Green, Red", name)
		assert.Contains(t, prompt, "Yellow", name)
	}

	assert.Contains(t, OutfitReportPrompt(p), "Day Master: 庚")
	assert.Contains(t, WorkspaceAnalysisPrompt(p), "Best Sitting Direction: Face E")
	assert.Contains(t, WorkspaceAnalysisPrompt(p), "Wealth Corner: SE")
	assert.Contains(t, WorkspaceReportPrompt(p, true), "4 images")
	assert.Contains(t, WorkspaceReportPrompt(p, false), "single workspace photo")
	assert.Contains(t, Workspace360Prompt(p), "NORTH view: First image")
}

func TestPromptsWithEmptyProfile(t *testing.T) {
	prompt := WorkspaceAnalysisPrompt(Profile{})
	assert.Contains(t, prompt, "Lucky Colors: Not specified")
	assert.NotContains(t, prompt, "Best Sitting Direction")
	assert.Contains(t, OutfitReportPrompt(Profile{}), "Day Master: Unknown")
}

func TestSpeechScriptPrompt(t *testing.T) {
	prompt := SpeechScriptPrompt("## Report\nAll good", SubjectWorkspace)
	assert.Contains(t, prompt, "Convert this workspace Feng Shui report")
	assert.True(t, strings.HasSuffix(prompt, "## Your entertaining Singlish speech script:"))
	assert.Contains(t, SpeechScriptPrompt("r", "anything"), "Convert this outfit Feng Shui report")
	assert.True(t, strings.HasPrefix(SpeechDirection("Wah"), "Say in an energetic"))
}
