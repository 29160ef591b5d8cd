package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"

	"bazi-fengshui/bazi"
	"bazi-fengshui/llm"
)

// WorkspaceAnalysis is the structured verdict on one workspace photo.
type WorkspaceAnalysis struct {
	Analysis         string   `json:"analysis"`
	DetectedColors   []string `json:"detectedColors"`
	ColorMatch       string   `json:"colorMatch"`
	Reason           string   `json:"reason"`
	FlyingStarNotes  string   `json:"flyingStarNotes"`
	Suggestions      []string `json:"suggestions"`
	ElementAlignment string   `json:"elementAlignment"`
}

func (w *WorkspaceAnalysis) normalize() {
	if w.DetectedColors == nil {
		w.DetectedColors = []string{}
	}
	if w.Suggestions == nil {
		w.Suggestions = []string{}
	}
	if w.ColorMatch == "" {
		w.ColorMatch = MatchNeutral
	}
}

// Lines is a list of bullet points. Models sometimes answer with a single
// string instead of a list, which decodes as one line.
type Lines []string

// UnmarshalJSON accepts a string or a list of strings.
func (l *Lines) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Lines{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// DirectionView is the analysis of one of the four captured views.
type DirectionView struct {
	Direction       string `json:"direction"`
	Observations    Lines  `json:"observations"`
	Score           string `json:"score"`
	FlyingStarNote  string `json:"flyingStarNote"`
	Recommendations Lines  `json:"recommendations"`
}

// ElementShare is one element's share of the whole room.
type ElementShare struct {
	Element    string  `json:"element"`
	Percentage float64 `json:"percentage"`
	Location   string  `json:"location"`
}

// Workspace360Analysis combines four directional views of one workspace.
type Workspace360Analysis struct {
	OverallScore               string          `json:"overallScore"`
	OverallAnalysis            Lines           `json:"overallAnalysis"`
	DirectionBreakdown         []DirectionView `json:"directionBreakdown"`
	ElementBalance             []ElementShare  `json:"elementBalance"`
	PrioritizedRecommendations Lines           `json:"prioritizedRecommendations"`
	FlyingStarInsights         Lines           `json:"flyingStarInsights"`
}

// View is one photo of a 360 capture, tagged with the direction it faces.
type View struct {
	Direction string
	Image     llm.Image
}

// viewOrder is the order the 360 prompt expects the images in.
var viewOrder = map[string]int{"N": 0, "E": 1, "S": 2, "W": 3}

// AnalyzeWorkspace grades a workspace photo against the profile and the
// annual Flying Stars.
func (a *Advisor) AnalyzeWorkspace(ctx context.Context, p llm.Profile, img llm.Image) (*WorkspaceAnalysis, error) {
	if err := requireImage(img); err != nil {
		return nil, err
	}

	var out WorkspaceAnalysis
	err := a.structured(ctx, kindWorkspace, llm.WorkspaceAnalysisPrompt(p), []llm.Image{img}, &out, func(text string) {
		out = WorkspaceAnalysis{
			Analysis:         text,
			DetectedColors:   []string{},
			ColorMatch:       MatchNeutral,
			Reason:           "Unable to determine alignment",
			FlyingStarNotes:  "Analysis complete",
			Suggestions:      []string{"Please try again for detailed suggestions"},
			ElementAlignment: "Mixed elements detected",
		}
	})
	if err != nil {
		return nil, err
	}
	out.normalize()
	return &out, nil
}

// StreamWorkspace streams a conversational workspace analysis.
func (a *Advisor) StreamWorkspace(ctx context.Context, p llm.Profile, img llm.Image, cb llm.StreamCallback) error {
	if err := requireImage(img); err != nil {
		return err
	}
	return a.provider.GenerateStream(ctx, llm.WorkspaceStreamPrompt(p), []llm.Image{img}, cb)
}

// WorkspaceReport writes a long-form report from one photo or from the four
// views of a 360 capture.
func (a *Advisor) WorkspaceReport(ctx context.Context, p llm.Profile, views []View) (string, error) {
	var images []llm.Image
	is360 := len(views) > 1
	if is360 {
		sorted, err := sortViews(views)
		if err != nil {
			return "", err
		}
		images = sorted
	} else {
		if len(views) == 0 {
			return "", bazi.NewValidationError("image", "no image provided")
		}
		images = []llm.Image{views[0].Image}
	}
	if err := requireImage(images...); err != nil {
		return "", err
	}
	return a.report(ctx, kindWorkspaceReport, llm.WorkspaceReportPrompt(p, is360), images)
}

// Analyze360 analyzes exactly four views, one per cardinal direction.
func (a *Advisor) Analyze360(ctx context.Context, p llm.Profile, views []View) (*Workspace360Analysis, error) {
	images, err := sortViews(views)
	if err != nil {
		return nil, err
	}
	if err := requireImage(images...); err != nil {
		return nil, err
	}

	var out Workspace360Analysis
	err = a.structured(ctx, kindWorkspace360, llm.Workspace360Prompt(p), images, &out, func(text string) {
		out = Workspace360Analysis{
			OverallScore:               MatchNeutral,
			OverallAnalysis:            Lines{text},
			PrioritizedRecommendations: Lines{"Please try again for detailed recommendations"},
			FlyingStarInsights:         Lines{"Analysis complete - see overall analysis"},
		}
	})
	if err != nil {
		return nil, err
	}
	if out.DirectionBreakdown == nil {
		out.DirectionBreakdown = []DirectionView{}
	}
	if out.ElementBalance == nil {
		out.ElementBalance = []ElementShare{}
	}
	return &out, nil
}

// sortViews checks for exactly one view per N, E, S and W and returns the
// images in that order.
func sortViews(views []View) ([]llm.Image, error) {
	if len(views) != len(viewOrder) {
		return nil, bazi.NewValidationErrorWithValue("images", "exactly 4 directional images required (N, E, S, W)", len(views))
	}

	sorted := make([]View, len(views))
	copy(sorted, views)
	seen := make(map[string]bool, len(views))
	for i := range sorted {
		d := strings.ToUpper(strings.TrimSpace(sorted[i].Direction))
		if _, ok := viewOrder[d]; !ok {
			return nil, bazi.NewValidationErrorWithValue("direction", "must be one of N, E, S, W", sorted[i].Direction)
		}
		if seen[d] {
			return nil, bazi.NewValidationErrorWithValue("direction", "duplicate view", d)
		}
		seen[d] = true
		sorted[i].Direction = d
	}
	sort.Slice(sorted, func(i, j int) bool {
		return viewOrder[sorted[i].Direction] < viewOrder[sorted[j].Direction]
	})

	images := make([]llm.Image, len(sorted))
	for i, v := range sorted {
		images[i] = v.Image
	}
	return images, nil
}
