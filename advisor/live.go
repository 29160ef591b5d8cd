package advisor

import (
	"context"

	"bazi-fengshui/llm"
)

// Live analysis subjects
const (
	LiveOutfit    = "outfit"
	LiveWorkspace = "workspace"
)

// AnalyzeLive analyzes one camera frame of a live session. Frames that
// arrive during the session's cooldown are rejected with ErrCooldown.
func (a *Advisor) AnalyzeLive(ctx context.Context, session, subject string, p llm.Profile, img llm.Image) (interface{}, error) {
	if a.cache != nil && a.cooldown > 0 && !a.cache.AcquireCooldown(ctx, session+":"+subject, a.cooldown) {
		return nil, ErrCooldown
	}
	switch subject {
	case LiveWorkspace:
		return a.AnalyzeWorkspace(ctx, p, img)
	default:
		return a.AnalyzeOutfit(ctx, p, img)
	}
}
