package llm

import (
	"fmt"
	"strings"
)

const notSpecified = "Not specified"

// Profile is the part of a BaZi reading the prompts need.
type Profile struct {
	DayMaster     string
	LuckyColors   []string
	UnluckyColors []string
	Directions    *DirectionHints
}

// DirectionHints are the personal directions of a rich analysis.
type DirectionHints struct {
	Sitting      string
	Desk         string
	WealthCorner string
}

// Report subjects for SpeechScriptPrompt
const (
	SubjectOutfit    = "outfit"
	SubjectWorkspace = "workspace"
)

// flyingStars2026 is the annual Flying Star chart and remedies for the
// Fire Horse year.
const flyingStars2026 = `
## 2026 Year of the Fire Horse (火马年) - Workspace Feng Shui Guide

### Flying Stars Chart for 2026 (九宫飞星图):
| Direction | Star | Theme | Auspicious Element/Colors |
|-----------|------|-------|---------------------------|
| East (E) | 8 White Star (八白) | Wealth Position (财位) - Build Good Relationships | Fire: Red, Orange |
| West (W) | 3 Jade Star (三碧) | Gain Wealth and Profit | Water: Blue, Black |
| Southeast (SE) | 9 Purple Star (九紫) | Celebration (喜庆) - Explore Proactively | Wood: Green |
| Northeast (NE) | 4 Dark Green Star (四绿) | Academic/Peach Blossom (文昌/桃花) - Advance Steadily | Water: Blue, Black |
| Southwest (SW) | 7 Scarlet Star (七赤) | Stay Composed and Focused | Water: Blue, Black |
| South (S) | 5 Yellow Star (五黄) | DISASTER STAR - Pay Attention to Safety | Metal: White, Gold (to weaken) |
| North (N) | 6 White Star (六白) | Nobleman (贵人) - Keep Calm and Be Patient | Water: Blue, Black |
| Northwest (NW) | 2 Black Star (二黑) | Illness Star - Treat Others Sincerely | Metal: White, Gold (to weaken) |
| Center | 1 White Star (一白) | Career Growth Potential | |

### Inauspicious Positions to Avoid or Remedy:
- Five Yellow Disaster Star (五黄): South - avoid sitting here, use metal objects to weaken
- Two Black Illness Star (二黑): Northwest - avoid if health is weak
- Grand Duke (太岁): South - do not face or sit with your back to this direction
- Sui Po (岁破) and Three Killing (三煞): North - do not sit with your back to North

### Workspace Principles:
1. Desk position: back to a solid wall, open view in front
2. Avoid sitting with your back to the door, under beams, or facing sharp corners
3. Keep the wealth corner clean and bright, with water features or plants
4. Colors by element:
   - Metal (金): White, Gold, Silver - precision, clarity
   - Wood (木): Green, Teal - growth, vitality
   - Water (水): Blue, Black - wisdom, flow
   - Fire (火): Red, Orange, Pink - passion, energy
   - Earth (土): Yellow, Brown, Beige - stability, grounding
`

func joinOr(values []string) string {
	if len(values) == 0 {
		return notSpecified
	}
	return strings.Join(values, ", ")
}

func writeProfile(sb *strings.Builder, p Profile, withDayMaster bool) {
	sb.WriteString("## User's BaZi Profile:\n")
	if withDayMaster {
		dm := p.DayMaster
		if dm == "" {
			dm = "Unknown"
		}
		fmt.Fprintf(sb, "- Day Master: %s\n", dm)
	}
	fmt.Fprintf(sb, "- Lucky Colors: %s\n", joinOr(p.LuckyColors))
	fmt.Fprintf(sb, "- Colors to Avoid: %s\n", joinOr(p.UnluckyColors))
	if d := p.Directions; d != nil {
		sb.WriteString("\nUser's Personal Feng Shui Directions:\n")
		fmt.Fprintf(sb, "- Best Sitting Direction: Face %s\n", orNotSpecified(d.Sitting))
		fmt.Fprintf(sb, "- Best Desk Position: %s sector\n", orNotSpecified(d.Desk))
		fmt.Fprintf(sb, "- Wealth Corner: %s\n", orNotSpecified(d.WealthCorner))
	}
	sb.WriteString("\n")
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

// OutfitAnalysisPrompt asks for a structured verdict on an outfit photo.
func OutfitAnalysisPrompt(p Profile) string {
	var sb strings.Builder
	sb.Grow(1536)

	sb.WriteString("You are a Feng Shui fashion advisor analyzing an outfit photo.\n\n")
	fmt.Fprintf(&sb, "The user's lucky colors based on their BaZi (八字) analysis are: %s\n", joinOr(p.LuckyColors))
	fmt.Fprintf(&sb, "The colors they should avoid are: %s\n\n", joinOr(p.UnluckyColors))
	sb.WriteString("Please analyze the outfit in the image and provide:\n")
	sb.WriteString("1. A brief description of the colors visible in the outfit\n")
	sb.WriteString("2. How well the outfit aligns with their lucky colors (excellent/good/neutral/poor)\n")
	sb.WriteString("3. Specific suggestions for improvement based on Five Elements (五行) principles\n")
	sb.WriteString("4. Which element (Metal/Wood/Water/Fire/Earth) the outfit currently represents\n\n")
	sb.WriteString(`Respond in JSON format:
{
  "analysis": "Brief friendly analysis of the outfit",
  "detectedColors": ["color1", "color2"],
  "colorMatch": "excellent|good|neutral|poor",
  "suggestions": ["suggestion1", "suggestion2"],
  "elementAlignment": "Description of element alignment"
}`)
	return sb.String()
}

// OutfitReportPrompt asks for a long-form markdown report on an outfit.
func OutfitReportPrompt(p Profile) string {
	var sb strings.Builder
	sb.Grow(2048)

	sb.WriteString("You are a master Feng Shui consultant who combines ancient Chinese wisdom with modern science. Generate an entertaining yet educational outfit analysis report.\n\n")
	writeProfile(&sb, p, true)
	sb.WriteString(`## Your Task:
Analyze the outfit in this image and write a FUN, ENGAGING report that:

1. **Opens with personality** - Start with a witty observation about the outfit
2. **Explains the science** - BaZi (八字) is based on the Chinese calendar's cyclical patterns. The Five Elements (五行) - Metal, Wood, Water, Fire, Earth - represent different energy types.
3. **Analyze what you see** - Describe the colors in the outfit and which elements they represent
4. **Give the verdict** - How well does this outfit align with the user's elemental needs? Be specific!
5. **Practical tips** - Give 2-3 specific, actionable suggestions
6. **Fun closing** - End with an encouraging or humorous note

## Format Guidelines:
- Use markdown formatting with headers
- Keep paragraphs short and punchy
- Include relevant emojis sparingly
- Total length: 300-400 words
- Tone: Like a knowledgeable friend who's fun at parties

Write the report now:`)
	return sb.String()
}

// WorkspaceAnalysisPrompt asks for a structured verdict on one workspace photo.
func WorkspaceAnalysisPrompt(p Profile) string {
	var sb strings.Builder
	sb.Grow(4096)

	sb.WriteString("You are a professional Feng Shui consultant analyzing a workspace photo based on 2026 Flying Star Feng Shui principles.\n")
	sb.WriteString(flyingStars2026)
	sb.WriteString("\n")
	writeProfile(&sb, p, false)
	sb.WriteString(`## Your Task:
Analyze this workspace photo and provide Feng Shui recommendations based on:

1. **Visible Elements Analysis**: colors, objects, plants and furniture arrangement
2. **2026 Flying Star Assessment**: does the workspace align with 2026 auspicious positions?
3. **Color Harmony**: how well do the workspace colors match the user's lucky colors?
4. **Feng Shui Issues**: clutter, sharp corners pointing at the desk, blocked energy flow
5. **Specific Recommendations**: 2-3 actionable tips

Respond in JSON format:
{
  "analysis": "Brief overall workspace Feng Shui assessment (2-3 sentences)",
  "detectedColors": ["color1", "color2", "color3"],
  "colorMatch": "excellent|good|neutral|poor",
  "reason": "Brief reason for the rating (max 15 words)",
  "flyingStarNotes": "Brief note about 2026 Flying Star relevance (1 sentence)",
  "suggestions": ["Suggestion 1", "Suggestion 2", "Suggestion 3"],
  "elementAlignment": "Which Five Elements are dominant in this workspace"
}

IMPORTANT: Keep analysis concise and practical.`)
	return sb.String()
}

// WorkspaceStreamPrompt asks for short conversational feedback suited to
// streaming.
func WorkspaceStreamPrompt(p Profile) string {
	var sb strings.Builder
	sb.Grow(3072)

	sb.WriteString("You are a friendly Feng Shui consultant giving live feedback on a workspace photo.\n")
	sb.WriteString(flyingStars2026)
	sb.WriteString("\n")
	writeProfile(&sb, p, false)
	sb.WriteString(`Give real-time, conversational feedback about:
1. What you see and which elements dominate
2. How well the colors match the lucky colors
3. The single most important 2026 Flying Star adjustment
4. Two quick fixes

Keep it brief and encouraging. No JSON, no markdown tables.`)
	return sb.String()
}

// WorkspaceReportPrompt asks for a long-form workspace report over one
// photo or, with is360, four directional photos.
func WorkspaceReportPrompt(p Profile, is360 bool) string {
	var sb strings.Builder
	sb.Grow(4096)

	sb.WriteString("You are a master Feng Shui consultant creating a comprehensive workspace analysis report based on 2026 Flying Star principles.\n")
	sb.WriteString(flyingStars2026)
	sb.WriteString("\n")
	writeProfile(&sb, p, false)
	sb.WriteString("## Your Task:\n")
	if is360 {
		sb.WriteString("You are analyzing 4 images showing all cardinal directions (North, East, South, West) of the workspace, in that order.\n\n")
	} else {
		sb.WriteString("You are analyzing a single workspace photo.\n\n")
	}
	sb.WriteString(`Write a COMPREHENSIVE, PROFESSIONAL Feng Shui report with these sections:

### 1. Executive Summary 🏢
### 2. What I Observed 👁️
### 3. 2026 Flying Star Analysis ⭐
### 4. Element Balance Analysis ⚖️
### 5. Color Harmony Report 🎨
### 6. Priority Recommendations 📋 (5-7 changes ranked by importance, with why)
### 7. Quick Wins ✨ (3 simple changes for today)
### 8. Final Verdict 🎯

## Format Guidelines:
- Use markdown headers and bullet points
- Be specific and reference actual items you see
- Total length: 600-800 words
- Tone: professional yet approachable

Write the comprehensive report now:`)
	return sb.String()
}

// Workspace360Prompt asks for a combined structured analysis of four
// directional photos ordered N, E, S, W.
func Workspace360Prompt(p Profile) string {
	var sb strings.Builder
	sb.Grow(5120)

	sb.WriteString("You are a master Feng Shui consultant performing a comprehensive 360-degree workspace analysis based on 2026 Flying Star principles.\n\n")
	sb.WriteString("You have been provided 4 images showing the workspace from each cardinal direction:\n")
	sb.WriteString("- NORTH view: First image\n- EAST view: Second image\n- SOUTH view: Third image\n- WEST view: Fourth image\n")
	sb.WriteString(flyingStars2026)
	sb.WriteString("\n")
	writeProfile(&sb, p, false)
	sb.WriteString(`## Your Task:
Synthesize observations from ALL FOUR directions:
1. **Overall Assessment** - rate the complete workspace
2. **Direction-by-Direction** - what is in each direction and its 2026 Flying Star implications
3. **Element Balance** - distribution of the Five Elements across the space
4. **Prioritized Actions** - top 5 most impactful changes

Respond in JSON format:
{
  "overallScore": "excellent|good|neutral|poor",
  "overallAnalysis": ["Key point 1", "Key point 2", "Key point 3"],
  "directionBreakdown": [
    {
      "direction": "N",
      "observations": ["Item 1", "Item 2"],
      "score": "excellent|good|neutral|poor",
      "flyingStarNote": "Brief 2026 Flying Star note",
      "recommendations": ["Action 1", "Action 2"]
    }
  ],
  "elementBalance": [
    {"element": "Wood", "percentage": 20, "location": "East wall plants"}
  ],
  "prioritizedRecommendations": ["Most impactful change", "Second", "Third", "Fourth", "Fifth"],
  "flyingStarInsights": ["Insight 1", "Insight 2", "Insight 3"]
}

Include one directionBreakdown entry for each of N, E, S and W, and all five elements in elementBalance.
Use SHORT bullet points (max 15 words each). No paragraph text.`)
	return sb.String()
}

// SpeechScriptPrompt turns a written report into a lively spoken script.
func SpeechScriptPrompt(report, subject string) string {
	if subject != SubjectWorkspace {
		subject = SubjectOutfit
	}

	var sb strings.Builder
	sb.Grow(2048 + len(report))

	fmt.Fprintf(&sb, "You are a fun, lively Feng Shui consultant from Singapore! Convert this %s Feng Shui report into a SINGLISH speech script - entertaining, humorous, and full of personality!\n\n", subject)
	sb.WriteString(`## Singlish style guide:
- Use Singlish particles naturally: "lah", "lor", "leh", "mah", "sia", "hor", "ah"
- Add expressions like "Wah!", "Aiyo!", "Walao!", "Steady lah!", "Can can!"
- Be dramatic and expressive, like a kopitiam uncle or auntie giving advice
- Light teasing and relatable humor

## Content guidelines:
- Speak directly using "you" and "your"
- Keep it 60-90 seconds (about 150-200 words)
- Highlight the 3-4 most important findings and give 2-3 recommendations
- End with encouragement
- Do NOT use markdown, bullet points, or special characters
- Do NOT say "according to the report"; you ARE the expert

`)
	sb.WriteString("## Report to convert:\n")
	sb.WriteString(report)
	sb.WriteString("\n\n## Your entertaining Singlish speech script:")
	return sb.String()
}

// SpeechDirection prefixes a script with delivery instructions for the
// speech model.
func SpeechDirection(script string) string {
	return "Say in an energetic, lively, and expressive voice with natural pauses: " + script
}
