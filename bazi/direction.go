package bazi

import (
	"fmt"
	"sort"
	"strings"
)

// Direction is one of the eight Bagua compass sectors.
type Direction string

const (
	North     Direction = "N"
	Northeast Direction = "NE"
	East      Direction = "E"
	Southeast Direction = "SE"
	South     Direction = "S"
	Southwest Direction = "SW"
	West      Direction = "W"
	Northwest Direction = "NW"
)

// DirectionInfo is the static Bagua record of a sector.
type DirectionInfo struct {
	Direction  Direction `json:"direction"`
	Name       string    `json:"name"`
	Trigram    string    `json:"trigram"`
	Element    Element   `json:"element"`
	Attributes []string  `json:"attributes"`
}

// Later Heaven arrangement, in clockwise order from North. This order also
// breaks score ties.
var directions = [8]DirectionInfo{
	{North, "North", "坎 Kan", Water, []string{"career", "life path"}},
	{Northeast, "Northeast", "艮 Gen", Earth, []string{"knowledge", "self-cultivation"}},
	{East, "East", "震 Zhen", Wood, []string{"family", "health", "growth"}},
	{Southeast, "Southeast", "巽 Xun", Wood, []string{"wealth", "abundance"}},
	{South, "South", "离 Li", Fire, []string{"fame", "reputation"}},
	{Southwest, "Southwest", "坤 Kun", Earth, []string{"relationships", "partnership"}},
	{West, "West", "兑 Dui", Metal, []string{"creativity", "children"}},
	{Northwest, "Northwest", "乾 Qian", Metal, []string{"helpful people", "leadership", "travel"}},
}

// Directions returns the eight sectors in table order.
func Directions() []DirectionInfo {
	out := make([]DirectionInfo, len(directions))
	for i, d := range directions {
		d.Attributes = append([]string(nil), d.Attributes...)
		out[i] = d
	}
	return out
}

// LookupDirection returns the Bagua record of d.
func LookupDirection(d Direction) (DirectionInfo, bool) {
	for _, info := range directions {
		if info.Direction == d {
			return info, true
		}
	}
	return DirectionInfo{}, false
}

const (
	primaryLuckyScore = 100
	luckyScore        = 70
	unluckyScore      = -50
	neutralScore      = 30

	sittingBonus = 20
	deskBonus    = 15

	alternateCount = 3
)

// Sectors favored for career and growth when choosing where to face.
var sittingBonusSectors = map[Direction]bool{North: true, East: true, Southeast: true}

// Sectors that give a commanding desk position.
var deskBonusSectors = map[Direction]bool{Northwest: true, South: true}

// wealthCornerSector is the Wood sector governing wealth.
const wealthCornerSector = Southeast

// Tier is the qualitative label of a recommendation's top score.
type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierModerate  Tier = "moderate"
)

func tierOf(score int) Tier {
	switch {
	case score >= 100:
		return TierExcellent
	case score >= 70:
		return TierGood
	default:
		return TierModerate
	}
}

// DirectionScore is one sector's score in a scoring pass.
type DirectionScore struct {
	Direction Direction `json:"direction"`
	Element   Element   `json:"element"`
	Score     int       `json:"score"`
}

// DirectionalRecommendation is the outcome of one scoring pass.
type DirectionalRecommendation struct {
	PrimaryDirection    Direction        `json:"primary_direction"`
	AlternateDirections []Direction      `json:"alternate_directions"`
	Element             Element          `json:"element"`
	Strength            Tier             `json:"strength"`
	Reason              string           `json:"reason"`
	Scores              []DirectionScore `json:"scores"`
}

// WealthCornerRecommendation is the fixed wealth sector with advice keyed
// on the lucky elements.
type WealthCornerRecommendation struct {
	Direction         Direction             `json:"direction"`
	Element           Element               `json:"element"`
	EnhancementColors []ColorRecommendation `json:"enhancement_colors"`
	Items             []string              `json:"items"`
	Advice            string                `json:"advice"`
	Template          Element               `json:"template"`
	Generic           bool                  `json:"generic"`
}

// DirectionalAnalysis groups the three spatial recommendations.
type DirectionalAnalysis struct {
	SittingDirection DirectionalRecommendation  `json:"sitting_direction"`
	DeskPosition     DirectionalRecommendation  `json:"desk_position"`
	WealthCorner     WealthCornerRecommendation `json:"wealth_corner"`
}

// RecommendDirections scores all eight sectors against the lucky and
// unlucky elements twice, once with the sitting bonuses and once with the
// desk bonuses, and picks the wealth-corner template.
func RecommendDirections(lucky, unlucky []Element) DirectionalAnalysis {
	return DirectionalAnalysis{
		SittingDirection: recommend(lucky, unlucky, sittingBonusSectors, sittingBonus, "face"),
		DeskPosition:     recommend(lucky, unlucky, deskBonusSectors, deskBonus, "desk"),
		WealthCorner:     wealthCorner(lucky),
	}
}

// BaseScore is the bonus-free score of a sector element.
func BaseScore(e Element, lucky, unlucky []Element) int {
	for i, l := range lucky {
		if l == e {
			if i == 0 {
				return primaryLuckyScore
			}
			return luckyScore
		}
	}
	for _, u := range unlucky {
		if u == e {
			return unluckyScore
		}
	}
	return neutralScore
}

func recommend(lucky, unlucky []Element, bonusSectors map[Direction]bool, bonus int, purpose string) DirectionalRecommendation {
	scores := make([]DirectionScore, len(directions))
	for i, d := range directions {
		score := BaseScore(d.Element, lucky, unlucky)
		if bonusSectors[d.Direction] {
			score += bonus
		}
		scores[i] = DirectionScore{Direction: d.Direction, Element: d.Element, Score: score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	top := scores[0]
	alternates := make([]Direction, 0, alternateCount)
	for _, s := range scores[1 : 1+alternateCount] {
		alternates = append(alternates, s.Direction)
	}

	return DirectionalRecommendation{
		PrimaryDirection:    top.Direction,
		AlternateDirections: alternates,
		Element:             top.Element,
		Strength:            tierOf(top.Score),
		Reason:              directionReason(top, lucky, purpose),
		Scores:              scores,
	}
}

func directionReason(top DirectionScore, lucky []Element, purpose string) string {
	info, _ := LookupDirection(top.Direction)
	var role string
	switch {
	case len(lucky) > 0 && lucky[0] == top.Element:
		role = "your primary lucky element"
	case containsElement(lucky, top.Element):
		role = "one of your lucky elements"
	default:
		role = "the most balanced option for your chart"
	}
	themes := strings.Join(info.Attributes, " and ")
	if purpose == "desk" {
		return fmt.Sprintf("Placing your desk in the %s sector draws on %s energy, %s, and supports %s.",
			info.Name, top.Element.Title(), role, themes)
	}
	return fmt.Sprintf("Facing %s channels %s energy, %s, and supports %s.",
		info.Name, top.Element.Title(), role, themes)
}

type wealthTemplate struct {
	items  []string
	advice string
}

var wealthTemplates = map[Element]wealthTemplate{
	Wood: {
		items:  []string{"Healthy green plants", "Bamboo", "Wooden desk accessories"},
		advice: "Wood is one of your lucky elements, so the wealth corner is doubly supportive. Keep lush green plants here and let them grow upward.",
	},
	Water: {
		items:  []string{"Small water fountain", "Aquarium", "Blue or black decor"},
		advice: "Water feeds the Wood of the wealth corner and is lucky for you. A small moving-water feature here keeps income flowing.",
	},
	Fire: {
		items:  []string{"Warm desk lamp", "Red or purple accents", "Candles"},
		advice: "Fire is lucky for you. Keep the wealth corner bright with warm lighting and a touch of red or purple to activate it.",
	},
}

var genericWealthTemplate = wealthTemplate{
	items:  []string{"A small potted plant", "Clean, uncluttered surface", "Good lighting"},
	advice: "Keep the wealth corner clean and bright. A small plant boosts its Wood energy without clashing with your chart.",
}

func wealthCorner(lucky []Element) WealthCornerRecommendation {
	info, _ := LookupDirection(wealthCornerSector)
	rec := WealthCornerRecommendation{Direction: info.Direction, Element: info.Element}

	for _, e := range []Element{Wood, Water, Fire} {
		if containsElement(lucky, e) {
			t := wealthTemplates[e]
			rec.Items = append([]string(nil), t.items...)
			rec.Advice = t.advice
			rec.Template = e
			rec.EnhancementColors = ExpandColors([]Element{e})
			return rec
		}
	}

	rec.Items = append([]string(nil), genericWealthTemplate.items...)
	rec.Advice = genericWealthTemplate.advice
	rec.Template = Wood
	rec.Generic = true
	rec.EnhancementColors = ExpandColors([]Element{Wood})
	return rec
}

func containsElement(list []Element, e Element) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}
