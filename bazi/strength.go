package bazi

import "fmt"

// Strength is the Day Master classification.
type Strength int

const (
	Weak Strength = iota
	Strong
)

func (s Strength) String() string {
	if s == Strong {
		return "strong"
	}
	return "weak"
}

// MarshalText encodes the strength as "strong" or "weak".
func (s Strength) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes "strong" or "weak".
func (s *Strength) UnmarshalText(text []byte) error {
	switch string(text) {
	case "strong":
		*s = Strong
	case "weak":
		*s = Weak
	default:
		return fmt.Errorf("unknown strength %q", text)
	}
	return nil
}

// Seasonal and balance weights of the strength heuristic.
const (
	inSeasonBonus         = 30.0
	resourceInSeasonBonus = 20.0
	controllerInSeason    = 20.0

	peerWeight     = 2.0
	resourceWeight = 1.5
	wealthWeight   = 1.5
	officerWeight  = 2.0
	outputWeight   = 1.0
)

// StrengthReport explains a classification.
type StrengthReport struct {
	Strength Strength `json:"strength"`
	Season   Element  `json:"season_element"`
	Support  float64  `json:"support_score"`
	Drain    float64  `json:"drain_score"`
}

// ClassifyStrength weighs seasonal and balance support for the Day Master
// against wealth, officer and output drain. Ties are Strong.
func ClassifyStrength(dm Element, monthBranch Branch, balance ElementBalance) StrengthReport {
	var support, drain float64

	season := monthBranch.Season()
	switch season {
	case dm:
		support += inSeasonBonus
	case GeneratedBy(dm):
		support += resourceInSeasonBonus
	case ControlledBy(dm):
		drain += controllerInSeason
	}

	support += float64(balance.Of(dm)) * peerWeight
	support += float64(balance.Of(GeneratedBy(dm))) * resourceWeight

	drain += float64(balance.Of(Controls(dm))) * wealthWeight
	drain += float64(balance.Of(ControlledBy(dm))) * officerWeight
	drain += float64(balance.Of(Generates(dm))) * outputWeight

	strength := Weak
	if support >= drain {
		strength = Strong
	}
	return StrengthReport{Strength: strength, Season: season, Support: support, Drain: drain}
}
