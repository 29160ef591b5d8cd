package advisor

import (
	"encoding/json"
	"strings"

	"bazi-fengshui/bazi"
	"bazi-fengshui/llm"
)

// ColorNames decodes either plain color names or color recommendation
// objects ({"color": "Green", ...}).
type ColorNames []string

// UnmarshalJSON accepts ["Green"] and [{"color":"Green"}].
func (c *ColorNames) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	names := make(ColorNames, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			names = append(names, name)
			continue
		}
		var rec struct {
			Color string `json:"color"`
		}
		if err := json.Unmarshal(item, &rec); err != nil {
			return err
		}
		names = append(names, rec.Color)
	}
	*c = names
	return nil
}

type primaryDirection struct {
	PrimaryDirection string `json:"primary_direction"`
}

// DirectionsInput is the part of a returned directional_analysis the
// prompts use.
type DirectionsInput struct {
	SittingDirection primaryDirection `json:"sitting_direction"`
	DeskPosition     primaryDirection `json:"desk_position"`
	WealthCorner     struct {
		Direction string `json:"direction"`
	} `json:"wealth_corner"`
}

// ProfileInput is how callers describe the person: a birth date to analyze,
// or colors from an earlier reading.
type ProfileInput struct {
	BirthDate     string     `json:"birthDate,omitempty"`
	BirthTime     string     `json:"birthTime,omitempty"`
	DayMaster     string     `json:"dayMaster,omitempty"`
	LuckyColors   ColorNames `json:"luckyColors,omitempty"`
	UnluckyColors ColorNames `json:"unluckyColors,omitempty"`

	DirectionalAnalysis *DirectionsInput `json:"directionalAnalysis,omitempty"`
}

// Resolve builds the prompt profile. A birth date takes precedence over
// supplied colors; directional adds the personal directions.
func (in ProfileInput) Resolve(engine *bazi.Engine, directional bool) (llm.Profile, error) {
	if strings.TrimSpace(in.BirthDate) != "" && engine != nil {
		an, err := engine.Analyze(bazi.Request{
			BirthDate:   in.BirthDate,
			BirthTime:   in.BirthTime,
			Directional: directional,
		})
		if err != nil {
			return llm.Profile{}, err
		}
		return ProfileFromAnalysis(an), nil
	}
	p := llm.Profile{
		DayMaster:     in.DayMaster,
		LuckyColors:   in.LuckyColors,
		UnluckyColors: in.UnluckyColors,
	}
	if d := in.DirectionalAnalysis; d != nil && directional {
		p.Directions = &llm.DirectionHints{
			Sitting:      d.SittingDirection.PrimaryDirection,
			Desk:         d.DeskPosition.PrimaryDirection,
			WealthCorner: d.WealthCorner.Direction,
		}
	}
	return p, nil
}
