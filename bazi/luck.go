package bazi

import "fmt"

// Model selects the analysis depth.
type Model string

const (
	// ModelRich is hidden-stem scoring, seasonal strength, 3 lucky / 2 unlucky
	// elements and directional analysis.
	ModelRich Model = "rich"
	// ModelSimple is equal-weight counting with 2 lucky / 1 unlucky elements
	// and no directional analysis.
	ModelSimple Model = "simple"
)

// ParseModel accepts "rich" or "simple"; empty means rich.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case "", ModelRich:
		return ModelRich, nil
	case ModelSimple:
		return ModelSimple, nil
	}
	return "", fmt.Errorf("unknown analysis model %q", s)
}

// Luck is the ordered lucky and unlucky element lists. The first lucky
// element is the primary one.
type Luck struct {
	Lucky   []Element
	Unlucky []Element
}

// DeriveLuck applies the cycles to the Day Master element. A strong Day
// Master wants draining: wealth, officer, output. A weak one wants support:
// resource, peer.
func DeriveLuck(dm Element, strength Strength) Luck {
	wealth := Controls(dm)
	officer := ControlledBy(dm)
	output := Generates(dm)
	resource := GeneratedBy(dm)

	if strength == Strong {
		return Luck{
			Lucky:   []Element{wealth, officer, output},
			Unlucky: []Element{resource, dm},
		}
	}
	return Luck{
		Lucky:   []Element{resource, dm},
		Unlucky: []Element{wealth, officer},
	}
}

// DeriveLuckSimple favors the weakest element and what generates it, and
// disfavors what controls it.
func DeriveLuckSimple(balance ElementBalance) Luck {
	weakest := balance.Weakest()
	return Luck{
		Lucky:   []Element{GeneratedBy(weakest), weakest},
		Unlucky: []Element{ControlledBy(weakest)},
	}
}

// ColorRecommendation is one catalog color attributed to its element.
type ColorRecommendation struct {
	Color   string  `json:"color"`
	Code    string  `json:"code"`
	Element Element `json:"element"`
}

// ExpandColors lists every catalog color of each element, in list order then
// catalog order.
func ExpandColors(elements []Element) []ColorRecommendation {
	out := make([]ColorRecommendation, 0, len(elements)*4)
	for _, e := range elements {
		info := catalog[e]
		for i, name := range info.Colors {
			out = append(out, ColorRecommendation{Color: name, Code: info.ColorCodes[i], Element: e})
		}
	}
	return out
}
