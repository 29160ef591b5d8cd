// Package bazi derives a Four Pillars chart from a birth date and scores it
// into lucky/unlucky elements, colors and compass directions.
//
// Every stage is a pure function over immutable inputs. The only collaborator
// is the Oracle, which converts a Gregorian date into stem/branch symbols.
package bazi

import (
	"fmt"
	"strings"
)

// Element is one of the Five Elements (Wu Xing).
type Element int

const (
	Metal Element = iota
	Wood
	Water
	Fire
	Earth
)

// AllElements lists the elements in their canonical order.
var AllElements = [5]Element{Metal, Wood, Water, Fire, Earth}

var elementNames = [5]string{"metal", "wood", "water", "fire", "earth"}

// String returns the lowercase element name.
func (e Element) String() string {
	if e < Metal || e > Earth {
		return fmt.Sprintf("element(%d)", int(e))
	}
	return elementNames[e]
}

// Valid reports whether e is one of the five elements.
func (e Element) Valid() bool {
	return e >= Metal && e <= Earth
}

// MarshalText encodes the element as its lowercase name.
func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid element %d", int(e))
	}
	return []byte(elementNames[e]), nil
}

// UnmarshalText accepts the element name in any case.
func (e *Element) UnmarshalText(text []byte) error {
	parsed, err := ParseElement(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseElement parses an element name ("wood", "Fire", ...).
func ParseElement(name string) (Element, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range elementNames {
		if candidate == n {
			return Element(i), nil
		}
	}
	return 0, fmt.Errorf("unknown element %q", name)
}

// ElementInfo is the static catalog record for an element.
// Colors and ColorCodes are parallel: ColorCodes[i] is the hex code of Colors[i].
type ElementInfo struct {
	Name        Element  `json:"name"`
	Chinese     string   `json:"chinese"`
	Symbol      string   `json:"symbol"`
	Colors      []string `json:"colors"`
	ColorCodes  []string `json:"color_codes"`
	Description string   `json:"description"`
}

var catalog = [5]ElementInfo{
	Metal: {
		Name:        Metal,
		Chinese:     "金",
		Symbol:      "🪙",
		Colors:      []string{"White", "Gold", "Silver", "Gray"},
		ColorCodes:  []string{"#FFFFFF", "#FFD700", "#C0C0C0", "#808080"},
		Description: "Metal represents strength, determination, and clarity",
	},
	Wood: {
		Name:        Wood,
		Chinese:     "木",
		Symbol:      "🌳",
		Colors:      []string{"Green", "Teal", "Emerald", "Forest Green"},
		ColorCodes:  []string{"#228B22", "#008080", "#50C878", "#228B22"},
		Description: "Wood represents growth, vitality, and creativity",
	},
	Water: {
		Name:        Water,
		Chinese:     "水",
		Symbol:      "💧",
		Colors:      []string{"Blue", "Black", "Navy", "Dark Blue"},
		ColorCodes:  []string{"#0000FF", "#000000", "#000080", "#00008B"},
		Description: "Water represents wisdom, flexibility, and intuition",
	},
	Fire: {
		Name:        Fire,
		Chinese:     "火",
		Symbol:      "🔥",
		Colors:      []string{"Red", "Orange", "Pink", "Purple"},
		ColorCodes:  []string{"#FF0000", "#FFA500", "#FFC0CB", "#800080"},
		Description: "Fire represents passion, energy, and transformation",
	},
	Earth: {
		Name:        Earth,
		Chinese:     "土",
		Symbol:      "🌍",
		Colors:      []string{"Yellow", "Brown", "Beige", "Tan"},
		ColorCodes:  []string{"#FFFF00", "#8B4513", "#F5F5DC", "#D2B48C"},
		Description: "Earth represents stability, nourishment, and balance",
	},
}

// Catalog returns a copy of the catalog record for e.
func Catalog(e Element) ElementInfo {
	info := catalog[e]
	info.Colors = append([]string(nil), info.Colors...)
	info.ColorCodes = append([]string(nil), info.ColorCodes...)
	return info
}

// Generating cycle: Wood -> Fire -> Earth -> Metal -> Water -> Wood.
var generates = [5]Element{
	Wood:  Fire,
	Fire:  Earth,
	Earth: Metal,
	Metal: Water,
	Water: Wood,
}

// Controlling cycle: Wood curbs Earth, Earth curbs Water, Water curbs Fire,
// Fire curbs Metal, Metal curbs Wood.
var controls = [5]Element{
	Wood:  Earth,
	Earth: Water,
	Water: Fire,
	Fire:  Metal,
	Metal: Wood,
}

var generatedBy, controlledBy [5]Element

func init() {
	for _, e := range AllElements {
		generatedBy[generates[e]] = e
		controlledBy[controls[e]] = e
	}
}

// Generates returns the element e produces (output).
func Generates(e Element) Element { return generates[e] }

// GeneratedBy returns the element that produces e (resource).
func GeneratedBy(e Element) Element { return generatedBy[e] }

// Controls returns the element e restrains (wealth).
func Controls(e Element) Element { return controls[e] }

// ControlledBy returns the element that restrains e (officer).
func ControlledBy(e Element) Element { return controlledBy[e] }

// Title returns the capitalized element name ("Wood").
func (e Element) Title() string {
	s := e.String()
	return strings.ToUpper(s[:1]) + s[1:]
}
