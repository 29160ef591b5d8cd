package bazi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EightChar is the raw oracle output: stem and branch glyphs for each pillar.
// The hour fields are empty when no time was supplied.
type EightChar struct {
	YearStem    string
	YearBranch  string
	MonthStem   string
	MonthBranch string
	DayStem     string
	DayBranch   string
	HourStem    string
	HourBranch  string
}

// Oracle converts a Gregorian date into sexagenary designations.
// Implementations return an error matching ErrUnsupportedDate for dates
// outside their calendar range.
type Oracle interface {
	SolarToLunar(year, month, day int) (EightChar, error)
	SolarToLunarWithTime(year, month, day, hour int) (EightChar, error)
}

// Date is a validated Gregorian calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// ParseDate parses a YYYY-MM-DD birth date, rejecting impossible dates.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, NewValidationError("birthDate", "is required")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, NewValidationErrorWithValue("birthDate", "must be a valid YYYY-MM-DD date", s)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

// ParseHour parses HH, HH:MM or HH:MM:SS and returns the hour. An empty
// string means no time was supplied and yields nil. Minutes only have to be
// valid; the chart has hour-branch granularity.
func ParseHour(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return nil, NewValidationErrorWithValue("birthTime", "must be HH, HH:MM or HH:MM:SS", s)
	}
	limits := []int{23, 59, 59}
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || len(p) == 0 || len(p) > 2 || v < 0 || v > limits[i] {
			return nil, NewValidationErrorWithValue("birthTime", "must be HH, HH:MM or HH:MM:SS", s)
		}
		values[i] = v
	}
	hour := values[0]
	return &hour, nil
}

// Pillar is one stem/branch pair with its derived element tags.
type Pillar struct {
	Stem          string  `json:"stem"`
	StemPinyin    string  `json:"stem_pinyin"`
	Branch        string  `json:"branch"`
	BranchPinyin  string  `json:"branch_pinyin"`
	StemElement   Element `json:"stem_element"`
	BranchElement Element `json:"branch_element"`

	stem   Stem
	branch Branch
}

// NewPillar builds a pillar from oracle glyphs.
func NewPillar(stemSymbol, branchSymbol string) (Pillar, error) {
	s, err := LookupStem(stemSymbol)
	if err != nil {
		return Pillar{}, err
	}
	b, err := LookupBranch(branchSymbol)
	if err != nil {
		return Pillar{}, err
	}
	return pillarOf(s, b), nil
}

func pillarOf(s Stem, b Branch) Pillar {
	return Pillar{
		Stem:          s.Symbol(),
		StemPinyin:    s.Pinyin(),
		Branch:        b.Symbol(),
		BranchPinyin:  b.Pinyin(),
		StemElement:   s.Element(),
		BranchElement: b.Element(),
		stem:          s,
		branch:        b,
	}
}

// UnmarshalJSON re-resolves the glyphs so a decoded pillar is fully usable.
func (p *Pillar) UnmarshalJSON(data []byte) error {
	var raw struct {
		Stem   string `json:"stem"`
		Branch string `json:"branch"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := NewPillar(raw.Stem, raw.Branch)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// StemValue returns the pillar's stem.
func (p Pillar) StemValue() Stem { return p.stem }

// BranchValue returns the pillar's branch.
func (p Pillar) BranchValue() Branch { return p.branch }

// Chart is the Four Pillars chart. Hour is nil when no birth time was given.
type Chart struct {
	Year  Pillar  `json:"year"`
	Month Pillar  `json:"month"`
	Day   Pillar  `json:"day"`
	Hour  *Pillar `json:"hour"`
}

// Pillars returns the present pillars in Year, Month, Day[, Hour] order.
func (c Chart) Pillars() []Pillar {
	out := []Pillar{c.Year, c.Month, c.Day}
	if c.Hour != nil {
		out = append(out, *c.Hour)
	}
	return out
}

// DayMaster returns the stem of the day pillar.
func (c Chart) DayMaster() Stem { return c.Day.stem }

// BuildChart asks the oracle for the date pillars and, when hour is non-nil,
// asks again with the hour for the hour pillar.
func BuildChart(oracle Oracle, date Date, hour *int) (Chart, error) {
	ec, err := oracle.SolarToLunar(date.Year, date.Month, date.Day)
	if err != nil {
		return Chart{}, wrapOracleError(date, err)
	}

	var chart Chart
	if chart.Year, err = NewPillar(ec.YearStem, ec.YearBranch); err != nil {
		return Chart{}, fmt.Errorf("year pillar: %w", err)
	}
	if chart.Month, err = NewPillar(ec.MonthStem, ec.MonthBranch); err != nil {
		return Chart{}, fmt.Errorf("month pillar: %w", err)
	}
	if chart.Day, err = NewPillar(ec.DayStem, ec.DayBranch); err != nil {
		return Chart{}, fmt.Errorf("day pillar: %w", err)
	}

	if hour != nil {
		if *hour < 0 || *hour > 23 {
			return Chart{}, NewValidationErrorWithValue("birthTime", "hour must be between 0 and 23", *hour)
		}
		ect, err := oracle.SolarToLunarWithTime(date.Year, date.Month, date.Day, *hour)
		if err != nil {
			return Chart{}, wrapOracleError(date, err)
		}
		hp, err := NewPillar(ect.HourStem, ect.HourBranch)
		if err != nil {
			return Chart{}, fmt.Errorf("hour pillar: %w", err)
		}
		chart.Hour = &hp
	}

	return chart, nil
}

func wrapOracleError(date Date, err error) error {
	if errors.Is(err, ErrUnsupportedDate) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("calendar oracle failed for %s: %w", date, err)
}
