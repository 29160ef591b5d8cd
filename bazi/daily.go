package bazi

import (
	"errors"
	"fmt"
	"time"
)

// DayAlignment describes how a calendar day relates to a chart.
type DayAlignment string

const (
	DayAligned  DayAlignment = "aligned"
	DayClashing DayAlignment = "clashing"
	DayBalanced DayAlignment = "balanced"
)

// DailyRecommendation is the color advice for one calendar day.
type DailyRecommendation struct {
	Date           string                `json:"date"`
	DayStem        string                `json:"day_stem"`
	DayElement     Element               `json:"day_element"`
	Alignment      DayAlignment          `json:"alignment"`
	Recommendation string                `json:"recommendation"`
	LuckyColors    []ColorRecommendation `json:"lucky_colors"`
	UnluckyColors  []ColorRecommendation `json:"unlucky_colors"`
}

// Daily compares the day stem of targetDate with the analysis' lucky and
// unlucky elements. An empty targetDate means the date of now.
func (e *Engine) Daily(a *Analysis, targetDate string, now time.Time) (*DailyRecommendation, error) {
	if a == nil || len(a.LuckyElements) == 0 {
		return nil, errors.New("daily recommendation needs an analysis with lucky elements")
	}
	if targetDate == "" {
		targetDate = now.Format("2006-01-02")
	}
	date, err := ParseDate(targetDate)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Field = "targetDate"
		}
		return nil, err
	}

	ec, err := e.oracle.SolarToLunar(date.Year, date.Month, date.Day)
	if err != nil {
		return nil, wrapOracleError(date, err)
	}
	stem, err := LookupStem(ec.DayStem)
	if err != nil {
		return nil, fmt.Errorf("day stem: %w", err)
	}

	dayElement := stem.Element()
	primary := catalog[a.LuckyElements[0]].Colors[0]
	rec := &DailyRecommendation{
		Date:          date.String(),
		DayStem:       stem.Symbol(),
		DayElement:    dayElement,
		LuckyColors:   a.LuckyColors,
		UnluckyColors: a.UnluckyColors,
	}

	switch {
	case containsElement(a.LuckyElements, dayElement):
		rec.Alignment = DayAligned
		rec.Recommendation = fmt.Sprintf("Today aligns with your chart! Great day for %s.", catalog[dayElement].Colors[0])
	case containsElement(a.UnluckyElements, dayElement):
		rec.Alignment = DayClashing
		rec.Recommendation = fmt.Sprintf("Balance today with %s colors.", primary)
	default:
		rec.Alignment = DayBalanced
		rec.Recommendation = fmt.Sprintf("Balanced day. Enhance with %s.", primary)
	}
	return rec, nil
}
