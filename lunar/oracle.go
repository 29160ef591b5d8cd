// Package lunar adapts the 6tail lunar calendar to the bazi.Oracle interface.
package lunar

import (
	"fmt"

	"github.com/6tail/lunar-go/calendar"

	"bazi-fengshui/bazi"
)

// Years outside this range are rejected before reaching the calendar library.
const (
	MinYear = 1900
	MaxYear = 2100
)

// Oracle converts Gregorian dates to sexagenary eight characters.
type Oracle struct{}

// New returns a ready oracle. It holds no state and is safe for concurrent use.
func New() *Oracle {
	return &Oracle{}
}

var _ bazi.Oracle = (*Oracle)(nil)

// SolarToLunar returns the year, month and day pillars of a date.
func (o *Oracle) SolarToLunar(year, month, day int) (ec bazi.EightChar, err error) {
	if err := checkRange(year, month, day); err != nil {
		return bazi.EightChar{}, err
	}
	defer recoverUnsupported(year, month, day, &err)

	chars := calendar.NewSolarFromYmd(year, month, day).GetLunar().GetEightChar()
	return bazi.EightChar{
		YearStem:    chars.GetYearGan(),
		YearBranch:  chars.GetYearZhi(),
		MonthStem:   chars.GetMonthGan(),
		MonthBranch: chars.GetMonthZhi(),
		DayStem:     chars.GetDayGan(),
		DayBranch:   chars.GetDayZhi(),
	}, nil
}

// SolarToLunarWithTime also fills the hour pillar. Minutes do not change
// the hour pillar, so the conversion runs at the top of the hour.
func (o *Oracle) SolarToLunarWithTime(year, month, day, hour int) (ec bazi.EightChar, err error) {
	if err := checkRange(year, month, day); err != nil {
		return bazi.EightChar{}, err
	}
	if hour < 0 || hour > 23 {
		return bazi.EightChar{}, bazi.NewValidationErrorWithValue("birthTime", "hour must be between 0 and 23", hour)
	}
	defer recoverUnsupported(year, month, day, &err)

	chars := calendar.NewSolar(year, month, day, hour, 0, 0).GetLunar().GetEightChar()
	return bazi.EightChar{
		YearStem:    chars.GetYearGan(),
		YearBranch:  chars.GetYearZhi(),
		MonthStem:   chars.GetMonthGan(),
		MonthBranch: chars.GetMonthZhi(),
		DayStem:     chars.GetDayGan(),
		DayBranch:   chars.GetDayZhi(),
		HourStem:    chars.GetTimeGan(),
		HourBranch:  chars.GetTimeZhi(),
	}, nil
}

func checkRange(year, month, day int) error {
	if year < MinYear || year > MaxYear {
		return &bazi.UnsupportedDateError{
			Year: year, Month: month, Day: day,
			Err: fmt.Errorf("year outside %d-%d", MinYear, MaxYear),
		}
	}
	return nil
}

func recoverUnsupported(year, month, day int, err *error) {
	if r := recover(); r != nil {
		*err = &bazi.UnsupportedDateError{
			Year: year, Month: month, Day: day,
			Err: fmt.Errorf("calendar conversion panicked: %v", r),
		}
	}
}
