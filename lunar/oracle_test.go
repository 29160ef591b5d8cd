package lunar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bazi-fengshui/bazi"
)

func TestSolarToLunar(t *testing.T) {
	tests := []struct {
		name             string
		year, month, day int
		wantYear         string
		wantMonth        string
		wantDay          string
	}{
		{"before lichun", 1990, 1, 15, "己巳", "丁丑", "庚辰"},
		{"millennium", 2000, 1, 1, "己卯", "丙子", "戊午"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, err := New().SolarToLunar(tt.year, tt.month, tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.wantYear, ec.YearStem+ec.YearBranch)
			assert.Equal(t, tt.wantMonth, ec.MonthStem+ec.MonthBranch)
			assert.Equal(t, tt.wantDay, ec.DayStem+ec.DayBranch)
			assert.Empty(t, ec.HourStem)
		})
	}
}

func TestSolarToLunarWithTime(t *testing.T) {
	o := New()

	ec, err := o.SolarToLunarWithTime(1990, 1, 15, 14)
	require.NoError(t, err)
	assert.Equal(t, "庚辰", ec.DayStem+ec.DayBranch)
	assert.Equal(t, "癸未", ec.HourStem+ec.HourBranch)

	ec, err = o.SolarToLunarWithTime(1990, 1, 15, 13)
	require.NoError(t, err)
	assert.Equal(t, "癸未", ec.HourStem+ec.HourBranch)

	_, err = o.SolarToLunarWithTime(1990, 1, 15, 24)
	assert.ErrorIs(t, err, bazi.ErrInvalidInput)
}

func TestOutOfRangeYears(t *testing.T) {
	o := New()
	for _, year := range []int{1899, 2101, 1} {
		_, err := o.SolarToLunar(year, 6, 1)
		assert.ErrorIs(t, err, bazi.ErrUnsupportedDate, "year %d", year)

		_, err = o.SolarToLunarWithTime(year, 6, 1, 12)
		assert.ErrorIs(t, err, bazi.ErrUnsupportedDate, "year %d", year)
	}
}

func TestEngineOverRealCalendar(t *testing.T) {
	engine := bazi.NewEngine(New())

	a, err := engine.Analyze(bazi.Request{BirthDate: "1990-01-15", BirthTime: "14:30", Directional: true})
	require.NoError(t, err)

	assert.Equal(t, "庚", a.DayMaster)
	assert.Equal(t, bazi.Strong, a.DayMasterStrength)
	assert.Equal(t, 60, a.ElementBalance.Total())
	assert.Equal(t, []bazi.Element{bazi.Wood, bazi.Fire, bazi.Water}, a.LuckyElements)
	require.NotNil(t, a.Directional)
	assert.Equal(t, bazi.East, a.Directional.SittingDirection.PrimaryDirection)

	_, err = engine.Analyze(bazi.Request{BirthDate: "1850-03-01"})
	assert.ErrorIs(t, err, bazi.ErrUnsupportedDate)
}
