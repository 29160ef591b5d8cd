package bazi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOracle returns fixed eight characters and counts calls.
type fakeOracle struct {
	date       EightChar
	hourStem   map[int]string
	hourBranch map[int]string
	err        error

	dateCalls int
	timeCalls int
}

// oracle1990 is the chart of 1990-01-15: 己巳 丁丑 庚辰, with the Wei hour
// (13:00-14:59) resolving to 癸未.
func oracle1990() *fakeOracle {
	return &fakeOracle{
		date: EightChar{
			YearStem: "己", YearBranch: "巳",
			MonthStem: "丁", MonthBranch: "丑",
			DayStem: "庚", DayBranch: "辰",
		},
		hourStem:   map[int]string{13: "癸", 14: "癸", 0: "丙"},
		hourBranch: map[int]string{13: "未", 14: "未", 0: "子"},
	}
}

func (f *fakeOracle) SolarToLunar(year, month, day int) (EightChar, error) {
	f.dateCalls++
	if f.err != nil {
		return EightChar{}, f.err
	}
	return f.date, nil
}

func (f *fakeOracle) SolarToLunarWithTime(year, month, day, hour int) (EightChar, error) {
	f.timeCalls++
	if f.err != nil {
		return EightChar{}, f.err
	}
	ec := f.date
	ec.HourStem = f.hourStem[hour]
	ec.HourBranch = f.hourBranch[hour]
	return ec, nil
}

func intPtr(v int) *int { return &v }

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "1990-01-15", want: Date{1990, 1, 15}},
		{in: " 2000-02-29 ", want: Date{2000, 2, 29}},
		{in: "", wantErr: true},
		{in: "1990-02-30", wantErr: true},
		{in: "1999-02-29", wantErr: true},
		{in: "15/01/1990", wantErr: true},
		{in: "1990-13-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHour(t *testing.T) {
	tests := []struct {
		in      string
		want    *int
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "14:30", want: intPtr(14)},
		{in: "14:45", want: intPtr(14)},
		{in: "00:00:00", want: intPtr(0)},
		{in: "7", want: intPtr(7)},
		{in: "23:59", want: intPtr(23)},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHour(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildChartWithoutTime(t *testing.T) {
	oracle := oracle1990()

	chart, err := BuildChart(oracle, Date{1990, 1, 15}, nil)
	require.NoError(t, err)

	assert.Nil(t, chart.Hour)
	assert.Len(t, chart.Pillars(), 3)
	assert.Equal(t, 1, oracle.dateCalls)
	assert.Equal(t, 0, oracle.timeCalls)

	assert.Equal(t, "Geng", chart.Day.StemPinyin)
	assert.Equal(t, "Chen", chart.Day.BranchPinyin)
	assert.Equal(t, Metal, chart.Day.StemElement)
	assert.Equal(t, Earth, chart.Day.BranchElement)
	assert.Equal(t, "庚", chart.DayMaster().Symbol())
}

func TestBuildChartWithTime(t *testing.T) {
	oracle := oracle1990()

	chart, err := BuildChart(oracle, Date{1990, 1, 15}, intPtr(14))
	require.NoError(t, err)

	require.NotNil(t, chart.Hour)
	assert.Len(t, chart.Pillars(), 4)
	assert.Equal(t, 1, oracle.dateCalls)
	assert.Equal(t, 1, oracle.timeCalls)
	assert.Equal(t, "癸", chart.Hour.Stem)
	assert.Equal(t, "未", chart.Hour.Branch)
	assert.Equal(t, Water, chart.Hour.StemElement)
}

func TestBuildChartUnknownSymbolIsLookupError(t *testing.T) {
	oracle := oracle1990()
	oracle.date.MonthBranch = "X"

	_, err := BuildChart(oracle, Date{1990, 1, 15}, nil)
	var lerr *LookupError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "branch", lerr.Kind)
	assert.Equal(t, "X", lerr.Symbol)
	assert.NotErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrUnsupportedDate)
}

func TestBuildChartPropagatesUnsupportedDate(t *testing.T) {
	oracle := oracle1990()
	oracle.err = &UnsupportedDateError{Year: 1800, Month: 1, Day: 1}

	_, err := BuildChart(oracle, Date{1800, 1, 1}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedDate)
}

func TestBuildChartWrapsOtherOracleFailures(t *testing.T) {
	oracle := oracle1990()
	boom := errors.New("boom")
	oracle.err = boom

	_, err := BuildChart(oracle, Date{1990, 1, 15}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "1990-01-15")
}

func TestPillarJSONRoundTripKeepsLookups(t *testing.T) {
	p, err := NewPillar("壬", "亥")
	require.NoError(t, err)

	var decoded Pillar
	require.NoError(t, decoded.UnmarshalJSON([]byte(`{"stem":"壬","branch":"亥"}`)))
	assert.Equal(t, p, decoded)
	assert.Equal(t, Water, decoded.StemValue().Element())

	assert.Error(t, decoded.UnmarshalJSON([]byte(`{"stem":"?","branch":"亥"}`)))
}
