package bazi

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustChart builds a chart from "干支" pairs; an empty hour means no hour pillar.
func mustChart(t *testing.T, year, month, day, hour string) Chart {
	t.Helper()
	pillar := func(pair string) Pillar {
		r := []rune(pair)
		require.Len(t, r, 2, pair)
		p, err := NewPillar(string(r[0]), string(r[1]))
		require.NoError(t, err)
		return p
	}
	c := Chart{Year: pillar(year), Month: pillar(month), Day: pillar(day)}
	if hour != "" {
		h := pillar(hour)
		c.Hour = &h
	}
	return c
}

// staticOracle is a stateless oracle, safe for concurrent use.
type staticOracle struct{ ec EightChar }

func (o staticOracle) SolarToLunar(year, month, day int) (EightChar, error) { return o.ec, nil }

func (o staticOracle) SolarToLunarWithTime(year, month, day, hour int) (EightChar, error) {
	ec := o.ec
	ec.HourStem, ec.HourBranch = "癸", "未"
	return ec, nil
}

func TestScoreBalanceHiddenStems(t *testing.T) {
	chart := mustChart(t, "己巳", "丁丑", "庚辰", "")

	got := ScoreBalance(chart)
	assert.Equal(t, ElementBalance{Metal: 9, Wood: 3, Water: 4, Fire: 11, Earth: 18}, got)
	assert.Equal(t, Earth, got.Strongest())
	assert.Equal(t, Wood, got.Weakest())

	withHour := ScoreBalance(mustChart(t, "己巳", "丁丑", "庚辰", "癸未"))
	assert.Equal(t, ElementBalance{Metal: 9, Wood: 4, Water: 9, Fire: 14, Earth: 24}, withHour)
}

func TestScoreBalanceConservation(t *testing.T) {
	for _, s := range Stems() {
		for _, b := range Branches() {
			day := pillarOf(s, b)
			chart := mustChart(t, "甲子", "丙寅", "戊辰", "")
			chart.Day = day
			assert.Equal(t, 3*5+3*10, ScoreBalance(chart).Total())
			assert.Equal(t, ExpectedTotal(chart), ScoreBalance(chart).Total())

			hour := pillarOf(s, b)
			chart.Hour = &hour
			assert.Equal(t, 4*5+4*10, ScoreBalance(chart).Total())
			assert.Equal(t, ExpectedTotal(chart), ScoreBalance(chart).Total())
		}
	}
}

func TestScoreBalanceSimple(t *testing.T) {
	got := ScoreBalanceSimple(mustChart(t, "己巳", "丁丑", "庚辰", ""))
	assert.Equal(t, ElementBalance{Metal: 1, Fire: 2, Earth: 3}, got)
	assert.Equal(t, 6, got.Total())
	assert.Equal(t, Water, got.Weakest())
}

func TestClassifyStrength(t *testing.T) {
	wu, _ := LookupBranch("午")
	yin, _ := LookupBranch("寅")
	shen, _ := LookupBranch("申")
	hai, _ := LookupBranch("亥")

	tests := []struct {
		name        string
		dm          Element
		month       Branch
		balance     ElementBalance
		want        Strength
		wantSupport float64
		wantDrain   float64
	}{
		{
			name:        "tie is strong",
			dm:          Wood,
			month:       wu,
			balance:     ElementBalance{Wood: 3, Metal: 3},
			want:        Strong,
			wantSupport: 6,
			wantDrain:   6,
		},
		{
			name:        "just below tie is weak",
			dm:          Wood,
			month:       wu,
			balance:     ElementBalance{Wood: 3, Metal: 3, Fire: 1},
			want:        Weak,
			wantSupport: 6,
			wantDrain:   7,
		},
		{
			name:        "in season",
			dm:          Wood,
			month:       yin,
			balance:     ElementBalance{Wood: 28, Fire: 14, Earth: 3},
			want:        Strong,
			wantSupport: 86,
			wantDrain:   18.5,
		},
		{
			name:        "resource in season",
			dm:          Wood,
			month:       hai,
			balance:     ElementBalance{},
			want:        Strong,
			wantSupport: 20,
			wantDrain:   0,
		},
		{
			name:        "controller in season",
			dm:          Wood,
			month:       shen,
			balance:     ElementBalance{Wood: 10, Water: 9, Metal: 23, Earth: 3},
			want:        Weak,
			wantSupport: 33.5,
			wantDrain:   70.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStrength(tt.dm, tt.month, tt.balance)
			assert.Equal(t, tt.want, got.Strength)
			assert.InDelta(t, tt.wantSupport, got.Support, 1e-9)
			assert.InDelta(t, tt.wantDrain, got.Drain, 1e-9)
		})
	}
}

func TestDeriveLuck(t *testing.T) {
	strong := DeriveLuck(Wood, Strong)
	assert.Equal(t, []Element{Earth, Metal, Fire}, strong.Lucky)
	assert.Equal(t, []Element{Water, Wood}, strong.Unlucky)

	weak := DeriveLuck(Wood, Weak)
	assert.Equal(t, []Element{Water, Wood}, weak.Lucky)
	assert.Equal(t, []Element{Earth, Metal}, weak.Unlucky)
}

func TestLuckSetsAreDisjoint(t *testing.T) {
	disjoint := func(t *testing.T, l Luck) {
		seen := map[Element]bool{}
		for _, e := range l.Lucky {
			seen[e] = true
		}
		for _, e := range l.Unlucky {
			assert.False(t, seen[e], "%s is both lucky and unlucky", e)
		}
	}
	for _, s := range Stems() {
		for _, strength := range []Strength{Strong, Weak} {
			l := DeriveLuck(s.Element(), strength)
			if strength == Strong {
				assert.Len(t, l.Lucky, 3)
				assert.Len(t, l.Unlucky, 2)
			} else {
				assert.Len(t, l.Lucky, 2)
				assert.Len(t, l.Unlucky, 2)
			}
			disjoint(t, l)
		}
	}
	for _, e := range AllElements {
		var b ElementBalance
		b.add(e, -1)
		l := DeriveLuckSimple(b)
		assert.Len(t, l.Lucky, 2)
		assert.Len(t, l.Unlucky, 1)
		assert.Equal(t, e, l.Lucky[1])
		disjoint(t, l)
	}
}

func TestExpandColorsKeepsOrder(t *testing.T) {
	got := ExpandColors([]Element{Water, Metal})
	require.Len(t, got, 8)
	assert.Equal(t, ColorRecommendation{Color: "Blue", Code: "#0000FF", Element: Water}, got[0])
	assert.Equal(t, ColorRecommendation{Color: "Dark Blue", Code: "#00008B", Element: Water}, got[3])
	assert.Equal(t, ColorRecommendation{Color: "White", Code: "#FFFFFF", Element: Metal}, got[4])
}

func TestAnalyzeWithoutBirthTime(t *testing.T) {
	engine := NewEngine(oracle1990())

	a, err := engine.Analyze(Request{BirthDate: "1990-01-15"})
	require.NoError(t, err)

	assert.Nil(t, a.Chart.Hour)
	assert.Nil(t, a.BirthHour)
	assert.Equal(t, 3, a.PillarCount)
	assert.Equal(t, "1990-01-15", a.BirthDate)
	assert.Equal(t, "庚", a.DayMaster)
	assert.Equal(t, Metal, a.DayMasterElement)
	assert.Equal(t, Strong, a.DayMasterStrength)
	assert.Equal(t, 45, a.ElementBalance.Total())
	assert.Equal(t, []Element{Wood, Fire, Water}, a.LuckyElements)
	assert.Equal(t, []Element{Earth, Metal}, a.UnluckyElements)
	assert.Len(t, a.LuckyColors, 12)
	assert.Len(t, a.UnluckyColors, 8)
	assert.Nil(t, a.Directional)
}

func TestAnalyzeHourGranularity(t *testing.T) {
	engine := NewEngine(oracle1990())

	a, err := engine.Analyze(Request{BirthDate: "1990-01-15", BirthTime: "14:30"})
	require.NoError(t, err)
	b, err := engine.Analyze(Request{BirthDate: "1990-01-15", BirthTime: "14:45"})
	require.NoError(t, err)

	require.NotNil(t, a.Chart.Hour)
	assert.Equal(t, 4, a.PillarCount)
	assert.Equal(t, *a.Chart.Hour, *b.Chart.Hour)
	assert.Equal(t, 60, a.ElementBalance.Total())
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	engine := NewEngine(oracle1990())
	req := Request{BirthDate: "1990-01-15", BirthTime: "14:30", Directional: true}

	first, err := engine.Analyze(req)
	require.NoError(t, err)
	second, err := engine.Analyze(req)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(Pillar{})); diff != "" {
		t.Errorf("analysis changed between runs (-first +second):\n%s", diff)
	}
}

func TestAnalyzeStrongDayMaster(t *testing.T) {
	engine := NewEngine(staticOracle{ec: EightChar{
		YearStem: "甲", YearBranch: "寅",
		MonthStem: "丙", MonthBranch: "寅",
		DayStem: "甲", DayBranch: "寅",
	}})

	a, err := engine.Analyze(Request{BirthDate: "1974-02-20"})
	require.NoError(t, err)
	assert.Equal(t, Strong, a.DayMasterStrength)
	assert.Equal(t, Wood, a.StrengthReport.Season)
	assert.Equal(t, []Element{Earth, Metal, Fire}, a.LuckyElements)
	assert.Equal(t, []Element{Water, Wood}, a.UnluckyElements)
}

func TestAnalyzeWeakDayMaster(t *testing.T) {
	engine := NewEngine(staticOracle{ec: EightChar{
		YearStem: "庚", YearBranch: "申",
		MonthStem: "甲", MonthBranch: "申",
		DayStem: "甲", DayBranch: "申",
	}})

	a, err := engine.Analyze(Request{BirthDate: "1980-08-20"})
	require.NoError(t, err)
	assert.Equal(t, Weak, a.DayMasterStrength)
	assert.Equal(t, []Element{Water, Wood}, a.LuckyElements)
	assert.Equal(t, []Element{Earth, Metal}, a.UnluckyElements)
}

func TestAnalyzeSimpleModel(t *testing.T) {
	engine := NewEngine(oracle1990(), WithModel(ModelSimple))

	a, err := engine.Analyze(Request{BirthDate: "1990-01-15", Directional: true})
	require.NoError(t, err)
	assert.Equal(t, ModelSimple, a.Model)
	assert.Equal(t, 6, a.ElementBalance.Total())
	assert.Equal(t, []Element{Metal, Water}, a.LuckyElements)
	assert.Equal(t, []Element{Earth}, a.UnluckyElements)
	assert.Nil(t, a.Directional)
}

func TestAnalyzeInputErrors(t *testing.T) {
	engine := NewEngine(oracle1990())

	_, err := engine.Analyze(Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Analyze(Request{BirthDate: "1990-02-31"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Analyze(Request{BirthDate: "1990-01-15", BirthTime: "25:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	unsupported := oracle1990()
	unsupported.err = &UnsupportedDateError{Year: 1700, Month: 1, Day: 1}
	_, err = NewEngine(unsupported).Analyze(Request{BirthDate: "1700-01-01"})
	assert.ErrorIs(t, err, ErrUnsupportedDate)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestParseModel(t *testing.T) {
	m, err := ParseModel("")
	require.NoError(t, err)
	assert.Equal(t, ModelRich, m)

	m, err = ParseModel("simple")
	require.NoError(t, err)
	assert.Equal(t, ModelSimple, m)

	_, err = ParseModel("deep")
	assert.Error(t, err)
}

func TestDaily(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	oracle := oracle1990()
	engine := NewEngine(oracle)
	a, err := engine.Analyze(Request{BirthDate: "1990-01-15"})
	require.NoError(t, err)

	oracle.date.DayStem = "甲"
	rec, err := engine.Daily(a, "", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", rec.Date)
	assert.Equal(t, Wood, rec.DayElement)
	assert.Equal(t, DayAligned, rec.Alignment)
	assert.Equal(t, "Today aligns with your chart! Great day for Green.", rec.Recommendation)

	oracle.date.DayStem = "戊"
	rec, err = engine.Daily(a, "2026-03-02", now)
	require.NoError(t, err)
	assert.Equal(t, DayClashing, rec.Alignment)
	assert.Equal(t, "Balance today with Green colors.", rec.Recommendation)

	simple := NewEngine(oracle, WithModel(ModelSimple))
	sa, err := simple.Analyze(Request{BirthDate: "1990-01-15"})
	require.NoError(t, err)
	oracle.date.DayStem = "甲"
	rec, err = simple.Daily(sa, "2026-03-03", now)
	require.NoError(t, err)
	assert.Equal(t, DayBalanced, rec.Alignment)
	assert.Equal(t, "Balanced day. Enhance with White.", rec.Recommendation)

	_, err = engine.Daily(a, "03/03/2026", now)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "targetDate", verr.Field)

	_, err = engine.Daily(nil, "", now)
	assert.Error(t, err)
}

func TestAnalyzeBatch(t *testing.T) {
	engine := NewEngine(staticOracle{ec: oracle1990().date})
	reqs := []Request{
		{BirthDate: "1990-01-15"},
		{BirthDate: "not-a-date"},
		{BirthDate: "1990-01-15", BirthTime: "14:30", Directional: true},
	}

	results, err := AnalyzeBatch(context.Background(), engine, reqs, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, reqs[0], results[0].Request)
	require.NotNil(t, results[0].Analysis)
	assert.Equal(t, 3, results[0].Analysis.PillarCount)

	assert.Nil(t, results[1].Analysis)
	assert.ErrorIs(t, results[1].Err, ErrInvalidInput)
	assert.NotEmpty(t, results[1].Error)

	require.NotNil(t, results[2].Analysis)
	assert.Equal(t, 4, results[2].Analysis.PillarCount)
	assert.NotNil(t, results[2].Analysis.Directional)
}

func TestAnalyzeBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine(staticOracle{ec: oracle1990().date})
	_, err := AnalyzeBatch(ctx, engine, []Request{{BirthDate: "1990-01-15"}}, 0)
	assert.ErrorIs(t, err, context.Canceled)
}
