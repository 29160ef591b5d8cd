package bazi

// Request is the input of one analysis.
type Request struct {
	BirthDate   string `json:"birthDate" yaml:"birthDate"`
	BirthTime   string `json:"birthTime,omitempty" yaml:"birthTime,omitempty"`
	Directional bool   `json:"directional,omitempty" yaml:"directional,omitempty"`
}

// Analysis is the full result consumed by the color UI, the prompt builders
// and the directional display.
type Analysis struct {
	Model             Model                 `json:"model"`
	BirthDate         string                `json:"birth_date"`
	BirthHour         *int                  `json:"birth_hour"`
	Chart             Chart                 `json:"chart"`
	PillarCount       int                   `json:"pillar_count"`
	ElementBalance    ElementBalance        `json:"element_balance"`
	StrongestElement  Element               `json:"strongest_element"`
	WeakestElement    Element               `json:"weakest_element"`
	DayMaster         string                `json:"day_master"`
	DayMasterPinyin   string                `json:"day_master_pinyin"`
	DayMasterElement  Element               `json:"day_master_element"`
	DayMasterStrength Strength              `json:"day_master_strength"`
	StrengthReport    StrengthReport        `json:"strength_report"`
	LuckyElements     []Element             `json:"lucky_elements"`
	UnluckyElements   []Element             `json:"unlucky_elements"`
	LuckyColors       []ColorRecommendation `json:"lucky_colors"`
	UnluckyColors     []ColorRecommendation `json:"unlucky_colors"`
	Directional       *DirectionalAnalysis  `json:"directional_analysis,omitempty"`
}

// Engine runs analyses against a calendar oracle.
type Engine struct {
	oracle Oracle
	model  Model
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel selects the analysis depth. The default is ModelRich.
func WithModel(m Model) Option {
	return func(e *Engine) {
		if m != "" {
			e.model = m
		}
	}
}

// NewEngine creates an engine over the given oracle.
func NewEngine(oracle Oracle, opts ...Option) *Engine {
	e := &Engine{oracle: oracle, model: ModelRich}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Model returns the engine's analysis depth.
func (e *Engine) Model() Model { return e.model }

// Analyze parses the request, builds the chart and derives everything from it.
// Directional analysis is computed only when requested and only by the rich
// model.
func (e *Engine) Analyze(req Request) (*Analysis, error) {
	date, err := ParseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	hour, err := ParseHour(req.BirthTime)
	if err != nil {
		return nil, err
	}

	chart, err := BuildChart(e.oracle, date, hour)
	if err != nil {
		return nil, err
	}
	return e.analyzeChart(date, hour, chart, req.Directional), nil
}

// AnalyzeChart derives an analysis from an already built chart.
func (e *Engine) AnalyzeChart(chart Chart, directional bool) *Analysis {
	return e.analyzeChart(Date{}, nil, chart, directional)
}

func (e *Engine) analyzeChart(date Date, hour *int, chart Chart, directional bool) *Analysis {
	var balance ElementBalance
	if e.model == ModelSimple {
		balance = ScoreBalanceSimple(chart)
	} else {
		balance = ScoreBalance(chart)
	}

	dm := chart.DayMaster()
	report := ClassifyStrength(dm.Element(), chart.Month.branch, balance)

	var luck Luck
	if e.model == ModelSimple {
		luck = DeriveLuckSimple(balance)
	} else {
		luck = DeriveLuck(dm.Element(), report.Strength)
	}

	a := &Analysis{
		Model:             e.model,
		Chart:             chart,
		PillarCount:       len(chart.Pillars()),
		ElementBalance:    balance,
		StrongestElement:  balance.Strongest(),
		WeakestElement:    balance.Weakest(),
		DayMaster:         dm.Symbol(),
		DayMasterPinyin:   dm.Pinyin(),
		DayMasterElement:  dm.Element(),
		DayMasterStrength: report.Strength,
		StrengthReport:    report,
		LuckyElements:     luck.Lucky,
		UnluckyElements:   luck.Unlucky,
		LuckyColors:       ExpandColors(luck.Lucky),
		UnluckyColors:     ExpandColors(luck.Unlucky),
	}
	if date != (Date{}) {
		a.BirthDate = date.String()
	}
	if hour != nil {
		h := *hour
		a.BirthHour = &h
	}
	if directional && e.model == ModelRich {
		d := RecommendDirections(luck.Lucky, luck.Unlucky)
		a.Directional = &d
	}
	return a
}
