package bazi

// Stem is one of the ten Heavenly Stems, indexed 0 (Jia) to 9 (Gui).
type Stem int

// Branch is one of the twelve Earthly Branches, indexed 0 (Zi) to 11 (Hai).
type Branch int

// HiddenStem is a stem latently present in a branch with its scoring weight.
type HiddenStem struct {
	Stem   Stem
	Weight int
}

type stemRecord struct {
	symbol  string
	pinyin  string
	element Element
}

type branchRecord struct {
	symbol  string
	pinyin  string
	element Element
	season  Element
	hidden  []HiddenStem
}

const (
	jia Stem = iota
	yi
	bing
	ding
	wu
	ji
	geng
	xin
	ren
	gui
)

var stems = [10]stemRecord{
	{"甲", "Jia", Wood},
	{"乙", "Yi", Wood},
	{"丙", "Bing", Fire},
	{"丁", "Ding", Fire},
	{"戊", "Wu", Earth},
	{"己", "Ji", Earth},
	{"庚", "Geng", Metal},
	{"辛", "Xin", Metal},
	{"壬", "Ren", Water},
	{"癸", "Gui", Water},
}

// Weights of every branch's hidden stems sum to 10. Seasons group the branches
// three by three: spring favors Wood, summer Fire, autumn Metal, winter Water.
var branches = [12]branchRecord{
	{"子", "Zi", Water, Water, []HiddenStem{{gui, 10}}},
	{"丑", "Chou", Earth, Water, []HiddenStem{{ji, 6}, {gui, 3}, {xin, 1}}},
	{"寅", "Yin", Wood, Wood, []HiddenStem{{jia, 6}, {bing, 3}, {wu, 1}}},
	{"卯", "Mao", Wood, Wood, []HiddenStem{{yi, 10}}},
	{"辰", "Chen", Earth, Wood, []HiddenStem{{wu, 6}, {yi, 3}, {gui, 1}}},
	{"巳", "Si", Fire, Fire, []HiddenStem{{bing, 6}, {geng, 3}, {wu, 1}}},
	{"午", "Wu", Fire, Fire, []HiddenStem{{ding, 6}, {ji, 4}}},
	{"未", "Wei", Earth, Fire, []HiddenStem{{ji, 6}, {ding, 3}, {yi, 1}}},
	{"申", "Shen", Metal, Metal, []HiddenStem{{geng, 6}, {ren, 3}, {wu, 1}}},
	{"酉", "You", Metal, Metal, []HiddenStem{{xin, 10}}},
	{"戌", "Xu", Earth, Metal, []HiddenStem{{wu, 6}, {xin, 3}, {ding, 1}}},
	{"亥", "Hai", Water, Water, []HiddenStem{{ren, 6}, {jia, 4}}},
}

var (
	stemBySymbol   = make(map[string]Stem, len(stems))
	branchBySymbol = make(map[string]Branch, len(branches))
)

func init() {
	for i, s := range stems {
		stemBySymbol[s.symbol] = Stem(i)
	}
	for i, b := range branches {
		branchBySymbol[b.symbol] = Branch(i)
	}
}

// LookupStem resolves a stem glyph.
func LookupStem(symbol string) (Stem, error) {
	s, ok := stemBySymbol[symbol]
	if !ok {
		return 0, &LookupError{Kind: "stem", Symbol: symbol}
	}
	return s, nil
}

// LookupBranch resolves a branch glyph.
func LookupBranch(symbol string) (Branch, error) {
	b, ok := branchBySymbol[symbol]
	if !ok {
		return 0, &LookupError{Kind: "branch", Symbol: symbol}
	}
	return b, nil
}

func (s Stem) Symbol() string   { return stems[s].symbol }
func (s Stem) Pinyin() string   { return stems[s].pinyin }
func (s Stem) Element() Element { return stems[s].element }
func (s Stem) String() string   { return stems[s].symbol }

func (b Branch) Symbol() string   { return branches[b].symbol }
func (b Branch) Pinyin() string   { return branches[b].pinyin }
func (b Branch) Element() Element { return branches[b].element }
func (b Branch) String() string   { return branches[b].symbol }

// Season returns the element favored in the season this branch belongs to
// when it sits in the month pillar.
func (b Branch) Season() Element { return branches[b].season }

// HiddenStems returns a copy of the branch's weighted hidden stems.
func (b Branch) HiddenStems() []HiddenStem {
	return append([]HiddenStem(nil), branches[b].hidden...)
}

// Stems returns all ten stems in cycle order.
func Stems() []Stem {
	out := make([]Stem, len(stems))
	for i := range stems {
		out[i] = Stem(i)
	}
	return out
}

// Branches returns all twelve branches in cycle order.
func Branches() []Branch {
	out := make([]Branch, len(branches))
	for i := range branches {
		out[i] = Branch(i)
	}
	return out
}
