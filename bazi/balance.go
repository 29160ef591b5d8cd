package bazi

// stemWeight is the score every present heavenly stem adds to its element.
const stemWeight = 5

// ElementBalance is the per-element score of a chart.
type ElementBalance struct {
	Metal int `json:"metal"`
	Wood  int `json:"wood"`
	Water int `json:"water"`
	Fire  int `json:"fire"`
	Earth int `json:"earth"`
}

// Of returns the score of e.
func (b ElementBalance) Of(e Element) int {
	switch e {
	case Metal:
		return b.Metal
	case Wood:
		return b.Wood
	case Water:
		return b.Water
	case Fire:
		return b.Fire
	case Earth:
		return b.Earth
	}
	return 0
}

func (b *ElementBalance) add(e Element, n int) {
	switch e {
	case Metal:
		b.Metal += n
	case Wood:
		b.Wood += n
	case Water:
		b.Water += n
	case Fire:
		b.Fire += n
	case Earth:
		b.Earth += n
	}
}

// Total sums all five scores.
func (b ElementBalance) Total() int {
	return b.Metal + b.Wood + b.Water + b.Fire + b.Earth
}

// Strongest returns the highest-scoring element; ties go to the element
// earliest in canonical order.
func (b ElementBalance) Strongest() Element {
	best := AllElements[0]
	for _, e := range AllElements[1:] {
		if b.Of(e) > b.Of(best) {
			best = e
		}
	}
	return best
}

// Weakest returns the lowest-scoring element; ties go to the element latest
// in canonical order.
func (b ElementBalance) Weakest() Element {
	worst := AllElements[0]
	for _, e := range AllElements[1:] {
		if b.Of(e) <= b.Of(worst) {
			worst = e
		}
	}
	return worst
}

// ScoreBalance scores a chart with hidden-stem weighting: each present stem
// adds 5 to its element, each present branch adds its hidden stems' weights
// to the hidden stems' elements.
func ScoreBalance(c Chart) ElementBalance {
	var b ElementBalance
	for _, p := range c.Pillars() {
		b.add(p.stem.Element(), stemWeight)
		for _, h := range branches[p.branch].hidden {
			b.add(h.Stem.Element(), h.Weight)
		}
	}
	return b
}

// ScoreBalanceSimple is the naive model: one point for each pillar's stem
// element and one for its branch's primary element.
func ScoreBalanceSimple(c Chart) ElementBalance {
	var b ElementBalance
	for _, p := range c.Pillars() {
		b.add(p.StemElement, 1)
		b.add(p.BranchElement, 1)
	}
	return b
}

// ExpectedTotal is the weighted-model total implied by a chart's content:
// 5 per present stem plus every present branch's hidden-stem weights.
func ExpectedTotal(c Chart) int {
	total := 0
	for _, p := range c.Pillars() {
		total += stemWeight
		for _, h := range branches[p.branch].hidden {
			total += h.Weight
		}
	}
	return total
}
