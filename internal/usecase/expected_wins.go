package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/game"
)

// ExpectedWinsModel maps a weekly score to the probability it beats a
// randomly drawn historical opponent. Empirically: the fraction of games
// whose loser scored strictly less, with ties counting half. The function
// is monotone non-decreasing by construction.
type ExpectedWinsModel struct {
	loserScores []decimal.Decimal // ascending
}

// NewExpectedWinsModel builds the model from regular-season games only.
func NewExpectedWinsModel(games []game.Game, regularSeasonWeeks int) *ExpectedWinsModel {
	scores := make([]decimal.Decimal, 0, len(games))
	for _, g := range games {
		if g.Week > regularSeasonWeeks {
			continue
		}
		scores = append(scores, g.LoserScore)
	}
	sort.Slice(scores, func(i, j int) bool {
		return scores[i].LessThan(scores[j])
	})
	return &ExpectedWinsModel{loserScores: scores}
}

func (m *ExpectedWinsModel) SampleSize() int {
	return len(m.loserScores)
}

// Probability returns P(win | score) in [0, 1]. Scores are fixed-point; the
// result is a real probability, so the conversion happens here and nowhere
// upstream.
func (m *ExpectedWinsModel) Probability(score decimal.Decimal) float64 {
	n := len(m.loserScores)
	if n == 0 {
		return 0.5
	}

	below := sort.Search(n, func(i int) bool {
		return m.loserScores[i].GreaterThanOrEqual(score)
	})
	upTo := sort.Search(n, func(i int) bool {
		return m.loserScores[i].GreaterThan(score)
	})
	equal := upTo - below

	return (float64(below) + 0.5*float64(equal)) / float64(n)
}

// ExpectedWins sums per-game win probabilities over the given scores.
func (m *ExpectedWinsModel) ExpectedWins(scores []decimal.Decimal) float64 {
	total := 0.0
	for _, s := range scores {
		total += m.Probability(s)
	}
	return total
}

// WinDistribution convolves the per-game win probabilities into the exact
// Poisson-binomial distribution P(wins = k), k in 0..n.
func (m *ExpectedWinsModel) WinDistribution(scores []decimal.Decimal) []float64 {
	dist := make([]float64, 1, len(scores)+1)
	dist[0] = 1
	for _, s := range scores {
		p := m.Probability(s)
		next := make([]float64, len(dist)+1)
		for k, q := range dist {
			next[k] += q * (1 - p)
			next[k+1] += q * p
		}
		dist = next
	}
	return dist
}
