package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestExpectedWinsModel_ProbabilityCountsTiesAsHalf(t *testing.T) {
	t.Parallel()

	// Regular-season loser scores: 60, 70, 80, 85, 90, 119.
	model := NewExpectedWinsModel(completedSeasonGames(), 3)
	require.Equal(t, 6, model.SampleSize())

	require.InDelta(t, 0.0, model.Probability(decimal.RequireFromString("50")), 1e-9)
	require.InDelta(t, 1.0, model.Probability(decimal.RequireFromString("120")), 1e-9)

	// 90 beats four scores and ties one.
	require.InDelta(t, 4.5/6, model.Probability(decimal.RequireFromString("90")), 1e-9)
	// 100 beats five of six.
	require.InDelta(t, 5.0/6, model.Probability(decimal.RequireFromString("100")), 1e-9)
}

func TestExpectedWinsModel_ProbabilityIsMonotone(t *testing.T) {
	t.Parallel()

	model := NewExpectedWinsModel(completedSeasonGames(), 3)

	prev := -1.0
	for score := 40; score <= 130; score += 5 {
		p := model.Probability(decimal.NewFromInt(int64(score)))
		require.GreaterOrEqual(t, p, prev, "probability dropped at score %d", score)
		require.GreaterOrEqual(t, p, 0.0)
		require.LessOrEqual(t, p, 1.0)
		prev = p
	}
}

func TestExpectedWinsModel_PlayoffGamesExcludedFromSample(t *testing.T) {
	t.Parallel()

	model := NewExpectedWinsModel(completedSeasonGames(), 3)
	// Week 6 contributes a 100-point loser score; it must not count.
	require.Equal(t, 6, model.SampleSize())
}

func TestExpectedWinsModel_EmptySampleFallsBackToCoinFlip(t *testing.T) {
	t.Parallel()

	model := NewExpectedWinsModel(nil, 3)
	require.InDelta(t, 0.5, model.Probability(decimal.RequireFromString("99.99")), 1e-9)
}

func TestExpectedWinsModel_ExpectedWinsSumsPerGameProbabilities(t *testing.T) {
	t.Parallel()

	model := NewExpectedWinsModel(completedSeasonGames(), 3)
	scores := []decimal.Decimal{
		decimal.RequireFromString("100"),
		decimal.RequireFromString("110"),
		decimal.RequireFromString("120"),
	}

	want := model.Probability(scores[0]) + model.Probability(scores[1]) + model.Probability(scores[2])
	require.InDelta(t, want, model.ExpectedWins(scores), 1e-9)
}

func TestExpectedWinsModel_WinDistributionIsAProperDistribution(t *testing.T) {
	t.Parallel()

	model := NewExpectedWinsModel(completedSeasonGames(), 3)
	scores := []decimal.Decimal{
		decimal.RequireFromString("95"),
		decimal.RequireFromString("105"),
		decimal.RequireFromString("119"),
	}

	dist := model.WinDistribution(scores)
	require.Len(t, dist, len(scores)+1)

	sum := 0.0
	mean := 0.0
	for k, p := range dist {
		require.GreaterOrEqual(t, p, 0.0)
		sum += p
		mean += float64(k) * p
	}
	require.InDelta(t, 1.0, sum, 1e-9)

	// The distribution's mean is the expected-wins total.
	require.InDelta(t, model.ExpectedWins(scores), mean, 1e-9)
}
