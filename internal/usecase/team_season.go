package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/member"
	"github.com/blingaleague/companion/internal/platform/cache"
)

// PlayoffState is the derived postseason-qualification state of a team at a
// standings cutoff.
type PlayoffState string

const (
	StateInProgress       PlayoffState = "IN_PROGRESS"
	StateClinchedPlayoffs PlayoffState = "CLINCHED_PLAYOFFS"
	StateClinchedBye      PlayoffState = "CLINCHED_BYE"
	StateEliminatedEarly  PlayoffState = "ELIMINATED_EARLY"
	StateMadePlayoffs     PlayoffState = "MADE_PLAYOFFS"
	StateMissedPlayoffs   PlayoffState = "MISSED_PLAYOFFS"
)

// TeamSeason is the projection of one season onto one team: every counting
// stat the standings, finders, and gazette need. It borrows the fact store
// and owns nothing but its cache slot.
type TeamSeason struct {
	TeamID          int64
	Year            int
	WeekMax         int
	IncludePlayoffs bool
	Member          member.Member

	Games     []game.Game
	Scores    []decimal.Decimal
	OppScores []decimal.Decimal

	Wins          int
	Losses        int
	AllPlayWins   int
	AllPlayLosses int
	BlangumsCount int
	SlappedCount  int

	PlayoffState  PlayoffState
	Place         int // regular-season finish, 0 while unknown
	PlayoffFinish int // 1..6 final bracket place, 0 while unknown

	expectedWins float64
	memo         *cache.Memo
}

// Fingerprint is the stable identity used as the shared-cache key segment.
func (ts *TeamSeason) Fingerprint() string {
	playoffs := 0
	if ts.IncludePlayoffs {
		playoffs = 1
	}
	return fmt.Sprintf("team=%d,year=%d,week_max=%d,include_playoffs=%d",
		ts.TeamID, ts.Year, ts.WeekMax, playoffs)
}

func (ts *TeamSeason) GameCount() int { return len(ts.Games) }

func (ts *TeamSeason) Points() decimal.Decimal {
	total := decimal.Zero
	for _, s := range ts.Scores {
		total = total.Add(s)
	}
	return total
}

func (ts *TeamSeason) PointsAgainst() decimal.Decimal {
	total := decimal.Zero
	for _, s := range ts.OppScores {
		total = total.Add(s)
	}
	return total
}

func (ts *TeamSeason) Margin() decimal.Decimal {
	return ts.Points().Sub(ts.PointsAgainst())
}

func (ts *TeamSeason) AverageScore() decimal.Decimal {
	if len(ts.Scores) == 0 {
		return decimal.Zero
	}
	return ts.Points().Div(decimal.NewFromInt(int64(len(ts.Scores)))).Round(2)
}

func (ts *TeamSeason) MedianScore() decimal.Decimal {
	n := len(ts.Scores)
	if n == 0 {
		return decimal.Zero
	}
	sorted := append([]decimal.Decimal(nil), ts.Scores...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	if n%2 == 1 {
		return sorted[n/2]
	}
	return sorted[n/2-1].Add(sorted[n/2]).Div(decimal.NewFromInt(2))
}

func (ts *TeamSeason) MinScore() decimal.Decimal {
	if len(ts.Scores) == 0 {
		return decimal.Zero
	}
	low := ts.Scores[0]
	for _, s := range ts.Scores[1:] {
		if s.LessThan(low) {
			low = s
		}
	}
	return low
}

func (ts *TeamSeason) MaxScore() decimal.Decimal {
	if len(ts.Scores) == 0 {
		return decimal.Zero
	}
	high := ts.Scores[0]
	for _, s := range ts.Scores[1:] {
		if s.GreaterThan(high) {
			high = s
		}
	}
	return high
}

// StDev is the population standard deviation of weekly scores. Scores leave
// fixed-point space here; the result is a plain real.
func (ts *TeamSeason) StDev() float64 {
	n := len(ts.Scores)
	if n == 0 {
		return 0
	}
	mean := 0.0
	floats := make([]float64, n)
	for i, s := range ts.Scores {
		floats[i] = s.InexactFloat64()
		mean += floats[i]
	}
	mean /= float64(n)
	variance := 0.0
	for _, f := range floats {
		d := f - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}

func (ts *TeamSeason) WinPct() float64 {
	total := ts.Wins + ts.Losses
	if total == 0 {
		return 0
	}
	return float64(ts.Wins) / float64(total)
}

func (ts *TeamSeason) ExpectedWins() float64 { return ts.expectedWins }

func (ts *TeamSeason) ExpectedWinPct() float64 {
	if len(ts.Scores) == 0 {
		return 0
	}
	return ts.expectedWins / float64(len(ts.Scores))
}

// WinDistribution is the exact Poisson-binomial P(wins = k) for this team's
// weekly scores. O(n²), so it runs behind the memoization layer.
func (ts *TeamSeason) WinDistribution(ctx context.Context, model *ExpectedWinsModel) ([]float64, error) {
	v, err := ts.memo.Get(ctx, "win_distribution", func(context.Context) (any, error) {
		return model.WinDistribution(ts.Scores), nil
	})
	if err != nil {
		return nil, err
	}
	dist, ok := v.([]float64)
	if !ok {
		return model.WinDistribution(ts.Scores), nil
	}
	return dist, nil
}

// Record renders "W-L" for standings and gazette copy.
func (ts *TeamSeason) Record() string {
	return fmt.Sprintf("%d-%d", ts.Wins, ts.Losses)
}

// FeatureVector is the similarity-search embedding:
// {win_pct, average score, stdev, expected wins}.
func (ts *TeamSeason) FeatureVector() [4]float64 {
	return [4]float64{
		ts.WinPct(),
		ts.AverageScore().InexactFloat64(),
		ts.StDev(),
		ts.expectedWins,
	}
}

// lessThan is the standings comparator: higher win_pct, then higher points,
// then better persisted postseason finish, then member display name.
func (ts *TeamSeason) lessThan(other *TeamSeason) bool {
	if ts.WinPct() != other.WinPct() {
		return ts.WinPct() > other.WinPct()
	}
	if cmp := ts.Points().Cmp(other.Points()); cmp != 0 {
		return cmp > 0
	}
	if ts.PlayoffFinish != other.PlayoffFinish {
		if ts.PlayoffFinish == 0 {
			return false
		}
		if other.PlayoffFinish == 0 {
			return true
		}
		return ts.PlayoffFinish < other.PlayoffFinish
	}
	return strings.ToLower(ts.Member.DisplayName()) < strings.ToLower(other.Member.DisplayName())
}

// SortStandings orders team seasons by the standings comparator.
func SortStandings(rows []*TeamSeason) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].lessThan(rows[j])
	})
}
