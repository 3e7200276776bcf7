package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/trade"
)

// WeekView is one (year, week) slot: played games, scheduled games, trades
// dated into it, and the two weekly awards. Awards exist only for
// regular-season weeks.
type WeekView struct {
	Year  int
	Week  int
	Games []game.Game
	// FutureGames holds the slot's unplayed matchups.
	FutureGames []game.FutureGame
	Trades      []trade.Trade

	// BlangumsID is the Team Blangums winner (highest score regardless of
	// outcome); SlappedHeartbeatID the lowest. Exact score ties break on
	// the lower-sorting member display name, case-insensitive.
	BlangumsID         int64
	SlappedHeartbeatID int64
}

type weekScore struct {
	teamID int64
	name   string
	score  decimal.Decimal
}

func computeWeeklyAwards(games []game.Game, nameOf func(int64) string) (blangums, slapped int64) {
	if len(games) == 0 {
		return 0, 0
	}

	scores := make([]weekScore, 0, len(games)*2)
	for _, g := range games {
		scores = append(scores,
			weekScore{teamID: g.WinnerID, name: strings.ToLower(nameOf(g.WinnerID)), score: g.WinnerScore},
			weekScore{teamID: g.LoserID, name: strings.ToLower(nameOf(g.LoserID)), score: g.LoserScore},
		)
	}

	high := scores[0]
	low := scores[0]
	for _, s := range scores[1:] {
		switch cmp := s.score.Cmp(high.score); {
		case cmp > 0:
			high = s
		case cmp == 0 && s.name < high.name:
			high = s
		}
		switch cmp := s.score.Cmp(low.score); {
		case cmp < 0:
			low = s
		case cmp == 0 && s.name < low.name:
			low = s
		}
	}

	return high.teamID, low.teamID
}

// TeamScores returns every team's score in this week, for all-play records.
func (w WeekView) TeamScores() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(w.Games)*2)
	for _, g := range w.Games {
		out[g.WinnerID] = g.WinnerScore
		out[g.LoserID] = g.LoserScore
	}
	return out
}
