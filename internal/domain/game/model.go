package game

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrScoreOrder = errors.New("winner score is below loser score")
	ErrSelfMatch  = errors.New("team cannot play itself")
)

// Game is one realized matchup. Scores are fixed-point with two decimal
// places; immutable once persisted.
type Game struct {
	ID          int64
	Year        int
	Week        int
	WinnerID    int64
	LoserID     int64
	WinnerScore decimal.Decimal
	LoserScore  decimal.Decimal
	Notes       string
}

func (g Game) Validate() error {
	if g.Year <= 0 || g.Week <= 0 {
		return fmt.Errorf("game year and week are required")
	}
	if g.WinnerID <= 0 || g.LoserID <= 0 {
		return fmt.Errorf("game team ids are required")
	}
	if g.WinnerID == g.LoserID {
		return fmt.Errorf("%w: team=%d year=%d week=%d", ErrSelfMatch, g.WinnerID, g.Year, g.Week)
	}
	if g.WinnerScore.LessThan(g.LoserScore) {
		return fmt.Errorf("%w: year=%d week=%d winner=%s loser=%s",
			ErrScoreOrder, g.Year, g.Week, g.WinnerScore.String(), g.LoserScore.String())
	}
	return nil
}

// Involves reports whether the team played in this game.
func (g Game) Involves(teamID int64) bool {
	return g.WinnerID == teamID || g.LoserID == teamID
}

// TeamScore returns the given team's score in this game.
func (g Game) TeamScore(teamID int64) (decimal.Decimal, bool) {
	switch teamID {
	case g.WinnerID:
		return g.WinnerScore, true
	case g.LoserID:
		return g.LoserScore, true
	default:
		return decimal.Decimal{}, false
	}
}

// Margin is winner score minus loser score.
func (g Game) Margin() decimal.Decimal {
	return g.WinnerScore.Sub(g.LoserScore)
}

// FutureGame is a scheduled but unplayed matchup.
type FutureGame struct {
	ID      int64
	Year    int
	Week    int
	Team1ID int64
	Team2ID int64
}

func (f FutureGame) Involves(teamID int64) bool {
	return f.Team1ID == teamID || f.Team2ID == teamID
}
