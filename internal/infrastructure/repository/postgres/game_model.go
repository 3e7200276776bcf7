package postgres

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/game"
)

type gameTableModel struct {
	ID          int64           `db:"id"`
	Year        int             `db:"year"`
	Week        int             `db:"week"`
	WinnerID    int64           `db:"winner_id"`
	LoserID     int64           `db:"loser_id"`
	WinnerScore decimal.Decimal `db:"winner_score"`
	LoserScore  decimal.Decimal `db:"loser_score"`
	Notes       sql.NullString  `db:"notes"`
}

func (m gameTableModel) toDomain() game.Game {
	return game.Game{
		ID:          m.ID,
		Year:        m.Year,
		Week:        m.Week,
		WinnerID:    m.WinnerID,
		LoserID:     m.LoserID,
		WinnerScore: m.WinnerScore,
		LoserScore:  m.LoserScore,
		Notes:       nullStringToString(m.Notes),
	}
}

type futureGameTableModel struct {
	ID      int64 `db:"id"`
	Year    int   `db:"year"`
	Week    int   `db:"week"`
	Team1ID int64 `db:"team_1_id"`
	Team2ID int64 `db:"team_2_id"`
}

func (m futureGameTableModel) toDomain() game.FutureGame {
	return game.FutureGame{
		ID:      m.ID,
		Year:    m.Year,
		Week:    m.Week,
		Team1ID: m.Team1ID,
		Team2ID: m.Team2ID,
	}
}
