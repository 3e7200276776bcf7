package postgres

import (
	"database/sql"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/keeper"
)

type keeperTableModel struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Position  string `db:"position"`
	Year      int    `db:"year"`
	Round     int    `db:"round"`
	TimesKept int    `db:"times_kept"`
	TeamID    int64  `db:"team_id"`
}

func (m keeperTableModel) toDomain() keeper.Keeper {
	return keeper.Keeper{
		ID:        m.ID,
		Name:      m.Name,
		Position:  m.Position,
		Year:      m.Year,
		Round:     m.Round,
		TimesKept: m.TimesKept,
		TeamID:    m.TeamID,
	}
}

type draftPickTableModel struct {
	ID             int64          `db:"id"`
	Name           string         `db:"name"`
	Position       sql.NullString `db:"position"`
	Year           int            `db:"year"`
	Round          int            `db:"round"`
	PickInRound    int            `db:"pick_in_round"`
	IsKeeper       bool           `db:"is_keeper"`
	Notes          sql.NullString `db:"notes"`
	TeamID         int64          `db:"team_id"`
	OriginalTeamID sql.NullInt64  `db:"original_team_id"`
}

func (m draftPickTableModel) toDomain() draftpick.DraftPick {
	return draftpick.DraftPick{
		ID:             m.ID,
		Name:           m.Name,
		Position:       nullStringToString(m.Position),
		Year:           m.Year,
		Round:          m.Round,
		PickInRound:    m.PickInRound,
		IsKeeper:       m.IsKeeper,
		Notes:          nullStringToString(m.Notes),
		TeamID:         m.TeamID,
		OriginalTeamID: nullInt64ToPtr(m.OriginalTeamID),
	}
}
