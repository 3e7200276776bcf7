package postgres

import (
	"database/sql"

	"github.com/blingaleague/companion/internal/domain/postseason"
)

type postseasonTableModel struct {
	Year   int           `db:"year"`
	Place1 sql.NullInt64 `db:"place_1"`
	Place2 sql.NullInt64 `db:"place_2"`
	Place3 sql.NullInt64 `db:"place_3"`
	Place4 sql.NullInt64 `db:"place_4"`
	Place5 sql.NullInt64 `db:"place_5"`
	Place6 sql.NullInt64 `db:"place_6"`
}

func (m postseasonTableModel) places() [postseason.PlaceCount]sql.NullInt64 {
	return [postseason.PlaceCount]sql.NullInt64{
		m.Place1, m.Place2, m.Place3, m.Place4, m.Place5, m.Place6,
	}
}

func (m postseasonTableModel) toDomain() postseason.Finish {
	out := postseason.Finish{Year: m.Year}
	for i, place := range m.places() {
		out.Places[i] = nullInt64ToPtr(place)
	}
	return out
}

type powerRankingTableModel struct {
	Year     int           `db:"year"`
	Rank1    sql.NullInt64 `db:"ranking_1"`
	Rank2    sql.NullInt64 `db:"ranking_2"`
	Rank3    sql.NullInt64 `db:"ranking_3"`
	Rank4    sql.NullInt64 `db:"ranking_4"`
	Rank5    sql.NullInt64 `db:"ranking_5"`
	Rank6    sql.NullInt64 `db:"ranking_6"`
	Rank7    sql.NullInt64 `db:"ranking_7"`
	Rank8    sql.NullInt64 `db:"ranking_8"`
	Rank9    sql.NullInt64 `db:"ranking_9"`
	Rank10   sql.NullInt64 `db:"ranking_10"`
	Rank11   sql.NullInt64 `db:"ranking_11"`
	Rank12   sql.NullInt64 `db:"ranking_12"`
	Rank13   sql.NullInt64 `db:"ranking_13"`
	Rank14   sql.NullInt64 `db:"ranking_14"`
}

// toDomain keeps only the filled slots; pre-expansion seasons leave the
// trailing columns null.
func (m powerRankingTableModel) toDomain() postseason.PowerRanking {
	all := []sql.NullInt64{
		m.Rank1, m.Rank2, m.Rank3, m.Rank4, m.Rank5, m.Rank6, m.Rank7,
		m.Rank8, m.Rank9, m.Rank10, m.Rank11, m.Rank12, m.Rank13, m.Rank14,
	}
	out := postseason.PowerRanking{Year: m.Year}
	for _, rank := range all {
		if !rank.Valid {
			break
		}
		out.Rankings = append(out.Rankings, rank.Int64)
	}
	return out
}
