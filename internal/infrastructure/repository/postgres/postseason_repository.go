package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/blingaleague/companion/internal/domain/postseason"
	qb "github.com/blingaleague/companion/internal/platform/querybuilder"
)

type PostseasonRepository struct {
	db *sqlx.DB
}

func NewPostseasonRepository(db *sqlx.DB) *PostseasonRepository {
	return &PostseasonRepository{db: db}
}

func (r *PostseasonRepository) GetByYear(ctx context.Context, year int) (postseason.Finish, bool, error) {
	query, args, err := qb.Select("*").From("postseason_finishes").
		Where(qb.Eq("year", year)).
		ToSQL()
	if err != nil {
		return postseason.Finish{}, false, fmt.Errorf("build get postseason query: %w", err)
	}

	var row postseasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return postseason.Finish{}, false, nil
		}
		return postseason.Finish{}, false, fmt.Errorf("get postseason: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PostseasonRepository) List(ctx context.Context) ([]postseason.Finish, error) {
	query, args, err := qb.Select("*").From("postseason_finishes").
		OrderBy("year").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select postseasons query: %w", err)
	}

	var rows []postseasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select postseasons: %w", err)
	}

	out := make([]postseason.Finish, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PostseasonRepository) GetPowerRanking(ctx context.Context, year int) (postseason.PowerRanking, bool, error) {
	query, args, err := qb.Select("*").From("power_rankings").
		Where(qb.Eq("year", year)).
		ToSQL()
	if err != nil {
		return postseason.PowerRanking{}, false, fmt.Errorf("build get power ranking query: %w", err)
	}

	var row powerRankingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return postseason.PowerRanking{}, false, nil
		}
		return postseason.PowerRanking{}, false, fmt.Errorf("get power ranking: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PostseasonRepository) Upsert(ctx context.Context, f postseason.Finish) error {
	if err := f.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertInto("postseason_finishes").
		Columns("year", "place_1", "place_2", "place_3", "place_4", "place_5", "place_6").
		Values(
			f.Year,
			ptrToNullInt64(f.Places[0]),
			ptrToNullInt64(f.Places[1]),
			ptrToNullInt64(f.Places[2]),
			ptrToNullInt64(f.Places[3]),
			ptrToNullInt64(f.Places[4]),
			ptrToNullInt64(f.Places[5]),
		).
		Suffix(`ON CONFLICT (year) DO UPDATE SET
			place_1 = EXCLUDED.place_1,
			place_2 = EXCLUDED.place_2,
			place_3 = EXCLUDED.place_3,
			place_4 = EXCLUDED.place_4,
			place_5 = EXCLUDED.place_5,
			place_6 = EXCLUDED.place_6`).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert postseason query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert postseason: %w", err)
	}
	return nil
}
