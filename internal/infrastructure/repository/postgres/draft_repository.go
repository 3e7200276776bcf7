package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/keeper"
	qb "github.com/blingaleague/companion/internal/platform/querybuilder"
)

type KeeperRepository struct {
	db *sqlx.DB
}

func NewKeeperRepository(db *sqlx.DB) *KeeperRepository {
	return &KeeperRepository{db: db}
}

func (r *KeeperRepository) List(ctx context.Context, filter keeper.Filter) ([]keeper.Keeper, error) {
	conditions := make([]qb.Condition, 0, 2)
	if filter.Year != 0 {
		conditions = append(conditions, qb.Eq("year", filter.Year))
	}
	if filter.TeamID != 0 {
		conditions = append(conditions, qb.Eq("team_id", filter.TeamID))
	}

	query, args, err := qb.Select("*").From("keepers").
		Where(conditions...).
		OrderBy("year", "round", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select keepers query: %w", err)
	}

	var rows []keeperTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select keepers: %w", err)
	}

	out := make([]keeper.Keeper, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

type DraftPickRepository struct {
	db *sqlx.DB
}

func NewDraftPickRepository(db *sqlx.DB) *DraftPickRepository {
	return &DraftPickRepository{db: db}
}

func (r *DraftPickRepository) List(ctx context.Context, filter draftpick.Filter) ([]draftpick.DraftPick, error) {
	conditions := make([]qb.Condition, 0, 3)
	if filter.Year != 0 {
		conditions = append(conditions, qb.Eq("year", filter.Year))
	}
	if filter.Round != 0 {
		conditions = append(conditions, qb.Eq("round", filter.Round))
	}
	if filter.TeamID != 0 {
		conditions = append(conditions, qb.Eq("team_id", filter.TeamID))
	}

	query, args, err := qb.Select("*").From("draft_picks").
		Where(conditions...).
		OrderBy("year", "round", "pick_in_round").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select draft picks query: %w", err)
	}

	var rows []draftPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select draft picks: %w", err)
	}

	out := make([]draftpick.DraftPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *DraftPickRepository) Create(ctx context.Context, p draftpick.DraftPick) (draftpick.DraftPick, error) {
	if err := p.Validate(); err != nil {
		return draftpick.DraftPick{}, err
	}

	query, args, err := qb.InsertInto("draft_picks").
		Columns("name", "position", "year", "round", "pick_in_round", "is_keeper", "notes", "team_id", "original_team_id").
		Values(
			p.Name,
			stringToNullString(p.Position),
			p.Year,
			p.Round,
			p.PickInRound,
			p.IsKeeper,
			stringToNullString(p.Notes),
			p.TeamID,
			ptrToNullInt64(p.OriginalTeamID),
		).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return draftpick.DraftPick{}, fmt.Errorf("build insert draft pick query: %w", err)
	}

	if err := r.db.GetContext(ctx, &p.ID, query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return draftpick.DraftPick{}, fmt.Errorf("%w: %s", draftpick.ErrDuplicateSlot, p.SlotKey())
		}
		return draftpick.DraftPick{}, fmt.Errorf("insert draft pick: %w", err)
	}
	return p, nil
}
