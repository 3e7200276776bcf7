package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/blingaleague/companion/internal/domain/game"
	qb "github.com/blingaleague/companion/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func gameConditions(filter game.Filter) []qb.Condition {
	conditions := make([]qb.Condition, 0, 4)
	if filter.Year != 0 {
		conditions = append(conditions, qb.Eq("year", filter.Year))
	}
	if filter.Week != 0 {
		conditions = append(conditions, qb.Eq("week", filter.Week))
	}
	if filter.WeekMax != 0 {
		conditions = append(conditions, qb.Lte("week", filter.WeekMax))
	}
	return conditions
}

func (r *GameRepository) List(ctx context.Context, filter game.Filter) ([]game.Game, error) {
	conditions := gameConditions(filter)
	if filter.TeamID != 0 {
		conditions = append(conditions, qb.Expr("(winner_id = ? OR loser_id = ?)", filter.TeamID, filter.TeamID))
	}

	query, args, err := qb.Select("*").From("games").
		Where(conditions...).
		OrderBy("year", "week", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) ListWon(ctx context.Context, teamID int64) ([]game.Game, error) {
	return r.listByColumn(ctx, "winner_id", teamID)
}

func (r *GameRepository) ListLost(ctx context.Context, teamID int64) ([]game.Game, error) {
	return r.listByColumn(ctx, "loser_id", teamID)
}

func (r *GameRepository) listByColumn(ctx context.Context, column string, teamID int64) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq(column, teamID)).
		OrderBy("year", "week", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games by %s query: %w", column, err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games by %s: %w", column, err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) ListFuture(ctx context.Context, filter game.Filter) ([]game.FutureGame, error) {
	conditions := gameConditions(filter)
	if filter.TeamID != 0 {
		conditions = append(conditions, qb.Expr("(team_1_id = ? OR team_2_id = ?)", filter.TeamID, filter.TeamID))
	}

	query, args, err := qb.Select("*").From("future_games").
		Where(conditions...).
		OrderBy("year", "week", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select future games query: %w", err)
	}

	var rows []futureGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select future games: %w", err)
	}

	out := make([]game.FutureGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) (game.Game, error) {
	if err := g.Validate(); err != nil {
		return game.Game{}, err
	}

	query, args, err := qb.InsertInto("games").
		Columns("year", "week", "winner_id", "loser_id", "winner_score", "loser_score", "notes").
		Values(g.Year, g.Week, g.WinnerID, g.LoserID, g.WinnerScore, g.LoserScore, stringToNullString(g.Notes)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	if err := r.db.GetContext(ctx, &g.ID, query, args...); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}
	return g, nil
}

func (r *GameRepository) CreateFuture(ctx context.Context, fg game.FutureGame) (game.FutureGame, error) {
	query, args, err := qb.InsertInto("future_games").
		Columns("year", "week", "team_1_id", "team_2_id").
		Values(fg.Year, fg.Week, fg.Team1ID, fg.Team2ID).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return game.FutureGame{}, fmt.Errorf("build insert future game query: %w", err)
	}

	if err := r.db.GetContext(ctx, &fg.ID, query, args...); err != nil {
		return game.FutureGame{}, fmt.Errorf("insert future game: %w", err)
	}
	return fg, nil
}
