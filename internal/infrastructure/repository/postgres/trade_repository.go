package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/blingaleague/companion/internal/domain/trade"
	qb "github.com/blingaleague/companion/internal/platform/querybuilder"
)

type TradeRepository struct {
	db *sqlx.DB
}

func NewTradeRepository(db *sqlx.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

func (r *TradeRepository) List(ctx context.Context, filter trade.Filter) ([]trade.Trade, error) {
	conditions := make([]qb.Condition, 0, 2)
	if filter.Year != 0 {
		conditions = append(conditions, qb.Eq("year", filter.Year))
	}
	if filter.Week != 0 {
		conditions = append(conditions, qb.Eq("week", filter.Week))
	}
	if filter.TeamID != 0 {
		conditions = append(conditions, qb.Expr(
			"id IN (SELECT trade_id FROM traded_assets WHERE sender_id = ? OR receiver_id = ?)",
			filter.TeamID, filter.TeamID))
	}

	query, args, err := qb.Select("*").From("trades").
		Where(conditions...).
		OrderBy("year", "week", "date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select trades query: %w", err)
	}

	var rows []tradeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select trades: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	assetQuery, assetArgs, err := qb.Select("*").From("traded_assets").
		Where(qb.In("trade_id", ids)).
		OrderBy("trade_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select traded assets query: %w", err)
	}

	var assetRows []tradedAssetTableModel
	if err := r.db.SelectContext(ctx, &assetRows, assetQuery, assetArgs...); err != nil {
		return nil, fmt.Errorf("select traded assets: %w", err)
	}

	assetsByTrade := make(map[int64][]trade.Asset, len(rows))
	for _, row := range assetRows {
		assetsByTrade[row.TradeID] = append(assetsByTrade[row.TradeID], row.toDomain())
	}

	out := make([]trade.Trade, 0, len(rows))
	for _, row := range rows {
		out = append(out, trade.Trade{
			ID:     row.ID,
			Year:   row.Year,
			Week:   row.Week,
			Date:   row.Date,
			Assets: assetsByTrade[row.ID],
		})
	}
	return out, nil
}
