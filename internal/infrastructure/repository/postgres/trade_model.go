package postgres

import (
	"database/sql"
	"time"

	"github.com/blingaleague/companion/internal/domain/trade"
)

type tradeTableModel struct {
	ID   int64     `db:"id"`
	Year int       `db:"year"`
	Week int       `db:"week"`
	Date time.Time `db:"date"`
}

type tradedAssetTableModel struct {
	ID             int64          `db:"id"`
	TradeID        int64          `db:"trade_id"`
	Name           string         `db:"name"`
	Position       sql.NullString `db:"position"`
	IsDraftPick    bool           `db:"is_draft_pick"`
	KeeperCost     sql.NullInt64  `db:"keeper_cost"`
	KeeperEligible bool           `db:"keeper_eligible"`
	SenderID       int64          `db:"sender_id"`
	ReceiverID     int64          `db:"receiver_id"`
}

func (m tradedAssetTableModel) toDomain() trade.Asset {
	var keeperCost *int
	if m.KeeperCost.Valid {
		cost := int(m.KeeperCost.Int64)
		keeperCost = &cost
	}
	return trade.Asset{
		ID:             m.ID,
		TradeID:        m.TradeID,
		Name:           m.Name,
		Position:       nullStringToString(m.Position),
		IsDraftPick:    m.IsDraftPick,
		KeeperCost:     keeperCost,
		KeeperEligible: m.KeeperEligible,
		SenderID:       m.SenderID,
		ReceiverID:     m.ReceiverID,
	}
}
