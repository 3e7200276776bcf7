package trade

import "context"

// Repository reads trades ordered by (year, week, date, id), assets included.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Trade, error)
}
