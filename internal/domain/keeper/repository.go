package keeper

import "context"

type Repository interface {
	List(ctx context.Context, filter Filter) ([]Keeper, error)
}
