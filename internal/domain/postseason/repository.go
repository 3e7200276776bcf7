package postseason

import "context"

type Repository interface {
	GetByYear(ctx context.Context, year int) (Finish, bool, error)
	List(ctx context.Context) ([]Finish, error)
	GetPowerRanking(ctx context.Context, year int) (PowerRanking, bool, error)
	Upsert(ctx context.Context, f Finish) error
}
