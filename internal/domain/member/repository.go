package member

import "context"

type Repository interface {
	List(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id int64) (Member, bool, error)
	ListFake(ctx context.Context, activeOnly bool) ([]FakeMember, error)
}
