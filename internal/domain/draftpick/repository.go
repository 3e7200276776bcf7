package draftpick

import "context"

// Repository reads picks ordered by (year, round, pick_in_round). Create
// must reject duplicate slots with ErrDuplicateSlot.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]DraftPick, error)
	Create(ctx context.Context, p DraftPick) (DraftPick, error)
}
