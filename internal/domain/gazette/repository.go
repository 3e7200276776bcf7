package gazette

import "context"

type Repository interface {
	List(ctx context.Context, publishedOnly bool) ([]Gazette, error)
	GetBySlug(ctx context.Context, slug string) (Gazette, bool, error)
	Save(ctx context.Context, g Gazette) (Gazette, error)
	// MarkEmailSent flips the idempotence bit; repeated saves after the
	// first publish must not resend.
	MarkEmailSent(ctx context.Context, id int64) error
	ListPlayerNotes(ctx context.Context) ([]PlayerNote, error)
}
