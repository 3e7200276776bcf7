package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/blingaleague/companion/internal/domain/gazette"
	qb "github.com/blingaleague/companion/internal/platform/querybuilder"
)

type GazetteRepository struct {
	db *sqlx.DB
}

func NewGazetteRepository(db *sqlx.DB) *GazetteRepository {
	return &GazetteRepository{db: db}
}

func (r *GazetteRepository) List(ctx context.Context, publishedOnly bool) ([]gazette.Gazette, error) {
	builder := qb.Select("*").From("gazettes").
		OrderBy("published_date DESC NULLS LAST", "id DESC")
	if publishedOnly {
		builder = builder.Where(qb.Eq("published", true))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select gazettes query: %w", err)
	}

	var rows []gazetteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select gazettes: %w", err)
	}

	out := make([]gazette.Gazette, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GazetteRepository) GetBySlug(ctx context.Context, slug string) (gazette.Gazette, bool, error) {
	query, args, err := qb.Select("*").From("gazettes").
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return gazette.Gazette{}, false, fmt.Errorf("build get gazette by slug query: %w", err)
	}

	var row gazetteTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gazette.Gazette{}, false, nil
		}
		return gazette.Gazette{}, false, fmt.Errorf("get gazette by slug: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GazetteRepository) Save(ctx context.Context, g gazette.Gazette) (gazette.Gazette, error) {
	if err := g.Validate(); err != nil {
		return gazette.Gazette{}, err
	}

	if g.ID == 0 {
		query, args, err := qb.InsertInto("gazettes").
			Columns("headline", "published", "published_date", "body", "slug", "email_sent", "use_markdown", "tags").
			Values(g.Headline, g.Published, g.PublishedDate, stringToNullString(g.Body),
				g.Slug, false, g.UseMarkdown, pq.StringArray(g.Tags)).
			Suffix("RETURNING id").
			ToSQL()
		if err != nil {
			return gazette.Gazette{}, fmt.Errorf("build insert gazette query: %w", err)
		}
		if err := r.db.GetContext(ctx, &g.ID, query, args...); err != nil {
			return gazette.Gazette{}, fmt.Errorf("insert gazette: %w", err)
		}
		return g, nil
	}

	// Saves never touch email_sent; that bit only moves through
	// MarkEmailSent so a republished issue is not re-delivered.
	query, args, err := qb.Update("gazettes").
		Set("headline", g.Headline).
		Set("published", g.Published).
		Set("published_date", g.PublishedDate).
		Set("body", stringToNullString(g.Body)).
		Set("slug", g.Slug).
		Set("use_markdown", g.UseMarkdown).
		Set("tags", pq.StringArray(g.Tags)).
		Where(qb.Eq("id", g.ID)).
		ToSQL()
	if err != nil {
		return gazette.Gazette{}, fmt.Errorf("build update gazette query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return gazette.Gazette{}, fmt.Errorf("update gazette: %w", err)
	}
	return g, nil
}

func (r *GazetteRepository) MarkEmailSent(ctx context.Context, id int64) error {
	query, args, err := qb.Update("gazettes").
		Set("email_sent", true).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark email sent query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}

func (r *GazetteRepository) ListPlayerNotes(ctx context.Context) ([]gazette.PlayerNote, error) {
	query, args, err := qb.Select("*").From("player_notes").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player notes query: %w", err)
	}

	var rows []playerNoteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player notes: %w", err)
	}

	out := make([]gazette.PlayerNote, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
