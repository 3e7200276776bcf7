package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/blingaleague/companion/internal/domain/member"
	qb "github.com/blingaleague/companion/internal/platform/querybuilder"
)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context) ([]member.Member, error) {
	query, args, err := qb.Select("*").From("members").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select members query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select members: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id int64) (member.Member, bool, error) {
	query, args, err := qb.Select("*").From("members").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return member.Member{}, false, fmt.Errorf("build get member by id query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return member.Member{}, false, nil
		}
		return member.Member{}, false, fmt.Errorf("get member by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MemberRepository) ListFake(ctx context.Context, activeOnly bool) ([]member.FakeMember, error) {
	builder := qb.Select("*").From("fake_members").OrderBy("id")
	if activeOnly {
		builder = builder.Where(qb.Eq("active", true))
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fake members query: %w", err)
	}

	var rows []fakeMemberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fake members: %w", err)
	}

	out := make([]member.FakeMember, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
