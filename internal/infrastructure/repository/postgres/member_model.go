package postgres

import (
	"database/sql"

	"github.com/blingaleague/companion/internal/domain/member"
)

type memberTableModel struct {
	ID          int64          `db:"id"`
	FirstName   string         `db:"first_name"`
	LastName    string         `db:"last_name"`
	Nickname    sql.NullString `db:"nickname"`
	Email       sql.NullString `db:"email"`
	Defunct     bool           `db:"defunct"`
	UseNickname bool           `db:"use_nickname"`
}

func (m memberTableModel) toDomain() member.Member {
	return member.Member{
		ID:          m.ID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Nickname:    nullStringToString(m.Nickname),
		Email:       nullStringToString(m.Email),
		Defunct:     m.Defunct,
		UseNickname: m.UseNickname,
	}
}

type fakeMemberTableModel struct {
	ID                 int64          `db:"id"`
	Name               string         `db:"name"`
	Email              sql.NullString `db:"email"`
	Active             bool           `db:"active"`
	AssociatedMemberID sql.NullInt64  `db:"associated_member_id"`
}

func (m fakeMemberTableModel) toDomain() member.FakeMember {
	return member.FakeMember{
		ID:                 m.ID,
		Name:               m.Name,
		Email:              nullStringToString(m.Email),
		Active:             m.Active,
		AssociatedMemberID: nullInt64ToPtr(m.AssociatedMemberID),
	}
}
