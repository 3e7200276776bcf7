package member

import (
	"fmt"
	"strings"
)

// Member is a league team identity. The id is stable across seasons even
// when the human behind it changes nicknames.
type Member struct {
	ID          int64
	FirstName   string
	LastName    string
	Nickname    string
	Email       string
	Defunct     bool
	UseNickname bool
}

func (m Member) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("member id is required")
	}
	if strings.TrimSpace(m.FirstName) == "" {
		return fmt.Errorf("member first name is required")
	}
	return nil
}

// DisplayName is the name shown in standings and gazette copy.
func (m Member) DisplayName() string {
	if m.UseNickname && strings.TrimSpace(m.Nickname) != "" {
		return m.Nickname
	}
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// FakeMember is a secondary mail recipient (co-manager, superfan). It may
// weakly reference a real member.
type FakeMember struct {
	ID                 int64
	Name               string
	Email              string
	Active             bool
	AssociatedMemberID *int64
}
