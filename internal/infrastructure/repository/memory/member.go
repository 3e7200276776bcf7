// Package memory holds in-process repositories. Tests and the api's
// no-database fallback wiring use them; ordering guarantees match the
// postgres implementations.
package memory

import (
	"context"
	"sync"

	"github.com/blingaleague/companion/internal/domain/member"
)

type MemberRepository struct {
	mu      sync.RWMutex
	members []member.Member
	fakes   []member.FakeMember
}

func NewMemberRepository(members []member.Member, fakes []member.FakeMember) *MemberRepository {
	return &MemberRepository{
		members: append([]member.Member(nil), members...),
		fakes:   append([]member.FakeMember(nil), fakes...),
	}
}

func (r *MemberRepository) List(_ context.Context) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]member.Member(nil), r.members...), nil
}

func (r *MemberRepository) GetByID(_ context.Context, id int64) (member.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.ID == id {
			return m, true, nil
		}
	}
	return member.Member{}, false, nil
}

func (r *MemberRepository) ListFake(_ context.Context, activeOnly bool) ([]member.FakeMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]member.FakeMember, 0, len(r.fakes))
	for _, f := range r.fakes {
		if activeOnly && !f.Active {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}
