package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/blingaleague/companion/internal/domain/postseason"
)

type PostseasonRepository struct {
	mu       sync.RWMutex
	finishes map[int]postseason.Finish
	rankings map[int]postseason.PowerRanking
}

func NewPostseasonRepository(finishes []postseason.Finish, rankings []postseason.PowerRanking) *PostseasonRepository {
	r := &PostseasonRepository{
		finishes: make(map[int]postseason.Finish, len(finishes)),
		rankings: make(map[int]postseason.PowerRanking, len(rankings)),
	}
	for _, f := range finishes {
		r.finishes[f.Year] = f
	}
	for _, pr := range rankings {
		r.rankings[pr.Year] = pr
	}
	return r
}

func (r *PostseasonRepository) GetByYear(_ context.Context, year int) (postseason.Finish, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.finishes[year]
	return f, ok, nil
}

func (r *PostseasonRepository) List(_ context.Context) ([]postseason.Finish, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]postseason.Finish, 0, len(r.finishes))
	for _, f := range r.finishes {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (r *PostseasonRepository) GetPowerRanking(_ context.Context, year int) (postseason.PowerRanking, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pr, ok := r.rankings[year]
	return pr, ok, nil
}

func (r *PostseasonRepository) Upsert(_ context.Context, f postseason.Finish) error {
	if err := f.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finishes[f.Year] = f
	return nil
}
