package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blingaleague/companion/internal/domain/gazette"
)

type GazetteRepository struct {
	mu       sync.RWMutex
	gazettes []gazette.Gazette
	notes    []gazette.PlayerNote
	nextID   int64
}

func NewGazetteRepository(gazettes []gazette.Gazette, notes []gazette.PlayerNote) *GazetteRepository {
	r := &GazetteRepository{
		gazettes: append([]gazette.Gazette(nil), gazettes...),
		notes:    append([]gazette.PlayerNote(nil), notes...),
		nextID:   1,
	}
	for _, g := range r.gazettes {
		if g.ID >= r.nextID {
			r.nextID = g.ID + 1
		}
	}
	return r
}

func (r *GazetteRepository) List(_ context.Context, publishedOnly bool) ([]gazette.Gazette, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]gazette.Gazette, 0, len(r.gazettes))
	for _, g := range r.gazettes {
		if publishedOnly && !g.Published {
			continue
		}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].PublishedDate, out[j].PublishedDate
		if pi != nil && pj != nil && !pi.Equal(*pj) {
			return pi.After(*pj)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *GazetteRepository) GetBySlug(_ context.Context, slug string) (gazette.Gazette, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.gazettes {
		if g.Slug == slug {
			return g, true, nil
		}
	}
	return gazette.Gazette{}, false, nil
}

func (r *GazetteRepository) Save(_ context.Context, g gazette.Gazette) (gazette.Gazette, error) {
	if err := g.Validate(); err != nil {
		return gazette.Gazette{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == 0 {
		g.ID = r.nextID
		r.nextID++
		r.gazettes = append(r.gazettes, g)
		return g, nil
	}
	for i := range r.gazettes {
		if r.gazettes[i].ID == g.ID {
			// The email_sent bit only moves through MarkEmailSent.
			g.EmailSent = r.gazettes[i].EmailSent
			r.gazettes[i] = g
			return g, nil
		}
	}
	return gazette.Gazette{}, fmt.Errorf("gazette %d not found", g.ID)
}

func (r *GazetteRepository) MarkEmailSent(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.gazettes {
		if r.gazettes[i].ID == id {
			r.gazettes[i].EmailSent = true
			return nil
		}
	}
	return fmt.Errorf("gazette %d not found", id)
}

func (r *GazetteRepository) ListPlayerNotes(_ context.Context) ([]gazette.PlayerNote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]gazette.PlayerNote(nil), r.notes...), nil
}
