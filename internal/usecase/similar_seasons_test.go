package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/blingaleague/companion/internal/domain/game"
)

func TestSeasonService_SimilarSeasons_RanksByDistance(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	hits, err := f.service.SimilarSeasons(context.Background(), idAllen, 2008, 0)
	if err != nil {
		t.Fatalf("SimilarSeasons error: %v", err)
	}

	// The subject never matches itself; the other three teams remain.
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	for _, hit := range hits {
		if hit.Season.TeamID == idAllen && hit.Season.Year == 2008 {
			t.Fatal("subject season leaked into its own neighbors")
		}
	}

	// Baker's 2-1 high-scoring season is the closest thing to Allen's 3-0.
	if hits[0].Season.TeamID != idBaker {
		t.Fatalf("nearest neighbor is team %d, want %d", hits[0].Season.TeamID, idBaker)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Fatalf("hits out of distance order at %d: %f < %f", i, hits[i].Distance, hits[i-1].Distance)
		}
	}
}

func TestSeasonService_SimilarSeasons_LimitApplies(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	hits, err := f.service.SimilarSeasons(context.Background(), idAllen, 2008, 2)
	if err != nil {
		t.Fatalf("SimilarSeasons error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want limit of 2", len(hits))
	}
}

func TestSeasonService_SimilarSeasons_NeedsACorpus(t *testing.T) {
	t.Parallel()

	// A lone in-progress season contributes nothing to the corpus.
	f := newSeasonFixture([]game.Game{
		tg(1, 1, idAllen, idBaker, "100", "90"),
	}, nil, nil, nil)

	_, err := f.service.SimilarSeasons(context.Background(), idAllen, 2008, 5)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
