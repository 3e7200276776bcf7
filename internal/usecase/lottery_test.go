package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/platform/logging"
)

func TestLotteryService_Run_WeightsByInverseFinish(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	service := NewLotteryService(f.service, logging.NewNop())

	result, err := service.Run(context.Background(), 2008, 2000, 42)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.Year != 2008 || result.Trials != 2000 {
		t.Fatalf("unexpected result header: %+v", result)
	}

	// Places 1..4 sum to 10, so the last-place team carries weight 0.4.
	weights := map[int64]float64{idAllen: 0.1, idBaker: 0.2, idCarter: 0.3, idDrake: 0.4}
	if len(result.Entries) != len(weights) {
		t.Fatalf("expected %d entries, got %d", len(weights), len(result.Entries))
	}
	for _, e := range result.Entries {
		if math.Abs(e.Weight-weights[e.TeamID]) > 1e-9 {
			t.Fatalf("team %d weight %f, want %f", e.TeamID, e.Weight, weights[e.TeamID])
		}
	}

	// Every trial fills every slot.
	for teamID, counts := range result.SlotCounts {
		total := 0
		for _, n := range counts {
			total += n
		}
		if total != result.Trials {
			t.Fatalf("team %d appears in %d trials, want %d", teamID, total, result.Trials)
		}
	}
	if len(result.ActualOrder) != 4 {
		t.Fatalf("sampled order has %d slots, want 4", len(result.ActualOrder))
	}

	// The empirical first-pick share tracks the weights.
	if result.FirstPickPct(idDrake) <= result.FirstPickPct(idAllen) {
		t.Fatalf("last place first-pick share %.3f should exceed first place %.3f",
			result.FirstPickPct(idDrake), result.FirstPickPct(idAllen))
	}
}

func TestLotteryService_Run_SeededRunsAreReproducible(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	service := NewLotteryService(f.service, logging.NewNop())

	first, err := service.Run(context.Background(), 2008, 500, 7)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	second, err := service.Run(context.Background(), 2008, 500, 7)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	for teamID, counts := range first.SlotCounts {
		other := second.SlotCounts[teamID]
		for slot, n := range counts {
			if other[slot] != n {
				t.Fatalf("team %d slot %d: %d vs %d across identical seeds", teamID, slot, n, other[slot])
			}
		}
	}
	for i, teamID := range first.ActualOrder {
		if second.ActualOrder[i] != teamID {
			t.Fatalf("sampled order diverged at slot %d", i)
		}
	}
}

func TestLotteryService_Run_RefusesUnfinishedSeason(t *testing.T) {
	t.Parallel()

	f := newSeasonFixture([]game.Game{
		tg(1, 1, idAllen, idBaker, "100", "90"),
	}, nil, nil, nil)
	service := NewLotteryService(f.service, logging.NewNop())

	_, err := service.Run(context.Background(), 2008, 100, 1)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
