package usecase

import (
	"context"
	"testing"

	"github.com/blingaleague/companion/internal/domain/game"
)

func TestSeasonService_BeltHistory_ClaimDefendLose(t *testing.T) {
	t.Parallel()

	// Week 1: Allen claims the belt. Week 2: Allen defends. Week 3: Drake
	// takes it.
	f := newSeasonFixture([]game.Game{
		tg(1, 1, idAllen, idBaker, "100", "90"),
		tg(2, 2, idAllen, idCarter, "95", "80"),
		tg(3, 3, idDrake, idAllen, "105", "70"),
	}, nil, nil, nil)

	reigns, err := f.service.BeltHistory(context.Background())
	if err != nil {
		t.Fatalf("BeltHistory error: %v", err)
	}
	if len(reigns) != 2 {
		t.Fatalf("expected 2 reigns, got %d", len(reigns))
	}

	first := reigns[0]
	if first.HolderID != idAllen || first.DefenseCount != 1 || first.Current {
		t.Fatalf("unexpected first reign: %+v", first)
	}
	if first.StartingGame.ID != 1 {
		t.Fatalf("first reign starts with game %d, want 1", first.StartingGame.ID)
	}
	if first.GameSpan() != 2 {
		t.Fatalf("first reign spans %d games, want 2", first.GameSpan())
	}

	second := reigns[1]
	if second.HolderID != idDrake || second.DefenseCount != 0 || !second.Current {
		t.Fatalf("unexpected second reign: %+v", second)
	}
	if second.StartingGame.ID != 3 {
		t.Fatalf("second reign starts with game %d, want 3", second.StartingGame.ID)
	}
}

func TestSeasonService_BeltHistory_HolderSittingOutKeepsBelt(t *testing.T) {
	t.Parallel()

	// Allen claims in week 1, plays nobody in week 2 while others play, and
	// defends again in week 3.
	f := newSeasonFixture([]game.Game{
		tg(1, 1, idAllen, idBaker, "100", "90"),
		tg(2, 2, idCarter, idDrake, "88", "70"),
		tg(3, 3, idAllen, idDrake, "92", "60"),
	}, nil, nil, nil)

	reigns, err := f.service.BeltHistory(context.Background())
	if err != nil {
		t.Fatalf("BeltHistory error: %v", err)
	}
	if len(reigns) != 1 {
		t.Fatalf("expected a single reign, got %d", len(reigns))
	}
	if reigns[0].HolderID != idAllen || reigns[0].DefenseCount != 1 || !reigns[0].Current {
		t.Fatalf("unexpected reign: %+v", reigns[0])
	}
}

func TestSeasonService_CurrentBeltHolder(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	reign, ok, err := f.service.CurrentBeltHolder(context.Background())
	if err != nil {
		t.Fatalf("CurrentBeltHolder error: %v", err)
	}
	if !ok {
		t.Fatal("expected a current holder")
	}
	// Allen wins every game it plays, so the belt never moves.
	if reign.HolderID != idAllen || !reign.Current {
		t.Fatalf("unexpected current reign: %+v", reign)
	}

	empty := newSeasonFixture(nil, nil, nil, nil)
	if _, ok, err := empty.service.CurrentBeltHolder(context.Background()); err != nil || ok {
		t.Fatalf("empty league: ok=%t err=%v, want no holder", ok, err)
	}
}
