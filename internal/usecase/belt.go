package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/blingaleague/companion/internal/domain/game"
)

// BeltReign is one stretch of belt ownership. The starting game is the win
// that claimed the belt (for the very first holder, their week-one game);
// DefenseCount counts the wins after it.
type BeltReign struct {
	HolderID     int64
	StartingGame game.Game
	DefenseCount int
	Current      bool
}

func (r BeltReign) GameSpan() int { return r.DefenseCount + 1 }

// BeltHistory replays the whole game log chronologically. The first Team
// Blangums winner claims the belt; each later week the holder either defends
// (a win keeps the belt), loses it to that game's winner, or sits out.
func (s *SeasonService) BeltHistory(ctx context.Context) ([]BeltReign, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.BeltHistory")
	defer span.End()

	v, err := s.cache.GetOrLoad(ctx, "Belt|league|history", func(ctx context.Context) (any, error) {
		return s.buildBeltHistory(ctx)
	})
	if err != nil {
		return nil, err
	}
	if reigns, ok := v.([]BeltReign); ok {
		return reigns, nil
	}
	return s.buildBeltHistory(ctx)
}

// CurrentBeltHolder returns the open reign, or false when no game has been
// played yet.
func (s *SeasonService) CurrentBeltHolder(ctx context.Context) (BeltReign, bool, error) {
	reigns, err := s.BeltHistory(ctx)
	if err != nil {
		return BeltReign{}, false, err
	}
	if len(reigns) == 0 {
		return BeltReign{}, false, nil
	}
	return reigns[len(reigns)-1], true, nil
}

func (s *SeasonService) buildBeltHistory(ctx context.Context) ([]BeltReign, error) {
	games, err := s.games.List(ctx, game.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		return nil, nil
	}

	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Year != games[j].Year {
			return games[i].Year < games[j].Year
		}
		return games[i].Week < games[j].Week
	})

	type weekSlot struct {
		year, week int
	}
	byWeek := make(map[weekSlot][]game.Game)
	order := make([]weekSlot, 0)
	for _, g := range games {
		slot := weekSlot{g.Year, g.Week}
		if _, ok := byWeek[slot]; !ok {
			order = append(order, slot)
		}
		byWeek[slot] = append(byWeek[slot], g)
	}

	nameOf, err := s.memberNames(ctx)
	if err != nil {
		return nil, err
	}

	// The inaugural holder is the first week's Team Blangums winner; their
	// game that week is the claim.
	first := byWeek[order[0]]
	holderID, _ := computeWeeklyAwards(first, nameOf)
	var current BeltReign
	current.HolderID = holderID
	for _, g := range first {
		if g.Involves(holderID) {
			current.StartingGame = g
			break
		}
	}

	reigns := make([]BeltReign, 0)
	for _, slot := range order[1:] {
		for _, g := range byWeek[slot] {
			if g.LoserID == current.HolderID {
				reigns = append(reigns, current)
				current = BeltReign{HolderID: g.WinnerID, StartingGame: g}
				break
			}
			if g.WinnerID == current.HolderID {
				current.DefenseCount++
				break
			}
		}
	}

	current.Current = true
	reigns = append(reigns, current)
	return reigns, nil
}
