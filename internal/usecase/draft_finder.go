package usecase

import (
	"context"
	"strings"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/keeper"
)

// KeeperFinderQuery narrows the keeper history.
type KeeperFinderQuery struct {
	YearMin int
	YearMax int

	Teams     []int64
	Positions []string

	RoundMin     int
	RoundMax     int
	TimesKeptMin int

	PlayerName string
}

func (q KeeperFinderQuery) populated() int {
	n := 0
	if q.YearMin != 0 {
		n++
	}
	if q.YearMax != 0 {
		n++
	}
	if len(q.Teams) != 0 {
		n++
	}
	if len(q.Positions) != 0 {
		n++
	}
	if q.RoundMin != 0 {
		n++
	}
	if q.RoundMax != 0 {
		n++
	}
	if q.TimesKeptMin != 0 {
		n++
	}
	if q.PlayerName != "" {
		n++
	}
	return n
}

func (s *FinderService) FindKeepers(ctx context.Context, q KeeperFinderQuery) ([]keeper.Keeper, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinderService.FindKeepers")
	defer span.End()

	if err := checkFilterGate(q.populated()); err != nil {
		return nil, err
	}

	all, err := s.keepers.List(ctx, keeper.Filter{})
	if err != nil {
		return nil, err
	}

	teams := toIDSet(q.Teams)
	positions := toUpperSet(q.Positions)
	name := strings.ToLower(q.PlayerName)

	out := make([]keeper.Keeper, 0)
	for _, k := range all {
		if q.YearMin != 0 && k.Year < q.YearMin {
			continue
		}
		if q.YearMax != 0 && k.Year > q.YearMax {
			continue
		}
		if len(teams) > 0 && !teams[k.TeamID] {
			continue
		}
		if len(positions) > 0 && !positions[strings.ToUpper(k.Position)] {
			continue
		}
		if q.RoundMin != 0 && k.Round < q.RoundMin {
			continue
		}
		if q.RoundMax != 0 && k.Round > q.RoundMax {
			continue
		}
		if q.TimesKeptMin != 0 && k.TimesKept < q.TimesKeptMin {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(k.Name), name) {
			continue
		}
		out = append(out, k)
	}
	return out, nil
}

// DraftPickFinderQuery narrows the draft board.
type DraftPickFinderQuery struct {
	YearMin int
	YearMax int

	Teams     []int64
	Positions []string

	RoundMin int
	RoundMax int

	KeepersOnly bool
	// TradedOnly keeps picks whose slot originally belonged to another team.
	TradedOnly bool

	PlayerName string
}

func (q DraftPickFinderQuery) populated() int {
	n := 0
	if q.YearMin != 0 {
		n++
	}
	if q.YearMax != 0 {
		n++
	}
	if len(q.Teams) != 0 {
		n++
	}
	if len(q.Positions) != 0 {
		n++
	}
	if q.RoundMin != 0 {
		n++
	}
	if q.RoundMax != 0 {
		n++
	}
	if q.KeepersOnly {
		n++
	}
	if q.TradedOnly {
		n++
	}
	if q.PlayerName != "" {
		n++
	}
	return n
}

func (s *FinderService) FindDraftPicks(ctx context.Context, q DraftPickFinderQuery) ([]draftpick.DraftPick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinderService.FindDraftPicks")
	defer span.End()

	if err := checkFilterGate(q.populated()); err != nil {
		return nil, err
	}

	all, err := s.picks.List(ctx, draftpick.Filter{})
	if err != nil {
		return nil, err
	}

	teams := toIDSet(q.Teams)
	positions := toUpperSet(q.Positions)
	name := strings.ToLower(q.PlayerName)

	out := make([]draftpick.DraftPick, 0)
	for _, p := range all {
		if q.YearMin != 0 && p.Year < q.YearMin {
			continue
		}
		if q.YearMax != 0 && p.Year > q.YearMax {
			continue
		}
		if len(teams) > 0 && !teams[p.TeamID] {
			continue
		}
		if len(positions) > 0 && !positions[strings.ToUpper(p.Position)] {
			continue
		}
		if q.RoundMin != 0 && p.Round < q.RoundMin {
			continue
		}
		if q.RoundMax != 0 && p.Round > q.RoundMax {
			continue
		}
		if q.KeepersOnly && !p.IsKeeper {
			continue
		}
		if q.TradedOnly && (p.OriginalTeamID == nil || *p.OriginalTeamID == p.TeamID) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(p.Name), name) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
