package usecase

import (
	"fmt"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/keeper"
	"github.com/blingaleague/companion/internal/domain/league"
	"github.com/blingaleague/companion/internal/domain/trade"
	"github.com/blingaleague/companion/internal/platform/logging"
)

// MinFinderFilters is the gate every finder shares: a query narrower than
// this many populated fields is refused rather than dumping the whole table.
const MinFinderFilters = 2

// FinderService hosts the multi-predicate search pipelines over games,
// seasons, trades, keepers, and draft picks.
type FinderService struct {
	seasons *SeasonService
	games   game.Repository
	trades  trade.Repository
	keepers keeper.Repository
	picks   draftpick.Repository
	rules   league.Rules
	logger  *logging.Logger
}

func NewFinderService(
	seasons *SeasonService,
	games game.Repository,
	trades trade.Repository,
	keepers keeper.Repository,
	picks draftpick.Repository,
	rules league.Rules,
	logger *logging.Logger,
) *FinderService {
	if logger == nil {
		logger = logging.Default()
	}
	return &FinderService{
		seasons: seasons,
		games:   games,
		trades:  trades,
		keepers: keepers,
		picks:   picks,
		rules:   rules,
		logger:  logger,
	}
}

func checkFilterGate(populated int) error {
	if populated < MinFinderFilters {
		return fmt.Errorf("%w: must filter on at least %d fields", ErrInvalidInput, MinFinderFilters)
	}
	return nil
}

// TeamRollup is the per-team W/L summary derived over a finder's results.
type TeamRollup struct {
	TeamID int64
	Wins   int
	Losses int
}

func rollupGames(games []game.Game) []TeamRollup {
	index := make(map[int64]int)
	out := make([]TeamRollup, 0)
	row := func(teamID int64) *TeamRollup {
		if i, ok := index[teamID]; ok {
			return &out[i]
		}
		out = append(out, TeamRollup{TeamID: teamID})
		index[teamID] = len(out) - 1
		return &out[len(out)-1]
	}
	for _, g := range games {
		row(g.WinnerID).Wins++
		row(g.LoserID).Losses++
	}
	return out
}
