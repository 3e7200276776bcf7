package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/blingaleague/companion/internal/domain/game"
)

type GameRepository struct {
	mu      sync.RWMutex
	games   []game.Game
	futures []game.FutureGame
	nextID  int64
}

func NewGameRepository(games []game.Game, futures []game.FutureGame) *GameRepository {
	r := &GameRepository{
		games:   append([]game.Game(nil), games...),
		futures: append([]game.FutureGame(nil), futures...),
		nextID:  1,
	}
	for _, g := range r.games {
		if g.ID >= r.nextID {
			r.nextID = g.ID + 1
		}
	}
	for _, fg := range r.futures {
		if fg.ID >= r.nextID {
			r.nextID = fg.ID + 1
		}
	}
	return r
}

func (r *GameRepository) List(_ context.Context, filter game.Filter) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]game.Game, 0)
	for _, g := range r.games {
		if filter.Matches(g) {
			out = append(out, g)
		}
	}
	sortGames(out)
	return out, nil
}

func (r *GameRepository) ListWon(ctx context.Context, teamID int64) ([]game.Game, error) {
	games, err := r.List(ctx, game.Filter{TeamID: teamID})
	if err != nil {
		return nil, err
	}
	out := games[:0]
	for _, g := range games {
		if g.WinnerID == teamID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GameRepository) ListLost(ctx context.Context, teamID int64) ([]game.Game, error) {
	games, err := r.List(ctx, game.Filter{TeamID: teamID})
	if err != nil {
		return nil, err
	}
	out := games[:0]
	for _, g := range games {
		if g.LoserID == teamID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *GameRepository) ListFuture(_ context.Context, filter game.Filter) ([]game.FutureGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]game.FutureGame, 0)
	for _, fg := range r.futures {
		if filter.MatchesFuture(fg) {
			out = append(out, fg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) Create(_ context.Context, g game.Game) (game.Game, error) {
	if err := g.Validate(); err != nil {
		return game.Game{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = r.nextID
	r.nextID++
	r.games = append(r.games, g)
	return g, nil
}

func (r *GameRepository) CreateFuture(_ context.Context, fg game.FutureGame) (game.FutureGame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fg.ID = r.nextID
	r.nextID++
	r.futures = append(r.futures, fg)
	return fg, nil
}

func sortGames(games []game.Game) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Year != games[j].Year {
			return games[i].Year < games[j].Year
		}
		if games[i].Week != games[j].Week {
			return games[i].Week < games[j].Week
		}
		return games[i].ID < games[j].ID
	})
}
