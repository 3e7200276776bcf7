package game

import "context"

// Filter narrows a fact read. Zero fields mean "any". Filters are values;
// richer predicate pipelines live in the finder layer.
type Filter struct {
	Year    int
	Week    int
	TeamID  int64
	WeekMax int
}

func (f Filter) Matches(g Game) bool {
	if f.Year != 0 && g.Year != f.Year {
		return false
	}
	if f.Week != 0 && g.Week != f.Week {
		return false
	}
	if f.WeekMax != 0 && g.Week > f.WeekMax {
		return false
	}
	if f.TeamID != 0 && !g.Involves(f.TeamID) {
		return false
	}
	return true
}

func (f Filter) MatchesFuture(g FutureGame) bool {
	if f.Year != 0 && g.Year != f.Year {
		return false
	}
	if f.Week != 0 && g.Week != f.Week {
		return false
	}
	if f.WeekMax != 0 && g.Week > f.WeekMax {
		return false
	}
	if f.TeamID != 0 && !g.Involves(f.TeamID) {
		return false
	}
	return true
}

// Repository reads game facts ordered by (year, week, id). Repeatable reads
// within one derivation; caching is the memoization layer's job.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Game, error)
	ListWon(ctx context.Context, teamID int64) ([]Game, error)
	ListLost(ctx context.Context, teamID int64) ([]Game, error)
	ListFuture(ctx context.Context, filter Filter) ([]FutureGame, error)
	Create(ctx context.Context, g Game) (Game, error)
	CreateFuture(ctx context.Context, g FutureGame) (FutureGame, error)
}
