package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/league"
	"github.com/blingaleague/companion/internal/domain/member"
	"github.com/blingaleague/companion/internal/domain/postseason"
	"github.com/blingaleague/companion/internal/domain/trade"
	"github.com/blingaleague/companion/internal/platform/cache"
	"github.com/blingaleague/companion/internal/platform/logging"
)

// SeasonService is the analytics engine's front door: entity views
// (week/season/matchup), team-season aggregation, expected wins, playoff
// odds, belt lineage. Facts come from the repositories; everything here is
// a pure derivation protected by the memoization layer.
type SeasonService struct {
	members     member.Repository
	games       game.Repository
	postseasons postseason.Repository
	trades      trade.Repository
	rules       league.Rules
	cache       *cache.Store
	logger      *logging.Logger
}

func NewSeasonService(
	members member.Repository,
	games game.Repository,
	postseasons postseason.Repository,
	trades trade.Repository,
	rules league.Rules,
	store *cache.Store,
	logger *logging.Logger,
) *SeasonService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SeasonService{
		members:     members,
		games:       games,
		postseasons: postseasons,
		trades:      trades,
		rules:       rules,
		cache:       store,
		logger:      logger,
	}
}

// SeasonView is one season through an optional week_max cutoff: weeks,
// ordered standings, trades, and the playoff bracket reference.
type SeasonView struct {
	Year            int
	WeekMax         int
	IncludePlayoffs bool
	Weeks           []WeekView
	Standings       []*TeamSeason
	Trades          []trade.Trade
	IsPartial       bool
	Finish          *postseason.Finish
}

func (v *SeasonView) Fingerprint() string {
	playoffs := 0
	if v.IncludePlayoffs {
		playoffs = 1
	}
	return fmt.Sprintf("year=%d,week_max=%d,include_playoffs=%d", v.Year, v.WeekMax, playoffs)
}

// TeamSeason returns the projection for one team, or nil.
func (v *SeasonView) TeamSeason(teamID int64) *TeamSeason {
	for _, ts := range v.Standings {
		if ts.TeamID == teamID {
			return ts
		}
	}
	return nil
}

// Rules returns the league rules (handy for render layers).
func (s *SeasonService) Rules() league.Rules { return s.rules }

// Week assembles one (year, week) slot with its awards.
func (s *SeasonService) Week(ctx context.Context, year, week int) (WeekView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Week")
	defer span.End()

	if year < s.rules.FirstSeason || week < 1 {
		return WeekView{}, fmt.Errorf("%w: year=%d week=%d", ErrInvalidInput, year, week)
	}

	games, err := s.games.List(ctx, game.Filter{Year: year, Week: week})
	if err != nil {
		return WeekView{}, fmt.Errorf("list games: %w", err)
	}
	futures, err := s.games.ListFuture(ctx, game.Filter{Year: year, Week: week})
	if err != nil {
		return WeekView{}, fmt.Errorf("list future games: %w", err)
	}
	trades, err := s.trades.List(ctx, trade.Filter{Year: year, Week: week})
	if err != nil {
		return WeekView{}, fmt.Errorf("list trades: %w", err)
	}
	nameOf, err := s.memberNames(ctx)
	if err != nil {
		return WeekView{}, err
	}

	view := WeekView{
		Year:        year,
		Week:        week,
		Games:       games,
		FutureGames: futures,
		Trades:      trades,
	}
	if week <= s.rules.RegularSeasonWeeks {
		view.BlangumsID, view.SlappedHeartbeatID = computeWeeklyAwards(games, nameOf)
	}

	return view, nil
}

// Season builds the full derived season. weekMax of 0 means "everything
// played"; includePlayoffs extends scoring stats (never the standings
// state machine) past the regular season.
func (s *SeasonService) Season(ctx context.Context, year, weekMax int, includePlayoffs bool) (*SeasonView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Season")
	defer span.End()

	if year < s.rules.FirstSeason {
		return nil, fmt.Errorf("%w: year=%d precedes first season %d", ErrInvalidInput, year, s.rules.FirstSeason)
	}
	if weekMax < 0 {
		return nil, fmt.Errorf("%w: week_max=%d", ErrInvalidInput, weekMax)
	}

	playoffs := 0
	if includePlayoffs {
		playoffs = 1
	}
	key := fmt.Sprintf("Season|year=%d,week_max=%d,include_playoffs=%d|view", year, weekMax, playoffs)
	v, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.buildSeason(ctx, year, weekMax, includePlayoffs)
	})
	if err != nil {
		return nil, err
	}
	view, ok := v.(*SeasonView)
	if !ok {
		// Stale cache shape; compute uncached rather than fail.
		return s.buildSeason(ctx, year, weekMax, includePlayoffs)
	}
	return view, nil
}

// TeamSeason builds one team's projection, through the season pipeline so
// standings state and place are populated.
func (s *SeasonService) TeamSeason(ctx context.Context, teamID int64, year, weekMax int, includePlayoffs bool) (*TeamSeason, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.TeamSeason")
	defer span.End()

	season, err := s.Season(ctx, year, weekMax, includePlayoffs)
	if err != nil {
		return nil, err
	}
	ts := season.TeamSeason(teamID)
	if ts == nil {
		return nil, fmt.Errorf("%w: team=%d year=%d", ErrNotFound, teamID, year)
	}
	return ts, nil
}

// MatchupView is every head-to-head game between two teams.
type MatchupView struct {
	TeamAID int64
	TeamBID int64
	Games   []game.Game
	AWins   int
	BWins   int
}

func (s *SeasonService) Matchup(ctx context.Context, teamA, teamB int64) (MatchupView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Matchup")
	defer span.End()

	if teamA <= 0 || teamB <= 0 || teamA == teamB {
		return MatchupView{}, fmt.Errorf("%w: matchup requires two distinct teams", ErrInvalidInput)
	}

	games, err := s.games.List(ctx, game.Filter{TeamID: teamA})
	if err != nil {
		return MatchupView{}, fmt.Errorf("list games: %w", err)
	}

	view := MatchupView{TeamAID: teamA, TeamBID: teamB}
	for _, g := range games {
		if !g.Involves(teamB) {
			continue
		}
		view.Games = append(view.Games, g)
		if g.WinnerID == teamA {
			view.AWins++
		} else {
			view.BWins++
		}
	}
	return view, nil
}

// TeamMultiSeasons concatenates a team's seasons for across-year views.
type TeamMultiSeasons struct {
	TeamID  int64
	Seasons []*TeamSeason
}

func (m TeamMultiSeasons) Wins() int {
	total := 0
	for _, ts := range m.Seasons {
		total += ts.Wins
	}
	return total
}

func (m TeamMultiSeasons) Losses() int {
	total := 0
	for _, ts := range m.Seasons {
		total += ts.Losses
	}
	return total
}

func (m TeamMultiSeasons) ExpectedWins() float64 {
	total := 0.0
	for _, ts := range m.Seasons {
		total += ts.ExpectedWins()
	}
	return total
}

// Games returns every game in chronological order, for streak scans that
// cross season boundaries.
func (m TeamMultiSeasons) Games() []game.Game {
	out := make([]game.Game, 0)
	for _, ts := range m.Seasons {
		out = append(out, ts.Games...)
	}
	return out
}

func (s *SeasonService) TeamMultiSeasons(ctx context.Context, teamID int64, years []int, includePlayoffs bool) (TeamMultiSeasons, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.TeamMultiSeasons")
	defer span.End()

	if len(years) == 0 {
		all, err := s.Years(ctx)
		if err != nil {
			return TeamMultiSeasons{}, err
		}
		years = all
	}
	sort.Ints(years)

	out := TeamMultiSeasons{TeamID: teamID}
	for _, year := range years {
		season, err := s.Season(ctx, year, 0, includePlayoffs)
		if err != nil {
			return TeamMultiSeasons{}, err
		}
		if ts := season.TeamSeason(teamID); ts != nil {
			out.Seasons = append(out.Seasons, ts)
		}
	}
	return out, nil
}

// Years lists every season with at least one played game, ascending.
func (s *SeasonService) Years(ctx context.Context) ([]int, error) {
	games, err := s.games.List(ctx, game.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	seen := make(map[int]struct{})
	out := make([]int, 0)
	for _, g := range games {
		if _, ok := seen[g.Year]; ok {
			continue
		}
		seen[g.Year] = struct{}{}
		out = append(out, g.Year)
	}
	sort.Ints(out)
	return out, nil
}

// ExpectedWinsModel returns the league-wide empirical model, memoized until
// the next cache flush.
func (s *SeasonService) ExpectedWinsModel(ctx context.Context) (*ExpectedWinsModel, error) {
	v, err := s.cache.GetOrLoad(ctx, "ExpectedWinsModel|league|model", func(ctx context.Context) (any, error) {
		games, err := s.games.List(ctx, game.Filter{})
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		return NewExpectedWinsModel(games, s.rules.RegularSeasonWeeks), nil
	})
	if err != nil {
		return nil, err
	}
	model, ok := v.(*ExpectedWinsModel)
	if !ok {
		games, err := s.games.List(ctx, game.Filter{})
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		return NewExpectedWinsModel(games, s.rules.RegularSeasonWeeks), nil
	}
	return model, nil
}

func (s *SeasonService) memberNames(ctx context.Context) (func(int64) string, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	byID := make(map[int64]member.Member, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}
	return func(id int64) string {
		if m, ok := byID[id]; ok {
			return m.DisplayName()
		}
		return fmt.Sprintf("team %d", id)
	}, nil
}
