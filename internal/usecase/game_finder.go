package usecase

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/game"
)

// GameFinderQuery narrows the game log. Zero values do not filter; the
// populated fields must clear the shared finder gate.
type GameFinderQuery struct {
	YearMin int
	YearMax int
	WeekMin int
	WeekMax int

	Teams []int64

	RegularOnly  bool
	PlayoffsOnly bool
	// PlayoffRounds keeps only games of the named round titles.
	PlayoffRounds []string

	ScoreMin  decimal.Decimal
	ScoreMax  decimal.Decimal
	MarginMin decimal.Decimal
	MarginMax decimal.Decimal

	// Outcome is "W" or "L" from the perspective of Teams.
	Outcome string

	// StreakMin keeps wins that are the n-th of at least this many in a row.
	StreakMin int

	Blangums         bool
	SlappedHeartbeat bool
}

func (q GameFinderQuery) populated() int {
	n := 0
	if q.YearMin != 0 {
		n++
	}
	if q.YearMax != 0 {
		n++
	}
	if q.WeekMin != 0 {
		n++
	}
	if q.WeekMax != 0 {
		n++
	}
	if len(q.Teams) != 0 {
		n++
	}
	if q.RegularOnly {
		n++
	}
	if q.PlayoffsOnly {
		n++
	}
	if len(q.PlayoffRounds) != 0 {
		n++
	}
	if !q.ScoreMin.IsZero() {
		n++
	}
	if !q.ScoreMax.IsZero() {
		n++
	}
	if !q.MarginMin.IsZero() {
		n++
	}
	if !q.MarginMax.IsZero() {
		n++
	}
	if q.Outcome != "" {
		n++
	}
	if q.StreakMin != 0 {
		n++
	}
	if q.Blangums {
		n++
	}
	if q.SlappedHeartbeat {
		n++
	}
	return n
}

// GameFinderResult is the filtered games plus per-team rollups.
type GameFinderResult struct {
	Games   []game.Game
	Rollups []TeamRollup
}

func (s *FinderService) FindGames(ctx context.Context, q GameFinderQuery) (GameFinderResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinderService.FindGames")
	defer span.End()

	if err := checkFilterGate(q.populated()); err != nil {
		return GameFinderResult{}, err
	}

	all, err := s.games.List(ctx, game.Filter{})
	if err != nil {
		return GameFinderResult{}, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Year != all[j].Year {
			return all[i].Year < all[j].Year
		}
		return all[i].Week < all[j].Week
	})

	teamSet := make(map[int64]bool, len(q.Teams))
	for _, id := range q.Teams {
		teamSet[id] = true
	}

	awardGames := map[int64]bool{}
	if q.Blangums || q.SlappedHeartbeat {
		awardGames, err = s.awardGameIDs(ctx, all, q.Blangums, q.SlappedHeartbeat)
		if err != nil {
			return GameFinderResult{}, err
		}
	}

	streakGames := map[int64]bool{}
	if q.StreakMin > 0 {
		streakGames = streakGameIDs(all, teamSet, q.StreakMin)
	}

	roundSet := make(map[string]bool, len(q.PlayoffRounds))
	for _, r := range q.PlayoffRounds {
		roundSet[r] = true
	}

	result := GameFinderResult{}
	for _, g := range all {
		if !s.matchGame(ctx, g, q, teamSet, roundSet) {
			continue
		}
		if q.StreakMin > 0 && !streakGames[g.ID] {
			continue
		}
		if (q.Blangums || q.SlappedHeartbeat) && !awardGames[g.ID] {
			continue
		}
		result.Games = append(result.Games, g)
	}
	result.Rollups = rollupGames(result.Games)
	return result, nil
}

func (s *FinderService) matchGame(ctx context.Context, g game.Game, q GameFinderQuery, teamSet map[int64]bool, roundSet map[string]bool) bool {
	if q.YearMin != 0 && g.Year < q.YearMin {
		return false
	}
	if q.YearMax != 0 && g.Year > q.YearMax {
		return false
	}
	if q.WeekMin != 0 && g.Week < q.WeekMin {
		return false
	}
	if q.WeekMax != 0 && g.Week > q.WeekMax {
		return false
	}
	playoff := s.rules.IsPlayoffWeek(g.Week)
	if q.RegularOnly && playoff {
		return false
	}
	if q.PlayoffsOnly && !playoff {
		return false
	}
	if len(roundSet) > 0 {
		if !playoff {
			return false
		}
		if !roundSet[s.playoffRound(ctx, g)] {
			return false
		}
	}
	if len(teamSet) > 0 {
		if !teamSet[g.WinnerID] && !teamSet[g.LoserID] {
			return false
		}
		switch q.Outcome {
		case "W":
			if !teamSet[g.WinnerID] {
				return false
			}
		case "L":
			if !teamSet[g.LoserID] {
				return false
			}
		}
	}
	if !q.ScoreMin.IsZero() && g.WinnerScore.LessThan(q.ScoreMin) && g.LoserScore.LessThan(q.ScoreMin) {
		return false
	}
	if !q.ScoreMax.IsZero() && g.WinnerScore.GreaterThan(q.ScoreMax) && g.LoserScore.GreaterThan(q.ScoreMax) {
		return false
	}
	if !q.MarginMin.IsZero() && g.Margin().LessThan(q.MarginMin) {
		return false
	}
	if !q.MarginMax.IsZero() && g.Margin().GreaterThan(q.MarginMax) {
		return false
	}
	return true
}

// playoffRound names the bracket round of a playoff game, using the
// season's derived finishes to tell consolation games apart.
func (s *FinderService) playoffRound(ctx context.Context, g game.Game) string {
	consolation := false
	if g.Week != s.rules.QuarterfinalWeek() {
		season, err := s.seasons.Season(ctx, g.Year, 0, true)
		if err == nil {
			w := season.TeamSeason(g.WinnerID)
			l := season.TeamSeason(g.LoserID)
			if w != nil && l != nil {
				switch g.Week {
				case s.rules.SemifinalWeek():
					consolation = w.PlayoffFinish >= 5 && l.PlayoffFinish >= 5
				case s.rules.ChampionshipWeek():
					consolation = w.PlayoffFinish >= 3 && l.PlayoffFinish >= 3
				}
			}
		}
	}
	return s.rules.RoundTitle(g.Week, consolation)
}

// awardGameIDs marks games in which a requested weekly award was earned.
func (s *FinderService) awardGameIDs(ctx context.Context, all []game.Game, blangums, slapped bool) (map[int64]bool, error) {
	nameOf, err := s.seasons.memberNames(ctx)
	if err != nil {
		return nil, err
	}

	type slot struct{ year, week int }
	byWeek := make(map[slot][]game.Game)
	for _, g := range all {
		if g.Week > s.rules.RegularSeasonWeeks {
			continue
		}
		byWeek[slot{g.Year, g.Week}] = append(byWeek[slot{g.Year, g.Week}], g)
	}

	out := make(map[int64]bool)
	for _, games := range byWeek {
		high, low := computeWeeklyAwards(games, nameOf)
		for _, g := range games {
			if blangums && g.Involves(high) {
				out[g.ID] = true
			}
			if slapped && g.Involves(low) {
				out[g.ID] = true
			}
		}
	}
	return out, nil
}

// streakGameIDs marks wins that sit at position >= min of a winning run.
func streakGameIDs(all []game.Game, teamSet map[int64]bool, min int) map[int64]bool {
	byTeam := make(map[int64][]game.Game)
	for _, g := range all {
		for _, id := range []int64{g.WinnerID, g.LoserID} {
			if len(teamSet) > 0 && !teamSet[id] {
				continue
			}
			byTeam[id] = append(byTeam[id], g)
		}
	}

	out := make(map[int64]bool)
	for teamID, games := range byTeam {
		streak := 0
		for _, g := range games {
			if g.WinnerID == teamID {
				streak++
				if streak >= min {
					out[g.ID] = true
				}
			} else {
				streak = 0
			}
		}
	}
	return out
}
