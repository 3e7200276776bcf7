package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/trade"
	"github.com/blingaleague/companion/internal/platform/cache"
)

func (s *SeasonService) buildSeason(ctx context.Context, year, weekMax int, includePlayoffs bool) (*SeasonView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.buildSeason")
	defer span.End()

	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	nameByID := make(map[int64]string, len(members))
	for _, m := range members {
		nameByID[m.ID] = m.DisplayName()
	}
	nameOf := func(id int64) string {
		if name, ok := nameByID[id]; ok {
			return name
		}
		return fmt.Sprintf("team %d", id)
	}

	games, err := s.games.List(ctx, game.Filter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	futures, err := s.games.ListFuture(ctx, game.Filter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("list future games: %w", err)
	}
	trades, err := s.trades.List(ctx, trade.Filter{Year: year})
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}

	effectiveMax := weekMax
	if effectiveMax == 0 {
		effectiveMax = math.MaxInt32
	}
	regMax := effectiveMax
	if regMax > s.rules.RegularSeasonWeeks {
		regMax = s.rules.RegularSeasonWeeks
	}
	statsMax := regMax
	if includePlayoffs {
		statsMax = effectiveMax
	}

	view := &SeasonView{
		Year:            year,
		WeekMax:         weekMax,
		IncludePlayoffs: includePlayoffs,
	}

	// Group facts by week and assemble week views.
	lastWeek := 0
	gamesByWeek := make(map[int][]game.Game)
	for _, g := range games {
		if g.Week > effectiveMax {
			continue
		}
		gamesByWeek[g.Week] = append(gamesByWeek[g.Week], g)
		if g.Week > lastWeek {
			lastWeek = g.Week
		}
	}
	futuresByWeek := make(map[int][]game.FutureGame)
	for _, fg := range futures {
		if fg.Week > effectiveMax {
			continue
		}
		futuresByWeek[fg.Week] = append(futuresByWeek[fg.Week], fg)
		if fg.Week > lastWeek {
			lastWeek = fg.Week
		}
	}
	tradesByWeek := make(map[int][]trade.Trade)
	for _, t := range trades {
		if t.Week > effectiveMax {
			continue
		}
		tradesByWeek[t.Week] = append(tradesByWeek[t.Week], t)
		view.Trades = append(view.Trades, t)
	}

	blangumsByWeek := make(map[int]int64)
	slappedByWeek := make(map[int]int64)
	for week := 1; week <= lastWeek; week++ {
		wv := WeekView{
			Year:        year,
			Week:        week,
			Games:       gamesByWeek[week],
			FutureGames: futuresByWeek[week],
			Trades:      tradesByWeek[week],
		}
		if week <= s.rules.RegularSeasonWeeks {
			wv.BlangumsID, wv.SlappedHeartbeatID = computeWeeklyAwards(wv.Games, nameOf)
			blangumsByWeek[week] = wv.BlangumsID
			slappedByWeek[week] = wv.SlappedHeartbeatID
		}
		view.Weeks = append(view.Weeks, wv)
	}

	model, err := s.ExpectedWinsModel(ctx)
	if err != nil {
		return nil, err
	}

	finish, hasFinish, err := s.postseasons.GetByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("get postseason: %w", err)
	}
	if hasFinish {
		view.Finish = &finish
	}

	// One projection per team that played.
	teamIDs := make([]int64, 0)
	seen := make(map[int64]struct{})
	for _, g := range games {
		if g.Week > statsMax {
			continue
		}
		for _, id := range []int64{g.WinnerID, g.LoserID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			teamIDs = append(teamIDs, id)
		}
	}
	sort.Slice(teamIDs, func(i, j int) bool { return teamIDs[i] < teamIDs[j] })

	regWins := make(map[int64]int, len(teamIDs))
	regPlayed := make(map[int64]int, len(teamIDs))
	playedRegWeeks := 0
	for week := 1; week <= regMax; week++ {
		if len(gamesByWeek[week]) == 0 {
			continue
		}
		playedRegWeeks++
		for _, g := range gamesByWeek[week] {
			regWins[g.WinnerID]++
			regPlayed[g.WinnerID]++
			regPlayed[g.LoserID]++
		}
	}

	for _, teamID := range teamIDs {
		ts := &TeamSeason{
			TeamID:          teamID,
			Year:            year,
			WeekMax:         weekMax,
			IncludePlayoffs: includePlayoffs,
		}
		for _, m := range members {
			if m.ID == teamID {
				ts.Member = m
				break
			}
		}

		for week := 1; week <= lastWeek && week <= statsMax; week++ {
			for _, g := range gamesByWeek[week] {
				if !g.Involves(teamID) {
					continue
				}
				ts.Games = append(ts.Games, g)
				score, _ := g.TeamScore(teamID)
				ts.Scores = append(ts.Scores, score)
				if g.WinnerID == teamID {
					ts.Wins++
					ts.OppScores = append(ts.OppScores, g.LoserScore)
				} else {
					ts.Losses++
					ts.OppScores = append(ts.OppScores, g.WinnerScore)
				}
			}
			if week > s.rules.RegularSeasonWeeks {
				continue
			}
			if blangumsByWeek[week] == teamID {
				ts.BlangumsCount++
			}
			if slappedByWeek[week] == teamID {
				ts.SlappedCount++
			}
			// All-play: this week's score against every other score.
			scores := WeekView{Games: gamesByWeek[week]}.TeamScores()
			own, played := scores[teamID]
			if !played {
				continue
			}
			for otherID, other := range scores {
				if otherID == teamID {
					continue
				}
				switch own.Cmp(other) {
				case 1:
					ts.AllPlayWins++
				case -1:
					ts.AllPlayLosses++
				}
			}
		}

		ts.expectedWins = model.ExpectedWins(ts.Scores)
		if hasFinish {
			if place, ok := finish.Place(teamID); ok {
				ts.PlayoffFinish = place
			}
		}
		ts.memo = cache.NewMemo("TeamSeason", ts.Fingerprint(), s.cache)
		view.Standings = append(view.Standings, ts)
	}

	SortStandings(view.Standings)
	for i, ts := range view.Standings {
		ts.Place = i + 1
	}

	view.IsPartial = regMax < s.rules.RegularSeasonWeeks || playedRegWeeks < s.rules.RegularSeasonWeeks

	s.assignPlayoffStates(view, regWins, regPlayed, playedRegWeeks, regMax)
	s.assignBracketFinishes(view, gamesByWeek)

	return view, nil
}

// assignPlayoffStates runs the clinch/elimination machine on regular-season
// numbers. The bound is deliberately pessimistic: a rival who can still
// reach the subject's win count is assumed to take any points tiebreak
// unless its schedule is already exhausted.
func (s *SeasonService) assignPlayoffStates(view *SeasonView, regWins, regPlayed map[int64]int, playedRegWeeks, regMax int) {
	regComplete := regMax >= s.rules.RegularSeasonWeeks && playedRegWeeks >= s.rules.RegularSeasonWeeks

	for _, ts := range view.Standings {
		if regComplete {
			if ts.Place <= s.rules.PlayoffTeams {
				ts.PlayoffState = StateMadePlayoffs
			} else {
				ts.PlayoffState = StateMissedPlayoffs
			}
			continue
		}

		wins := regWins[ts.TeamID]
		remaining := s.rules.RegularSeasonWeeks - regPlayed[ts.TeamID]
		aheadPossible := 0
		aheadSure := 0
		for _, rival := range view.Standings {
			if rival.TeamID == ts.TeamID {
				continue
			}
			rivalWins := regWins[rival.TeamID]
			rivalRemaining := s.rules.RegularSeasonWeeks - regPlayed[rival.TeamID]
			rivalAheadNow := rival.lessThan(ts)

			// Worst case for the subject: it loses out, the rival wins out.
			switch {
			case rivalWins+rivalRemaining > wins:
				aheadPossible++
			case rivalWins+rivalRemaining == wins:
				if rivalRemaining > 0 || rivalAheadNow {
					aheadPossible++
				}
			}

			// Best case for the subject: it wins out, the rival loses out.
			switch {
			case rivalWins > wins+remaining:
				aheadSure++
			case rivalWins == wins+remaining:
				if remaining == 0 && rivalAheadNow {
					aheadSure++
				}
			}
		}

		switch {
		case aheadPossible < s.rules.ByeTeams:
			ts.PlayoffState = StateClinchedBye
		case aheadPossible < s.rules.PlayoffTeams:
			ts.PlayoffState = StateClinchedPlayoffs
		case aheadSure >= s.rules.PlayoffTeams:
			ts.PlayoffState = StateEliminatedEarly
		default:
			ts.PlayoffState = StateInProgress
		}
	}
}

// assignBracketFinishes derives playoff finishes for teams the persisted
// PostseasonFinish has not recorded yet, from the bracket games played so
// far. Quarterfinal losers land 5th or 6th (fifth-place game, else seed),
// semifinal losers 3rd or 4th, the Blingabowl loser 2nd.
func (s *SeasonService) assignBracketFinishes(view *SeasonView, gamesByWeek map[int][]game.Game) {
	byTeam := func(id int64) *TeamSeason { return view.TeamSeason(id) }

	qfLosers := make(map[int64]struct{})
	sfLosers := make(map[int64]struct{})
	for _, g := range gamesByWeek[s.rules.QuarterfinalWeek()] {
		qfLosers[g.LoserID] = struct{}{}
	}

	for _, g := range gamesByWeek[s.rules.SemifinalWeek()] {
		_, w := qfLosers[g.WinnerID]
		_, l := qfLosers[g.LoserID]
		if w && l {
			setFinish(byTeam(g.WinnerID), 5)
			setFinish(byTeam(g.LoserID), 6)
			continue
		}
		sfLosers[g.LoserID] = struct{}{}
	}

	for _, g := range gamesByWeek[s.rules.ChampionshipWeek()] {
		_, w := sfLosers[g.WinnerID]
		_, l := sfLosers[g.LoserID]
		if w && l {
			setFinish(byTeam(g.WinnerID), 3)
			setFinish(byTeam(g.LoserID), 4)
			continue
		}
		setFinish(byTeam(g.WinnerID), 1)
		setFinish(byTeam(g.LoserID), 2)
	}

	// Consolation games not yet played: order the stranded losers by seed.
	assignBySeed(view, qfLosers, 5)
	assignBySeed(view, sfLosers, 3)
}

func setFinish(ts *TeamSeason, place int) {
	if ts != nil && ts.PlayoffFinish == 0 {
		ts.PlayoffFinish = place
	}
}

func assignBySeed(view *SeasonView, losers map[int64]struct{}, firstPlace int) {
	pending := make([]*TeamSeason, 0, len(losers))
	for id := range losers {
		if ts := view.TeamSeason(id); ts != nil && ts.PlayoffFinish == 0 {
			pending = append(pending, ts)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Place < pending[j].Place })
	for i, ts := range pending {
		ts.PlayoffFinish = firstPlace + i
	}
}
