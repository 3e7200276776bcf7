package usecase

import (
	"context"
	"fmt"
)

// PlayoffOutcome is the most-recent-week result axis of the odds table.
type PlayoffOutcome string

const (
	OutcomeAny  PlayoffOutcome = "ANY"
	OutcomeWin  PlayoffOutcome = "WIN"
	OutcomeLoss PlayoffOutcome = "LOSS"
)

type oddsCell struct {
	Playoffs int
	Total    int
}

// PlayoffOddsTable is the empirical estimate, per (wins-through-week,
// outcome-of-week), of the chance a team ends the regular season in a
// playoff spot. Cells with no historical sample fall back to the previous
// week's table; the recursion bottoms out at week zero with zero.
type PlayoffOddsTable struct {
	Week    int
	MinYear int

	cells map[int]map[PlayoffOutcome]oddsCell
	pcts  map[int]map[PlayoffOutcome]float64
}

// Pct returns the playoff probability for the cell, zero for win counts the
// table never materialized.
func (t *PlayoffOddsTable) Pct(wins int, outcome PlayoffOutcome) float64 {
	if row, ok := t.pcts[wins]; ok {
		return row[outcome]
	}
	return 0
}

// SampleSize returns the historical team count behind the cell.
func (t *PlayoffOddsTable) SampleSize(wins int, outcome PlayoffOutcome) int {
	if row, ok := t.cells[wins]; ok {
		return row[outcome].Total
	}
	return 0
}

// WinCounts lists every materialized wins level, 0..week.
func (t *PlayoffOddsTable) WinCounts() []int {
	out := make([]int, 0, t.Week+1)
	for k := 0; k <= t.Week; k++ {
		out = append(out, k)
	}
	return out
}

// PlayoffOdds builds (memoized) the odds table for a regular-season week,
// trained on completed seasons from minYear on.
func (s *SeasonService) PlayoffOdds(ctx context.Context, week, minYear int) (*PlayoffOddsTable, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.PlayoffOdds")
	defer span.End()

	if week < 0 || week > s.rules.RegularSeasonWeeks {
		return nil, fmt.Errorf("%w: week=%d outside regular season", ErrInvalidInput, week)
	}
	if minYear == 0 {
		minYear = s.rules.FirstSeason
	}

	key := fmt.Sprintf("PlayoffOdds|week=%d,min_year=%d|table", week, minYear)
	v, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.buildPlayoffOdds(ctx, week, minYear)
	})
	if err != nil {
		return nil, err
	}
	if table, ok := v.(*PlayoffOddsTable); ok {
		return table, nil
	}
	return s.buildPlayoffOdds(ctx, week, minYear)
}

func (s *SeasonService) buildPlayoffOdds(ctx context.Context, week, minYear int) (*PlayoffOddsTable, error) {
	table := &PlayoffOddsTable{
		Week:    week,
		MinYear: minYear,
		cells:   make(map[int]map[PlayoffOutcome]oddsCell),
		pcts:    make(map[int]map[PlayoffOutcome]float64),
	}
	if week == 0 {
		return table, nil
	}

	years, err := s.Years(ctx)
	if err != nil {
		return nil, err
	}

	for _, year := range years {
		if year < minYear {
			continue
		}
		season, err := s.Season(ctx, year, 0, false)
		if err != nil {
			return nil, err
		}
		if season.IsPartial {
			continue
		}
		for _, ts := range season.Standings {
			wins := 0
			outcome := PlayoffOutcome("")
			for _, g := range ts.Games {
				if g.Week > week {
					continue
				}
				won := g.WinnerID == ts.TeamID
				if won {
					wins++
				}
				if g.Week == week {
					outcome = OutcomeLoss
					if won {
						outcome = OutcomeWin
					}
				}
			}
			if outcome == "" {
				continue
			}
			made := ts.Place <= s.rules.PlayoffTeams
			table.tally(wins, outcome, made)
			table.tally(wins, OutcomeAny, made)
		}
	}

	// Unsampled cells borrow last week's ANY column: a win arrived there
	// with one fewer win, a loss with the same count.
	prior, err := s.PlayoffOdds(ctx, week-1, minYear)
	if err != nil {
		return nil, err
	}
	for k := 0; k <= week; k++ {
		row := make(map[PlayoffOutcome]float64, 3)
		winFallback := 0.0
		if k > 0 {
			winFallback = prior.Pct(k-1, OutcomeAny)
		}
		lossFallback := prior.Pct(k, OutcomeAny)
		row[OutcomeWin] = table.ratioOr(k, OutcomeWin, winFallback)
		row[OutcomeLoss] = table.ratioOr(k, OutcomeLoss, lossFallback)
		row[OutcomeAny] = table.ratioOr(k, OutcomeAny, (winFallback+lossFallback)/2)
		table.pcts[k] = row
	}
	return table, nil
}

func (t *PlayoffOddsTable) tally(wins int, outcome PlayoffOutcome, made bool) {
	row, ok := t.cells[wins]
	if !ok {
		row = make(map[PlayoffOutcome]oddsCell, 3)
		t.cells[wins] = row
	}
	cell := row[outcome]
	cell.Total++
	if made {
		cell.Playoffs++
	}
	row[outcome] = cell
}

func (t *PlayoffOddsTable) ratioOr(wins int, outcome PlayoffOutcome, fallback float64) float64 {
	if row, ok := t.cells[wins]; ok {
		if cell := row[outcome]; cell.Total > 0 {
			return float64(cell.Playoffs) / float64(cell.Total)
		}
	}
	return fallback
}
