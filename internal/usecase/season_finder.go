package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// SeasonFinderQuery narrows team seasons, optionally aggregated over spans
// of consecutive years. Place and qualification filters only make sense for
// single seasons and are ignored when YearSpan > 1.
type SeasonFinderQuery struct {
	YearMin  int
	YearMax  int
	YearSpan int
	WeekMax  int

	WinsMin         int
	WinsMax         int
	ExpectedWinsMin float64
	ExpectedWinsMax float64
	PointsMin       decimal.Decimal
	PointsMax       decimal.Decimal
	AvgScoreMin     decimal.Decimal
	AvgScoreMax     decimal.Decimal

	PlaceMin int
	PlaceMax int

	Playoffs bool
	Clinched bool
	Bye      bool
	Champion bool
}

func (q SeasonFinderQuery) populated() int {
	n := 0
	if q.YearMin != 0 {
		n++
	}
	if q.YearMax != 0 {
		n++
	}
	if q.YearSpan > 1 {
		n++
	}
	if q.WeekMax != 0 {
		n++
	}
	if q.WinsMin != 0 {
		n++
	}
	if q.WinsMax != 0 {
		n++
	}
	if q.ExpectedWinsMin != 0 {
		n++
	}
	if q.ExpectedWinsMax != 0 {
		n++
	}
	if !q.PointsMin.IsZero() {
		n++
	}
	if !q.PointsMax.IsZero() {
		n++
	}
	if !q.AvgScoreMin.IsZero() {
		n++
	}
	if !q.AvgScoreMax.IsZero() {
		n++
	}
	if q.PlaceMin != 0 {
		n++
	}
	if q.PlaceMax != 0 {
		n++
	}
	if q.Playoffs {
		n++
	}
	if q.Clinched {
		n++
	}
	if q.Bye {
		n++
	}
	if q.Champion {
		n++
	}
	return n
}

// SeasonFinderRow is one hit: a single team season, or a consecutive-year
// aggregate when the query spans.
type SeasonFinderRow struct {
	TeamID  int64
	Years   []int
	Seasons []*TeamSeason
}

func (r SeasonFinderRow) Wins() int {
	total := 0
	for _, ts := range r.Seasons {
		total += ts.Wins
	}
	return total
}

func (r SeasonFinderRow) Losses() int {
	total := 0
	for _, ts := range r.Seasons {
		total += ts.Losses
	}
	return total
}

func (r SeasonFinderRow) ExpectedWins() float64 {
	total := 0.0
	for _, ts := range r.Seasons {
		total += ts.ExpectedWins()
	}
	return total
}

func (r SeasonFinderRow) Points() decimal.Decimal {
	total := decimal.Zero
	for _, ts := range r.Seasons {
		total = total.Add(ts.Points())
	}
	return total
}

func (r SeasonFinderRow) AverageScore() decimal.Decimal {
	games := 0
	for _, ts := range r.Seasons {
		games += len(ts.Scores)
	}
	if games == 0 {
		return decimal.Zero
	}
	return r.Points().Div(decimal.NewFromInt(int64(games))).Round(2)
}

func (s *FinderService) FindSeasons(ctx context.Context, q SeasonFinderQuery) ([]SeasonFinderRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinderService.FindSeasons")
	defer span.End()

	if err := checkFilterGate(q.populated()); err != nil {
		return nil, err
	}

	span1 := q.YearSpan
	if span1 < 1 {
		span1 = 1
	}

	years, err := s.seasons.Years(ctx)
	if err != nil {
		return nil, err
	}

	byYear := make(map[int]*SeasonView, len(years))
	kept := make([]int, 0, len(years))
	for _, year := range years {
		if q.YearMin != 0 && year < q.YearMin {
			continue
		}
		if q.YearMax != 0 && year > q.YearMax {
			continue
		}
		view, err := s.seasons.Season(ctx, year, q.WeekMax, false)
		if err != nil {
			return nil, err
		}
		byYear[year] = view
		kept = append(kept, year)
	}

	rows := make([]SeasonFinderRow, 0)
	for i := 0; i+span1 <= len(kept); i++ {
		window := kept[i : i+span1]
		if !consecutive(window) {
			continue
		}
		for _, ts := range byYear[window[0]].Standings {
			row := SeasonFinderRow{TeamID: ts.TeamID}
			for _, year := range window {
				if member := byYear[year].TeamSeason(ts.TeamID); member != nil {
					row.Years = append(row.Years, year)
					row.Seasons = append(row.Seasons, member)
				}
			}
			if len(row.Seasons) != span1 {
				continue
			}
			if s.matchSeasonRow(row, q, span1) {
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}

func consecutive(years []int) bool {
	for i := 1; i < len(years); i++ {
		if years[i] != years[i-1]+1 {
			return false
		}
	}
	return true
}

func (s *FinderService) matchSeasonRow(row SeasonFinderRow, q SeasonFinderQuery, span int) bool {
	if q.WinsMin != 0 && row.Wins() < q.WinsMin {
		return false
	}
	if q.WinsMax != 0 && row.Wins() > q.WinsMax {
		return false
	}
	if q.ExpectedWinsMin != 0 && row.ExpectedWins() < q.ExpectedWinsMin {
		return false
	}
	if q.ExpectedWinsMax != 0 && row.ExpectedWins() > q.ExpectedWinsMax {
		return false
	}
	if !q.PointsMin.IsZero() && row.Points().LessThan(q.PointsMin) {
		return false
	}
	if !q.PointsMax.IsZero() && row.Points().GreaterThan(q.PointsMax) {
		return false
	}
	if !q.AvgScoreMin.IsZero() && row.AverageScore().LessThan(q.AvgScoreMin) {
		return false
	}
	if !q.AvgScoreMax.IsZero() && row.AverageScore().GreaterThan(q.AvgScoreMax) {
		return false
	}
	if span > 1 {
		return true
	}

	ts := row.Seasons[0]
	if q.PlaceMin != 0 && ts.Place < q.PlaceMin {
		return false
	}
	if q.PlaceMax != 0 && ts.Place > q.PlaceMax {
		return false
	}
	if q.Playoffs && !madePlayoffs(ts) {
		return false
	}
	if q.Clinched && ts.PlayoffState != StateClinchedPlayoffs && ts.PlayoffState != StateClinchedBye {
		return false
	}
	if q.Bye && !clinchedBye(ts, s.rules.ByeTeams) {
		return false
	}
	if q.Champion && ts.PlayoffFinish != 1 {
		return false
	}
	return true
}

func madePlayoffs(ts *TeamSeason) bool {
	switch ts.PlayoffState {
	case StateMadePlayoffs, StateClinchedPlayoffs, StateClinchedBye:
		return true
	}
	return ts.PlayoffFinish > 0
}

func clinchedBye(ts *TeamSeason, byeTeams int) bool {
	if ts.PlayoffState == StateClinchedBye {
		return true
	}
	return ts.PlayoffState == StateMadePlayoffs && ts.Place <= byeTeams
}
