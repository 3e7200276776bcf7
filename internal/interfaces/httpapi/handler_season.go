package httpapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/usecase"
)

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	years, err := h.seasonService.Years(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"years": years})
}

func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeason")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	weekMax, err := queryInt(r.URL.Query(), "week_max")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includePlayoffs, err := queryBool(r.URL.Query(), "include_playoffs")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	season, err := h.seasonService.Season(ctx, year, weekMax, includePlayoffs)
	if err != nil {
		h.logger.WarnContext(ctx, "get season failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, seasonToDTO(ctx, season))
}

func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWeek")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	week, err := pathInt(r, "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.seasonService.Week(ctx, year, week)
	if err != nil {
		h.logger.WarnContext(ctx, "get week failed", "year", year, "week", week, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weekToDTO(ctx, view))
}

func (h *Handler) GetTeamSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSeason")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	weekMax, err := queryInt(r.URL.Query(), "week_max")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includePlayoffs, err := queryBool(r.URL.Query(), "include_playoffs")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	withDistribution, err := queryBool(r.URL.Query(), "distribution")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	ts, err := h.seasonService.TeamSeason(ctx, teamID, year, weekMax, includePlayoffs)
	if err != nil {
		h.logger.WarnContext(ctx, "get team season failed", "year", year, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := teamSeasonToDTO(ctx, ts)
	if withDistribution {
		model, err := h.seasonService.ExpectedWinsModel(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		dist, err := ts.WinDistribution(ctx, model)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		dto.WinDistribution = dist
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetTeamHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamHistory")
	defer span.End()

	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	years, err := queryIntList(r.URL.Query().Get("years"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	includePlayoffs, err := queryBool(r.URL.Query(), "include_playoffs")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	multi, err := h.seasonService.TeamMultiSeasons(ctx, teamID, years, includePlayoffs)
	if err != nil {
		h.logger.WarnContext(ctx, "get team history failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	seasons := make([]teamSeasonDTO, 0, len(multi.Seasons))
	for _, ts := range multi.Seasons {
		seasons = append(seasons, teamSeasonToDTO(ctx, ts))
	}

	writeSuccess(ctx, w, http.StatusOK, teamHistoryDTO{
		TeamID:       multi.TeamID,
		Wins:         multi.Wins(),
		Losses:       multi.Losses(),
		ExpectedWins: multi.ExpectedWins(),
		Seasons:      seasons,
	})
}

type similarSeasonsRequest struct {
	Year  int `validate:"required,gt=0"`
	Limit int `validate:"gte=0,lte=100"`
}

func (h *Handler) GetSimilarSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSimilarSeasons")
	defer span.End()

	teamID, err := pathInt64(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := queryInt(r.URL.Query(), "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r.URL.Query(), "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, similarSeasonsRequest{Year: year, Limit: limit}); err != nil {
		writeError(ctx, w, err)
		return
	}

	similar, err := h.seasonService.SimilarSeasons(ctx, teamID, year, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "similar seasons failed", "team_id", teamID, "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]similarSeasonDTO, 0, len(similar))
	for _, s := range similar {
		items = append(items, similarSeasonDTO{
			TeamID:   s.Season.TeamID,
			Name:     s.Season.Member.DisplayName(),
			Year:     s.Season.Year,
			Record:   s.Season.Record(),
			Distance: s.Distance,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatchup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchup")
	defer span.End()

	teamA, err := pathInt64(r, "teamA")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamB, err := pathInt64(r, "teamB")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.seasonService.Matchup(ctx, teamA, teamB)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchup failed", "team_a", teamA, "team_b", teamB, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchupDTO{
		TeamAID: view.TeamAID,
		TeamBID: view.TeamBID,
		AWins:   view.AWins,
		BWins:   view.BWins,
		Games:   gamesToDTOs(ctx, view.Games),
	})
}

func (h *Handler) GetTopSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTopSeasons")
	defer span.End()

	limit, err := queryInt(r.URL.Query(), "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if limit <= 0 {
		limit = 10
	}

	years, err := h.seasonService.Years(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	all := make([]*usecase.TeamSeason, 0)
	for _, year := range years {
		season, err := h.seasonService.Season(ctx, year, 0, false)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		if season.IsPartial {
			continue
		}
		all = append(all, season.Standings...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ExpectedWinPct() > all[j].ExpectedWinPct()
	})
	if len(all) > limit {
		all = all[:limit]
	}

	items := make([]teamSeasonDTO, 0, len(all))
	for _, ts := range all {
		items = append(items, teamSeasonToDTO(ctx, ts))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBeltHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBeltHistory")
	defer span.End()

	reigns, err := h.seasonService.BeltHistory(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "belt history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]beltReignDTO, 0, len(reigns))
	for _, reign := range reigns {
		items = append(items, beltReignDTO{
			HolderID:     reign.HolderID,
			StartYear:    reign.StartingGame.Year,
			StartWeek:    reign.StartingGame.Week,
			DefenseCount: reign.DefenseCount,
			GameSpan:     reign.GameSpan(),
			Current:      reign.Current,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetExpectedWins(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetExpectedWins")
	defer span.End()

	scores, err := queryDecimalList(r.URL.Query().Get("scores"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	model, err := h.seasonService.ExpectedWinsModel(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "expected wins model failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	probabilities := make([]float64, 0, len(scores))
	for _, score := range scores {
		probabilities = append(probabilities, model.Probability(score))
	}

	writeSuccess(ctx, w, http.StatusOK, expectedWinsDTO{
		SampleSize:    model.SampleSize(),
		Probabilities: probabilities,
		ExpectedWins:  model.ExpectedWins(scores),
	})
}

type playoffOddsRequest struct {
	Week    int `validate:"gte=0,lte=25"`
	MinYear int `validate:"gte=0"`
}

func (h *Handler) GetPlayoffOdds(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayoffOdds")
	defer span.End()

	week, err := queryInt(r.URL.Query(), "week")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	minYear, err := queryInt(r.URL.Query(), "min_year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, playoffOddsRequest{Week: week, MinYear: minYear}); err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.seasonService.PlayoffOdds(ctx, week, minYear)
	if err != nil {
		h.logger.WarnContext(ctx, "playoff odds failed", "week", week, "min_year", minYear, "error", err)
		writeError(ctx, w, err)
		return
	}

	rows := make([]playoffOddsRowDTO, 0, week+1)
	for wins := 0; wins <= week; wins++ {
		rows = append(rows, playoffOddsRowDTO{
			Wins: wins,
			Any:  table.Pct(wins, usecase.OutcomeAny),
			Win:  table.Pct(wins, usecase.OutcomeWin),
			Loss: table.Pct(wins, usecase.OutcomeLoss),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, playoffOddsDTO{
		Week:    table.Week,
		MinYear: table.MinYear,
		Rows:    rows,
	})
}

type seasonDTO struct {
	Year            int             `json:"year"`
	WeekMax         int             `json:"weekMax,omitempty"`
	IncludePlayoffs bool            `json:"includePlayoffs"`
	IsPartial       bool            `json:"isPartial"`
	Standings       []teamSeasonDTO `json:"standings"`
	Weeks           []weekDTO       `json:"weeks"`
}

type weekDTO struct {
	Year               int             `json:"year"`
	Week               int             `json:"week"`
	Games              []gameDTO       `json:"games"`
	FutureGames        []futureGameDTO `json:"futureGames,omitempty"`
	BlangumsID         int64           `json:"blangumsId,omitempty"`
	SlappedHeartbeatID int64           `json:"slappedHeartbeatId,omitempty"`
}

type gameDTO struct {
	ID          int64  `json:"id"`
	Year        int    `json:"year"`
	Week        int    `json:"week"`
	WinnerID    int64  `json:"winnerId"`
	LoserID     int64  `json:"loserId"`
	WinnerScore string `json:"winnerScore"`
	LoserScore  string `json:"loserScore"`
	Notes       string `json:"notes,omitempty"`
}

type futureGameDTO struct {
	Year    int   `json:"year"`
	Week    int   `json:"week"`
	Team1ID int64 `json:"team1Id"`
	Team2ID int64 `json:"team2Id"`
}

type teamSeasonDTO struct {
	TeamID          int64     `json:"teamId"`
	Name            string    `json:"name"`
	Year            int       `json:"year"`
	Record          string    `json:"record"`
	Wins            int       `json:"wins"`
	Losses          int       `json:"losses"`
	WinPct          float64   `json:"winPct"`
	Points          string    `json:"points"`
	PointsAgainst   string    `json:"pointsAgainst"`
	AverageScore    string    `json:"averageScore"`
	ExpectedWins    float64   `json:"expectedWins"`
	ExpectedWinPct  float64   `json:"expectedWinPct"`
	AllPlayWins     int       `json:"allPlayWins"`
	AllPlayLosses   int       `json:"allPlayLosses"`
	BlangumsCount   int       `json:"blangumsCount"`
	SlappedCount    int       `json:"slappedCount"`
	PlayoffState    string    `json:"playoffState"`
	Place           int       `json:"place,omitempty"`
	PlayoffFinish   int       `json:"playoffFinish,omitempty"`
	WinDistribution []float64 `json:"winDistribution,omitempty"`
}

type teamHistoryDTO struct {
	TeamID       int64           `json:"teamId"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	ExpectedWins float64         `json:"expectedWins"`
	Seasons      []teamSeasonDTO `json:"seasons"`
}

type similarSeasonDTO struct {
	TeamID   int64   `json:"teamId"`
	Name     string  `json:"name"`
	Year     int     `json:"year"`
	Record   string  `json:"record"`
	Distance float64 `json:"distance"`
}

type matchupDTO struct {
	TeamAID int64     `json:"teamAId"`
	TeamBID int64     `json:"teamBId"`
	AWins   int       `json:"aWins"`
	BWins   int       `json:"bWins"`
	Games   []gameDTO `json:"games"`
}

type beltReignDTO struct {
	HolderID     int64 `json:"holderId"`
	StartYear    int   `json:"startYear"`
	StartWeek    int   `json:"startWeek"`
	DefenseCount int   `json:"defenseCount"`
	GameSpan     int   `json:"gameSpan"`
	Current      bool  `json:"current"`
}

type expectedWinsDTO struct {
	SampleSize    int       `json:"sampleSize"`
	Probabilities []float64 `json:"probabilities"`
	ExpectedWins  float64   `json:"expectedWins"`
}

type playoffOddsDTO struct {
	Week    int                 `json:"week"`
	MinYear int                 `json:"minYear"`
	Rows    []playoffOddsRowDTO `json:"rows"`
}

type playoffOddsRowDTO struct {
	Wins int     `json:"wins"`
	Any  float64 `json:"any"`
	Win  float64 `json:"win"`
	Loss float64 `json:"loss"`
}

func seasonToDTO(ctx context.Context, season *usecase.SeasonView) seasonDTO {
	ctx, span := startSpan(ctx, "httpapi.seasonToDTO")
	defer span.End()

	standings := make([]teamSeasonDTO, 0, len(season.Standings))
	for _, ts := range season.Standings {
		standings = append(standings, teamSeasonToDTO(ctx, ts))
	}
	weeks := make([]weekDTO, 0, len(season.Weeks))
	for _, wv := range season.Weeks {
		weeks = append(weeks, weekToDTO(ctx, wv))
	}

	return seasonDTO{
		Year:            season.Year,
		WeekMax:         season.WeekMax,
		IncludePlayoffs: season.IncludePlayoffs,
		IsPartial:       season.IsPartial,
		Standings:       standings,
		Weeks:           weeks,
	}
}

func weekToDTO(ctx context.Context, wv usecase.WeekView) weekDTO {
	futures := make([]futureGameDTO, 0, len(wv.FutureGames))
	for _, f := range wv.FutureGames {
		futures = append(futures, futureGameDTO{
			Year:    f.Year,
			Week:    f.Week,
			Team1ID: f.Team1ID,
			Team2ID: f.Team2ID,
		})
	}

	return weekDTO{
		Year:               wv.Year,
		Week:               wv.Week,
		Games:              gamesToDTOs(ctx, wv.Games),
		FutureGames:        futures,
		BlangumsID:         wv.BlangumsID,
		SlappedHeartbeatID: wv.SlappedHeartbeatID,
	}
}

func gamesToDTOs(ctx context.Context, games []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(games))
	for _, g := range games {
		out = append(out, gameDTO{
			ID:          g.ID,
			Year:        g.Year,
			Week:        g.Week,
			WinnerID:    g.WinnerID,
			LoserID:     g.LoserID,
			WinnerScore: g.WinnerScore.String(),
			LoserScore:  g.LoserScore.String(),
			Notes:       g.Notes,
		})
	}
	return out
}

func teamSeasonToDTO(ctx context.Context, ts *usecase.TeamSeason) teamSeasonDTO {
	return teamSeasonDTO{
		TeamID:         ts.TeamID,
		Name:           ts.Member.DisplayName(),
		Year:           ts.Year,
		Record:         ts.Record(),
		Wins:           ts.Wins,
		Losses:         ts.Losses,
		WinPct:         ts.WinPct(),
		Points:         ts.Points().String(),
		PointsAgainst:  ts.PointsAgainst().String(),
		AverageScore:   ts.AverageScore().String(),
		ExpectedWins:   ts.ExpectedWins(),
		ExpectedWinPct: ts.ExpectedWinPct(),
		AllPlayWins:    ts.AllPlayWins,
		AllPlayLosses:  ts.AllPlayLosses,
		BlangumsCount:  ts.BlangumsCount,
		SlappedCount:   ts.SlappedCount,
		PlayoffState:   string(ts.PlayoffState),
		Place:          ts.Place,
		PlayoffFinish:  ts.PlayoffFinish,
	}
}

func queryIntList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, errInvalidList("years", raw)
		}
		out = append(out, v)
	}
	return out, nil
}

func queryDecimalList(raw string) ([]decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		v, err := decimal.NewFromString(item)
		if err != nil {
			return nil, errInvalidList("scores", raw)
		}
		out = append(out, v)
	}
	return out, nil
}
