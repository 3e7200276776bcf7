package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/keeper"
	"github.com/blingaleague/companion/internal/domain/trade"
	"github.com/blingaleague/companion/internal/usecase"
)

type gameFinderRequest struct {
	Outcome string `validate:"omitempty,oneof=W L"`
}

func (h *Handler) FindGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindGames")
	defer span.End()

	q, err := parseGameFinderQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, gameFinderRequest{Outcome: q.Outcome}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.finderService.FindGames(ctx, q)
	if err != nil {
		h.logger.WarnContext(ctx, "game finder failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	rollups := make([]teamRollupDTO, 0, len(result.Rollups))
	for _, roll := range result.Rollups {
		rollups = append(rollups, teamRollupDTO{
			TeamID: roll.TeamID,
			Wins:   roll.Wins,
			Losses: roll.Losses,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, gameFinderResultDTO{
		Games:   gamesToDTOs(ctx, result.Games),
		Rollups: rollups,
	})
}

func (h *Handler) FindSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindSeasons")
	defer span.End()

	q, err := parseSeasonFinderQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.finderService.FindSeasons(ctx, q)
	if err != nil {
		h.logger.WarnContext(ctx, "season finder failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonFinderRowDTO, 0, len(rows))
	for _, row := range rows {
		seasons := make([]teamSeasonDTO, 0, len(row.Seasons))
		for _, ts := range row.Seasons {
			seasons = append(seasons, teamSeasonToDTO(ctx, ts))
		}
		items = append(items, seasonFinderRowDTO{
			TeamID:       row.TeamID,
			Years:        row.Years,
			Wins:         row.Wins(),
			Losses:       row.Losses(),
			ExpectedWins: row.ExpectedWins(),
			Points:       row.Points().String(),
			AverageScore: row.AverageScore().String(),
			Seasons:      seasons,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) FindTrades(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindTrades")
	defer span.End()

	q, err := parseTradeFinderQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	trades, err := h.finderService.FindTrades(ctx, q)
	if err != nil {
		h.logger.WarnContext(ctx, "trade finder failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tradeDTO, 0, len(trades))
	for _, t := range trades {
		items = append(items, tradeToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) FindKeepers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindKeepers")
	defer span.End()

	q, err := parseKeeperFinderQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	keepers, err := h.finderService.FindKeepers(ctx, q)
	if err != nil {
		h.logger.WarnContext(ctx, "keeper finder failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]keeperDTO, 0, len(keepers))
	for _, k := range keepers {
		items = append(items, keeperToDTO(ctx, k))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) FindDraftPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindDraftPicks")
	defer span.End()

	q, err := parseDraftPickFinderQuery(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.finderService.FindDraftPicks(ctx, q)
	if err != nil {
		h.logger.WarnContext(ctx, "draft pick finder failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]draftPickDTO, 0, len(picks))
	for _, p := range picks {
		items = append(items, draftPickToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseGameFinderQuery(values url.Values) (usecase.GameFinderQuery, error) {
	var q usecase.GameFinderQuery
	var err error

	if q.YearMin, err = queryInt(values, "year_min"); err != nil {
		return q, err
	}
	if q.YearMax, err = queryInt(values, "year_max"); err != nil {
		return q, err
	}
	if q.WeekMin, err = queryInt(values, "week_min"); err != nil {
		return q, err
	}
	if q.WeekMax, err = queryInt(values, "week_max"); err != nil {
		return q, err
	}
	if q.Teams, err = queryInt64List(values, "teams"); err != nil {
		return q, err
	}
	if q.RegularOnly, err = queryBool(values, "regular_only"); err != nil {
		return q, err
	}
	if q.PlayoffsOnly, err = queryBool(values, "playoffs_only"); err != nil {
		return q, err
	}
	q.PlayoffRounds = queryStringList(values, "playoff_rounds")
	if q.ScoreMin, err = queryDecimal(values, "score_min"); err != nil {
		return q, err
	}
	if q.ScoreMax, err = queryDecimal(values, "score_max"); err != nil {
		return q, err
	}
	if q.MarginMin, err = queryDecimal(values, "margin_min"); err != nil {
		return q, err
	}
	if q.MarginMax, err = queryDecimal(values, "margin_max"); err != nil {
		return q, err
	}
	q.Outcome = strings.ToUpper(strings.TrimSpace(values.Get("outcome")))
	if q.StreakMin, err = queryInt(values, "streak_min"); err != nil {
		return q, err
	}
	if q.Blangums, err = queryBool(values, "blangums"); err != nil {
		return q, err
	}
	if q.SlappedHeartbeat, err = queryBool(values, "slapped_heartbeat"); err != nil {
		return q, err
	}

	return q, nil
}

func parseSeasonFinderQuery(values url.Values) (usecase.SeasonFinderQuery, error) {
	var q usecase.SeasonFinderQuery
	var err error

	if q.YearMin, err = queryInt(values, "year_min"); err != nil {
		return q, err
	}
	if q.YearMax, err = queryInt(values, "year_max"); err != nil {
		return q, err
	}
	if q.YearSpan, err = queryInt(values, "year_span"); err != nil {
		return q, err
	}
	if q.WeekMax, err = queryInt(values, "week_max"); err != nil {
		return q, err
	}
	if q.WinsMin, err = queryInt(values, "wins_min"); err != nil {
		return q, err
	}
	if q.WinsMax, err = queryInt(values, "wins_max"); err != nil {
		return q, err
	}
	if q.ExpectedWinsMin, err = queryFloat(values, "expected_wins_min"); err != nil {
		return q, err
	}
	if q.ExpectedWinsMax, err = queryFloat(values, "expected_wins_max"); err != nil {
		return q, err
	}
	if q.PointsMin, err = queryDecimal(values, "points_min"); err != nil {
		return q, err
	}
	if q.PointsMax, err = queryDecimal(values, "points_max"); err != nil {
		return q, err
	}
	if q.AvgScoreMin, err = queryDecimal(values, "avg_score_min"); err != nil {
		return q, err
	}
	if q.AvgScoreMax, err = queryDecimal(values, "avg_score_max"); err != nil {
		return q, err
	}
	if q.PlaceMin, err = queryInt(values, "place_min"); err != nil {
		return q, err
	}
	if q.PlaceMax, err = queryInt(values, "place_max"); err != nil {
		return q, err
	}
	if q.Playoffs, err = queryBool(values, "playoffs"); err != nil {
		return q, err
	}
	if q.Clinched, err = queryBool(values, "clinched"); err != nil {
		return q, err
	}
	if q.Bye, err = queryBool(values, "bye"); err != nil {
		return q, err
	}
	if q.Champion, err = queryBool(values, "champion"); err != nil {
		return q, err
	}

	return q, nil
}

func parseTradeFinderQuery(values url.Values) (usecase.TradeFinderQuery, error) {
	var q usecase.TradeFinderQuery
	var err error

	if q.YearMin, err = queryInt(values, "year_min"); err != nil {
		return q, err
	}
	if q.YearMax, err = queryInt(values, "year_max"); err != nil {
		return q, err
	}
	if q.WeekMin, err = queryInt(values, "week_min"); err != nil {
		return q, err
	}
	if q.WeekMax, err = queryInt(values, "week_max"); err != nil {
		return q, err
	}
	if q.Senders, err = queryInt64List(values, "senders"); err != nil {
		return q, err
	}
	if q.Receivers, err = queryInt64List(values, "receivers"); err != nil {
		return q, err
	}
	q.Positions = queryStringList(values, "positions")
	if q.DraftPicksOnly, err = queryBool(values, "draft_picks_only"); err != nil {
		return q, err
	}
	q.PlayerName = strings.TrimSpace(values.Get("player_name"))
	if q.MatchingAssetsOnly, err = queryBool(values, "matching_assets_only"); err != nil {
		return q, err
	}

	return q, nil
}

func parseKeeperFinderQuery(values url.Values) (usecase.KeeperFinderQuery, error) {
	var q usecase.KeeperFinderQuery
	var err error

	if q.YearMin, err = queryInt(values, "year_min"); err != nil {
		return q, err
	}
	if q.YearMax, err = queryInt(values, "year_max"); err != nil {
		return q, err
	}
	if q.Teams, err = queryInt64List(values, "teams"); err != nil {
		return q, err
	}
	q.Positions = queryStringList(values, "positions")
	if q.RoundMin, err = queryInt(values, "round_min"); err != nil {
		return q, err
	}
	if q.RoundMax, err = queryInt(values, "round_max"); err != nil {
		return q, err
	}
	if q.TimesKeptMin, err = queryInt(values, "times_kept_min"); err != nil {
		return q, err
	}
	q.PlayerName = strings.TrimSpace(values.Get("player_name"))

	return q, nil
}

func parseDraftPickFinderQuery(values url.Values) (usecase.DraftPickFinderQuery, error) {
	var q usecase.DraftPickFinderQuery
	var err error

	if q.YearMin, err = queryInt(values, "year_min"); err != nil {
		return q, err
	}
	if q.YearMax, err = queryInt(values, "year_max"); err != nil {
		return q, err
	}
	if q.Teams, err = queryInt64List(values, "teams"); err != nil {
		return q, err
	}
	q.Positions = queryStringList(values, "positions")
	if q.RoundMin, err = queryInt(values, "round_min"); err != nil {
		return q, err
	}
	if q.RoundMax, err = queryInt(values, "round_max"); err != nil {
		return q, err
	}
	if q.KeepersOnly, err = queryBool(values, "keepers_only"); err != nil {
		return q, err
	}
	if q.TradedOnly, err = queryBool(values, "traded_only"); err != nil {
		return q, err
	}
	q.PlayerName = strings.TrimSpace(values.Get("player_name"))

	return q, nil
}

type gameFinderResultDTO struct {
	Games   []gameDTO       `json:"games"`
	Rollups []teamRollupDTO `json:"rollups"`
}

type teamRollupDTO struct {
	TeamID int64 `json:"teamId"`
	Wins   int   `json:"wins"`
	Losses int   `json:"losses"`
}

type seasonFinderRowDTO struct {
	TeamID       int64           `json:"teamId"`
	Years        []int           `json:"years"`
	Wins         int             `json:"wins"`
	Losses       int             `json:"losses"`
	ExpectedWins float64         `json:"expectedWins"`
	Points       string          `json:"points"`
	AverageScore string          `json:"averageScore"`
	Seasons      []teamSeasonDTO `json:"seasons"`
}

type tradeDTO struct {
	ID     int64           `json:"id"`
	Year   int             `json:"year"`
	Week   int             `json:"week"`
	Date   string          `json:"date"`
	Assets []tradeAssetDTO `json:"assets"`
}

type tradeAssetDTO struct {
	Name           string `json:"name"`
	Position       string `json:"position,omitempty"`
	IsDraftPick    bool   `json:"isDraftPick"`
	KeeperCost     *int   `json:"keeperCost,omitempty"`
	KeeperEligible bool   `json:"keeperEligible"`
	SenderID       int64  `json:"senderId"`
	ReceiverID     int64  `json:"receiverId"`
}

type keeperDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Position  string `json:"position,omitempty"`
	Year      int    `json:"year"`
	Round     int    `json:"round"`
	TimesKept int    `json:"timesKept"`
	TeamID    int64  `json:"teamId"`
}

type draftPickDTO struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Position       string `json:"position,omitempty"`
	Year           int    `json:"year"`
	Round          int    `json:"round"`
	PickInRound    int    `json:"pickInRound"`
	IsKeeper       bool   `json:"isKeeper"`
	Notes          string `json:"notes,omitempty"`
	TeamID         int64  `json:"teamId"`
	OriginalTeamID *int64 `json:"originalTeamId,omitempty"`
}

func tradeToDTO(ctx context.Context, t trade.Trade) tradeDTO {
	assets := make([]tradeAssetDTO, 0, len(t.Assets))
	for _, a := range t.Assets {
		assets = append(assets, tradeAssetDTO{
			Name:           a.Name,
			Position:       a.Position,
			IsDraftPick:    a.IsDraftPick,
			KeeperCost:     a.KeeperCost,
			KeeperEligible: a.KeeperEligible,
			SenderID:       a.SenderID,
			ReceiverID:     a.ReceiverID,
		})
	}

	return tradeDTO{
		ID:     t.ID,
		Year:   t.Year,
		Week:   t.Week,
		Date:   t.Date.UTC().Format(time.RFC3339),
		Assets: assets,
	}
}

func keeperToDTO(ctx context.Context, k keeper.Keeper) keeperDTO {
	return keeperDTO{
		ID:        k.ID,
		Name:      k.Name,
		Position:  k.Position,
		Year:      k.Year,
		Round:     k.Round,
		TimesKept: k.TimesKept,
		TeamID:    k.TeamID,
	}
}

func draftPickToDTO(ctx context.Context, p draftpick.DraftPick) draftPickDTO {
	return draftPickDTO{
		ID:             p.ID,
		Name:           p.Name,
		Position:       p.Position,
		Year:           p.Year,
		Round:          p.Round,
		PickInRound:    p.PickInRound,
		IsKeeper:       p.IsKeeper,
		Notes:          p.Notes,
		TeamID:         p.TeamID,
		OriginalTeamID: p.OriginalTeamID,
	}
}
