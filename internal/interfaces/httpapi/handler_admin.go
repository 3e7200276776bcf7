package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/blingaleague/companion/internal/usecase"
)

type lotteryRequest struct {
	Trials int `validate:"gte=0,lte=1000000"`
}

func (h *Handler) GetLottery(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLottery")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	trials, err := queryInt(r.URL.Query(), "trials")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seed, err := queryInt64(r.URL.Query(), "seed")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, lotteryRequest{Trials: trials}); err != nil {
		writeError(ctx, w, err)
		return
	}
	if trials == 0 {
		trials = h.lotteryTrials
	}

	result, err := h.lotteryService.Run(ctx, year, trials, seed)
	if err != nil {
		h.logger.WarnContext(ctx, "lottery failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	entries := make([]lotteryEntryDTO, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, lotteryEntryDTO{
			TeamID:       entry.TeamID,
			Weight:       entry.Weight,
			FirstPickPct: result.FirstPickPct(entry.TeamID),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, lotteryResultDTO{
		Year:        result.Year,
		Trials:      result.Trials,
		Entries:     entries,
		ActualOrder: result.ActualOrder,
	})
}

func (h *Handler) GetPayouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPayouts")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	payouts, err := h.payoutService.Payouts(ctx, year)
	if err != nil {
		h.logger.WarnContext(ctx, "payouts failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]payoutDTO, 0, len(payouts))
	for _, p := range payouts {
		items = append(items, payoutDTO{
			TeamID:        p.TeamID,
			Amount:        p.Amount.String(),
			PlayoffFinish: p.PlayoffFinish,
			BlangumsCount: p.BlangumsCount,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type flushCacheRequest struct {
	Names []string `json:"names"`
}

func (h *Handler) FlushCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FlushCache")
	defer span.End()

	var req flushCacheRequest
	if r.Body != nil && r.ContentLength != 0 {
		decoder := sonic.ConfigDefault.NewDecoder(r.Body)
		if err := decoder.Decode(&req); err != nil {
			writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
			return
		}
	}

	if err := h.cacheAdmin.Flush(ctx, req.Names...); err != nil {
		h.logger.WarnContext(ctx, "cache flush failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "flushed"})
}

func (h *Handler) PreBuildCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreBuildCache")
	defer span.End()

	if err := h.cacheAdmin.PreBuild(ctx); err != nil {
		h.logger.ErrorContext(ctx, "cache pre-build failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "built"})
}

func (h *Handler) RebuildCache(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildCache")
	defer span.End()

	if err := h.cacheAdmin.Rebuild(ctx); err != nil {
		h.logger.ErrorContext(ctx, "cache rebuild failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "rebuilt"})
}

type lotteryResultDTO struct {
	Year        int               `json:"year"`
	Trials      int               `json:"trials"`
	Entries     []lotteryEntryDTO `json:"entries"`
	ActualOrder []int64           `json:"actualOrder"`
}

type lotteryEntryDTO struct {
	TeamID       int64   `json:"teamId"`
	Weight       float64 `json:"weight"`
	FirstPickPct float64 `json:"firstPickPct"`
}

type payoutDTO struct {
	TeamID        int64  `json:"teamId"`
	Amount        string `json:"amount"`
	PlayoffFinish int    `json:"playoffFinish,omitempty"`
	BlangumsCount int    `json:"blangumsCount,omitempty"`
}
