package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/platform/logging"
	"github.com/blingaleague/companion/internal/usecase"
)

type Handler struct {
	seasonService  *usecase.SeasonService
	finderService  *usecase.FinderService
	gazetteService *usecase.GazetteService
	lotteryService *usecase.LotteryService
	payoutService  *usecase.PayoutService
	cacheAdmin     *usecase.CacheAdminService
	lotteryTrials  int
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	finderService *usecase.FinderService,
	gazetteService *usecase.GazetteService,
	lotteryService *usecase.LotteryService,
	payoutService *usecase.PayoutService,
	cacheAdmin *usecase.CacheAdminService,
	lotteryTrials int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		seasonService:  seasonService,
		finderService:  finderService,
		gazetteService: gazetteService,
		lotteryService: lotteryService,
		payoutService:  payoutService,
		cacheAdmin:     cacheAdmin,
		lotteryTrials:  lotteryTrials,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func queryInt(values url.Values, name string) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func queryInt64(values url.Values, name string) (int64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func queryBool(values url.Values, name string) (bool, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func queryFloat(values url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

func queryDecimal(values url.Values, name string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return decimal.Decimal{}, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s must be a number, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return v, nil
}

// queryInt64List parses a comma-separated list of ids.
func queryInt64List(values url.Values, name string) ([]int64, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		v, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a comma-separated list of integers, got %q",
				usecase.ErrInvalidInput, name, raw)
		}
		out = append(out, v)
	}
	return out, nil
}

func errInvalidList(name, raw string) error {
	return fmt.Errorf("%w: %s must be a comma-separated list, got %q", usecase.ErrInvalidInput, name, raw)
}

func queryStringList(values url.Values, name string) []string {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
