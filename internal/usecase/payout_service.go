package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/platform/logging"
)

// PayoutSchedule is the league's prize structure: placement purses plus the
// weekly Team Blangums side pot.
type PayoutSchedule struct {
	FirstPlace   decimal.Decimal
	SecondPlace  decimal.Decimal
	ThirdPlace   decimal.Decimal
	BlangumsWeek decimal.Decimal
}

func DefaultPayoutSchedule() PayoutSchedule {
	return PayoutSchedule{
		FirstPlace:   decimal.NewFromInt(800),
		SecondPlace:  decimal.NewFromInt(300),
		ThirdPlace:   decimal.NewFromInt(100),
		BlangumsWeek: decimal.NewFromInt(10),
	}
}

// Payout is one team's winnings for a season.
type Payout struct {
	TeamID        int64
	Amount        decimal.Decimal
	PlayoffFinish int
	BlangumsCount int
}

type PayoutService struct {
	seasons  *SeasonService
	schedule PayoutSchedule
	logger   *logging.Logger
}

func NewPayoutService(seasons *SeasonService, schedule PayoutSchedule, logger *logging.Logger) *PayoutService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PayoutService{seasons: seasons, schedule: schedule, logger: logger}
}

// Payouts computes the season's prize distribution. Partial seasons are
// refused; money only moves once the Blingabowl is in the books.
func (s *PayoutService) Payouts(ctx context.Context, year int) ([]Payout, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PayoutService.Payouts")
	defer span.End()

	season, err := s.seasons.Season(ctx, year, 0, true)
	if err != nil {
		return nil, err
	}
	if season.IsPartial {
		return nil, fmt.Errorf("%w: season %d is still in progress", ErrInvalidInput, year)
	}
	if season.Finish == nil || !season.Finish.Complete() {
		return nil, fmt.Errorf("%w: season %d has no complete postseason finish", ErrInconsistentFacts, year)
	}

	placements := map[int]decimal.Decimal{
		1: s.schedule.FirstPlace,
		2: s.schedule.SecondPlace,
		3: s.schedule.ThirdPlace,
	}

	out := make([]Payout, 0, len(season.Standings))
	for _, ts := range season.Standings {
		amount := decimal.Zero
		if purse, ok := placements[ts.PlayoffFinish]; ok {
			amount = amount.Add(purse)
		}
		if ts.BlangumsCount > 0 {
			amount = amount.Add(s.schedule.BlangumsWeek.Mul(decimal.NewFromInt(int64(ts.BlangumsCount))))
		}
		if amount.IsZero() {
			continue
		}
		out = append(out, Payout{
			TeamID:        ts.TeamID,
			Amount:        amount,
			PlayoffFinish: ts.PlayoffFinish,
			BlangumsCount: ts.BlangumsCount,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}
