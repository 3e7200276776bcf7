package usecase

import (
	"context"
	"strings"

	"github.com/blingaleague/companion/internal/domain/trade"
)

// TradeFinderQuery narrows the trade log; asset-level predicates match when
// any asset in the trade satisfies them.
type TradeFinderQuery struct {
	YearMin int
	YearMax int
	WeekMin int
	WeekMax int

	Senders   []int64
	Receivers []int64
	Positions []string

	DraftPicksOnly bool
	// PlayerName is a case-insensitive substring match.
	PlayerName string

	// MatchingAssetsOnly trims each hit down to the assets that matched.
	MatchingAssetsOnly bool
}

func (q TradeFinderQuery) populated() int {
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
	if len(q.Senders) != 0 {
		n++
	}
	if len(q.Receivers) != 0 {
		n++
	}
	if len(q.Positions) != 0 {
		n++
	}
	if q.DraftPicksOnly {
		n++
	}
	if q.PlayerName != "" {
		n++
	}
	return n
}

func (s *FinderService) FindTrades(ctx context.Context, q TradeFinderQuery) ([]trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FinderService.FindTrades")
	defer span.End()

	if err := checkFilterGate(q.populated()); err != nil {
		return nil, err
	}

	all, err := s.trades.List(ctx, trade.Filter{})
	if err != nil {
		return nil, err
	}

	senders := toIDSet(q.Senders)
	receivers := toIDSet(q.Receivers)
	positions := toUpperSet(q.Positions)
	name := strings.ToLower(q.PlayerName)

	out := make([]trade.Trade, 0)
	for _, t := range all {
		if q.YearMin != 0 && t.Year < q.YearMin {
			continue
		}
		if q.YearMax != 0 && t.Year > q.YearMax {
			continue
		}
		if q.WeekMin != 0 && t.Week < q.WeekMin {
			continue
		}
		if q.WeekMax != 0 && t.Week > q.WeekMax {
			continue
		}

		matched := make([]trade.Asset, 0, len(t.Assets))
		for _, a := range t.Assets {
			if len(senders) > 0 && !senders[a.SenderID] {
				continue
			}
			if len(receivers) > 0 && !receivers[a.ReceiverID] {
				continue
			}
			if len(positions) > 0 && !positions[strings.ToUpper(a.Position)] {
				continue
			}
			if q.DraftPicksOnly && !a.IsDraftPick {
				continue
			}
			if name != "" && !strings.Contains(strings.ToLower(a.Name), name) {
				continue
			}
			matched = append(matched, a)
		}
		if len(matched) == 0 {
			continue
		}
		hit := t
		if q.MatchingAssetsOnly {
			hit.Assets = matched
		}
		out = append(out, hit)
	}
	return out, nil
}

func toIDSet(ids []int64) map[int64]bool {
	out := make(map[int64]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func toUpperSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[strings.ToUpper(v)] = true
	}
	return out
}
