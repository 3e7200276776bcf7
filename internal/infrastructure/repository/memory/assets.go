package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/keeper"
	"github.com/blingaleague/companion/internal/domain/trade"
)

type TradeRepository struct {
	mu     sync.RWMutex
	trades []trade.Trade
}

func NewTradeRepository(trades []trade.Trade) *TradeRepository {
	return &TradeRepository{trades: append([]trade.Trade(nil), trades...)}
}

func (r *TradeRepository) List(_ context.Context, filter trade.Filter) ([]trade.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]trade.Trade, 0)
	for _, t := range r.trades {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type KeeperRepository struct {
	mu      sync.RWMutex
	keepers []keeper.Keeper
}

func NewKeeperRepository(keepers []keeper.Keeper) *KeeperRepository {
	return &KeeperRepository{keepers: append([]keeper.Keeper(nil), keepers...)}
}

func (r *KeeperRepository) List(_ context.Context, filter keeper.Filter) ([]keeper.Keeper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]keeper.Keeper, 0)
	for _, k := range r.keepers {
		if filter.Matches(k) {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type DraftPickRepository struct {
	mu     sync.RWMutex
	picks  []draftpick.DraftPick
	slots  map[string]bool
	nextID int64
}

func NewDraftPickRepository(picks []draftpick.DraftPick) *DraftPickRepository {
	r := &DraftPickRepository{
		picks:  append([]draftpick.DraftPick(nil), picks...),
		slots:  make(map[string]bool, len(picks)),
		nextID: 1,
	}
	for _, p := range r.picks {
		r.slots[p.SlotKey()] = true
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *DraftPickRepository) List(_ context.Context, filter draftpick.Filter) ([]draftpick.DraftPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]draftpick.DraftPick, 0)
	for _, p := range r.picks {
		if filter.Matches(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].PickInRound < out[j].PickInRound
	})
	return out, nil
}

func (r *DraftPickRepository) Create(_ context.Context, p draftpick.DraftPick) (draftpick.DraftPick, error) {
	if err := p.Validate(); err != nil {
		return draftpick.DraftPick{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slots[p.SlotKey()] {
		return draftpick.DraftPick{}, fmt.Errorf("%w: %s", draftpick.ErrDuplicateSlot, p.SlotKey())
	}
	p.ID = r.nextID
	r.nextID++
	r.slots[p.SlotKey()] = true
	r.picks = append(r.picks, p)
	return p, nil
}
