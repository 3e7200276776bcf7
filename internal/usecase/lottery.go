package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/blingaleague/companion/internal/platform/logging"
)

const DefaultLotteryTrials = 10_000

// LotteryEntry is one team's chance at the first pick. Weights across a
// draw sum to 1.
type LotteryEntry struct {
	TeamID int64
	Weight float64
}

// FirstPickOdds weights the draw by inverse regular-season finish: the
// last-place team carries the largest share.
func (v *SeasonView) FirstPickOdds() []LotteryEntry {
	total := 0
	for _, ts := range v.Standings {
		total += ts.Place
	}
	if total == 0 {
		return nil
	}
	entries := make([]LotteryEntry, 0, len(v.Standings))
	for _, ts := range v.Standings {
		entries = append(entries, LotteryEntry{
			TeamID: ts.TeamID,
			Weight: float64(ts.Place) / float64(total),
		})
	}
	return entries
}

// LotteryResult aggregates a simulation run: per-team per-slot counts over
// all trials, plus one trial sampled as the "actual" draw.
type LotteryResult struct {
	Year    int
	Trials  int
	Entries []LotteryEntry

	// SlotCounts[teamID][slot] is how many trials put the team at that
	// 0-based draft slot.
	SlotCounts map[int64][]int

	ActualOrder []int64
}

// FirstPickPct is the empirical share of trials a team drew the first pick.
func (r LotteryResult) FirstPickPct(teamID int64) float64 {
	counts, ok := r.SlotCounts[teamID]
	if !ok || r.Trials == 0 {
		return 0
	}
	return float64(counts[0]) / float64(r.Trials)
}

// LotteryService runs the weighted draft-order simulation.
type LotteryService struct {
	seasons *SeasonService
	logger  *logging.Logger
}

func NewLotteryService(seasons *SeasonService, logger *logging.Logger) *LotteryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LotteryService{seasons: seasons, logger: logger}
}

// Run simulates the draft lottery for a finished season. trials of 0 means
// the default; seed of 0 draws one from the clock.
func (s *LotteryService) Run(ctx context.Context, year, trials int, seed int64) (LotteryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LotteryService.Run")
	defer span.End()

	if trials <= 0 {
		trials = DefaultLotteryTrials
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	season, err := s.seasons.Season(ctx, year, 0, false)
	if err != nil {
		return LotteryResult{}, err
	}
	if season.IsPartial {
		return LotteryResult{}, fmt.Errorf("%w: season %d is not finished", ErrInvalidInput, year)
	}
	entries := season.FirstPickOdds()
	if len(entries) == 0 {
		return LotteryResult{}, fmt.Errorf("%w: season %d has no standings", ErrNotFound, year)
	}

	result := simulateLottery(entries, trials, seed)
	result.Year = year

	s.logger.InfoContext(ctx, "lottery simulated",
		"year", year, "trials", trials, "teams", len(entries))
	return result, nil
}

// simulateLottery fans the trials out over a worker pool. Each trial fills
// the order by rejection: a taken team's draw is discarded and redrawn, so
// the remaining teams keep their relative weights.
func simulateLottery(entries []LotteryEntry, trials int, seed int64) LotteryResult {
	result := LotteryResult{
		Trials:     trials,
		Entries:    entries,
		SlotCounts: make(map[int64][]int, len(entries)),
	}
	for _, e := range entries {
		result.SlotCounts[e.TeamID] = make([]int, len(entries))
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > trials {
		workers = trials
	}
	actualIndex := rand.New(rand.NewSource(seed)).Intn(trials)

	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(workers)
	chunk := (trials + workers - 1) / workers
	for start := 0; start < trials; start += chunk {
		start := start
		end := start + chunk
		if end > trials {
			end = trials
		}
		p.Go(func() {
			rng := rand.New(rand.NewSource(seed + int64(start) + 1))
			local := make(map[int64][]int, len(entries))
			for _, e := range entries {
				local[e.TeamID] = make([]int, len(entries))
			}
			var actual []int64
			for trial := start; trial < end; trial++ {
				order := drawOrder(entries, rng)
				for slot, teamID := range order {
					local[teamID][slot]++
				}
				if trial == actualIndex {
					actual = order
				}
			}
			mu.Lock()
			for teamID, counts := range local {
				dest := result.SlotCounts[teamID]
				for slot, n := range counts {
					dest[slot] += n
				}
			}
			if actual != nil {
				result.ActualOrder = actual
			}
			mu.Unlock()
		})
	}
	p.Wait()
	return result
}

func drawOrder(entries []LotteryEntry, rng *rand.Rand) []int64 {
	order := make([]int64, 0, len(entries))
	taken := make(map[int64]bool, len(entries))
	for len(order) < len(entries) {
		u := rng.Float64()
		sum := 0.0
		pick := entries[len(entries)-1].TeamID
		for _, e := range entries {
			sum += e.Weight
			if sum >= u {
				pick = e.TeamID
				break
			}
		}
		if taken[pick] {
			continue
		}
		taken[pick] = true
		order = append(order, pick)
	}
	return order
}
