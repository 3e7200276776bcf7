package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/blingaleague/companion/internal/platform/cache"
	"github.com/blingaleague/companion/internal/platform/logging"
)

// CacheNames lists the flushable cache families, matching the key prefixes
// the services write under.
var CacheNames = []string{
	"Season",
	"TeamSeason",
	"ExpectedWinsModel",
	"PlayoffOdds",
	"Belt",
	"Gazette",
}

// CacheAdminService is the operator surface over the memoization layer.
type CacheAdminService struct {
	seasons *SeasonService
	cache   *cache.Store
	workers int
	logger  *logging.Logger
}

func NewCacheAdminService(seasons *SeasonService, store *cache.Store, workers int, logger *logging.Logger) *CacheAdminService {
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CacheAdminService{seasons: seasons, cache: store, workers: workers, logger: logger}
}

// Flush clears the named cache families, or everything for "ALL" (or no
// names at all).
func (s *CacheAdminService) Flush(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		s.cache.Flush(ctx)
		s.logger.InfoContext(ctx, "cache flushed", "scope", "ALL")
		return nil
	}

	known := make(map[string]bool, len(CacheNames))
	for _, n := range CacheNames {
		known[n] = true
	}
	for _, name := range names {
		if strings.EqualFold(name, "ALL") {
			s.cache.Flush(ctx)
			s.logger.InfoContext(ctx, "cache flushed", "scope", "ALL")
			return nil
		}
		if !known[name] {
			return fmt.Errorf("%w: unknown cache %q", ErrInvalidInput, name)
		}
	}
	for _, name := range names {
		s.cache.DeletePrefix(ctx, name+"|")
	}
	s.logger.InfoContext(ctx, "cache flushed", "scope", strings.Join(names, ","))
	return nil
}

// PreBuild walks every (team, year) and warms the expensive derivations so
// the first page load after a flush is not the one paying for them.
func (s *CacheAdminService) PreBuild(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CacheAdminService.PreBuild")
	defer span.End()

	model, err := s.seasons.ExpectedWinsModel(ctx)
	if err != nil {
		return err
	}
	years, err := s.seasons.Years(ctx)
	if err != nil {
		return err
	}
	if _, err := s.seasons.BeltHistory(ctx); err != nil {
		return err
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for _, year := range years {
		year := year
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			for _, playoffs := range []bool{false, true} {
				season, err := s.seasons.Season(ctx, year, 0, playoffs)
				if err != nil {
					fail(err)
					return
				}
				for _, ts := range season.Standings {
					if _, err := ts.WinDistribution(ctx, model); err != nil {
						fail(err)
						return
					}
				}
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	s.logger.InfoContext(ctx, "cache pre-built", "years", len(years), "entries", s.cache.Len())
	return nil
}

// Rebuild is flush-then-prebuild.
func (s *CacheAdminService) Rebuild(ctx context.Context) error {
	if err := s.Flush(ctx, "ALL"); err != nil {
		return err
	}
	return s.PreBuild(ctx)
}
