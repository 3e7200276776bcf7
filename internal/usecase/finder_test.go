package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/keeper"
	"github.com/blingaleague/companion/internal/domain/trade"
	"github.com/blingaleague/companion/internal/infrastructure/repository/memory"
	"github.com/blingaleague/companion/internal/platform/logging"
)

func newFinderFixture(t *testing.T) *FinderService {
	t.Helper()

	f := completedSeasonFixture()
	keeperCost := 5
	trades := memory.NewTradeRepository([]trade.Trade{
		{
			ID:   1,
			Year: 2008,
			Week: 2,
			Date: time.Date(2008, time.September, 20, 0, 0, 0, 0, time.UTC),
			Assets: []trade.Asset{
				{ID: 1, TradeID: 1, Name: "Joe Smith", Position: "QB", KeeperCost: &keeperCost, KeeperEligible: true, SenderID: idAllen, ReceiverID: idBaker},
				{ID: 2, TradeID: 1, Name: "2009 Round 1", IsDraftPick: true, SenderID: idBaker, ReceiverID: idAllen},
			},
		},
	})
	keepers := memory.NewKeeperRepository([]keeper.Keeper{
		{ID: 1, Name: "Joe Smith", Position: "QB", Year: 2008, Round: 3, TimesKept: 1, TeamID: idBaker},
		{ID: 2, Name: "Max Power", Position: "RB", Year: 2008, Round: 7, TimesKept: 2, TeamID: idCarter},
	})
	allen := idAllen
	picks := memory.NewDraftPickRepository([]draftpick.DraftPick{
		{ID: 1, Name: "Joe Smith", Position: "QB", Year: 2008, Round: 1, PickInRound: 1, TeamID: idAllen},
		{ID: 2, Name: "Max Power", Position: "RB", Year: 2008, Round: 1, PickInRound: 2, IsKeeper: true, TeamID: idBaker, OriginalTeamID: &allen},
	})

	return NewFinderService(f.service, f.games, trades, keepers, picks, testRules(), logging.NewNop())
}

func TestFinderService_FilterGateRefusesBroadQueries(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	ctx := context.Background()

	if _, err := finder.FindGames(ctx, GameFinderQuery{YearMin: 2008}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("game finder gate: expected ErrInvalidInput, got %v", err)
	}
	if _, err := finder.FindSeasons(ctx, SeasonFinderQuery{Champion: true}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("season finder gate: expected ErrInvalidInput, got %v", err)
	}
	if _, err := finder.FindTrades(ctx, TradeFinderQuery{YearMin: 2008}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("trade finder gate: expected ErrInvalidInput, got %v", err)
	}
	if _, err := finder.FindKeepers(ctx, KeeperFinderQuery{YearMin: 2008}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("keeper finder gate: expected ErrInvalidInput, got %v", err)
	}
	if _, err := finder.FindDraftPicks(ctx, DraftPickFinderQuery{YearMin: 2008}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("draft pick finder gate: expected ErrInvalidInput, got %v", err)
	}
}

func TestFinderService_FindGames_TeamOutcomeAndRollups(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	result, err := finder.FindGames(context.Background(), GameFinderQuery{
		Teams:   []int64{idDrake},
		Outcome: "L",
	})
	if err != nil {
		t.Fatalf("FindGames error: %v", err)
	}
	if len(result.Games) != 3 {
		t.Fatalf("Drake losses: got %d games, want 3", len(result.Games))
	}
	for _, g := range result.Games {
		if g.LoserID != idDrake {
			t.Fatalf("game %d: Drake did not lose", g.ID)
		}
	}

	var drakeRollup *TeamRollup
	for i := range result.Rollups {
		if result.Rollups[i].TeamID == idDrake {
			drakeRollup = &result.Rollups[i]
		}
	}
	if drakeRollup == nil || drakeRollup.Wins != 0 || drakeRollup.Losses != 3 {
		t.Fatalf("unexpected Drake rollup: %+v", drakeRollup)
	}
}

func TestFinderService_FindGames_BlangumsGames(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	result, err := finder.FindGames(context.Background(), GameFinderQuery{
		YearMin:  2008,
		Blangums: true,
	})
	if err != nil {
		t.Fatalf("FindGames error: %v", err)
	}

	// Allen posts the weekly high every regular-season week.
	want := map[int64]bool{1: true, 3: true, 5: true}
	if len(result.Games) != len(want) {
		t.Fatalf("got %d Blangums games, want %d", len(result.Games), len(want))
	}
	for _, g := range result.Games {
		if !want[g.ID] {
			t.Fatalf("unexpected Blangums game %d", g.ID)
		}
	}
}

func TestFinderService_FindGames_WinStreak(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	result, err := finder.FindGames(context.Background(), GameFinderQuery{
		Teams:     []int64{idAllen},
		StreakMin: 3,
	})
	if err != nil {
		t.Fatalf("FindGames error: %v", err)
	}

	// Allen's third and fourth straight wins.
	if len(result.Games) != 2 || result.Games[0].ID != 5 || result.Games[1].ID != 7 {
		t.Fatalf("unexpected streak games: %+v", result.Games)
	}
}

func TestFinderService_FindGames_PlayoffRound(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	result, err := finder.FindGames(context.Background(), GameFinderQuery{
		YearMin:       2008,
		PlayoffRounds: []string{"Blingabowl"},
	})
	if err != nil {
		t.Fatalf("FindGames error: %v", err)
	}
	if len(result.Games) != 1 || result.Games[0].ID != 7 {
		t.Fatalf("unexpected Blingabowl games: %+v", result.Games)
	}
}

func TestFinderService_FindGames_ScoreBounds(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	result, err := finder.FindGames(context.Background(), GameFinderQuery{
		ScoreMin:    decimal.RequireFromString("110"),
		RegularOnly: true,
	})
	if err != nil {
		t.Fatalf("FindGames error: %v", err)
	}
	// Weeks 2 and 3 each have a side at or above 110.
	if len(result.Games) != 2 || result.Games[0].ID != 3 || result.Games[1].ID != 5 {
		t.Fatalf("unexpected high-score games: %+v", result.Games)
	}
}

func TestFinderService_FindSeasons_ChampionAndPlace(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	rows, err := finder.FindSeasons(context.Background(), SeasonFinderQuery{
		YearMin:  2008,
		Champion: true,
	})
	if err != nil {
		t.Fatalf("FindSeasons error: %v", err)
	}
	if len(rows) != 1 || rows[0].TeamID != idAllen {
		t.Fatalf("unexpected champions: %+v", rows)
	}
	if rows[0].Wins() != 3 || rows[0].Losses() != 0 {
		t.Fatalf("champion record %d-%d, want 3-0", rows[0].Wins(), rows[0].Losses())
	}

	bottom, err := finder.FindSeasons(context.Background(), SeasonFinderQuery{
		YearMin:  2008,
		PlaceMin: 3,
	})
	if err != nil {
		t.Fatalf("FindSeasons error: %v", err)
	}
	if len(bottom) != 2 {
		t.Fatalf("bottom half: got %d rows, want 2", len(bottom))
	}
}

func TestFinderService_FindSeasons_WinsRange(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	rows, err := finder.FindSeasons(context.Background(), SeasonFinderQuery{
		WinsMin: 2,
		WinsMax: 3,
	})
	if err != nil {
		t.Fatalf("FindSeasons error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("2-3 win seasons: got %d rows, want 2", len(rows))
	}
}

func TestFinderService_FindTrades_AssetPredicates(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	ctx := context.Background()

	hits, err := finder.FindTrades(ctx, TradeFinderQuery{
		YearMin: 2008,
		Senders: []int64{idAllen},
	})
	if err != nil {
		t.Fatalf("FindTrades error: %v", err)
	}
	if len(hits) != 1 || len(hits[0].Assets) != 2 {
		t.Fatalf("sender match should keep the full trade: %+v", hits)
	}

	trimmed, err := finder.FindTrades(ctx, TradeFinderQuery{
		YearMin:            2008,
		Senders:            []int64{idAllen},
		MatchingAssetsOnly: true,
	})
	if err != nil {
		t.Fatalf("FindTrades error: %v", err)
	}
	if len(trimmed) != 1 || len(trimmed[0].Assets) != 1 || trimmed[0].Assets[0].Name != "Joe Smith" {
		t.Fatalf("matching-assets trim failed: %+v", trimmed)
	}

	picks, err := finder.FindTrades(ctx, TradeFinderQuery{
		YearMin:        2008,
		DraftPicksOnly: true,
	})
	if err != nil {
		t.Fatalf("FindTrades error: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("draft-pick trades: got %d, want 1", len(picks))
	}

	none, err := finder.FindTrades(ctx, TradeFinderQuery{
		YearMin:    2008,
		PlayerName: "nobody",
	})
	if err != nil {
		t.Fatalf("FindTrades error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("unexpected trades for unknown player: %+v", none)
	}
}

func TestFinderService_FindKeepers(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	hits, err := finder.FindKeepers(context.Background(), KeeperFinderQuery{
		YearMin:      2008,
		TimesKeptMin: 2,
	})
	if err != nil {
		t.Fatalf("FindKeepers error: %v", err)
	}
	if len(hits) != 1 || hits[0].Name != "Max Power" {
		t.Fatalf("unexpected keepers: %+v", hits)
	}

	byName, err := finder.FindKeepers(context.Background(), KeeperFinderQuery{
		Positions:  []string{"qb"},
		PlayerName: "joe",
	})
	if err != nil {
		t.Fatalf("FindKeepers error: %v", err)
	}
	if len(byName) != 1 || byName[0].TeamID != idBaker {
		t.Fatalf("case-insensitive keeper search failed: %+v", byName)
	}
}

func TestFinderService_FindDraftPicks(t *testing.T) {
	t.Parallel()

	finder := newFinderFixture(t)
	keepers, err := finder.FindDraftPicks(context.Background(), DraftPickFinderQuery{
		YearMin:     2008,
		KeepersOnly: true,
	})
	if err != nil {
		t.Fatalf("FindDraftPicks error: %v", err)
	}
	if len(keepers) != 1 || keepers[0].Name != "Max Power" {
		t.Fatalf("unexpected keeper picks: %+v", keepers)
	}

	traded, err := finder.FindDraftPicks(context.Background(), DraftPickFinderQuery{
		YearMin:    2008,
		TradedOnly: true,
	})
	if err != nil {
		t.Fatalf("FindDraftPicks error: %v", err)
	}
	if len(traded) != 1 || traded[0].ID != 2 {
		t.Fatalf("unexpected traded picks: %+v", traded)
	}
}
