package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/postseason"
)

func TestSeasonService_Season_StandingsOrderAndAwards(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	season, err := f.service.Season(context.Background(), 2008, 0, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}

	if season.IsPartial {
		t.Fatal("completed season reported as partial")
	}

	wantOrder := []int64{idAllen, idBaker, idCarter, idDrake}
	if len(season.Standings) != len(wantOrder) {
		t.Fatalf("expected %d standings rows, got %d", len(wantOrder), len(season.Standings))
	}
	for i, want := range wantOrder {
		ts := season.Standings[i]
		if ts.TeamID != want {
			t.Fatalf("place %d: got team %d, want %d", i+1, ts.TeamID, want)
		}
		if ts.Place != i+1 {
			t.Fatalf("team %d: got place %d, want %d", ts.TeamID, ts.Place, i+1)
		}
	}

	allen := season.TeamSeason(idAllen)
	if allen.Wins != 3 || allen.Losses != 0 {
		t.Fatalf("Allen record %s, want 3-0", allen.Record())
	}
	if got := allen.Points().StringFixed(2); got != "330.00" {
		t.Fatalf("Allen points %s, want 330.00", got)
	}
	if allen.BlangumsCount != 3 {
		t.Fatalf("Allen Blangums count %d, want 3", allen.BlangumsCount)
	}
	drake := season.TeamSeason(idDrake)
	if drake.SlappedCount != 3 {
		t.Fatalf("Drake slapped count %d, want 3", drake.SlappedCount)
	}
}

func TestSeasonService_Season_TiebreakOnPoints(t *testing.T) {
	t.Parallel()

	// Two 1-1 teams; Carter's 105 total edges Drake's 100.
	f := newSeasonFixture([]game.Game{
		tg(1, 1, idCarter, idDrake, "60", "40"),
		tg(2, 2, idDrake, idCarter, "60", "45"),
	}, nil, nil, nil)

	season, err := f.service.Season(context.Background(), 2008, 0, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}
	if season.Standings[0].TeamID != idCarter {
		t.Fatalf("points tiebreak: got team %d first, want %d", season.Standings[0].TeamID, idCarter)
	}
	if !season.IsPartial {
		t.Fatal("two-week season should be partial")
	}
}

func TestSeasonService_Season_BracketFinishesFromChampionshipGame(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	season, err := f.service.Season(context.Background(), 2008, 0, true)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}

	if got := season.TeamSeason(idAllen).PlayoffFinish; got != 1 {
		t.Fatalf("champion finish %d, want 1", got)
	}
	if got := season.TeamSeason(idBaker).PlayoffFinish; got != 2 {
		t.Fatalf("runner-up finish %d, want 2", got)
	}

	// Playoff scoring only counts when requested.
	if got := season.TeamSeason(idAllen).GameCount(); got != 4 {
		t.Fatalf("with playoffs Allen played %d games, want 4", got)
	}
	regular, err := f.service.Season(context.Background(), 2008, 0, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}
	if got := regular.TeamSeason(idAllen).GameCount(); got != 3 {
		t.Fatalf("without playoffs Allen played %d games, want 3", got)
	}
}

func TestSeasonService_Season_PlayoffStatesAtMidseasonCutoff(t *testing.T) {
	t.Parallel()

	// Through week 2: Allen and Baker 2-0, Carter and Drake 0-2. With two
	// playoff spots the top pair is in and the bottom pair is done.
	f := completedSeasonFixture()
	season, err := f.service.Season(context.Background(), 2008, 2, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}

	if !season.IsPartial {
		t.Fatal("week-2 cutoff should be partial")
	}
	if got := season.TeamSeason(idAllen).PlayoffState; got != StateClinchedPlayoffs {
		t.Fatalf("Allen state %s, want %s", got, StateClinchedPlayoffs)
	}
	if got := season.TeamSeason(idBaker).PlayoffState; got != StateClinchedPlayoffs {
		t.Fatalf("Baker state %s, want %s", got, StateClinchedPlayoffs)
	}
	if got := season.TeamSeason(idCarter).PlayoffState; got != StateEliminatedEarly {
		t.Fatalf("Carter state %s, want %s", got, StateEliminatedEarly)
	}
	if got := season.TeamSeason(idDrake).PlayoffState; got != StateEliminatedEarly {
		t.Fatalf("Drake state %s, want %s", got, StateEliminatedEarly)
	}
}

func TestSeasonService_Season_CompleteSeasonUsesFinalStates(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	season, err := f.service.Season(context.Background(), 2008, 0, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}

	if got := season.TeamSeason(idAllen).PlayoffState; got != StateMadePlayoffs {
		t.Fatalf("Allen state %s, want %s", got, StateMadePlayoffs)
	}
	if got := season.TeamSeason(idCarter).PlayoffState; got != StateMissedPlayoffs {
		t.Fatalf("Carter state %s, want %s", got, StateMissedPlayoffs)
	}
}

func TestSeasonService_Season_PersistedFinishWins(t *testing.T) {
	t.Parallel()

	carter := idCarter
	drake := idDrake
	f := newSeasonFixture(completedSeasonGames(), nil, []postseason.Finish{
		{Year: 2008, Places: [postseason.PlaceCount]*int64{nil, nil, &carter, &drake, nil, nil}},
	}, nil)

	season, err := f.service.Season(context.Background(), 2008, 0, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}
	if got := season.TeamSeason(idCarter).PlayoffFinish; got != 3 {
		t.Fatalf("Carter finish %d, want persisted 3", got)
	}
}

func TestSeasonService_Season_RejectsPreHistoryYear(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	_, err := f.service.Season(context.Background(), 2007, 0, false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSeasonService_TeamSeason_UnknownTeam(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	_, err := f.service.TeamSeason(context.Background(), 99, 2008, 0, false)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeasonService_Week_AwardsAndValidation(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	week, err := f.service.Week(context.Background(), 2008, 1)
	if err != nil {
		t.Fatalf("Week error: %v", err)
	}
	if week.BlangumsID != idAllen {
		t.Fatalf("week 1 Blangums %d, want %d", week.BlangumsID, idAllen)
	}
	if week.SlappedHeartbeatID != idDrake {
		t.Fatalf("week 1 slapped heartbeat %d, want %d", week.SlappedHeartbeatID, idDrake)
	}

	if _, err := f.service.Week(context.Background(), 2007, 1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for pre-history year, got %v", err)
	}
	if _, err := f.service.Week(context.Background(), 2008, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for week 0, got %v", err)
	}
}

func TestSeasonService_Matchup(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	view, err := f.service.Matchup(context.Background(), idAllen, idBaker)
	if err != nil {
		t.Fatalf("Matchup error: %v", err)
	}
	if len(view.Games) != 2 || view.AWins != 2 || view.BWins != 0 {
		t.Fatalf("Allen/Baker matchup: games=%d a=%d b=%d, want 2/2/0", len(view.Games), view.AWins, view.BWins)
	}

	if _, err := f.service.Matchup(context.Background(), idAllen, idAllen); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self matchup, got %v", err)
	}
}

func TestSeasonService_YearsAndMultiSeasons(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	years, err := f.service.Years(context.Background())
	if err != nil {
		t.Fatalf("Years error: %v", err)
	}
	if len(years) != 1 || years[0] != 2008 {
		t.Fatalf("years %v, want [2008]", years)
	}

	multi, err := f.service.TeamMultiSeasons(context.Background(), idAllen, nil, false)
	if err != nil {
		t.Fatalf("TeamMultiSeasons error: %v", err)
	}
	if multi.Wins() != 3 || multi.Losses() != 0 {
		t.Fatalf("multi-season record %d-%d, want 3-0", multi.Wins(), multi.Losses())
	}
	if len(multi.Games()) != 3 {
		t.Fatalf("multi-season games %d, want 3", len(multi.Games()))
	}
}

func TestSeasonService_Season_MemoizesView(t *testing.T) {
	t.Parallel()

	f := completedSeasonFixture()
	first, err := f.service.Season(context.Background(), 2008, 0, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}
	second, err := f.service.Season(context.Background(), 2008, 0, false)
	if err != nil {
		t.Fatalf("Season error: %v", err)
	}
	if first != second {
		t.Fatal("expected the memoized *SeasonView on the second read")
	}
}
