package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/infrastructure/repository/memory"
	"github.com/blingaleague/companion/internal/platform/cache"
	"github.com/blingaleague/companion/internal/platform/logging"
)

type importFixture struct {
	games   *memory.GameRepository
	picks   *memory.DraftPickRepository
	store   *cache.Store
	service *ImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		games: memory.NewGameRepository(nil, nil),
		picks: memory.NewDraftPickRepository(nil),
		store: cache.NewStore(0),
	}
	members := memory.NewMemberRepository(testMembers(), nil)
	postseasons := memory.NewPostseasonRepository(nil, nil)
	f.service = NewImportService(members, f.games, postseasons, f.picks, f.store, logging.NewNop())
	return f
}

func TestImportService_ImportGames(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	csvBody := strings.Join([]string{
		"year,week,winner,loser,winner_score,loser_score,notes",
		"2009,1,Allen,Baker,101.52,99.25,opener",
		"2009,1,3,4,88.00,70.10",
	}, "\n")

	count, err := f.service.ImportGames(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	require.Equal(t, 2, count)

	stored, err := f.games.List(context.Background(), game.Filter{Year: 2009})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, idAllen, stored[0].WinnerID)
	require.Equal(t, idBaker, stored[0].LoserID)
	require.Equal(t, "101.52", stored[0].WinnerScore.String())
	require.Equal(t, "opener", stored[0].Notes)
	require.Equal(t, idCarter, stored[1].WinnerID)
}

func TestImportService_ImportGames_RejectsScoreOrderViolation(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	csvBody := "2009,1,Allen,Baker,90,100\n"

	_, err := f.service.ImportGames(context.Background(), strings.NewReader(csvBody))
	require.ErrorIs(t, err, ErrInconsistentFacts)

	// Nothing is written when validation fails.
	stored, listErr := f.games.List(context.Background(), game.Filter{})
	require.NoError(t, listErr)
	require.Empty(t, stored)
}

func TestImportService_ImportGames_RejectsUnknownTeam(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	csvBody := "2009,1,Nobody,Baker,100,90\n"

	_, err := f.service.ImportGames(context.Background(), strings.NewReader(csvBody))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportService_ImportPostseason(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	postseasons := memory.NewPostseasonRepository(nil, nil)
	members := memory.NewMemberRepository(testMembers(), nil)
	service := NewImportService(members, f.games, postseasons, f.picks, f.store, logging.NewNop())

	csvBody := strings.Join([]string{
		"year,place_1,place_2,place_3,place_4,place_5,place_6",
		"2008,Allen,Baker,Carter,Drake,,",
	}, "\n")

	count, err := service.ImportPostseason(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	finish, ok, err := postseasons.GetByYear(context.Background(), 2008)
	require.NoError(t, err)
	require.True(t, ok)
	champion, decided := finish.Champion()
	require.True(t, decided)
	require.Equal(t, idAllen, champion)
	require.Nil(t, finish.Places[4])
}

func TestImportService_ImportPostseason_RejectsDuplicatePlaces(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	csvBody := "2008,Allen,Allen,,,,\n"

	_, err := f.service.ImportPostseason(context.Background(), strings.NewReader(csvBody))
	require.ErrorIs(t, err, ErrInconsistentFacts)
}

func TestImportService_ImportFutureGames(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	schedule := strings.Join([]string{
		"week 1",
		"Allen vs Baker",
		"Carter vs. Drake",
		"",
		"week 2",
		"Allen vs Carter",
	}, "\n")

	count, err := f.service.ImportFutureGames(context.Background(), 2010, strings.NewReader(schedule))
	require.NoError(t, err)
	require.Equal(t, 3, count)

	futures, err := f.games.ListFuture(context.Background(), game.Filter{Year: 2010, Week: 1})
	require.NoError(t, err)
	require.Len(t, futures, 2)
	require.Equal(t, idAllen, futures[0].Team1ID)
	require.Equal(t, idBaker, futures[0].Team2ID)
}

func TestImportService_ImportFutureGames_MatchupBeforeHeader(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	_, err := f.service.ImportFutureGames(context.Background(), 2010, strings.NewReader("Allen vs Baker\n"))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestImportService_ImportDraftBoard_SnakeOrder(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	board := strings.Join([]string{
		"Allen,Baker,Carter,Drake",
		`"Joe Smith, QB","Max Power, WR","Sam Hill, RB","Bo Decker, TE"`,
		`"Lou Pine, RB (K)","Art Vance, QB",,"Gil Roth, WR"`,
	}, "\n")

	count, err := f.service.ImportDraftBoard(context.Background(), 2010, strings.NewReader(board))
	require.NoError(t, err)
	require.Equal(t, 7, count)

	picks, err := f.picks.List(context.Background(), draftpick.Filter{Year: 2010})
	require.NoError(t, err)
	require.Len(t, picks, 7)

	bySlot := make(map[[2]int]draftpick.DraftPick, len(picks))
	for _, p := range picks {
		bySlot[[2]int{p.Round, p.PickInRound}] = p
	}

	// Round one runs left to right.
	require.Equal(t, "Joe Smith", bySlot[[2]int{1, 1}].Name)
	require.Equal(t, "QB", bySlot[[2]int{1, 1}].Position)
	require.Equal(t, idDrake, bySlot[[2]int{1, 4}].TeamID)

	// Round two snakes: Allen's column is the last pick of the round.
	allenRoundTwo := bySlot[[2]int{2, 4}]
	require.Equal(t, idAllen, allenRoundTwo.TeamID)
	require.Equal(t, "Lou Pine", allenRoundTwo.Name)
	require.True(t, allenRoundTwo.IsKeeper)

	// Drake's column snakes to the front of round two.
	require.Equal(t, idDrake, bySlot[[2]int{2, 1}].TeamID)
	require.Equal(t, "Gil Roth", bySlot[[2]int{2, 1}].Name)

	// The empty cell leaves Carter's round-two slot unfilled.
	_, taken := bySlot[[2]int{2, 2}]
	require.False(t, taken)
}

func TestImportService_ImportDraftBoard_RejectsDuplicateSlot(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	seeded, err := f.picks.Create(context.Background(), draftpick.DraftPick{
		Name: "Early Bird", Year: 2010, Round: 1, PickInRound: 1, TeamID: idAllen,
	})
	require.NoError(t, err)
	require.NotZero(t, seeded.ID)

	board := strings.Join([]string{
		"Allen,Baker,Carter,Drake",
		"Joe Smith,Max Power,Sam Hill,Bo Decker",
	}, "\n")

	_, err = f.service.ImportDraftBoard(context.Background(), 2010, strings.NewReader(board))
	require.ErrorIs(t, err, ErrInconsistentFacts)
}

func TestImportService_ImportFlushesCache(t *testing.T) {
	t.Parallel()

	f := newImportFixture()
	f.store.Set(context.Background(), "Season|year=2008|view", "stale")
	require.Equal(t, 1, f.store.Len())

	_, err := f.service.ImportGames(context.Background(), strings.NewReader("2009,1,Allen,Baker,100,90\n"))
	require.NoError(t, err)
	require.Zero(t, f.store.Len())
}
