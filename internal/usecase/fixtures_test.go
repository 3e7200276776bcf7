package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/league"
	"github.com/blingaleague/companion/internal/domain/member"
	"github.com/blingaleague/companion/internal/domain/postseason"
	"github.com/blingaleague/companion/internal/domain/trade"
	"github.com/blingaleague/companion/internal/infrastructure/repository/memory"
	"github.com/blingaleague/companion/internal/platform/cache"
	"github.com/blingaleague/companion/internal/platform/logging"
)

// A four-team league with a three-week regular season keeps the standings
// machine small enough to check by hand.
const (
	idAllen  = int64(1)
	idBaker  = int64(2)
	idCarter = int64(3)
	idDrake  = int64(4)
)

func testRules() league.Rules {
	return league.Rules{
		FirstSeason:          2008,
		RegularSeasonWeeks:   3,
		PlayoffTeams:         2,
		ByeTeams:             1,
		ExpansionSeason:      2012,
		TeamsBeforeExpansion: 4,
		TeamsAfterExpansion:  4,
	}
}

func testMembers() []member.Member {
	return []member.Member{
		{ID: idAllen, FirstName: "Allen", Email: "allen@example.com"},
		{ID: idBaker, FirstName: "Baker", Email: "baker@example.com"},
		{ID: idCarter, FirstName: "Carter", Email: "carter@example.com"},
		{ID: idDrake, FirstName: "Drake", Email: "drake@example.com"},
	}
}

func tg(id int64, week int, winner, loser int64, winnerScore, loserScore string) game.Game {
	return game.Game{
		ID:          id,
		Year:        2008,
		Week:        week,
		WinnerID:    winner,
		LoserID:     loser,
		WinnerScore: decimal.RequireFromString(winnerScore),
		LoserScore:  decimal.RequireFromString(loserScore),
	}
}

// completedSeasonGames is the 2008 fixture: Allen runs the table and wins
// the championship in week 6, Drake posts the low score every week.
//
// Final: Allen 3-0 (330.00), Baker 2-1 (319.00), Carter 1-2 (269.00),
// Drake 0-3 (215.00).
func completedSeasonGames() []game.Game {
	return []game.Game{
		tg(1, 1, idAllen, idCarter, "100", "90"),
		tg(2, 1, idBaker, idDrake, "95", "85"),
		tg(3, 2, idAllen, idDrake, "110", "70"),
		tg(4, 2, idBaker, idCarter, "105", "80"),
		tg(5, 3, idAllen, idBaker, "120", "119"),
		tg(6, 3, idCarter, idDrake, "99", "60"),
		tg(7, 6, idAllen, idBaker, "101", "100"),
	}
}

type seasonFixture struct {
	members     *memory.MemberRepository
	games       *memory.GameRepository
	postseasons *memory.PostseasonRepository
	trades      *memory.TradeRepository
	store       *cache.Store
	service     *SeasonService
}

func newSeasonFixture(games []game.Game, futures []game.FutureGame, finishes []postseason.Finish, trades []trade.Trade) *seasonFixture {
	f := &seasonFixture{
		members:     memory.NewMemberRepository(testMembers(), nil),
		games:       memory.NewGameRepository(games, futures),
		postseasons: memory.NewPostseasonRepository(finishes, nil),
		trades:      memory.NewTradeRepository(trades),
		store:       cache.NewStore(0),
	}
	f.service = NewSeasonService(f.members, f.games, f.postseasons, f.trades, testRules(), f.store, logging.NewNop())
	return f
}

func completedSeasonFixture() *seasonFixture {
	return newSeasonFixture(completedSeasonGames(), nil, nil, nil)
}
