package league

// Rules stores the league-wide structural constants. Everything here is
// fixed for the life of the league but kept injectable so tests can build
// small leagues.
type Rules struct {
	FirstSeason        int
	RegularSeasonWeeks int
	PlayoffTeams       int
	ByeTeams           int
	// ExpansionSeason is the first year the league played with the larger
	// team count.
	ExpansionSeason      int
	TeamsBeforeExpansion int
	TeamsAfterExpansion  int
}

func DefaultRules() Rules {
	return Rules{
		FirstSeason:          2008,
		RegularSeasonWeeks:   13,
		PlayoffTeams:         6,
		ByeTeams:             2,
		ExpansionSeason:      2012,
		TeamsBeforeExpansion: 12,
		TeamsAfterExpansion:  14,
	}
}

// Playoff round titles. The championship game doubles as the name of the
// season's final rank.
const (
	RoundBlingabowl    = "Blingabowl"
	RoundSemifinals    = "Semifinals"
	RoundQuarterfinals = "Quarterfinals"
	RoundThirdPlace    = "Third-Place Game"
	RoundFifthPlace    = "Fifth-Place Game"
)

func (r Rules) TeamCount(year int) int {
	if year >= r.ExpansionSeason {
		return r.TeamsAfterExpansion
	}
	return r.TeamsBeforeExpansion
}

func (r Rules) IsPlayoffWeek(week int) bool {
	return week > r.RegularSeasonWeeks
}

func (r Rules) QuarterfinalWeek() int { return r.RegularSeasonWeeks + 1 }
func (r Rules) SemifinalWeek() int    { return r.RegularSeasonWeeks + 2 }
func (r Rules) ChampionshipWeek() int { return r.RegularSeasonWeeks + 3 }

// RoundTitle names the playoff round played in the given week. The second
// game of the semifinal and championship weeks is the consolation game.
func (r Rules) RoundTitle(week int, consolation bool) string {
	switch week {
	case r.QuarterfinalWeek():
		return RoundQuarterfinals
	case r.SemifinalWeek():
		if consolation {
			return RoundFifthPlace
		}
		return RoundSemifinals
	case r.ChampionshipWeek():
		if consolation {
			return RoundThirdPlace
		}
		return RoundBlingabowl
	default:
		return ""
	}
}
