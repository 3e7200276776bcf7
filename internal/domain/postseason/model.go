package postseason

import "fmt"

// PlaceCount is the number of bracket slots persisted per season.
const PlaceCount = 6

// PowerRankingSlots is the maximum persisted preseason ranking length. The
// pre-expansion seasons fill fewer slots; the rest stay null.
const PowerRankingSlots = 14

// Finish is the final playoff ranking for one season. Any slot may be nil
// while the season is incomplete.
type Finish struct {
	Year   int
	Places [PlaceCount]*int64
}

// Place returns the 1-based finishing place of the team, if recorded.
func (f Finish) Place(teamID int64) (int, bool) {
	for i, id := range f.Places {
		if id != nil && *id == teamID {
			return i + 1, true
		}
	}
	return 0, false
}

// Complete reports whether every bracket slot is recorded.
func (f Finish) Complete() bool {
	for _, id := range f.Places {
		if id == nil {
			return false
		}
	}
	return true
}

// Champion returns the Blingabowl winner, if decided.
func (f Finish) Champion() (int64, bool) {
	if f.Places[0] == nil {
		return 0, false
	}
	return *f.Places[0], true
}

func (f Finish) Validate() error {
	if f.Year <= 0 {
		return fmt.Errorf("postseason year is required")
	}
	seen := make(map[int64]struct{}, PlaceCount)
	for i, id := range f.Places {
		if id == nil {
			continue
		}
		if _, dup := seen[*id]; dup {
			return fmt.Errorf("duplicate team %d in postseason %d place %d", *id, f.Year, i+1)
		}
		seen[*id] = struct{}{}
	}
	return nil
}

// PowerRanking is the preseason editorial ordering of member ids.
type PowerRanking struct {
	Year     int
	Rankings []int64
}
