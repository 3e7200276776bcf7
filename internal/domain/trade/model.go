package trade

import (
	"fmt"
	"time"
)

// Trade is one agreed swap, dated into a (year, week) slot. Assets always
// carry both sender and receiver so one-sided records cannot exist.
type Trade struct {
	ID     int64
	Year   int
	Week   int
	Date   time.Time
	Assets []Asset
}

// Asset is one traded item: a player or a draft pick.
type Asset struct {
	ID             int64
	TradeID        int64
	Name           string
	Position       string
	IsDraftPick    bool
	KeeperCost     *int
	KeeperEligible bool
	SenderID       int64
	ReceiverID     int64
}

func (t Trade) Validate() error {
	if t.Year <= 0 || t.Week <= 0 {
		return fmt.Errorf("trade year and week are required")
	}
	if len(t.Assets) == 0 {
		return fmt.Errorf("trade assets are required")
	}
	for _, a := range t.Assets {
		if a.SenderID <= 0 || a.ReceiverID <= 0 {
			return fmt.Errorf("trade asset %q requires sender and receiver", a.Name)
		}
		if a.SenderID == a.ReceiverID {
			return fmt.Errorf("trade asset %q cannot be sent to its sender", a.Name)
		}
	}
	return nil
}

// Participants returns the distinct member ids appearing on either side.
func (t Trade) Participants() []int64 {
	seen := make(map[int64]struct{}, 2)
	out := make([]int64, 0, 2)
	for _, a := range t.Assets {
		for _, id := range []int64{a.SenderID, a.ReceiverID} {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Filter narrows a trade read. Zero fields mean "any".
type Filter struct {
	Year   int
	Week   int
	TeamID int64
}

func (f Filter) Matches(t Trade) bool {
	if f.Year != 0 && t.Year != f.Year {
		return false
	}
	if f.Week != 0 && t.Week != f.Week {
		return false
	}
	if f.TeamID != 0 {
		for _, id := range t.Participants() {
			if id == f.TeamID {
				return true
			}
		}
		return false
	}
	return true
}
