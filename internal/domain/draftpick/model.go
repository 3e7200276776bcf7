package draftpick

import (
	"errors"
	"fmt"
)

var ErrDuplicateSlot = errors.New("duplicate draft slot")

// DraftPick is one selection. Unique by (year, round, pick_in_round);
// OriginalTeamID is set when the slot arrived via trade.
type DraftPick struct {
	ID             int64
	Name           string
	Position       string
	Year           int
	Round          int
	PickInRound    int
	IsKeeper       bool
	Notes          string
	TeamID         int64
	OriginalTeamID *int64
}

func (p DraftPick) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("draft pick name is required")
	}
	if p.Year <= 0 || p.Round <= 0 || p.PickInRound <= 0 {
		return fmt.Errorf("draft pick slot is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("draft pick team id is required")
	}
	return nil
}

// SlotKey identifies the unique slot for duplicate detection.
func (p DraftPick) SlotKey() string {
	return fmt.Sprintf("%d/%d/%d", p.Year, p.Round, p.PickInRound)
}

type Filter struct {
	Year   int
	Round  int
	TeamID int64
}

func (f Filter) Matches(p DraftPick) bool {
	if f.Year != 0 && p.Year != f.Year {
		return false
	}
	if f.Round != 0 && p.Round != f.Round {
		return false
	}
	if f.TeamID != 0 && p.TeamID != f.TeamID {
		return false
	}
	return true
}
