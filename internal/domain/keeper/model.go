package keeper

import "fmt"

// Keeper is a player retained from the prior season in lieu of a draft pick.
type Keeper struct {
	ID        int64
	Name      string
	Position  string
	Year      int
	Round     int
	TimesKept int
	TeamID    int64
}

func (k Keeper) Validate() error {
	if k.Name == "" {
		return fmt.Errorf("keeper name is required")
	}
	if k.Year <= 0 || k.Round <= 0 {
		return fmt.Errorf("keeper year and round are required")
	}
	if k.TeamID <= 0 {
		return fmt.Errorf("keeper team id is required")
	}
	return nil
}

type Filter struct {
	Year   int
	TeamID int64
}

func (f Filter) Matches(k Keeper) bool {
	if f.Year != 0 && k.Year != f.Year {
		return false
	}
	if f.TeamID != 0 && k.TeamID != f.TeamID {
		return false
	}
	return true
}
