package gazette

import (
	"fmt"
	"strings"
	"time"
)

// Gazette is an editorial post distributed as HTML and email.
type Gazette struct {
	ID            int64
	Headline      string
	Published     bool
	PublishedDate *time.Time
	Body          string
	Slug          string
	EmailSent     bool
	UseMarkdown   bool
	Tags          []string
}

func (g Gazette) Validate() error {
	if strings.TrimSpace(g.Headline) == "" {
		return fmt.Errorf("gazette headline is required")
	}
	if strings.TrimSpace(g.Slug) == "" {
		return fmt.Errorf("gazette slug is required")
	}
	return nil
}

// PlayerNote is editorial metadata keyed by player name.
type PlayerNote struct {
	Name       string
	Nickname   string
	RIPInPeace bool
}
