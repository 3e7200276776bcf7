package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/blingaleague/companion/internal/domain/gazette"
)

type gazetteTableModel struct {
	ID            int64          `db:"id"`
	Headline      string         `db:"headline"`
	Published     bool           `db:"published"`
	PublishedDate *time.Time     `db:"published_date"`
	Body          sql.NullString `db:"body"`
	Slug          string         `db:"slug"`
	EmailSent     bool           `db:"email_sent"`
	UseMarkdown   bool           `db:"use_markdown"`
	Tags          pq.StringArray `db:"tags"`
}

func (m gazetteTableModel) toDomain() gazette.Gazette {
	return gazette.Gazette{
		ID:            m.ID,
		Headline:      m.Headline,
		Published:     m.Published,
		PublishedDate: m.PublishedDate,
		Body:          nullStringToString(m.Body),
		Slug:          m.Slug,
		EmailSent:     m.EmailSent,
		UseMarkdown:   m.UseMarkdown,
		Tags:          []string(m.Tags),
	}
}

type playerNoteTableModel struct {
	Name       string         `db:"name"`
	Nickname   sql.NullString `db:"nickname"`
	RIPInPeace bool           `db:"rip_in_peace"`
}

func (m playerNoteTableModel) toDomain() gazette.PlayerNote {
	return gazette.PlayerNote{
		Name:       m.Name,
		Nickname:   nullStringToString(m.Nickname),
		RIPInPeace: m.RIPInPeace,
	}
}
