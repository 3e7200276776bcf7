package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/blingaleague/companion/internal/domain/gazette"
	"github.com/blingaleague/companion/internal/domain/league"
	"github.com/blingaleague/companion/internal/domain/member"
	"github.com/blingaleague/companion/internal/platform/cache"
	"github.com/blingaleague/companion/internal/platform/logging"
)

// Mailer delivers one rendered gazette issue.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

// GazetteService synthesizes newsletter bodies from the derived read-model
// and handles the idempotent email send.
type GazetteService struct {
	gazettes gazette.Repository
	members  member.Repository
	seasons  *SeasonService
	rules    league.Rules
	cache    *cache.Store
	mailer   Mailer
	logger   *logging.Logger
}

func NewGazetteService(
	gazettes gazette.Repository,
	members member.Repository,
	seasons *SeasonService,
	rules league.Rules,
	store *cache.Store,
	mailer Mailer,
	logger *logging.Logger,
) *GazetteService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GazetteService{
		gazettes: gazettes,
		members:  members,
		seasons:  seasons,
		rules:    rules,
		cache:    store,
		mailer:   mailer,
		logger:   logger,
	}
}

func (s *GazetteService) List(ctx context.Context, publishedOnly bool) ([]gazette.Gazette, error) {
	return s.gazettes.List(ctx, publishedOnly)
}

func (s *GazetteService) GetBySlug(ctx context.Context, slug string) (gazette.Gazette, error) {
	g, ok, err := s.gazettes.GetBySlug(ctx, slug)
	if err != nil {
		return gazette.Gazette{}, err
	}
	if !ok {
		return gazette.Gazette{}, fmt.Errorf("%w: gazette %q", ErrNotFound, slug)
	}
	return g, nil
}

// SynthesizeBody drafts the weekly issue for (year, week): recap, trades,
// standings, Blingalytics ratings, postmortems, playoff scenarios, preview.
// The result is a markdown draft an editor polishes before publishing.
func (s *GazetteService) SynthesizeBody(ctx context.Context, year, week int) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GazetteService.SynthesizeBody")
	defer span.End()

	season, err := s.seasons.Season(ctx, year, week, true)
	if err != nil {
		return "", err
	}
	if week < 1 || week > len(season.Weeks) {
		return "", fmt.Errorf("%w: week %d of %d has no games yet", ErrInvalidInput, week, year)
	}
	nameOf, err := s.seasons.memberNames(ctx)
	if err != nil {
		return "", err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	wv := season.Weeks[week-1]
	s.writeRecap(buf, wv, nameOf)
	s.writeStandings(buf, season, nameOf)
	if err := s.writeBlingalytics(ctx, buf, season, nameOf); err != nil {
		return "", err
	}
	s.writePostmortems(buf, season, week, nameOf)
	if err := s.writePlayoffScenarios(ctx, buf, season, week, nameOf); err != nil {
		return "", err
	}
	if week == s.rules.SemifinalWeek() {
		s.writeYearInTrades(buf, season, nameOf)
	}
	s.writePreview(buf, season, week, nameOf)

	fmt.Fprintf(buf, "## Closing Thoughts\n\n*Your weekly dose of hard truths goes here.*\n")
	return buf.String(), nil
}

func (s *GazetteService) writeRecap(buf *bytebufferpool.ByteBuffer, wv WeekView, nameOf func(int64) string) {
	fmt.Fprintf(buf, "## Week %d Recap\n\n", wv.Week)
	for _, g := range wv.Games {
		fmt.Fprintf(buf, "- %s def. %s, %s-%s\n",
			nameOf(g.WinnerID), nameOf(g.LoserID), g.WinnerScore.StringFixed(2), g.LoserScore.StringFixed(2))
	}
	if wv.BlangumsID != 0 {
		fmt.Fprintf(buf, "\n**Team Blangums:** %s\n", nameOf(wv.BlangumsID))
		fmt.Fprintf(buf, "**Slapped Heartbeat:** %s\n", nameOf(wv.SlappedHeartbeatID))
	}
	if len(wv.Trades) > 0 {
		fmt.Fprintf(buf, "\n### Trades\n\n")
		for _, t := range wv.Trades {
			parts := make([]string, 0, len(t.Assets))
			for _, a := range t.Assets {
				parts = append(parts, fmt.Sprintf("%s sends %s to %s",
					nameOf(a.SenderID), a.Name, nameOf(a.ReceiverID)))
			}
			fmt.Fprintf(buf, "- %s\n", strings.Join(parts, "; "))
		}
	}
	fmt.Fprintf(buf, "\n")
}

func (s *GazetteService) writeStandings(buf *bytebufferpool.ByteBuffer, season *SeasonView, nameOf func(int64) string) {
	header := "## Standings"
	if !season.IsPartial {
		header = "## Final Standings"
	}
	fmt.Fprintf(buf, "%s\n\n", header)
	for _, ts := range season.Standings {
		fmt.Fprintf(buf, "%d. %s (%s, %s pts)\n",
			ts.Place, nameOf(ts.TeamID), ts.Record(), ts.Points().StringFixed(2))
	}
	fmt.Fprintf(buf, "\n")
}

// writeBlingalytics ranks the season's teams by expected win percentage,
// the house metric for roster quality independent of schedule luck.
func (s *GazetteService) writeBlingalytics(ctx context.Context, buf *bytebufferpool.ByteBuffer, season *SeasonView, nameOf func(int64) string) error {
	rated := append([]*TeamSeason(nil), season.Standings...)
	sort.SliceStable(rated, func(i, j int) bool {
		return rated[i].ExpectedWinPct() > rated[j].ExpectedWinPct()
	})
	fmt.Fprintf(buf, "## Blingalytics\n\n")
	for i, ts := range rated {
		fmt.Fprintf(buf, "%d. %s — xW %.2f (%.3f)\n",
			i+1, nameOf(ts.TeamID), ts.ExpectedWins(), ts.ExpectedWinPct())
	}
	fmt.Fprintf(buf, "\n")
	return nil
}

// writePostmortems eulogizes the teams whose season just ended: the
// playoff-missers at the regular-season cutoff, the freshly eliminated in
// bracket weeks. Worst finish goes first.
func (s *GazetteService) writePostmortems(buf *bytebufferpool.ByteBuffer, season *SeasonView, week int, nameOf func(int64) string) {
	dead := make([]*TeamSeason, 0)
	switch {
	case week == s.rules.RegularSeasonWeeks:
		for _, ts := range season.Standings {
			if ts.PlayoffState == StateMissedPlayoffs {
				dead = append(dead, ts)
			}
		}
		sort.SliceStable(dead, func(i, j int) bool { return dead[i].Place > dead[j].Place })
	case s.rules.IsPlayoffWeek(week):
		for _, ts := range season.Standings {
			if ts.PlayoffFinish <= 1 {
				continue
			}
			if len(ts.Games) > 0 && ts.Games[len(ts.Games)-1].Week == week {
				dead = append(dead, ts)
			}
		}
		sort.SliceStable(dead, func(i, j int) bool { return dead[i].PlayoffFinish > dead[j].PlayoffFinish })
	}
	if len(dead) == 0 {
		return
	}
	fmt.Fprintf(buf, "## Season Postmortems\n\n")
	for _, ts := range dead {
		fmt.Fprintf(buf, "### %s\n\n%s, %s points. Better luck next year.\n\n",
			nameOf(ts.TeamID), ts.Record(), ts.Points().StringFixed(2))
	}
}

func (s *GazetteService) writePlayoffScenarios(ctx context.Context, buf *bytebufferpool.ByteBuffer, season *SeasonView, week int, nameOf func(int64) string) error {
	if week >= s.rules.RegularSeasonWeeks || !season.IsPartial {
		return nil
	}
	table, err := s.seasons.PlayoffOdds(ctx, week, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(buf, "## Playoff Scenarios\n\n")
	for _, ts := range season.Standings {
		pct := table.Pct(ts.Wins, OutcomeAny)
		fmt.Fprintf(buf, "- %s: %s, %s — %.0f%% historically\n",
			nameOf(ts.TeamID), ts.Record(), ts.PlayoffState, pct*100)
	}
	fmt.Fprintf(buf, "\n")
	return nil
}

func (s *GazetteService) writeYearInTrades(buf *bytebufferpool.ByteBuffer, season *SeasonView, nameOf func(int64) string) {
	if len(season.Trades) == 0 {
		return
	}
	fmt.Fprintf(buf, "## The Year in Trades\n\n")
	for _, t := range season.Trades {
		names := make([]string, 0, 2)
		for _, id := range t.Participants() {
			names = append(names, nameOf(id))
		}
		fmt.Fprintf(buf, "- Week %d: %s (%d assets)\n", t.Week, strings.Join(names, " / "), len(t.Assets))
	}
	fmt.Fprintf(buf, "\n")
}

func (s *GazetteService) writePreview(buf *bytebufferpool.ByteBuffer, season *SeasonView, week int, nameOf func(int64) string) {
	if week >= len(season.Weeks) {
		return
	}
	next := season.Weeks[week]
	if len(next.FutureGames) == 0 {
		return
	}
	fmt.Fprintf(buf, "## Next Week\n\n")
	for _, fg := range next.FutureGames {
		fmt.Fprintf(buf, "- %s vs %s\n", nameOf(fg.Team1ID), nameOf(fg.Team2ID))
	}
	fmt.Fprintf(buf, "\n")
}

// InflatedBody replaces player-name mentions in the body with player links,
// memoized per gazette.
func (s *GazetteService) InflatedBody(ctx context.Context, g gazette.Gazette) (string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GazetteService.InflatedBody")
	defer span.End()

	memo := cache.NewMemo("Gazette", fmt.Sprintf("slug=%s", g.Slug), s.cache)
	v, err := memo.Get(ctx, "inflated_body", func(ctx context.Context) (any, error) {
		notes, err := s.gazettes.ListPlayerNotes(ctx)
		if err != nil {
			return nil, err
		}
		return inflatePlayerLinks(g.Body, notes), nil
	})
	if err != nil {
		return "", err
	}
	if body, ok := v.(string); ok {
		return body, nil
	}
	notes, err := s.gazettes.ListPlayerNotes(ctx)
	if err != nil {
		return "", err
	}
	return inflatePlayerLinks(g.Body, notes), nil
}

// inflatePlayerLinks scans the body word by word with a three-word
// lookahead. The longest known player name wins; leading and trailing
// punctuation and a trailing 's survive the substitution.
func inflatePlayerLinks(body string, notes []gazette.PlayerNote) string {
	if body == "" || len(notes) == 0 {
		return body
	}
	known := make(map[string]gazette.PlayerNote, len(notes))
	for _, n := range notes {
		known[strings.ToLower(n.Name)] = n
	}

	words := strings.Fields(body)
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		matched := false
		for span := 3; span >= 1; span-- {
			if i+span > len(words) {
				continue
			}
			raw := strings.Join(words[i:i+span], " ")
			lead, core, trail := splitPunctuation(raw)
			possessive := ""
			if strings.HasSuffix(core, "'s") {
				core = strings.TrimSuffix(core, "'s")
				possessive = "'s"
			}
			note, ok := known[strings.ToLower(core)]
			if !ok {
				continue
			}
			out = append(out, fmt.Sprintf("%s[%s](/players/%s)%s%s",
				lead, core, playerSlug(note.Name), possessive, trail))
			i += span
			matched = true
			break
		}
		if !matched {
			out = append(out, words[i])
			i++
		}
	}
	return strings.Join(out, " ")
}

func splitPunctuation(s string) (lead, core, trail string) {
	isPunct := func(r byte) bool {
		switch r {
		case '.', ',', '!', '?', ';', ':', '(', ')', '"', '\'', '*', '_':
			return true
		}
		return false
	}
	start := 0
	for start < len(s) && isPunct(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isPunct(s[end-1]) {
		end--
	}
	return s[:start], s[start:end], s[end:]
}

func playerSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "'", "")
	return slug
}

// SendEmail delivers a published gazette to every non-defunct member and
// active fake member. The email_sent bit makes repeat calls no-ops.
func (s *GazetteService) SendEmail(ctx context.Context, slug string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GazetteService.SendEmail")
	defer span.End()

	g, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if !g.Published {
		return fmt.Errorf("%w: gazette %q is not published", ErrInvalidInput, slug)
	}
	if g.EmailSent {
		s.logger.InfoContext(ctx, "gazette already sent, skipping", "slug", slug)
		return nil
	}

	members, err := s.members.List(ctx)
	if err != nil {
		return err
	}
	fakes, err := s.members.ListFake(ctx, true)
	if err != nil {
		return err
	}

	to := make([]string, 0, len(members)+len(fakes))
	for _, m := range members {
		if !m.Defunct && m.Email != "" {
			to = append(to, m.Email)
		}
	}
	for _, f := range fakes {
		if f.Email != "" {
			to = append(to, f.Email)
		}
	}
	if len(to) == 0 {
		return fmt.Errorf("%w: no recipients", ErrInvalidInput)
	}

	body, err := s.InflatedBody(ctx, g)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, to, g.Headline, renderEmailHTML(g.Headline, body)); err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}
	if err := s.gazettes.MarkEmailSent(ctx, g.ID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "gazette emailed", "slug", slug, "recipients", len(to))
	return nil
}

func renderEmailHTML(headline, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, "<html><body style=\"font-family:Georgia,serif;max-width:640px;margin:0 auto\">")
	fmt.Fprintf(buf, "<h1 style=\"border-bottom:2px solid #333\">%s</h1>", headline)
	for _, para := range strings.Split(body, "\n\n") {
		fmt.Fprintf(buf, "<p>%s</p>", strings.ReplaceAll(para, "\n", "<br>"))
	}
	fmt.Fprintf(buf, "</body></html>")
	return buf.String()
}
