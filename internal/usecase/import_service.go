package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/member"
	"github.com/blingaleague/companion/internal/domain/postseason"
	"github.com/blingaleague/companion/internal/platform/cache"
	"github.com/blingaleague/companion/internal/platform/logging"
)

// ImportService loads historical facts from the flat files the league keeps
// in its shared drive. Every successful import flushes the analytics cache;
// facts changed, so every derivation is suspect.
type ImportService struct {
	members     member.Repository
	games       game.Repository
	postseasons postseason.Repository
	picks       draftpick.Repository
	cache       *cache.Store
	logger      *logging.Logger
}

func NewImportService(
	members member.Repository,
	games game.Repository,
	postseasons postseason.Repository,
	picks draftpick.Repository,
	store *cache.Store,
	logger *logging.Logger,
) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImportService{
		members:     members,
		games:       games,
		postseasons: postseasons,
		picks:       picks,
		cache:       store,
		logger:      logger,
	}
}

// ImportGames reads a game-log CSV:
//
//	year,week,winner,loser,winner_score,loser_score[,notes]
//
// Teams are member ids or display names. The whole file is validated before
// anything is written.
func (s *ImportService) ImportGames(ctx context.Context, r io.Reader) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportGames")
	defer span.End()

	resolve, err := s.teamResolver(ctx)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	games := make([]game.Game, 0, len(records))
	for i, rec := range records {
		if i == 0 && looksLikeHeader(rec) {
			continue
		}
		if len(rec) < 6 {
			return 0, fmt.Errorf("%w: row %d has %d columns, want 6", ErrInvalidInput, i+1, len(rec))
		}
		g := game.Game{}
		if g.Year, err = strconv.Atoi(strings.TrimSpace(rec[0])); err != nil {
			return 0, fmt.Errorf("%w: row %d year: %v", ErrInvalidInput, i+1, err)
		}
		if g.Week, err = strconv.Atoi(strings.TrimSpace(rec[1])); err != nil {
			return 0, fmt.Errorf("%w: row %d week: %v", ErrInvalidInput, i+1, err)
		}
		if g.WinnerID, err = resolve(rec[2]); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if g.LoserID, err = resolve(rec[3]); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		if g.WinnerScore, err = decimal.NewFromString(strings.TrimSpace(rec[4])); err != nil {
			return 0, fmt.Errorf("%w: row %d winner score: %v", ErrInvalidInput, i+1, err)
		}
		if g.LoserScore, err = decimal.NewFromString(strings.TrimSpace(rec[5])); err != nil {
			return 0, fmt.Errorf("%w: row %d loser score: %v", ErrInvalidInput, i+1, err)
		}
		if len(rec) > 6 {
			g.Notes = strings.TrimSpace(rec[6])
		}
		if err := g.Validate(); err != nil {
			if errors.Is(err, game.ErrScoreOrder) || errors.Is(err, game.ErrSelfMatch) {
				return 0, fmt.Errorf("%w: row %d: %v", ErrInconsistentFacts, i+1, err)
			}
			return 0, fmt.Errorf("%w: row %d: %v", ErrInvalidInput, i+1, err)
		}
		games = append(games, g)
	}

	for _, g := range games {
		if _, err := s.games.Create(ctx, g); err != nil {
			return 0, fmt.Errorf("create game %d/%d: %w", g.Year, g.Week, err)
		}
	}
	s.flush(ctx, "games imported", len(games))
	return len(games), nil
}

// ImportPostseason reads one finish per row: year,place_1..place_6.
func (s *ImportService) ImportPostseason(ctx context.Context, r io.Reader) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportPostseason")
	defer span.End()

	resolve, err := s.teamResolver(ctx)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	count := 0
	for i, rec := range records {
		if i == 0 && looksLikeHeader(rec) {
			continue
		}
		if len(rec) < 1+postseason.PlaceCount {
			return count, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrInvalidInput, i+1, len(rec), 1+postseason.PlaceCount)
		}
		finish := postseason.Finish{}
		if finish.Year, err = strconv.Atoi(strings.TrimSpace(rec[0])); err != nil {
			return count, fmt.Errorf("%w: row %d year: %v", ErrInvalidInput, i+1, err)
		}
		for p := 0; p < postseason.PlaceCount; p++ {
			cell := strings.TrimSpace(rec[1+p])
			if cell == "" {
				continue
			}
			id, err := resolve(cell)
			if err != nil {
				return count, fmt.Errorf("row %d place %d: %w", i+1, p+1, err)
			}
			finish.Places[p] = &id
		}
		if err := finish.Validate(); err != nil {
			return count, fmt.Errorf("%w: row %d: %v", ErrInconsistentFacts, i+1, err)
		}
		if err := s.postseasons.Upsert(ctx, finish); err != nil {
			return count, fmt.Errorf("upsert postseason %d: %w", finish.Year, err)
		}
		count++
	}
	s.flush(ctx, "postseasons imported", count)
	return count, nil
}

// ImportFutureGames reads the schedule text format: "week N" headers
// followed by "Team A vs Team B" matchup lines. Blank lines are ignored.
func (s *ImportService) ImportFutureGames(ctx context.Context, year int, r io.Reader) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportFutureGames")
	defer span.End()

	resolve, err := s.teamResolver(ctx)
	if err != nil {
		return 0, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	week := 0
	count := 0
	for lineNo, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "week") {
			week, err = strconv.Atoi(strings.TrimSpace(lower[len("week"):]))
			if err != nil {
				return count, fmt.Errorf("%w: line %d: bad week header %q", ErrInvalidInput, lineNo+1, line)
			}
			continue
		}
		if week == 0 {
			return count, fmt.Errorf("%w: line %d: matchup before any week header", ErrInvalidInput, lineNo+1)
		}
		sides := splitMatchup(line)
		if len(sides) != 2 {
			return count, fmt.Errorf("%w: line %d: expected \"A vs B\", got %q", ErrInvalidInput, lineNo+1, line)
		}
		team1, err := resolve(sides[0])
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		team2, err := resolve(sides[1])
		if err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		fg := game.FutureGame{Year: year, Week: week, Team1ID: team1, Team2ID: team2}
		if _, err := s.games.CreateFuture(ctx, fg); err != nil {
			return count, fmt.Errorf("create future game: %w", err)
		}
		count++
	}
	s.flush(ctx, "future games imported", count)
	return count, nil
}

func splitMatchup(line string) []string {
	for _, sep := range []string{" vs. ", " vs ", " v. ", " v "} {
		if idx := strings.Index(strings.ToLower(line), sep); idx >= 0 {
			return []string{
				strings.TrimSpace(line[:idx]),
				strings.TrimSpace(line[idx+len(sep):]),
			}
		}
	}
	return nil
}

// ImportDraftBoard reads the draft-board CSV: first row is the team header
// in round-one order, each following row is one round. The draft snakes, so
// even rounds assign pick_in_round right to left. A trailing "(K)" marks a
// keeper slot; a cell like "Name, POS" carries the position.
func (s *ImportService) ImportDraftBoard(ctx context.Context, year int, r io.Reader) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.ImportDraftBoard")
	defer span.End()

	resolve, err := s.teamResolver(ctx)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(records) < 2 {
		return 0, fmt.Errorf("%w: draft board needs a header row and at least one round", ErrInvalidInput)
	}

	order := make([]int64, 0, len(records[0]))
	for col, cell := range records[0] {
		id, err := resolve(cell)
		if err != nil {
			return 0, fmt.Errorf("header column %d: %w", col+1, err)
		}
		order = append(order, id)
	}

	count := 0
	for roundIdx, rec := range records[1:] {
		round := roundIdx + 1
		if len(rec) != len(order) {
			return count, fmt.Errorf("%w: round %d has %d cells, want %d",
				ErrInvalidInput, round, len(rec), len(order))
		}
		for col, cell := range rec {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			pick := draftpick.DraftPick{Year: year, Round: round, TeamID: order[col]}
			if round%2 == 0 {
				pick.PickInRound = len(order) - col
			} else {
				pick.PickInRound = col + 1
			}
			if strings.HasSuffix(cell, "(K)") {
				pick.IsKeeper = true
				cell = strings.TrimSpace(strings.TrimSuffix(cell, "(K)"))
			}
			if name, pos, ok := strings.Cut(cell, ","); ok {
				pick.Name = strings.TrimSpace(name)
				pick.Position = strings.ToUpper(strings.TrimSpace(pos))
			} else {
				pick.Name = cell
			}
			if err := pick.Validate(); err != nil {
				return count, fmt.Errorf("%w: round %d pick %d: %v", ErrInvalidInput, round, pick.PickInRound, err)
			}
			if _, err := s.picks.Create(ctx, pick); err != nil {
				if errors.Is(err, draftpick.ErrDuplicateSlot) {
					return count, fmt.Errorf("%w: %v", ErrInconsistentFacts, err)
				}
				return count, fmt.Errorf("create draft pick: %w", err)
			}
			count++
		}
	}
	s.flush(ctx, "draft board imported", count)
	return count, nil
}

// teamResolver maps a member id or display name (case-insensitive) to the
// member id.
func (s *ImportService) teamResolver(ctx context.Context) (func(string) (int64, error), error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	byName := make(map[string]int64, len(members))
	for _, m := range members {
		byName[strings.ToLower(m.DisplayName())] = m.ID
	}
	return func(raw string) (int64, error) {
		raw = strings.TrimSpace(raw)
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return id, nil
		}
		if id, ok := byName[strings.ToLower(raw)]; ok {
			return id, nil
		}
		return 0, fmt.Errorf("%w: unknown team %q", ErrInvalidInput, raw)
	}, nil
}

func looksLikeHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	return err != nil
}

func (s *ImportService) flush(ctx context.Context, msg string, count int) {
	s.cache.Flush(ctx)
	s.logger.InfoContext(ctx, msg, "count", count)
}
