// leaguectl is the commissioner's command line: cache administration,
// lottery and payout runs, and flat-file imports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/blingaleague/companion/internal/app"
	"github.com/blingaleague/companion/internal/config"
	"github.com/blingaleague/companion/internal/platform/logging"
	"github.com/blingaleague/companion/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	services, cleanup, err := app.BuildServices(cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	args := os.Args[2:]

	if err := run(ctx, cfg, services, cmd, args); err != nil {
		logger.Error("command failed", "command", cmd, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, services *app.Services, cmd string, args []string) error {
	switch cmd {
	case "clear-cache":
		return services.CacheAdmin.Flush(ctx, args...)
	case "pre-build-cache":
		return services.CacheAdmin.PreBuild(ctx)
	case "rebuild-whole-cache":
		return services.CacheAdmin.Rebuild(ctx)
	case "lottery":
		return runLottery(ctx, cfg, services, args)
	case "payouts":
		return runPayouts(ctx, services, args)
	case "import-games":
		return runImport(args, 1, func(f *os.File) (int, error) {
			return services.Imports.ImportGames(ctx, f)
		})
	case "import-postseason":
		return runImport(args, 1, func(f *os.File) (int, error) {
			return services.Imports.ImportPostseason(ctx, f)
		})
	case "import-future-games":
		year, rest, err := yearArg(args)
		if err != nil {
			return err
		}
		return runImport(rest, 1, func(f *os.File) (int, error) {
			return services.Imports.ImportFutureGames(ctx, year, f)
		})
	case "import-draft-board":
		year, rest, err := yearArg(args)
		if err != nil {
			return err
		}
		return runImport(rest, 1, func(f *os.File) (int, error) {
			return services.Imports.ImportDraftBoard(ctx, year, f)
		})
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runLottery(ctx context.Context, cfg config.Config, services *app.Services, args []string) error {
	year, _, err := yearArg(args)
	if err != nil {
		return err
	}

	var seed int64
	if len(args) > 1 {
		seed, err = strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", args[1], err)
		}
	}

	result, err := services.Lottery.Run(ctx, year, cfg.LotteryTrials, seed)
	if err != nil {
		return err
	}

	fmt.Printf("draft lottery %d (%d trials)\n", result.Year, result.Trials)
	for _, entry := range result.Entries {
		fmt.Printf("  team %-4d weight=%.4f first_pick=%.2f%%\n",
			entry.TeamID, entry.Weight, 100*result.FirstPickPct(entry.TeamID))
	}
	fmt.Print("sampled order:")
	for _, id := range result.ActualOrder {
		fmt.Printf(" %d", id)
	}
	fmt.Println()

	return nil
}

func runPayouts(ctx context.Context, services *app.Services, args []string) error {
	year, _, err := yearArg(args)
	if err != nil {
		return err
	}

	payouts, err := services.Payouts.Payouts(ctx, year)
	if err != nil {
		return err
	}

	fmt.Printf("payouts %d\n", year)
	for _, p := range payouts {
		line := fmt.Sprintf("  team %-4d $%s", p.TeamID, p.Amount.StringFixed(2))
		if p.PlayoffFinish > 0 {
			line += fmt.Sprintf(" (finish %d)", p.PlayoffFinish)
		}
		if p.BlangumsCount > 0 {
			line += fmt.Sprintf(" (%dx weekly high)", p.BlangumsCount)
		}
		fmt.Println(line)
	}

	return nil
}

func runImport(args []string, need int, do func(*os.File) (int, error)) error {
	if len(args) < need {
		return fmt.Errorf("%w: file path is required", usecase.ErrInvalidInput)
	}

	path := strings.TrimSpace(args[0])
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	count, err := do(f)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d record(s) from %s\n", count, path)

	return nil
}

func yearArg(args []string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("%w: year argument is required", usecase.ErrInvalidInput)
	}
	year, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, nil, fmt.Errorf("invalid year %q: %w", args[0], err)
	}
	return year, args[1:], nil
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [args]\n", name)
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  clear-cache [name ...|ALL]")
	fmt.Fprintln(os.Stderr, "  pre-build-cache")
	fmt.Fprintln(os.Stderr, "  rebuild-whole-cache")
	fmt.Fprintln(os.Stderr, "  lottery <year> [seed]")
	fmt.Fprintln(os.Stderr, "  payouts <year>")
	fmt.Fprintln(os.Stderr, "  import-games <file>")
	fmt.Fprintln(os.Stderr, "  import-postseason <file>")
	fmt.Fprintln(os.Stderr, "  import-future-games <year> <file>")
	fmt.Fprintln(os.Stderr, "  import-draft-board <year> <file>")
}
