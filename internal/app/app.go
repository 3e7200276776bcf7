package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/blingaleague/companion/external/mailer"
	"github.com/blingaleague/companion/internal/config"
	"github.com/blingaleague/companion/internal/domain/draftpick"
	"github.com/blingaleague/companion/internal/domain/game"
	"github.com/blingaleague/companion/internal/domain/gazette"
	"github.com/blingaleague/companion/internal/domain/keeper"
	"github.com/blingaleague/companion/internal/domain/member"
	"github.com/blingaleague/companion/internal/domain/postseason"
	"github.com/blingaleague/companion/internal/domain/trade"
	"github.com/blingaleague/companion/internal/infrastructure/repository/memory"
	"github.com/blingaleague/companion/internal/infrastructure/repository/postgres"
	"github.com/blingaleague/companion/internal/interfaces/httpapi"
	"github.com/blingaleague/companion/internal/platform/cache"
	"github.com/blingaleague/companion/internal/platform/logging"
	"github.com/blingaleague/companion/internal/platform/resilience"
	"github.com/blingaleague/companion/internal/usecase"
)

// Services bundles the wired use-case layer so the HTTP server and the CLI
// share one composition path.
type Services struct {
	Seasons    *usecase.SeasonService
	Finders    *usecase.FinderService
	Gazettes   *usecase.GazetteService
	Lottery    *usecase.LotteryService
	Payouts    *usecase.PayoutService
	Imports    *usecase.ImportService
	CacheAdmin *usecase.CacheAdminService
	Store      *cache.Store
}

type repositories struct {
	members     member.Repository
	games       game.Repository
	postseasons postseason.Repository
	trades      trade.Repository
	keepers     keeper.Repository
	picks       draftpick.Repository
	gazettes    gazette.Repository
}

// BuildServices wires repositories and services from config. The returned
// cleanup closes the database handle when one was opened.
func BuildServices(cfg config.Config, logger *logging.Logger) (*Services, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store := cache.NewStore(cfg.CacheTTL)
	if !cfg.CacheEnabled {
		store = cache.Disabled()
		logger.Info("cache disabled", "reason", "CACHE_ENABLED=false")
	}

	seasonSvc := usecase.NewSeasonService(
		repos.members,
		repos.games,
		repos.postseasons,
		repos.trades,
		cfg.Rules,
		store,
		logger,
	)
	finderSvc := usecase.NewFinderService(
		seasonSvc,
		repos.games,
		repos.trades,
		repos.keepers,
		repos.picks,
		cfg.Rules,
		logger,
	)
	gazetteSvc := usecase.NewGazetteService(
		repos.gazettes,
		repos.members,
		seasonSvc,
		cfg.Rules,
		store,
		buildMailer(cfg, logger),
		logger,
	)
	lotterySvc := usecase.NewLotteryService(seasonSvc, logger)
	payoutSvc := usecase.NewPayoutService(seasonSvc, usecase.PayoutSchedule{
		FirstPlace:   cfg.PayoutFirstPlace,
		SecondPlace:  cfg.PayoutSecondPlace,
		ThirdPlace:   cfg.PayoutThirdPlace,
		BlangumsWeek: cfg.PayoutBlangumsWeek,
	}, logger)
	importSvc := usecase.NewImportService(
		repos.members,
		repos.games,
		repos.postseasons,
		repos.picks,
		store,
		logger,
	)
	cacheAdminSvc := usecase.NewCacheAdminService(seasonSvc, store, cfg.CacheWorkers, logger)

	return &Services{
		Seasons:    seasonSvc,
		Finders:    finderSvc,
		Gazettes:   gazetteSvc,
		Lottery:    lotterySvc,
		Payouts:    payoutSvc,
		Imports:    importSvc,
		CacheAdmin: cacheAdminSvc,
		Store:      store,
	}, cleanup, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	services, cleanup, err := BuildServices(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(
		services.Seasons,
		services.Finders,
		services.Gazettes,
		services.Lottery,
		services.Payouts,
		services.CacheAdmin,
		cfg.LotteryTrials,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if cfg.DBURL == "" {
		logger.Info("no database configured, using in-memory repositories")
		return repositories{
			members:     memory.NewMemberRepository(nil, nil),
			games:       memory.NewGameRepository(nil, nil),
			postseasons: memory.NewPostseasonRepository(nil, nil),
			trades:      memory.NewTradeRepository(nil),
			keepers:     memory.NewKeeperRepository(nil),
			picks:       memory.NewDraftPickRepository(nil),
			gazettes:    memory.NewGazetteRepository(nil, nil),
		}, func() error { return nil }, nil
	}

	db, err := openDB(cfg)
	if err != nil {
		return repositories{}, nil, err
	}
	logger.Info("database connected", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		members:     postgres.NewMemberRepository(db),
		games:       postgres.NewGameRepository(db),
		postseasons: postgres.NewPostseasonRepository(db),
		trades:      postgres.NewTradeRepository(db),
		keepers:     postgres.NewKeeperRepository(db),
		picks:       postgres.NewDraftPickRepository(db),
		gazettes:    postgres.NewGazetteRepository(db),
	}, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dsn)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func buildMailer(cfg config.Config, logger *logging.Logger) usecase.Mailer {
	if !cfg.MailerEnabled {
		return mailer.Disabled{}
	}

	return mailer.NewClient(
		&http.Client{Timeout: cfg.MailerTimeout},
		mailer.Config{
			Endpoint: cfg.MailerEndpoint,
			Token:    cfg.MailerToken,
			From:     cfg.MailerFrom,
			Circuit: resilience.CircuitBreakerConfig{
				Enabled:          cfg.MailerCircuitEnabled,
				FailureThreshold: cfg.MailerCircuitFailureCount,
				OpenTimeout:      cfg.MailerCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.MailerCircuitHalfOpenMax,
			},
		},
		logger,
	)
}
