package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/blingaleague/companion/internal/domain/league"
	"github.com/blingaleague/companion/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	DBURL                      string
	DBDisablePreparedBinary    bool
	CacheEnabled               bool
	CacheTTL                   time.Duration
	CacheWorkers               int
	CORSAllowedOrigins         []string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeUploadRate        time.Duration
	MailerEnabled              bool
	MailerEndpoint             string
	MailerToken                string
	MailerFrom                 string
	MailerTimeout              time.Duration
	MailerCircuitEnabled       bool
	MailerCircuitFailureCount  int
	MailerCircuitOpenTimeout   time.Duration
	MailerCircuitHalfOpenMax   int
	LotteryTrials              int
	PayoutFirstPlace           decimal.Decimal
	PayoutSecondPlace          decimal.Decimal
	PayoutThirdPlace           decimal.Decimal
	PayoutBlangumsWeek         decimal.Decimal
	Rules                      league.Rules
	LogLevel                   logging.Level
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "companion"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DBURL:          strings.TrimSpace(getEnv("DATABASE_URL", "")),
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cfg.CacheEnabled = cacheEnabled

	// Zero TTL means entries live until an explicit flush; the derived
	// read-model only changes when facts change.
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL < 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be >= 0")
	}
	cfg.CacheTTL = cacheTTL

	cacheWorkers, err := getEnvAsInt("CACHE_PREBUILD_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_PREBUILD_WORKERS: %w", err)
	}
	if cacheWorkers < 1 {
		return Config{}, fmt.Errorf("CACHE_PREBUILD_WORKERS must be >= 1")
	}
	cfg.CacheWorkers = cacheWorkers

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	mailerEnabled, err := strconv.ParseBool(getEnv("MAILER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_ENABLED: %w", err)
	}
	cfg.MailerEnabled = mailerEnabled
	cfg.MailerEndpoint = strings.TrimSpace(getEnv("MAILER_ENDPOINT", ""))
	if cfg.MailerEnabled && cfg.MailerEndpoint == "" {
		return Config{}, fmt.Errorf("MAILER_ENDPOINT is required when MAILER_ENABLED=true")
	}
	cfg.MailerToken = getEnv("MAILER_TOKEN", "")
	cfg.MailerFrom = getEnv("MAILER_FROM", "commissioner@blingaleague.example")
	mailerTimeout, err := time.ParseDuration(getEnv("MAILER_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_TIMEOUT: %w", err)
	}
	if mailerTimeout <= 0 {
		return Config{}, fmt.Errorf("MAILER_TIMEOUT must be > 0")
	}
	cfg.MailerTimeout = mailerTimeout

	mailerCircuitEnabled, err := strconv.ParseBool(getEnv("MAILER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_ENABLED: %w", err)
	}
	cfg.MailerCircuitEnabled = mailerCircuitEnabled
	mailerCircuitFailureCount, err := getEnvAsInt("MAILER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if mailerCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.MailerCircuitFailureCount = mailerCircuitFailureCount
	mailerCircuitOpenTimeout, err := time.ParseDuration(getEnv("MAILER_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if mailerCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.MailerCircuitOpenTimeout = mailerCircuitOpenTimeout
	mailerCircuitHalfOpenMax, err := getEnvAsInt("MAILER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if mailerCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.MailerCircuitHalfOpenMax = mailerCircuitHalfOpenMax

	lotteryTrials, err := getEnvAsInt("LOTTERY_TRIALS", 10000)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOTTERY_TRIALS: %w", err)
	}
	if lotteryTrials < 1 {
		return Config{}, fmt.Errorf("LOTTERY_TRIALS must be >= 1")
	}
	cfg.LotteryTrials = lotteryTrials

	if cfg.PayoutFirstPlace, err = getEnvAsDecimal("PAYOUT_FIRST_PLACE", "800"); err != nil {
		return Config{}, err
	}
	if cfg.PayoutSecondPlace, err = getEnvAsDecimal("PAYOUT_SECOND_PLACE", "300"); err != nil {
		return Config{}, err
	}
	if cfg.PayoutThirdPlace, err = getEnvAsDecimal("PAYOUT_THIRD_PLACE", "100"); err != nil {
		return Config{}, err
	}
	if cfg.PayoutBlangumsWeek, err = getEnvAsDecimal("PAYOUT_BLANGUMS_WEEK", "10"); err != nil {
		return Config{}, err
	}

	rules := league.DefaultRules()
	if rules.FirstSeason, err = getEnvAsInt("LEAGUE_FIRST_SEASON", rules.FirstSeason); err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_FIRST_SEASON: %w", err)
	}
	if rules.RegularSeasonWeeks, err = getEnvAsInt("LEAGUE_REGULAR_SEASON_WEEKS", rules.RegularSeasonWeeks); err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_REGULAR_SEASON_WEEKS: %w", err)
	}
	if rules.PlayoffTeams, err = getEnvAsInt("LEAGUE_PLAYOFF_TEAMS", rules.PlayoffTeams); err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_PLAYOFF_TEAMS: %w", err)
	}
	if rules.ByeTeams, err = getEnvAsInt("LEAGUE_BYE_TEAMS", rules.ByeTeams); err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_BYE_TEAMS: %w", err)
	}
	if rules.RegularSeasonWeeks < 1 || rules.PlayoffTeams < 2 || rules.ByeTeams < 0 || rules.ByeTeams >= rules.PlayoffTeams {
		return Config{}, fmt.Errorf("league rules out of range: weeks=%d playoff=%d bye=%d",
			rules.RegularSeasonWeeks, rules.PlayoffTeams, rules.ByeTeams)
	}
	cfg.Rules = rules

	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDecimal(key, fallback string) (decimal.Decimal, error) {
	value := strings.TrimSpace(getEnv(key, fallback))
	out, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s: %w", key, err)
	}
	if out.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%s must be >= 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
