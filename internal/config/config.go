package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/standings-sync/internal/domain/league"
	"github.com/riskibarqy/standings-sync/internal/platform/logging"
)

// Config stores runtime configuration for one sync run.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	LogLevel                       logging.Level
	LogFormat                      logging.Format
	DBDriver                       string
	DBURL                          string
	DBDisablePreparedBinary        bool
	DBConnectTimeout               time.Duration
	DBBatchSize                    int
	Season                         int
	LiveScoreBaseURL               string
	LiveScoreKey                   string
	LiveScoreSecret                string
	LiveScoreTimeout               time.Duration
	LiveScoreMaxRetries            int
	LiveScoreIncludeForm           bool
	LiveScoreCircuitEnabled        bool
	LiveScoreCircuitFailureCount   int
	LiveScoreCircuitOpenTimeout    time.Duration
	LiveScoreCircuitHalfOpenMaxReq int
	Leagues                        []league.League
	UptraceEnabled                 bool
	UptraceDSN                     string
	MetricsPushURL                 string
	MetricsJobName                 string
}

// Load reads the environment, after merging ENV_FILE (or ./.env when present).
// Variables already set in the process win over the file.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormatDefault := string(logging.FormatJSON)
	if appEnv == EnvDev {
		logFormatDefault = string(logging.FormatConsole)
	}
	logFormat, err := parseLogFormat(getEnv("APP_LOG_FORMAT", logFormatDefault))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:           appEnv,
		ServiceName:      getEnv("APP_SERVICE_NAME", "standings-sync"),
		ServiceVersion:   getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:         parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:        logFormat,
		LiveScoreBaseURL: getEnv("LIVESCORE_BASE_URL", "https://livescore-api.com/api-client"),
		LiveScoreKey:     strings.TrimSpace(os.Getenv("LIVESCORE_API_KEY")),
		LiveScoreSecret:  strings.TrimSpace(os.Getenv("LIVESCORE_API_SECRET")),
		MetricsPushURL:   strings.TrimSpace(getEnv("METRICS_PUSH_URL", "")),
		MetricsJobName:   getEnv("METRICS_JOB_NAME", "standings_sync"),
	}

	if err := loadDatabaseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLiveScoreConfig(&cfg); err != nil {
		return Config{}, err
	}

	season, err := getEnvAsInt("STANDINGS_SEASON", 2025)
	if err != nil {
		return Config{}, fmt.Errorf("parse STANDINGS_SEASON: %w", err)
	}
	if season <= 0 {
		return Config{}, fmt.Errorf("STANDINGS_SEASON must be > 0")
	}
	cfg.Season = season

	leagues, err := loadLeagues()
	if err != nil {
		return Config{}, err
	}
	cfg.Leagues = leagues

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN

	if cfg.MetricsPushURL != "" {
		if _, err := url.ParseRequestURI(cfg.MetricsPushURL); err != nil {
			return Config{}, fmt.Errorf("parse METRICS_PUSH_URL: %w", err)
		}
	}

	return cfg, nil
}

func loadDatabaseConfig(cfg *Config) error {
	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "postgres")))
	switch driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DB_DRIVER %q: valid values are postgres, sqlite", driver)
	}
	cfg.DBDriver = driver

	cfg.DBURL = strings.TrimSpace(os.Getenv("DB_URL"))
	if cfg.DBURL == "" {
		if driver == "sqlite" {
			cfg.DBURL = "file:standings.db?_pragma=busy_timeout(5000)"
		} else {
			cfg.DBURL = buildPostgresURL()
		}
	}

	disablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = disablePreparedBinary

	connectTimeout, err := time.ParseDuration(getEnv("DB_CONNECT_TIMEOUT", "10s"))
	if err != nil {
		return fmt.Errorf("parse DB_CONNECT_TIMEOUT: %w", err)
	}
	if connectTimeout <= 0 {
		return fmt.Errorf("DB_CONNECT_TIMEOUT must be > 0")
	}
	cfg.DBConnectTimeout = connectTimeout

	batchSize, err := getEnvAsInt("DB_BATCH_SIZE", 100)
	if err != nil {
		return fmt.Errorf("parse DB_BATCH_SIZE: %w", err)
	}
	if batchSize <= 0 {
		return fmt.Errorf("DB_BATCH_SIZE must be > 0")
	}
	cfg.DBBatchSize = batchSize
	return nil
}

// buildPostgresURL assembles a DSN from the discrete DB_* variables.
func buildPostgresURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "postgres")),
		Host:   net.JoinHostPort(getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432")),
		Path:   "/" + getEnv("DB_NAME", "standings"),
	}
	query := url.Values{}
	query.Set("sslmode", getEnv("DB_SSLMODE", "disable"))
	u.RawQuery = query.Encode()
	return u.String()
}

func loadLiveScoreConfig(cfg *Config) error {
	if cfg.LiveScoreKey == "" || cfg.LiveScoreSecret == "" {
		return fmt.Errorf("LIVESCORE_API_KEY and LIVESCORE_API_SECRET are required")
	}

	timeout, err := time.ParseDuration(getEnv("LIVESCORE_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("parse LIVESCORE_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return fmt.Errorf("LIVESCORE_TIMEOUT must be > 0")
	}
	cfg.LiveScoreTimeout = timeout

	maxRetries, err := getEnvAsInt("LIVESCORE_MAX_RETRIES", 1)
	if err != nil {
		return fmt.Errorf("parse LIVESCORE_MAX_RETRIES: %w", err)
	}
	if maxRetries < 0 {
		return fmt.Errorf("LIVESCORE_MAX_RETRIES must be >= 0")
	}
	cfg.LiveScoreMaxRetries = maxRetries

	includeForm, err := strconv.ParseBool(getEnv("LIVESCORE_INCLUDE_FORM", "true"))
	if err != nil {
		return fmt.Errorf("parse LIVESCORE_INCLUDE_FORM: %w", err)
	}
	cfg.LiveScoreIncludeForm = includeForm

	circuitEnabled, err := strconv.ParseBool(getEnv("LIVESCORE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse LIVESCORE_CIRCUIT_ENABLED: %w", err)
	}
	cfg.LiveScoreCircuitEnabled = circuitEnabled

	failureCount, err := getEnvAsInt("LIVESCORE_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return fmt.Errorf("parse LIVESCORE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if failureCount < 1 {
		return fmt.Errorf("LIVESCORE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.LiveScoreCircuitFailureCount = failureCount

	openTimeout, err := time.ParseDuration(getEnv("LIVESCORE_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return fmt.Errorf("parse LIVESCORE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if openTimeout <= 0 {
		return fmt.Errorf("LIVESCORE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.LiveScoreCircuitOpenTimeout = openTimeout

	halfOpenMaxReq, err := getEnvAsInt("LIVESCORE_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return fmt.Errorf("parse LIVESCORE_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if halfOpenMaxReq < 1 {
		return fmt.Errorf("LIVESCORE_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.LiveScoreCircuitHalfOpenMaxReq = halfOpenMaxReq
	return nil
}

func loadDotEnv() error {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
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

func parseLogFormat(v string) (logging.Format, error) {
	switch format := logging.Format(strings.ToLower(strings.TrimSpace(v))); format {
	case logging.FormatJSON, logging.FormatConsole:
		return format, nil
	default:
		return "", fmt.Errorf("invalid APP_LOG_FORMAT %q: valid values are %s, %s", v, logging.FormatJSON, logging.FormatConsole)
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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
