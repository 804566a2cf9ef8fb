package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"contribution-tracker-go/pkg/logger"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTPPort           string
	Env                string
	CORSAllowedOrigins []string
	MetricsEnabled     bool
	DB                 DBConfig
	Tracker            TrackerConfig
}

type TrackerConfig struct {
	SeedOnEmpty      bool
	SnapshotCacheTTL time.Duration
	TrendMonths      int
	TimeZone         string
}

type DBConfig struct {
	Driver          string
	Path            string
	BusyTimeout     time.Duration
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
		log.Debug("config: no .env file found")
	}

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:8081", "http://localhost:19006"}),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		DB: DBConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
			Path:            getEnv("DB_PATH", "data/contribution_tracker.db"),
			BusyTimeout:     getEnvDuration("DB_BUSY_TIMEOUT", 5*time.Second),
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "contribution_tracker"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Tracker: TrackerConfig{
			SeedOnEmpty:      getEnvBool("SEED_ON_EMPTY", true),
			SnapshotCacheTTL: getEnvDuration("SNAPSHOT_CACHE_TTL", 30*time.Second),
			TrendMonths:      getEnvInt("TREND_MONTHS", 6),
			TimeZone:         getEnv("TIMEZONE", "Local"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var problems []string

	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		problems = append(problems, "HTTP_PORT must be numeric")
	}
	switch c.DB.Driver {
	case DriverSQLite:
		if strings.TrimSpace(c.DB.Path) == "" {
			problems = append(problems, "DB_PATH is required for sqlite")
		}
	case DriverPostgres:
		if c.DB.DSN == "" && (c.DB.Host == "" || c.DB.Name == "") {
			problems = append(problems, "DB_DSN or DB_HOST and DB_NAME are required for postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("DB_DRIVER %q is not supported (use sqlite or postgres)", c.DB.Driver))
	}
	if c.Tracker.TrendMonths < 1 || c.Tracker.TrendMonths > 24 {
		problems = append(problems, "TREND_MONTHS must be between 1 and 24")
	}
	if _, err := c.Tracker.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q is not a known location", c.Tracker.TimeZone))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location resolves the zone used for calendar-month boundaries.
func (c TrackerConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" || strings.EqualFold(c.TimeZone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}

// SQLiteDSN builds a go-sqlite3 DSN with foreign keys enforced on every
// connection.
func (c DBConfig) SQLiteDSN() string {
	path := c.Path
	if path == ":memory:" {
		path = "file::memory:"
	} else if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_foreign_keys=on&_busy_timeout=%d", path, sep, c.BusyTimeout.Milliseconds())
}
