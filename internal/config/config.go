package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AppPort string
	AppEnv  string

	DBDriver   string
	DBDebug    bool
	SQLitePath string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempEnabled bool
	IdempTTLSecs int

	SyncURL      string
	SyncTenantID string
	SyncTimeout  time.Duration
	SyncDebounce time.Duration

	ResetOnStart bool
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

// getenvDuration accepts Go durations ("10s") or plain seconds.
func getenvDuration(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return d
}

// Load reads the environment, after an optional .env file in the working
// directory. Real environment variables win over the file.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		AppPort: getenv("APP_PORT", "8080"),
		AppEnv:  getenv("APP_ENV", "local"),

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBDebug:    getenvBool("DB_DEBUG", false),
		SQLitePath: getenv("SQLITE_PATH", "kitabu.db"),

		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "kitabu"),
		MySQLUser: getenv("MYSQL_USER", "kitabu"),
		MySQLPass: getenv("MYSQL_PASS", "kitabu"),

		RedisAddr: getenv("REDIS_ADDR", "redis:6379"),
		RedisDB:   getenvInt("REDIS_DB", 0),

		IdempEnabled: getenvBool("IDEMPOTENCY_ENABLED", true),
		IdempTTLSecs: getenvInt("IDEMPOTENCY_TTL_SECONDS", 300),

		SyncURL:      strings.TrimSpace(os.Getenv("SYNC_URL")),
		SyncTenantID: getenv("SYNC_TENANT_ID", "KYN0001"),
		SyncTimeout:  getenvDuration("SYNC_TIMEOUT", 10*time.Second),
		SyncDebounce: getenvDuration("SYNC_DEBOUNCE", 2*time.Second),

		ResetOnStart: getenvBool("RESET_ON_START", false),
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := net.LookupPort("tcp", c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	switch c.DBDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.IdempEnabled && (c.RedisAddr == "" || c.IdempTTLSecs <= 0) {
		return errors.New("idempotency needs REDIS_ADDR and a positive IDEMPOTENCY_TTL_SECONDS")
	}
	if c.SyncTimeout <= 0 || c.SyncDebounce <= 0 {
		return errors.New("SYNC_TIMEOUT and SYNC_DEBOUNCE must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
