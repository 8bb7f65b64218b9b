package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite    = "sqlite3"
	DriverPostgres  = "pgx"
	DriverSQLServer = "sqlserver"
)

type Config struct {
	AppEnv      string
	LogLevel    slog.Level
	HTTPAddr    string
	OpenBrowser bool

	Driver string
	// DSN, when set, is passed to the driver as is and the per-field
	// connection settings below are ignored.
	DSN        string
	SQLitePath string
	Host       string
	Port       int
	Name       string
	User       string
	Password   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
	LogSQL          bool
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	openBrowser, err := parseBool("OPEN_BROWSER", "true")
	if err != nil {
		return Config{}, err
	}

	driver := envOrDefault("DB_DRIVER", DriverSQLite)
	defaultPort := ""
	switch driver {
	case DriverSQLite:
	case DriverPostgres:
		defaultPort = "5432"
	case DriverSQLServer:
		defaultPort = "1433"
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q (allowed: %s, %s, %s)", driver, DriverSQLite, DriverPostgres, DriverSQLServer)
	}

	port := 0
	if portStr := envOrDefault("DB_PORT", defaultPort); portStr != "" {
		port, err = strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid DB_PORT %q", portStr)
		}
	}

	maxOpenConns, err := parseInt("DB_MAX_OPEN_CONNS", "1")
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := parseInt("DB_MAX_IDLE_CONNS", "0")
	if err != nil {
		return Config{}, err
	}

	connMaxLifetime, err := parseDuration("DB_CONN_MAX_LIFETIME", "0s")
	if err != nil {
		return Config{}, err
	}
	queryTimeout, err := parseDuration("DB_QUERY_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	if queryTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got %v", queryTimeout)
	}

	logSQL, err := parseBool("DB_LOG_SQL", "false")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:          appEnv,
		LogLevel:        level,
		HTTPAddr:        envOrDefault("HTTP_ADDR", "127.0.0.1:8080"),
		OpenBrowser:     openBrowser,
		Driver:          driver,
		DSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		SQLitePath:      envOrDefault("SQLITE_PATH", "dev/sqlite/app.db"),
		Host:            strings.TrimSpace(os.Getenv("DB_HOST")),
		Port:            port,
		Name:            envOrDefault("DB_NAME", "synop"),
		User:            strings.TrimSpace(os.Getenv("DB_USER")),
		Password:        os.Getenv("DB_PASSWORD"),
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
		QueryTimeout:    queryTimeout,
		LogSQL:          logSQL,
	}

	if cfg.Driver != DriverSQLite && cfg.DSN == "" && cfg.Host == "" {
		return Config{}, fmt.Errorf("DB_HOST or DB_DSN is required for DB_DRIVER %q", cfg.Driver)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseInt(key, def string) (int, error) {
	s := envOrDefault(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func parseBool(key, def string) (bool, error) {
	s := envOrDefault(key, def)
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return b, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
