// Package config loads runtime settings of the catalog client.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Поддерживаемые движки локального хранилища
const (
	StoreBolt   = "bolt"
	StoreSQLite = "sqlite"
)

// DefaultDBFile имя файла базы в домашнем каталоге
const DefaultDBFile = ".cfhelper/cfhelper.db"

var (
	ErrInvalidStore    = errors.New("unsupported store engine")
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrInvalidCacheTTL = errors.New("cache ttl must be positive")
	ErrInvalidLevel    = errors.New("unknown log level")
)

// Config holds settings read from CFHELPER_* environment variables.
// Command line flags override individual fields after parsing.
type Config struct {
	APIURL    string        `env:"CFHELPER_API_URL" envDefault:"https://codeforces.com/api"`
	DBPath    string        `env:"CFHELPER_DB"`
	Store     string        `env:"CFHELPER_STORE" envDefault:"bolt"`
	CacheTTL  time.Duration `env:"CFHELPER_CACHE_TTL" envDefault:"30m"`
	PageSize  int           `env:"CFHELPER_PAGE_SIZE" envDefault:"50"`
	RateLimit float64       `env:"CFHELPER_RATE_LIMIT" envDefault:"1"`
	LogLevel  string        `env:"CFHELPER_LOG_LEVEL" envDefault:"warn"`
	NoColor   bool          `env:"CFHELPER_NO_COLOR"`

	CatalogTimeout time.Duration `env:"CFHELPER_CATALOG_TIMEOUT" envDefault:"30s"`
	ProfileTimeout time.Duration `env:"CFHELPER_PROFILE_TIMEOUT" envDefault:"10s"`
}

// Load parses the process environment and fills derived defaults.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет согласованность настроек.
// Имя хранилища приводится к нижнему регистру, откуда бы оно ни пришло.
func (c *Config) Validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreBolt, StoreSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStore, c.Store)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.PageSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCacheTTL, c.CacheTTL)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Level возвращает уровень логирования в терминах slog
func (c *Config) Level() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// defaultDBPath ~/.cfhelper/cfhelper.db, при отсутствии HOME файл в текущем каталоге
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Base(DefaultDBFile)
	}
	return filepath.Join(home, DefaultDBFile)
}
