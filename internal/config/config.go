package config

import (
	"errors"
	"espn-ffl/internal/constants"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var ErrMissingLeagueID = errors.New("league id is required (--league-id or ESPN_FFL_LEAGUE_ID)")

type Config struct {
	LeagueID   string
	SWID       string
	ESPNS2     string
	BaseURL    string
	CacheDir   string
	DBPath     string
	RateLimit  float64
	ServerPort string
	LogLevel   string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cacheDir := getEnv("ESPN_FFL_CACHE_DIR", "")
	if cacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		cacheDir = filepath.Join(base, "espn-ffl")
	}

	rateLimit, err := strconv.ParseFloat(getEnv("ESPN_FFL_RATE_LIMIT", strconv.Itoa(constants.DefaultRateLimit)), 64)
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("invalid ESPN_FFL_RATE_LIMIT %q", os.Getenv("ESPN_FFL_RATE_LIMIT"))
	}

	cfg := &Config{
		LeagueID:   getEnv("ESPN_FFL_LEAGUE_ID", ""),
		SWID:       getEnv("ESPN_SWID", ""),
		ESPNS2:     getEnv("ESPN_S2", ""),
		BaseURL:    getEnv("ESPN_FFL_BASE_URL", constants.DefaultBaseURL),
		CacheDir:   cacheDir,
		DBPath:     getEnv("ESPN_FFL_DB_PATH", filepath.Join(cacheDir, "espn-cache.db")),
		RateLimit:  rateLimit,
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}

	logger.Debug().
		Str("base_url", cfg.BaseURL).
		Str("cache_dir", cfg.CacheDir).
		Str("db_path", cfg.DBPath).
		Float64("rate_limit", cfg.RateLimit).
		Bool("has_credentials", cfg.HasCredentials()).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) HasCredentials() bool {
	return c.SWID != "" && c.ESPNS2 != ""
}

// ResolveLeagueID prefers an explicit flag value over the environment.
func (c *Config) ResolveLeagueID(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if c.LeagueID != "" {
		return c.LeagueID, nil
	}
	return "", ErrMissingLeagueID
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
