package constants

import "time"

const (
	DefaultBaseURL      = "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"
	DefaultSeason       = 2025
	DefaultWeek         = 1
	DefaultPlayerLimit  = 1000
	DefaultRateLimit    = 5
	DefaultBiasStrength = 1.0
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
	CommandTimeout     = 5 * time.Minute
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	BreakerMaxRequests  = 3
	BreakerInterval     = 1 * time.Minute
	BreakerOpenTimeout  = 30 * time.Second
	BreakerMinRequests  = 3
	BreakerFailureRatio = 0.6
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	NameColumnWidth = 20
)
