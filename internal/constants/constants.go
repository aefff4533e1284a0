package constants

import "time"

const (
	// MatchPageSize is the number of rows the target site returns per
	// match-history page. A short page signals the end of the list.
	MatchPageSize = 100

	DefaultMaxRetries = 5
	DefaultBaseWait   = 5500 * time.Millisecond
)

const (
	// Navigation timeouts per page-load strategy.
	NavigationTimeoutEager = 10 * time.Second
	NavigationTimeoutFull  = 30 * time.Second

	RequestTimeout  = 5 * time.Minute
	DatabaseTimeout = 5 * time.Second
)

const (
	StatsRefreshTTL   = 30 * time.Minute
	MatchesRefreshTTL = 30 * time.Minute
	LastFetchDelay    = 10 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)
