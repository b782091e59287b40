package textdiff

import (
	"log/slog"
	"time"

	"github.com/helixml/textdiff/domain/highlight"
	"github.com/helixml/textdiff/internal/config"
)

// databaseType identifies the database.
type databaseType int

const (
	databaseUnset databaseType = iota
	databaseSQLite
	databasePostgres
)

// clientConfig holds configuration for Client construction.
// Use newClientConfig() to create with defaults from internal/config.
type clientConfig struct {
	database       databaseType
	dbPath         string
	dbDSN          string
	dataDir        string
	logger         *slog.Logger
	minRatio       float64
	parallelism    int
	columnA        string
	columnB        string
	styles         highlight.StyleMap
	reportInterval time.Duration
}

// newClientConfig creates a clientConfig with defaults from internal/config.
// This ensures all defaults come from the single source of truth.
func newClientConfig() *clientConfig {
	return &clientConfig{
		dataDir:        config.DefaultDataDir(),
		minRatio:       config.DefaultMinRatio,
		parallelism:    config.DefaultParallelism,
		columnA:        config.DefaultColumnA,
		columnB:        config.DefaultColumnB,
		styles:         highlight.DefaultStyleMap(),
		reportInterval: config.DefaultReportingInterval,
	}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite configures SQLite as the database.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.database = databaseSQLite
		c.dbPath = path
	}
}

// WithPostgres configures PostgreSQL as the database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.database = databasePostgres
		c.dbDSN = dsn
	}
}

// WithDataDir sets the data directory for database storage.
func WithDataDir(dir string) Option {
	return func(c *clientConfig) {
		c.dataDir = dir
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithMinRatio sets the default highlight threshold for comparisons.
// Pairs whose exact similarity ratio is at or above the threshold get
// highlight markup; pairs below it pass through unmarked.
func WithMinRatio(ratio float64) Option {
	return func(c *clientConfig) {
		c.minRatio = ratio
	}
}

// WithParallelism sets how many rows are compared concurrently per batch.
// Defaults to 1. Values <= 0 are ignored.
func WithParallelism(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithColumns sets the default text column names for comparisons.
func WithColumns(columnA, columnB string) Option {
	return func(c *clientConfig) {
		c.columnA = columnA
		c.columnB = columnB
	}
}

// WithHighlightStyles sets custom highlight markup for difference spans.
func WithHighlightStyles(styles highlight.StyleMap) Option {
	return func(c *clientConfig) {
		c.styles = styles
	}
}

// WithReportingInterval sets the minimum interval between progress log
// lines during a batch. Defaults to 5 seconds.
func WithReportingInterval(d time.Duration) Option {
	return func(c *clientConfig) {
		if d > 0 {
			c.reportInterval = d
		}
	}
}
