// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8080
	DefaultLogLevel          = "INFO"
	DefaultMinRatio          = 0.6
	DefaultParallelism       = 1
	DefaultColumnA           = "text_a"
	DefaultColumnB           = "text_b"
	DefaultReportingInterval = 5 * time.Second
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// ReportingConfig configures progress reporting.
type ReportingConfig struct {
	logTimeInterval time.Duration
}

// NewReportingConfig creates a new ReportingConfig with defaults.
func NewReportingConfig() ReportingConfig {
	return ReportingConfig{
		logTimeInterval: DefaultReportingInterval,
	}
}

// LogTimeInterval returns the time interval for logging progress.
func (r ReportingConfig) LogTimeInterval() time.Duration {
	return r.logTimeInterval
}

// WithLogTimeInterval returns a new config with the specified interval.
func (r ReportingConfig) WithLogTimeInterval(d time.Duration) ReportingConfig {
	r.logTimeInterval = d
	return r
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host        string
	port        int
	dataDir     string
	dbURL       string
	logLevel    string
	logFormat   LogFormat
	minRatio    float64
	parallelism int
	columnA     string
	columnB     string
	apiKeys     []string
	reporting   ReportingConfig
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".textdiff"
	}
	return filepath.Join(home, ".textdiff")
}

// PrepareDataDir creates the data directory if it does not exist and returns it.
func PrepareDataDir(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return dataDir, nil
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		host:        DefaultHost,
		port:        DefaultPort,
		dataDir:     dataDir,
		dbURL:       "sqlite:///" + filepath.Join(dataDir, "textdiff.db"),
		logLevel:    DefaultLogLevel,
		logFormat:   LogFormatPretty,
		minRatio:    DefaultMinRatio,
		parallelism: DefaultParallelism,
		columnA:     DefaultColumnA,
		columnB:     DefaultColumnB,
		reporting:   NewReportingConfig(),
	}
}

// NewAppConfigWithOptions creates an AppConfig with defaults plus overrides.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	cfg := NewAppConfig()
	for _, opt := range opts {
		cfg = applyOption(cfg, opt)
	}
	return cfg
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// MinRatio returns the default highlight threshold.
func (c AppConfig) MinRatio() float64 { return c.minRatio }

// Parallelism returns the number of comparison workers.
func (c AppConfig) Parallelism() int { return c.parallelism }

// ColumnA returns the default original-text column name.
func (c AppConfig) ColumnA() string { return c.columnA }

// ColumnB returns the default modified-text column name.
func (c AppConfig) ColumnB() string { return c.columnB }

// APIKeys returns the configured API keys for write protection.
func (c AppConfig) APIKeys() []string { return c.apiKeys }

// Reporting returns the progress reporting configuration.
func (c AppConfig) Reporting() ReportingConfig { return c.reporting }

// Apply returns a copy with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		c = applyOption(c, opt)
	}
	return c
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	_, err := PrepareDataDir(c.dataDir)
	return err
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory and rebases the default database URL.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		c.dbURL = "sqlite:///" + filepath.Join(dir, "textdiff.db")
	}
}

// WithDBURL sets the database connection URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log verbosity level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log output format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithMinRatio sets the default highlight threshold.
func WithMinRatio(ratio float64) AppConfigOption {
	return func(c *AppConfig) { c.minRatio = ratio }
}

// WithParallelism sets the number of comparison workers.
func WithParallelism(n int) AppConfigOption {
	return func(c *AppConfig) { c.parallelism = n }
}

// WithColumns sets the default text column names.
func WithColumns(columnA, columnB string) AppConfigOption {
	return func(c *AppConfig) {
		c.columnA = columnA
		c.columnB = columnB
	}
}

// WithAPIKeys sets the API keys for write protection.
func WithAPIKeys(keys ...string) AppConfigOption {
	return func(c *AppConfig) { c.apiKeys = keys }
}

// WithReportingConfig sets the progress reporting configuration.
func WithReportingConfig(r ReportingConfig) AppConfigOption {
	return func(c *AppConfig) { c.reporting = r }
}

func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}
