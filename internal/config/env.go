package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is the prefix applied to every environment variable.
const envPrefix = "TEXTDIFF"

// EnvConfig holds all environment-based configuration.
// Field names map to environment variables with the TEXTDIFF_ prefix.
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: TEXTDIFF_HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: TEXTDIFF_PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: TEXTDIFF_DATA_DIR
	// Default: ~/.textdiff
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: TEXTDIFF_DB_URL
	// Default: sqlite:///{data_dir}/textdiff.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: TEXTDIFF_LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: TEXTDIFF_LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// MinRatio is the similarity threshold at or above which rows get
	// highlight markup.
	// Env: TEXTDIFF_MIN_RATIO (default: 0.6)
	MinRatio float64 `envconfig:"MIN_RATIO" default:"0.6"`

	// Parallelism is the number of comparison workers per batch.
	// Env: TEXTDIFF_PARALLELISM (default: 1)
	Parallelism int `envconfig:"PARALLELISM" default:"1"`

	// ColumnA is the default original-text column name.
	// Env: TEXTDIFF_COLUMN_A (default: text_a)
	ColumnA string `envconfig:"COLUMN_A" default:"text_a"`

	// ColumnB is the default modified-text column name.
	// Env: TEXTDIFF_COLUMN_B (default: text_b)
	ColumnB string `envconfig:"COLUMN_B" default:"text_b"`

	// ReportingInterval is the minimum seconds between progress log lines.
	// Env: TEXTDIFF_REPORTING_INTERVAL (default: 5)
	ReportingInterval float64 `envconfig:"REPORTING_INTERVAL" default:"5"`

	// APIKeys is a comma-separated list of valid API keys. With any key set,
	// mutating API endpoints require the X-API-KEY header.
	// Env: TEXTDIFF_API_KEYS
	APIKeys []string `envconfig:"API_KEYS"`
}

// LoadFromEnv loads configuration from TEXTDIFF_-prefixed environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	// Apply overrides from environment
	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(strings.ToUpper(e.LogLevel)))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}

	cfg = applyOption(cfg, WithMinRatio(e.MinRatio))
	if e.Parallelism > 0 {
		cfg = applyOption(cfg, WithParallelism(e.Parallelism))
	}
	if e.ColumnA != "" || e.ColumnB != "" {
		columnA, columnB := cfg.ColumnA(), cfg.ColumnB()
		if e.ColumnA != "" {
			columnA = e.ColumnA
		}
		if e.ColumnB != "" {
			columnB = e.ColumnB
		}
		cfg = applyOption(cfg, WithColumns(columnA, columnB))
	}
	if len(e.APIKeys) > 0 {
		cfg = applyOption(cfg, WithAPIKeys(e.APIKeys...))
	}
	if e.ReportingInterval > 0 {
		reporting := NewReportingConfig().WithLogTimeInterval(secondsToDuration(e.ReportingInterval))
		cfg = applyOption(cfg, WithReportingConfig(reporting))
	}

	return cfg
}

func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
