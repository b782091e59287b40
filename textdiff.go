// Package textdiff provides batch text comparison with character-level
// difference highlighting and HTML reporting.
//
// Each row of a table holds two versions of a text. A comparison run aligns
// the versions character by character, scores their similarity, wraps the
// differing spans in markup when the pair is similar enough, and renders the
// batch as an HTML table. Runs are persisted so reports can be regenerated
// later.
//
// Basic usage:
//
//	client, err := textdiff.New(
//	    textdiff.WithSQLite(".textdiff/data.db"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	table, err := tabular.ReadCSV(file)
//	comparer, err := client.NewComparer(table, textdiff.WithSource("edits.csv"))
//	if err := comparer.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	html, err := comparer.HTML(compare.NewPresentation().WithSort(compare.SortAsc))
package textdiff

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/helixml/textdiff/application/service"
	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/domain/highlight"
	"github.com/helixml/textdiff/infrastructure/persistence"
	"github.com/helixml/textdiff/infrastructure/render"
	"github.com/helixml/textdiff/infrastructure/tracking"
	"github.com/helixml/textdiff/internal/config"
	"github.com/helixml/textdiff/internal/database"
)

// Client is the main entry point for the textdiff library.
//
// Access persisted runs via the Runs service:
//
//	client.Runs.List(ctx)
//	client.Runs.Get(ctx, id)
type Client struct {
	// Runs executes comparison batches and manages persisted runs.
	Runs *service.Runs

	db       database.Database
	runStore persistence.RunStore

	logger         *slog.Logger
	minRatio       float64
	parallelism    int
	columnA        string
	columnB        string
	styles         highlight.StyleMap
	reportInterval time.Duration
	closed         atomic.Bool
}

// New creates a new Client with the given options. A database option
// (WithSQLite or WithPostgres) is required.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.database == databaseUnset {
		return nil, ErrNoDatabase
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	dataDir, err := config.PrepareDataDir(cfg.dataDir)
	if err != nil {
		return nil, err
	}

	dbURL, err := buildDatabaseURL(cfg, dataDir)
	if err != nil {
		return nil, fmt.Errorf("build database url: %w", err)
	}

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := persistence.AutoMigrate(db); err != nil {
		errClose := db.Close()
		return nil, errors.Join(fmt.Errorf("auto migrate: %w", err), errClose)
	}

	runStore := persistence.NewRunStore(db)

	return &Client{
		Runs:           service.NewRuns(runStore, logger),
		db:             db,
		runStore:       runStore,
		logger:         logger,
		minRatio:       cfg.minRatio,
		parallelism:    cfg.parallelism,
		columnA:        cfg.columnA,
		columnB:        cfg.columnB,
		styles:         cfg.styles,
		reportInterval: cfg.reportInterval,
	}, nil
}

func buildDatabaseURL(cfg *clientConfig, dataDir string) (string, error) {
	switch cfg.database {
	case databaseSQLite:
		path := cfg.dbPath
		if path == "" {
			path = filepath.Join(dataDir, "textdiff.db")
		}
		return "sqlite:///" + path, nil
	case databasePostgres:
		if cfg.dbDSN == "" {
			return "", errors.New("postgres DSN is empty")
		}
		return cfg.dbDSN, nil
	default:
		return "", ErrNoDatabase
	}
}

// Close releases the client's resources. A second call returns
// ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClientClosed
	}
	return c.db.Close()
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Report renders a persisted run as an HTML document. The report carries no
// extra projection columns; regenerating with a projection requires the
// original table and a fresh Comparer.
func (c *Client) Report(ctx context.Context, id int64, cfg compare.Presentation) (string, error) {
	run, result, err := c.Runs.Get(ctx, id)
	if err != nil {
		return "", err
	}

	presenter := render.NewPresenter(run.ColumnA(), run.ColumnB())
	return presenter.Present(result, nil, cfg)
}

// tracker builds the progress sink for one batch: a Tracker whose log
// reporter is throttled to the configured reporting interval.
func (c *Client) tracker(label string) *tracking.Tracker {
	t := tracking.NewTracker(label, c.logger)
	t.Subscribe(tracking.NewCooldown(tracking.NewLoggingReporter(c.logger), c.reportInterval))
	return t
}
