package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/helixml/textdiff"
	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/domain/highlight"
	"github.com/helixml/textdiff/infrastructure/tabular"
	"github.com/helixml/textdiff/internal/config"
	"github.com/helixml/textdiff/internal/log"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	var (
		envFile     string
		input       string
		columnA     string
		columnB     string
		minRatio    float64
		sortOrder   string
		maxRows     int
		showIndex   bool
		parallelism int
		stylesPath  string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two text columns of a CSV file and render an HTML report",
		Long: `Compare two text columns of a CSV file row by row.

Each row's texts are aligned character by character and scored; rows at or
above the similarity threshold get difference highlighting. The run is
persisted to the configured database and the report is written as HTML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), compareParams{
				envFile:     envFile,
				input:       input,
				columnA:     columnA,
				columnB:     columnB,
				minRatio:    minRatio,
				sortOrder:   sortOrder,
				maxRows:     maxRows,
				showIndex:   showIndex,
				parallelism: parallelism,
				stylesPath:  stylesPath,
				output:      output,
			})
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Input CSV file (required)")
	cmd.Flags().StringVar(&columnA, "column-a", "", "Original text column (default: text_a)")
	cmd.Flags().StringVar(&columnB, "column-b", "", "Modified text column (default: text_b)")
	cmd.Flags().Float64Var(&minRatio, "min-ratio", 0, "Similarity threshold for highlighting, in (0, 1] (default: 0.6)")
	cmd.Flags().StringVar(&sortOrder, "sort", "", "Sort rows by similarity: asc or desc (default: input order)")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Maximum rows in the report, 0 for all")
	cmd.Flags().BoolVar(&showIndex, "index", false, "Render a leading row-index column")
	cmd.Flags().IntVar(&parallelism, "parallelism", 0, "Rows compared concurrently (default: 1)")
	cmd.Flags().StringVar(&stylesPath, "styles", "", "YAML file overriding the highlight span markup")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output HTML file (default: stdout)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type compareParams struct {
	envFile     string
	input       string
	columnA     string
	columnB     string
	minRatio    float64
	sortOrder   string
	maxRows     int
	showIndex   bool
	parallelism int
	stylesPath  string
	output      string
}

func runCompare(ctx context.Context, p compareParams) error {
	cfg, err := loadConfig(p.envFile)
	if err != nil {
		return err
	}

	order := compare.SortOrder(p.sortOrder)
	if !order.Valid() {
		return fmt.Errorf("invalid --sort %q: must be asc or desc", p.sortOrder)
	}

	logger := log.NewLogger(cfg).Slog()

	opts := clientOptions(cfg, logger)
	if p.minRatio != 0 {
		if p.minRatio <= 0 || p.minRatio > 1 {
			return fmt.Errorf("invalid --min-ratio %v: must be in (0, 1]", p.minRatio)
		}
		opts = append(opts, textdiff.WithMinRatio(p.minRatio))
	}
	if p.parallelism > 0 {
		opts = append(opts, textdiff.WithParallelism(p.parallelism))
	}
	if p.columnA != "" || p.columnB != "" {
		columnA, columnB := cfg.ColumnA(), cfg.ColumnB()
		if p.columnA != "" {
			columnA = p.columnA
		}
		if p.columnB != "" {
			columnB = p.columnB
		}
		opts = append(opts, textdiff.WithColumns(columnA, columnB))
	}

	if p.stylesPath != "" {
		data, err := os.ReadFile(p.stylesPath)
		if err != nil {
			return fmt.Errorf("read styles file: %w", err)
		}
		styles, err := highlight.ParseStyleMap(data)
		if err != nil {
			return fmt.Errorf("parse styles file: %w", err)
		}
		opts = append(opts, textdiff.WithHighlightStyles(styles))
	}

	client, err := textdiff.New(opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close client", "error", err)
		}
	}()

	file, err := os.Open(p.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	table, err := tabular.ReadCSV(file)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	comparer, err := client.NewComparer(table, textdiff.WithSource(filepath.Base(p.input)))
	if err != nil {
		return err
	}

	if err := comparer.Run(ctx); err != nil {
		return fmt.Errorf("run comparison: %w", err)
	}

	presentation := compare.NewPresentation().
		WithSort(order).
		WithMaxRows(p.maxRows).
		WithIndex(p.showIndex)

	html, err := comparer.HTML(presentation)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if p.output == "" {
		fmt.Println(html)
		return nil
	}
	if err := os.WriteFile(p.output, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info("report written", "path", p.output)
	return nil
}

// clientOptions returns the textdiff.Option slice derived from the shared
// parts of AppConfig: storage, logging, and comparison defaults. Callers
// append entrypoint-specific overrides before passing the slice to
// textdiff.New.
func clientOptions(cfg config.AppConfig, logger *slog.Logger) []textdiff.Option {
	opts := []textdiff.Option{
		textdiff.WithLogger(logger),
		textdiff.WithDataDir(cfg.DataDir()),
		textdiff.WithMinRatio(cfg.MinRatio()),
		textdiff.WithParallelism(cfg.Parallelism()),
		textdiff.WithColumns(cfg.ColumnA(), cfg.ColumnB()),
		textdiff.WithReportingInterval(cfg.Reporting().LogTimeInterval()),
	}

	opts = append(opts, storageOption(cfg))
	return opts
}

// storageOption returns the textdiff.Option for the configured database
// backend.
func storageOption(cfg config.AppConfig) textdiff.Option {
	dbURL := cfg.DBURL()

	if dbURL != "" && !isSQLite(dbURL) {
		return textdiff.WithPostgres(dbURL)
	}

	dbPath := filepath.Join(cfg.DataDir(), "textdiff.db")
	if dbURL != "" && isSQLite(dbURL) {
		dbPath = strings.TrimPrefix(dbURL, "sqlite:///")
		if dbPath == dbURL {
			dbPath = strings.TrimPrefix(dbURL, "sqlite:")
		}
	}

	return textdiff.WithSQLite(dbPath)
}

// isSQLite checks if the database URL is for SQLite.
func isSQLite(url string) bool {
	return strings.HasPrefix(url, "sqlite:")
}
