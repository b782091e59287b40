package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/helixml/textdiff"
	"github.com/helixml/textdiff/infrastructure/api"
	"github.com/helixml/textdiff/internal/config"
	"github.com/helixml/textdiff/internal/log"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  TEXTDIFF_HOST                Server host to bind to (default: 0.0.0.0)
  TEXTDIFF_PORT                Server port to listen on (default: 8080)
  TEXTDIFF_DATA_DIR            Data directory (default: ~/.textdiff)
  TEXTDIFF_DB_URL              Database URL (default: sqlite:///{data_dir}/textdiff.db)
  TEXTDIFF_LOG_LEVEL           Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  TEXTDIFF_LOG_FORMAT          Log format: pretty, json (default: pretty)
  TEXTDIFF_MIN_RATIO           Highlight threshold (default: 0.6)
  TEXTDIFF_PARALLELISM         Rows compared concurrently (default: 1)
  TEXTDIFF_COLUMN_A            Original text column (default: text_a)
  TEXTDIFF_COLUMN_B            Modified text column (default: text_b)
  TEXTDIFF_REPORTING_INTERVAL  Seconds between progress log lines (default: 5)
  TEXTDIFF_API_KEYS            Comma-separated list of valid API keys`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile, host, port)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&host, "host", "", "Server host to bind to (default: 0.0.0.0)")
	cmd.Flags().IntVar(&port, "port", 0, "Server port to listen on (default: 8080)")

	return cmd
}

func runServe(envFile, host string, port int) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	// Flags take precedence over env vars.
	cfg = applyServeOverrides(cfg, host, port)
	addr := cfg.Addr()

	if err := cfg.EnsureDataDir(); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	logger := log.NewLogger(cfg)
	slogger := logger.Slog()

	slogger.Info("starting textdiff",
		slog.String("version", version),
		slog.String("addr", addr),
		slog.String("data_dir", cfg.DataDir()),
	)

	client, err := textdiffClient(cfg, slogger)
	if err != nil {
		return fmt.Errorf("create textdiff client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close textdiff client", slog.Any("error", err))
		}
	}()

	apiServer := api.NewAPIServer(client, cfg.APIKeys())
	router := apiServer.Router()
	apiServer.MountRoutes()

	// Health check endpoints
	router.Get("/health", healthHandler)
	router.Get("/healthz", healthHandler)

	// Root endpoint with API info
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"name":"textdiff","version":"%s"}`, version)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	server := api.NewServer(addr, slogger)
	server.Router().Mount("/", router)

	go func() {
		<-sigChan
		slogger.Info("shutting down server")
		cancel()
		if err := server.Shutdown(ctx); err != nil {
			slogger.Error("shutdown error", slog.Any("error", err))
		}
	}()

	if err := server.Start(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// textdiffClient builds a client from the shared config-derived options.
func textdiffClient(cfg config.AppConfig, logger *slog.Logger) (*textdiff.Client, error) {
	return textdiff.New(clientOptions(cfg, logger)...)
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// applyServeOverrides applies command line flag overrides to the config.
func applyServeOverrides(cfg config.AppConfig, host string, port int) config.AppConfig {
	var opts []config.AppConfigOption

	if host != "" {
		opts = append(opts, config.WithHost(host))
	}
	if port != 0 {
		opts = append(opts, config.WithPort(port))
	}

	return cfg.Apply(opts...)
}
