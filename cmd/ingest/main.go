package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rickgao/market-risk-monitor/internal/api"
	"github.com/rickgao/market-risk-monitor/internal/cache"
	"github.com/rickgao/market-risk-monitor/internal/config"
	"github.com/rickgao/market-risk-monitor/internal/database"
	"github.com/rickgao/market-risk-monitor/internal/ingest"
	"github.com/rickgao/market-risk-monitor/internal/version"
	"github.com/rickgao/market-risk-monitor/internal/writer"
)

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// .env is optional; it only feeds ${VAR} expansion in the config file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("failed to load .env", "error", err)
	}

	if err := run(logger, *configPath); err != nil {
		logger.Error("ingestion failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Debug("configuration loaded",
		"version", version.Version,
		"api_url", cfg.API.BaseURL,
		"ids", cfg.Query.IDs,
		"output", cfg.Output.Path,
	)

	// Create context with cancellation on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(
		cfg.API.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithUserAgent(cfg.API.UserAgent),
		api.WithAPIKey(cfg.API.APIKeyHeader, cfg.API.APIKey),
	)

	fetcher := ingest.NewFetcher(client, api.CoinMarketsQuery{
		VsCurrency: cfg.Query.VsCurrency,
		IDs:        cfg.Query.IDs,
		Order:      cfg.Query.Order,
		PerPage:    cfg.Query.PerPage,
		Page:       cfg.Query.Page,
		Sparkline:  cfg.Query.Sparkline,
	}, logger)

	sinks := []ingest.Sink{writer.NewCSVWriter(cfg.Output.Path, logger)}

	if cfg.Database.Timescale.Enabled() {
		logger.Info("connecting to database",
			"host", cfg.Database.Timescale.Host,
			"port", cfg.Database.Timescale.Port,
			"database", cfg.Database.Timescale.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Timescale)
		if err != nil {
			return fmt.Errorf("connect timescale: %w", err)
		}
		defer pool.Close()

		ts := writer.NewTimescaleWriter(pool, cfg.Database.Table, logger)
		if err := ts.EnsureSchema(ctx); err != nil {
			return err
		}
		sinks = append(sinks, ts)
	}

	if cfg.Redis.Enabled() {
		latest, err := cache.NewLatestCache(ctx, cfg.Redis, logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer latest.Close()
		sinks = append(sinks, latest)
	}

	_, err = ingest.NewRunner(fetcher, sinks, logger).Run(ctx)
	return err
}
