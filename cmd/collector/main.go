package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"ad-tracker/youtube-trending-collector/internal/config"
	"ad-tracker/youtube-trending-collector/internal/export"
	"ad-tracker/youtube-trending-collector/internal/metrics"
	"ad-tracker/youtube-trending-collector/internal/report"
	"ad-tracker/youtube-trending-collector/internal/service"
	"ad-tracker/youtube-trending-collector/internal/service/quota"
	"ad-tracker/youtube-trending-collector/internal/service/youtube"
	"ad-tracker/youtube-trending-collector/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	exitOK    = 0
	exitError = 1

	pushTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(exitError)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(exitError)
	}
	log = log.With(zap.String("run_id", uuid.NewString()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, log, os.Stdout)
	stop()

	_ = log.Sync()
	os.Exit(code)
}

// run executes one collection and returns the process exit code.
func run(ctx context.Context, cfg *config.Config, log *zap.Logger, stdout io.Writer) int {
	started := time.Now()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return exitError
	}
	location, err := cfg.Location()
	if err != nil {
		log.Error("invalid configuration", zap.Error(err))
		return exitError
	}

	log.Info("trending collector starting",
		zap.String("region_code", cfg.YouTube.RegionCode),
		zap.Int64("max_results", cfg.YouTube.MaxResults),
		zap.Int("workers", cfg.Enrichment.Workers),
		zap.String("output_dir", cfg.Output.Dir),
	)

	var opts []option.ClientOption
	if cfg.YouTube.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.YouTube.Endpoint))
	}
	client, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, opts...)
	if err != nil {
		log.Error("failed to initialize YouTube client", zap.Error(err))
		return exitError
	}

	quotaManager := quota.NewManager(log, cfg.Quota.DailyLimit)
	m := metrics.New()
	client.AddObserver(quotaManager)
	client.AddObserver(m)

	enricher := service.NewEnricher(service.NewChannelResolver(client, log), log, cfg.Enrichment.Workers)
	enricher.SetLookupObserver(m)

	collector := service.NewCollector(
		service.NewFetcher(client, log),
		enricher,
		export.NewCSVExporter(cfg.Output.Dir, location, cfg.Output.FileName, log),
		service.CollectorConfig{
			RegionCode: cfg.YouTube.RegionCode,
			MaxResults: cfg.YouTube.MaxResults,
		},
		log,
	)

	result, runErr := collector.Run(ctx)
	quotaManager.LogSummary()

	code := exitOK
	switch {
	case errors.Is(runErr, service.ErrNoVideos):
		m.ObserveRun(0, 0, time.Since(started), time.Time{})
	case runErr != nil:
		log.Error("collection failed", zap.Error(runErr))
		code = exitError
	default:
		m.ObserveRun(result.Fetched, len(result.Rows), time.Since(started), time.Now())
		if cfg.Report.Top > 0 {
			if err := report.Print(stdout, result.Rows, cfg.Report.Top); err != nil {
				log.Warn("failed to print summary", zap.Error(err))
			}
		}
	}

	if cfg.Metrics.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := m.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			log.Warn("failed to push metrics",
				zap.String("pushgateway_url", cfg.Metrics.PushgatewayURL),
				zap.Error(err),
			)
		}
	}

	return code
}
