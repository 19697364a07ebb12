package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ad-tracker/youtube-trending-collector/internal/model"
)

// CollectorConfig selects which chart a run collects.
type CollectorConfig struct {
	RegionCode string
	MaxResults int64
}

// RunResult describes a successful run.
type RunResult struct {
	Path    string
	Fetched int
	Rows    []*model.EnrichedRow
}

// Collector runs the fetch, enrich and export steps once.
type Collector struct {
	fetcher  *Fetcher
	enricher *Enricher
	exporter Exporter
	cfg      CollectorConfig
	logger   *zap.Logger
}

// NewCollector creates a new collector
func NewCollector(fetcher *Fetcher, enricher *Enricher, exporter Exporter, cfg CollectorConfig, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		fetcher:  fetcher,
		enricher: enricher,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run fetches the chart, enriches every video and exports the rows. It
// returns ErrNoVideos without exporting anything when the chart is empty, and
// the context error when ctx is done before the rows are exported.
func (c *Collector) Run(ctx context.Context) (*RunResult, error) {
	videos := c.fetcher.FetchTrending(ctx, c.cfg.RegionCode, c.cfg.MaxResults)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch trending videos: %w", err)
	}
	if len(videos) == 0 {
		c.logger.Warn("no videos were collected", zap.String("region_code", c.cfg.RegionCode))
		return nil, ErrNoVideos
	}

	rows := c.enricher.Enrich(ctx, videos)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("enrich rows: %w", err)
	}

	path, err := c.exporter.Export(rows)
	if err != nil {
		return nil, fmt.Errorf("export rows: %w", err)
	}

	c.logger.Info("trending data collected and saved",
		zap.String("path", path),
		zap.Int("rows", len(rows)),
	)

	return &RunResult{Path: path, Fetched: len(videos), Rows: rows}, nil
}
