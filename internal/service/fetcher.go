package service

import (
	"context"

	"go.uber.org/zap"
	yt "google.golang.org/api/youtube/v3"
)

// Fetcher pulls the trending chart for a region.
type Fetcher struct {
	source VideoSource
	logger *zap.Logger
}

// NewFetcher creates a new Fetcher
func NewFetcher(source VideoSource, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{source: source, logger: logger}
}

// FetchTrending returns up to maxResults most popular videos of regionCode in
// chart order. A failed listing is logged and yields no videos; it is not
// retried.
func (f *Fetcher) FetchTrending(ctx context.Context, regionCode string, maxResults int64) []*yt.Video {
	videos, err := f.source.ListMostPopular(ctx, regionCode, maxResults)
	if err != nil {
		f.logger.Error("failed to collect trending videos",
			zap.String("operation", "videos.list"),
			zap.String("region_code", regionCode),
			zap.Error(err),
		)
		return nil
	}

	f.logger.Info("collected trending videos",
		zap.String("region_code", regionCode),
		zap.Int("count", len(videos)),
	)
	return videos
}
