package service

import (
	"context"
	"errors"

	yt "google.golang.org/api/youtube/v3"

	"ad-tracker/youtube-trending-collector/internal/lookup"
	"ad-tracker/youtube-trending-collector/internal/model"
)

// ErrNoVideos is returned by Collector.Run when the chart came back empty,
// either because the listing failed or because it had no items.
var ErrNoVideos = errors.New("no videos collected")

// Field names used when reporting lookup outcomes.
const (
	FieldGuideCategory  = "guide_category"
	FieldCountry        = "country"
	FieldSubscribers    = "subscribers"
	FieldDuration       = "duration"
	FieldEngagementRate = "engagement_rate"
	FieldHoursSince     = "hours_since_publish"
)

// VideoSource is the part of the YouTube API the pipeline reads from.
// *youtube.Client satisfies it.
type VideoSource interface {
	ListMostPopular(ctx context.Context, regionCode string, maxResults int64) ([]*yt.Video, error)
	GetChannel(ctx context.Context, channelID, part string) (*yt.Channel, error)
}

// ChannelLookup resolves the per-channel fields of a row.
type ChannelLookup interface {
	GuideCategory(ctx context.Context, channelID string) lookup.Result[string]
	Country(ctx context.Context, channelID string) lookup.Result[string]
	SubscriberCount(ctx context.Context, channelID string) lookup.Result[uint64]
}

// LookupObserver is told the outcome of every per-row field.
type LookupObserver interface {
	ObserveLookup(field string, status lookup.Status)
}

// Exporter writes the enriched rows somewhere and returns where.
type Exporter interface {
	Export(rows []*model.EnrichedRow) (string, error)
}

type nopLookupObserver struct{}

func (nopLookupObserver) ObserveLookup(string, lookup.Status) {}
