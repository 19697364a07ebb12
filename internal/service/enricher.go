package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	yt "google.golang.org/api/youtube/v3"

	"ad-tracker/youtube-trending-collector/internal/lookup"
	"ad-tracker/youtube-trending-collector/internal/model"
	"ad-tracker/youtube-trending-collector/internal/service/youtube"
)

const defaultWorkers = 4

// Enricher turns fetched videos into rows, resolving the channel fields and
// computing the derived ones. Rows are built concurrently but always come
// back in chart order.
type Enricher struct {
	lookups  ChannelLookup
	logger   *zap.Logger
	observer LookupObserver
	workers  int
	now      func() time.Time
}

// NewEnricher creates a new enricher. workers bounds how many rows are
// resolved at once; 1 builds them strictly one after another.
func NewEnricher(lookups ChannelLookup, logger *zap.Logger, workers int) *Enricher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Enricher{
		lookups:  lookups,
		logger:   logger,
		observer: nopLookupObserver{},
		workers:  workers,
		now:      time.Now,
	}
}

// SetClock replaces the clock used for the hours-since-publish field.
func (e *Enricher) SetClock(now func() time.Time) {
	e.now = now
}

// SetLookupObserver registers o to be told every field outcome.
func (e *Enricher) SetLookupObserver(o LookupObserver) {
	if o == nil {
		o = nopLookupObserver{}
	}
	e.observer = o
}

// Enrich builds one row per video, in the order given. Once ctx is done the
// remaining rows are left without lookups; callers must check ctx before
// using the result.
func (e *Enricher) Enrich(ctx context.Context, videos []*yt.Video) []*model.EnrichedRow {
	rows := make([]*model.EnrichedRow, len(videos))

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, video := range videos {
		g.Go(func() error {
			if ctx.Err() != nil {
				rows[i] = &model.EnrichedRow{Position: i + 1}
				return nil
			}
			rows[i] = e.buildRow(ctx, i+1, video)
			return nil
		})
	}
	_ = g.Wait() // row builders never fail

	if err := ctx.Err(); err != nil {
		e.logger.Warn("enrichment interrupted", zap.Int("rows", len(rows)), zap.Error(err))
		return rows
	}
	e.logger.Info("enriched trending videos", zap.Int("rows", len(rows)))
	return rows
}

func (e *Enricher) buildRow(ctx context.Context, position int, video *yt.Video) *model.EnrichedRow {
	row := &model.EnrichedRow{Position: position}
	if video == nil {
		return row
	}
	row.VideoID = video.Id

	if s := video.Snippet; s != nil {
		row.Title = s.Title
		row.Description = s.Description
		row.Tags = s.Tags
		row.CategoryID = s.CategoryId
		row.Language = s.DefaultAudioLanguage
		if row.Language == "" {
			row.Language = s.DefaultLanguage
		}
		row.PublishedAt = s.PublishedAt
		row.ChannelID = s.ChannelId
		row.ChannelTitle = s.ChannelTitle
		if s.Thumbnails != nil && s.Thumbnails.Maxres != nil {
			row.ThumbnailMaxres = s.Thumbnails.Maxres.Url
		}
	}

	if st := video.Statistics; st != nil {
		row.ViewCount = st.ViewCount
		row.LikeCount = st.LikeCount
		row.CommentCount = st.CommentCount
	}

	var rawDuration string
	if video.ContentDetails != nil {
		rawDuration = video.ContentDetails.Duration
	}
	row.Duration = e.duration(video.Id, rawDuration)

	row.GuideCategory = e.lookups.GuideCategory(ctx, row.ChannelID)
	row.Country = e.lookups.Country(ctx, row.ChannelID)

	row.EngagementRate = EngagementRate(row.ViewCount, row.LikeCount, row.CommentCount)

	row.HoursSincePublish = HoursSince(row.PublishedAt, e.now())
	if row.HoursSincePublish.Status == lookup.StatusFailed {
		e.logger.Warn("failed to compute hours since publish",
			zap.String("video_id", row.VideoID),
			zap.Error(row.HoursSincePublish.Err),
		)
	}

	row.Subscribers = e.lookups.SubscriberCount(ctx, row.ChannelID)

	e.observer.ObserveLookup(FieldDuration, row.Duration.Status)
	e.observer.ObserveLookup(FieldGuideCategory, row.GuideCategory.Status)
	e.observer.ObserveLookup(FieldCountry, row.Country.Status)
	e.observer.ObserveLookup(FieldEngagementRate, row.EngagementRate.Status)
	e.observer.ObserveLookup(FieldHoursSince, row.HoursSincePublish.Status)
	e.observer.ObserveLookup(FieldSubscribers, row.Subscribers.Status)

	return row
}

func (e *Enricher) duration(videoID, raw string) lookup.Result[time.Duration] {
	d, err := youtube.ParseVideoDuration(raw)
	if err != nil {
		e.logger.Warn("failed to parse video duration",
			zap.String("video_id", videoID),
			zap.Error(err),
		)
		return lookup.Failed[time.Duration](err)
	}
	return lookup.Found(d)
}
