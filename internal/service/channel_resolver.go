package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	yt "google.golang.org/api/youtube/v3"

	"ad-tracker/youtube-trending-collector/internal/lookup"
	"ad-tracker/youtube-trending-collector/internal/service/youtube"
)

// guideCategoryHost marks the topic URIs that carry a usable category label.
const guideCategoryHost = "wikipedia.org"

// ChannelResolver looks up channel-level fields, one channels.list call per
// field and per row. Results are not cached.
type ChannelResolver struct {
	source VideoSource
	logger *zap.Logger
}

// NewChannelResolver creates a new channel resolver
func NewChannelResolver(source VideoSource, logger *zap.Logger) *ChannelResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelResolver{source: source, logger: logger}
}

// GuideCategory returns the trailing path segments of the channel's
// Wikipedia topic URIs, joined with ", ".
func (r *ChannelResolver) GuideCategory(ctx context.Context, channelID string) lookup.Result[string] {
	channel, res, ok := fetchChannel[string](ctx, r, channelID, youtube.PartTopicDetails, "guide category")
	if !ok {
		return res
	}
	if channel.TopicDetails == nil {
		return lookup.NotFound[string]()
	}

	var categories []string
	for _, uri := range channel.TopicDetails.TopicCategories {
		if !strings.Contains(uri, guideCategoryHost) {
			continue
		}
		categories = append(categories, uri[strings.LastIndex(uri, "/")+1:])
	}
	if len(categories) == 0 {
		return lookup.NotFound[string]()
	}

	return lookup.Found(strings.Join(categories, ", "))
}

// Country returns the country the channel declares in its snippet.
func (r *ChannelResolver) Country(ctx context.Context, channelID string) lookup.Result[string] {
	channel, res, ok := fetchChannel[string](ctx, r, channelID, youtube.PartSnippet, "country")
	if !ok {
		return res
	}
	if channel.Snippet == nil || channel.Snippet.Country == "" {
		return lookup.NotFound[string]()
	}
	return lookup.Found(channel.Snippet.Country)
}

// SubscriberCount returns the channel's current subscriber count. Channels
// that hide it resolve to NotFound.
func (r *ChannelResolver) SubscriberCount(ctx context.Context, channelID string) lookup.Result[uint64] {
	channel, res, ok := fetchChannel[uint64](ctx, r, channelID, youtube.PartStatistics, "subscriber count")
	if !ok {
		return res
	}
	stats := channel.Statistics
	if stats == nil || stats.HiddenSubscriberCount {
		return lookup.NotFound[uint64]()
	}
	return lookup.Found(stats.SubscriberCount)
}

// fetchChannel does the call shared by all lookups. When ok is false the
// returned result is what the lookup should answer.
func fetchChannel[T any](ctx context.Context, r *ChannelResolver, channelID, part, what string) (*yt.Channel, lookup.Result[T], bool) {
	if channelID == "" {
		return nil, lookup.NotFound[T](), false
	}

	channel, err := r.source.GetChannel(ctx, channelID, part)
	switch {
	case errors.Is(err, youtube.ErrChannelNotFound):
		r.logger.Debug("channel not found",
			zap.String("lookup", what),
			zap.String("channel_id", channelID),
		)
		return nil, lookup.NotFound[T](), false
	case err != nil:
		r.logger.Error("failed to resolve "+what,
			zap.String("operation", "channels.list"),
			zap.String("part", part),
			zap.String("channel_id", channelID),
			zap.Error(err),
		)
		return nil, lookup.Failed[T](err), false
	case channel == nil:
		return nil, lookup.NotFound[T](), false
	}

	return channel, lookup.Result[T]{}, true
}
