package model

import (
	"time"

	"ad-tracker/youtube-trending-collector/internal/lookup"
)

// EnrichedRow is one trending video combined with its derived and
// channel-level fields. Looked-up and computed values keep their lookup
// status; rendering to CSV cells happens in the export package.
type EnrichedRow struct {
	// Position is the 1-based rank in the fetched chart.
	Position int

	// Video fields
	VideoID         string
	Title           string
	Description     string
	Tags            []string
	CategoryID      string
	Language        string // defaultAudioLanguage, falling back to defaultLanguage
	PublishedAt     string // as returned by the API (RFC 3339, UTC)
	ThumbnailMaxres string
	ViewCount       uint64
	LikeCount       uint64
	CommentCount    uint64

	// Channel fields
	ChannelID    string
	ChannelTitle string

	// Derived fields
	Duration          lookup.Result[time.Duration]
	EngagementRate    lookup.Result[float64] // percent
	HoursSincePublish lookup.Result[float64]

	// Per-channel lookups
	GuideCategory lookup.Result[string]
	Country       lookup.Result[string]
	Subscribers   lookup.Result[uint64]
}
