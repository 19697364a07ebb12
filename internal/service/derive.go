package service

import (
	"fmt"
	"strings"
	"time"

	"ad-tracker/youtube-trending-collector/internal/lookup"
)

// publishedLayouts are tried in order on the publish timestamp once its
// trailing "Z" is stripped. The result is read as UTC.
var publishedLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// EngagementRate returns (likes+comments)/views as a percentage.
// Videos without views have no rate.
func EngagementRate(views, likes, comments uint64) lookup.Result[float64] {
	if views == 0 {
		return lookup.NotFound[float64]()
	}
	return lookup.Found(float64(likes+comments) / float64(views) * 100)
}

// HoursSince returns the hours elapsed between publishedAt and now.
func HoursSince(publishedAt string, now time.Time) lookup.Result[float64] {
	published, err := parsePublishedAt(publishedAt)
	if err != nil {
		return lookup.Failed[float64](err)
	}
	return lookup.Found(now.UTC().Sub(published).Hours())
}

func parsePublishedAt(s string) (time.Time, error) {
	trimmed := strings.TrimSuffix(s, "Z")
	for _, layout := range publishedLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse published time %q: unsupported format", s)
}
