package youtube

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// MaxResults is the largest page videos.list accepts.
	MaxResults = 50

	// Quota cost in units of each call we make.
	// videos.list and channels.list both cost 1 unit regardless of parts.
	QuotaCostVideosList   = 1
	QuotaCostChannelsList = 1

	OperationVideosList   = "videos_list"
	OperationChannelsList = "channels_list"
)

// Channel parts requested by the lookups.
const (
	PartTopicDetails = "topicDetails"
	PartSnippet      = "snippet"
	PartStatistics   = "statistics"
)

var (
	// ErrAPIKeyRequired is returned by NewClient when no key is given.
	ErrAPIKeyRequired = errors.New("YouTube API key is required")

	// ErrChannelNotFound is returned when channels.list has no item for the id.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrInvalidDuration is returned for durations that are not PT#H#M#S.
	ErrInvalidDuration = errors.New("invalid ISO 8601 duration")
)

var videoParts = []string{"snippet", "contentDetails", "statistics"}

// CallObserver is notified after every API call.
type CallObserver interface {
	ObserveCall(operation string, quotaCost int, err error)
}

// Client wraps the YouTube Data API v3 client
type Client struct {
	service   *youtube.Service
	observers []CallObserver
}

// NewClient creates a new YouTube API client. Extra options are applied after
// the API key, so tests can point the client at a fake endpoint.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// AddObserver registers o to be told about each API call.
func (c *Client) AddObserver(o CallObserver) {
	c.observers = append(c.observers, o)
}

func (c *Client) observe(operation string, cost int, err error) {
	for _, o := range c.observers {
		o.ObserveCall(operation, cost, err)
	}
}

// ListMostPopular returns the most popular videos of a region in chart order.
// maxResults outside 1..50 is treated as 50.
func (c *Client) ListMostPopular(ctx context.Context, regionCode string, maxResults int64) ([]*youtube.Video, error) {
	if maxResults <= 0 || maxResults > MaxResults {
		maxResults = MaxResults
	}

	response, err := c.service.Videos.List(videoParts).
		Chart("mostPopular").
		RegionCode(regionCode).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	c.observe(OperationVideosList, QuotaCostVideosList, err)
	if err != nil {
		return nil, wrapError(err, "list most popular videos")
	}

	return response.Items, nil
}

// GetChannel fetches a single channel with the requested part.
// It returns ErrChannelNotFound when the API has no item for channelID.
func (c *Client) GetChannel(ctx context.Context, channelID, part string) (*youtube.Channel, error) {
	response, err := c.service.Channels.List([]string{part}).
		Id(channelID).
		Context(ctx).
		Do()
	c.observe(OperationChannelsList, QuotaCostChannelsList, err)
	if err != nil {
		return nil, wrapError(err, "list channel "+part)
	}

	if len(response.Items) == 0 {
		return nil, fmt.Errorf("channel %q: %w", channelID, ErrChannelNotFound)
	}

	return response.Items[0], nil
}

// wrapError attaches the operation and, for API errors, the HTTP status.
func wrapError(err error, operation string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: youtube api error [%d]: %w", operation, apiErr.Code, err)
	}
	return fmt.Errorf("%s: %w", operation, err)
}

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseVideoDuration converts an ISO 8601 time-only duration to a time.Duration.
// Example: "PT4M13S" -> 4m13s. Components may be omitted; day or week
// designators are not accepted.
func ParseVideoDuration(duration string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(duration)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, duration)
	}

	var seconds int64
	for i, unit := range []int64{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDuration, duration, err)
		}
		seconds += n * unit
	}

	if seconds > math.MaxInt64/int64(time.Second) {
		return 0, fmt.Errorf("%w: %q: out of range", ErrInvalidDuration, duration)
	}

	return time.Duration(seconds) * time.Second, nil
}
