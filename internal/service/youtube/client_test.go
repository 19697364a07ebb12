package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), "test-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

type recordingObserver struct {
	mu    sync.Mutex
	calls []string
}

func (o *recordingObserver) ObserveCall(operation string, quotaCost int, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, fmt.Sprintf("%s/%d/%t", operation, quotaCost, err == nil))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)

	client, err := NewClient(context.Background(), "key")
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestClient_ListMostPopular(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/youtube/v3/videos"), r.URL.Path)
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"id":"first","snippet":{"title":"One"},"statistics":{"viewCount":"10"}},
			{"id":"second","snippet":{"title":"Two"}}
		]}`)
	})

	obs := &recordingObserver{}
	client.AddObserver(obs)

	videos, err := client.ListMostPopular(context.Background(), "BR", 50)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "first", videos[0].Id)
	assert.Equal(t, uint64(10), videos[0].Statistics.ViewCount)
	assert.Equal(t, "second", videos[1].Id)

	assert.Equal(t, "mostPopular", firstValue(gotQuery, "chart"))
	assert.Equal(t, "BR", firstValue(gotQuery, "regionCode"))
	assert.Equal(t, "50", firstValue(gotQuery, "maxResults"))
	assert.Equal(t, "snippet,contentDetails,statistics", strings.Join(gotQuery["part"], ","))
	assert.Equal(t, []string{"videos_list/1/true"}, obs.calls)
}

func TestClient_ListMostPopular_ClampsMaxResults(t *testing.T) {
	tests := []struct {
		name string
		in   int64
		want string
	}{
		{"zero", 0, "50"},
		{"too many", 80, "50"},
		{"in range", 10, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Query().Get("maxResults")
				fmt.Fprint(w, `{"items":[]}`)
			})

			_, err := client.ListMostPopular(context.Background(), "BR", tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ListMostPopular_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"quotaExceeded"}}`)
	})
	obs := &recordingObserver{}
	client.AddObserver(obs)

	videos, err := client.ListMostPopular(context.Background(), "BR", 50)
	require.Error(t, err)
	assert.Nil(t, videos)
	assert.Contains(t, err.Error(), "list most popular videos")
	assert.Contains(t, err.Error(), "[403]")

	var apiErr *googleapi.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"videos_list/1/false"}, obs.calls)
}

func TestClient_ListMostPopular_NonNumericCount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"id":"ok","statistics":{"viewCount":"10"}},
			{"id":"bad","statistics":{"viewCount":"lots"}}
		]}`)
	})
	obs := &recordingObserver{}
	client.AddObserver(obs)

	videos, err := client.ListMostPopular(context.Background(), "BR", 50)

	require.Error(t, err, "typed decoding rejects the whole listing")
	assert.Nil(t, videos)
	assert.Contains(t, err.Error(), "list most popular videos")
	assert.Equal(t, []string{"videos_list/1/false"}, obs.calls)
}

func TestClient_GetChannel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/youtube/v3/channels"), r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "statistics", strings.Join(q["part"], ","))
		if strings.Join(q["id"], ",") == "UCmissing" {
			fmt.Fprint(w, `{"items":[]}`)
			return
		}
		fmt.Fprint(w, `{"items":[{"id":"UCfound","statistics":{"subscriberCount":"1234"}}]}`)
	})

	ch, err := client.GetChannel(context.Background(), "UCfound", PartStatistics)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), ch.Statistics.SubscriberCount)

	_, err = client.GetChannel(context.Background(), "UCmissing", PartStatistics)
	assert.ErrorIs(t, err, ErrChannelNotFound)
}

func TestParseVideoDuration(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"hours minutes seconds", "PT1H5M3S", time.Hour + 5*time.Minute + 3*time.Second, false},
		{"seconds only", "PT45S", 45 * time.Second, false},
		{"zero seconds", "PT0S", 0, false},
		{"minutes and seconds", "PT4M13S", 4*time.Minute + 13*time.Second, false},
		{"hours only", "PT2H", 2 * time.Hour, false},
		{"unnormalised minutes", "PT90M", 90 * time.Minute, false},
		{"bare prefix", "PT", 0, false},
		{"empty", "", 0, true},
		{"garbage", "not a duration", 0, true},
		{"day designator", "P1DT2H", 0, true},
		{"live stream", "P0D", 0, true},
		{"component overflow", "PT99999999999H", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseVideoDuration(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func firstValue(q map[string][]string, key string) string {
	if v := q[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
