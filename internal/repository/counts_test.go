package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCounts(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantStats map[string]any
		changed   bool
	}{
		{
			name:      "valid counts untouched",
			in:        `{"items":[{"statistics":{"viewCount":"10","likeCount":"2"}}]}`,
			wantStats: map[string]any{"viewCount": "10", "likeCount": "2"},
		},
		{
			name:      "non-numeric becomes zero",
			in:        `{"items":[{"statistics":{"viewCount":"n/a","likeCount":"2"}}]}`,
			wantStats: map[string]any{"viewCount": "0", "likeCount": "2"},
			changed:   true,
		},
		{
			name:      "empty string becomes zero",
			in:        `{"items":[{"statistics":{"subscriberCount":"","hiddenSubscriberCount":true}}]}`,
			wantStats: map[string]any{"subscriberCount": "0", "hiddenSubscriberCount": true},
			changed:   true,
		},
		{
			name:      "negative and fractional become zero",
			in:        `{"items":[{"statistics":{"viewCount":"-5","likeCount":"1.5"}}]}`,
			wantStats: map[string]any{"viewCount": "0", "likeCount": "0"},
			changed:   true,
		},
		{
			name:      "bare number quoted",
			in:        `{"items":[{"statistics":{"viewCount":42}}]}`,
			wantStats: map[string]any{"viewCount": "42"},
			changed:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := normalizeCounts([]byte(tt.in))
			assert.Equal(t, tt.changed, changed)

			var doc struct {
				Items []struct {
					Statistics map[string]any `json:"statistics"`
				} `json:"items"`
			}
			require.NoError(t, json.Unmarshal(out, &doc))
			require.Len(t, doc.Items, 1)
			assert.Equal(t, tt.wantStats, doc.Items[0].Statistics)
		})
	}
}

func TestNormalizeCounts_PassesThroughOtherBodies(t *testing.T) {
	for _, in := range []string{`not json`, `{"error":{"code":403}}`, `{"items":[{"id":"x"}]}`} {
		out, changed := normalizeCounts([]byte(in))
		assert.False(t, changed, in)
		assert.Equal(t, in, string(out))
	}
}

func TestFindByVideoIDs_NonNumericCountsReadAsZero(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("videos", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list(
			item{
				"id":         "v1",
				"snippet":    item{"title": "a"},
				"statistics": item{"viewCount": "n/a", "likeCount": "7", "commentCount": ""},
			},
			item{
				"id":         "v2",
				"snippet":    item{"title": "b"},
				"statistics": item{"viewCount": "15"},
			},
		))
	})

	videos, err := NewVideoRepo(yt.client(t), 1).FindByVideoIDs(context.Background(), []string{"v1", "v2"})
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, uint64(0), videos[0].Statistics.ViewCount)
	assert.Equal(t, uint64(7), videos[0].Statistics.LikeCount)
	assert.Equal(t, uint64(0), videos[0].Statistics.CommentCount)
	assert.Equal(t, uint64(15), videos[1].Statistics.ViewCount)
}

func TestFindByChannelID_HiddenEmptySubscriberCount(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list(item{
			"id":      "UC123",
			"snippet": item{"title": "Hidden"},
			"statistics": item{
				"viewCount":             "1000",
				"subscriberCount":       "",
				"hiddenSubscriberCount": true,
				"videoCount":            "n/a",
			},
		}))
	})

	ch, err := NewChannelRepo(yt.client(t)).FindByChannelID(context.Background(), "UC123")
	require.NoError(t, err)
	assert.True(t, ch.Statistics.HiddenSubscriberCount)
	assert.Equal(t, uint64(1000), ch.Statistics.ViewCount)
	assert.Equal(t, uint64(0), ch.Statistics.VideoCount)
}

func TestNewClient_SendsAPIKey(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("videos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.URL.Query().Get("key"))
		writeJSON(w, list())
	})

	c, err := NewClient(context.Background(), ClientConfig{
		APIKey:   "secret-key",
		Endpoint: yt.URL + "/",
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)

	_, err = NewVideoRepo(c, 1).FindByVideoIDs(context.Background(), []string{"v1"})
	require.NoError(t, err)
	assert.Equal(t, 1, yt.callCount("videos"))
}
