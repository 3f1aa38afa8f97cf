package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

func TestResolveChannelID_UsernameMatch(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TestChannel", r.URL.Query().Get("forUsername"))
		assert.Equal(t, []string{"id"}, multi(r.URL.Query(), "part"))
		writeJSON(w, list(item{"id": "UC123"}))
	})
	yt.handle("search", func(w http.ResponseWriter, r *http.Request) {
		t.Error("search must not be called when the username matches")
	})

	id, err := NewChannelRepo(yt.client(t)).ResolveChannelID(context.Background(), "TestChannel")
	require.NoError(t, err)
	assert.Equal(t, "UC123", id)
	assert.Equal(t, 0, yt.callCount("search"))
}

func TestResolveChannelID_FallsBackToSearch(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list())
	})
	yt.handle("search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "mkbhd", q.Get("q"))
		assert.Equal(t, "channel", q.Get("type"))
		assert.Equal(t, "1", q.Get("maxResults"))
		writeJSON(w, list(item{"id": item{"kind": "youtube#channel", "channelId": "UCsearch"}}))
	})

	id, err := NewChannelRepo(yt.client(t)).ResolveChannelID(context.Background(), "mkbhd")
	require.NoError(t, err)
	assert.Equal(t, "UCsearch", id)
}

func TestResolveChannelID_UsernameErrorIsSwallowed(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusServiceUnavailable, "backend unavailable")
	})
	yt.handle("search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list(item{"id": item{"channelId": "UCfallback"}}))
	})

	id, err := NewChannelRepo(yt.client(t)).ResolveChannelID(context.Background(), "someone")
	require.NoError(t, err)
	assert.Equal(t, "UCfallback", id)
}

func TestResolveChannelID_NotFound(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list())
	})
	yt.handle("search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list())
	})

	_, err := NewChannelRepo(yt.client(t)).ResolveChannelID(context.Background(), "nobody")
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
}

func TestResolveChannelID_SearchErrorIsUpstream(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list())
	})
	yt.handle("search", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusForbidden, "quotaExceeded")
	})

	_, err := NewChannelRepo(yt.client(t)).ResolveChannelID(context.Background(), "someone")
	var upErr *model.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusForbidden, upErr.StatusCode)
	assert.Contains(t, upErr.Error(), "quotaExceeded")
}

func TestFindByChannelID(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, []string{"UC123"}, multi(q, "id"))
		assert.Equal(t, []string{"snippet", "statistics", "contentDetails"}, multi(q, "part"))
		writeJSON(w, list(item{
			"id": "UC123",
			"snippet": item{
				"title":       "Test Channel",
				"description": "desc",
				"publishedAt": "2020-01-01T00:00:00Z",
				"country":     "US",
			},
			"statistics": item{
				"viewCount":             "1000",
				"subscriberCount":       "100",
				"hiddenSubscriberCount": false,
				"videoCount":            "3",
			},
			"contentDetails": item{"relatedPlaylists": item{"uploads": "UU123"}},
		}))
	})

	ch, err := NewChannelRepo(yt.client(t)).FindByChannelID(context.Background(), "UC123")
	require.NoError(t, err)
	assert.Equal(t, "UC123", ch.Id)
	assert.Equal(t, "Test Channel", ch.Snippet.Title)
	assert.Equal(t, uint64(1000), ch.Statistics.ViewCount)
	assert.Equal(t, "UU123", ch.ContentDetails.RelatedPlaylists.Uploads)
}

func TestFindByChannelID_Empty(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list())
	})

	_, err := NewChannelRepo(yt.client(t)).FindByChannelID(context.Background(), "UCgone")
	assert.ErrorIs(t, err, model.ErrChannelNotFound)
}

func TestFindByChannelID_ServerError(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusInternalServerError, "boom")
	})

	_, err := NewChannelRepo(yt.client(t)).FindByChannelID(context.Background(), "UC123")
	var upErr *model.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusInternalServerError, upErr.StatusCode)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, upErr.Body, "boom")
}

func TestFindByChannelID_MissingStatistics(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, list(item{"id": "UC123", "snippet": item{"title": "x"}}))
	})

	_, err := NewChannelRepo(yt.client(t)).FindByChannelID(context.Background(), "UC123")
	var upErr *model.UpstreamError
	assert.True(t, errors.As(err, &upErr))
}

func TestClient_OnCallHook(t *testing.T) {
	yt := newFakeYouTube(t)
	yt.handle("channels", func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "nope")
	})

	var got []int
	c, err := NewClient(context.Background(), ClientConfig{
		Endpoint: yt.URL + "/",
		OnCall: func(endpoint string, status int) {
			assert.Equal(t, EndpointChannels, endpoint)
			got = append(got, status)
		},
	})
	require.NoError(t, err)

	_, err = NewChannelRepo(c).FindByChannelID(context.Background(), "UC123")
	require.Error(t, err)
	assert.Equal(t, []int{http.StatusNotFound}, got)
}
