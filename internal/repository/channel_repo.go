package repository

import (
	"context"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/youtube/v3"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

var channelDetailParts = []string{"snippet", "statistics", "contentDetails"}

type ChannelRepo struct {
	client *Client
}

func NewChannelRepo(client *Client) *ChannelRepo {
	return &ChannelRepo{client: client}
}

// ResolveChannelID maps a channel name or legacy username to a channel ID.
//
// The legacy username lookup is tried first; any failure there is logged and
// treated as "no match". The fallback is a channel-type search whose first hit
// wins. ErrChannelNotFound is returned when neither path yields an ID.
func (r *ChannelRepo) ResolveChannelID(ctx context.Context, name string) (string, error) {
	id, err := r.findByUsername(ctx, name)
	if err != nil {
		log.Warn().Err(err).Str("channel_name", name).Msg("youtube: username lookup failed, falling back to search")
	} else if id != "" {
		return id, nil
	}

	resp, err := call(ctx, r.client, EndpointSearch, func(ctx context.Context) (*youtube.SearchListResponse, error) {
		return r.client.yt.Search.List([]string{"id"}).
			Q(name).
			Type("channel").
			MaxResults(1).
			Context(ctx).
			Do()
	})
	if err != nil {
		return "", err
	}

	if len(resp.Items) > 0 && resp.Items[0].Id != nil && resp.Items[0].Id.ChannelId != "" {
		return resp.Items[0].Id.ChannelId, nil
	}
	return "", model.ErrChannelNotFound
}

func (r *ChannelRepo) findByUsername(ctx context.Context, name string) (string, error) {
	resp, err := call(ctx, r.client, EndpointChannelsByUsername, func(ctx context.Context) (*youtube.ChannelListResponse, error) {
		return r.client.yt.Channels.List([]string{"id"}).
			ForUsername(name).
			MaxResults(1).
			Context(ctx).
			Do()
	})
	if err != nil {
		return "", err
	}
	if len(resp.Items) == 0 {
		return "", nil
	}
	return resp.Items[0].Id, nil
}

// FindByChannelID fetches snippet, statistics and content details of a channel
// in a single request.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, channelID string) (*youtube.Channel, error) {
	resp, err := call(ctx, r.client, EndpointChannels, func(ctx context.Context) (*youtube.ChannelListResponse, error) {
		return r.client.yt.Channels.List(channelDetailParts).
			Id(channelID).
			MaxResults(1).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 || resp.Items[0] == nil {
		return nil, model.ErrChannelNotFound
	}

	ch := resp.Items[0]
	if ch.Snippet == nil || ch.Statistics == nil {
		return nil, malformed(EndpointChannels, "channel %s missing snippet or statistics", channelID)
	}
	return ch, nil
}
