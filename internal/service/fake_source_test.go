package service

import (
	"context"
	"sync"

	"google.golang.org/api/youtube/v3"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

// fakeSource is an in-memory ChannelFinder and VideoFinder that counts calls.
type fakeSource struct {
	mu sync.Mutex

	ids      map[string]string // channel name -> channel ID
	channels map[string]*youtube.Channel
	uploads  map[string][]string
	videos   map[string]*youtube.Video

	channelErr error
	gate       chan struct{} // when set, ResolveChannelID blocks until closed

	calls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		ids:      make(map[string]string),
		channels: make(map[string]*youtube.Channel),
		uploads:  make(map[string][]string),
		videos:   make(map[string]*youtube.Video),
		calls:    make(map[string]int),
	}
}

func (f *fakeSource) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

func (f *fakeSource) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeSource) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *fakeSource) ResolveChannelID(ctx context.Context, name string) (string, error) {
	f.count("resolve")
	if f.gate != nil {
		<-f.gate
	}
	id, ok := f.ids[name]
	if !ok {
		return "", model.ErrChannelNotFound
	}
	return id, nil
}

func (f *fakeSource) FindByChannelID(ctx context.Context, channelID string) (*youtube.Channel, error) {
	f.count("channel")
	if f.channelErr != nil {
		return nil, f.channelErr
	}
	ch, ok := f.channels[channelID]
	if !ok {
		return nil, model.ErrChannelNotFound
	}
	return ch, nil
}

func (f *fakeSource) ListUploadVideoIDs(ctx context.Context, playlistID string, limit int) ([]string, error) {
	f.count("uploads")
	ids := f.uploads[playlistID]
	return ids[:min(limit, len(ids))], nil
}

func (f *fakeSource) FindByVideoIDs(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	f.count("videos")
	out := make([]*youtube.Video, 0, len(ids))
	for _, id := range ids {
		if v, ok := f.videos[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// addChannel registers a channel reachable under name with the given uploads.
func (f *fakeSource) addChannel(name, id string, stats *youtube.ChannelStatistics, videos ...*youtube.Video) {
	f.ids[name] = id
	ch := &youtube.Channel{
		Id: id,
		Snippet: &youtube.ChannelSnippet{
			Title:       name,
			Description: "about " + name,
			PublishedAt: "2015-06-01T00:00:00Z",
			Country:     "US",
		},
		Statistics: stats,
	}
	if videos != nil {
		playlist := "UU" + id
		ch.ContentDetails = &youtube.ChannelContentDetails{
			RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{Uploads: playlist},
		}
		for _, v := range videos {
			f.uploads[playlist] = append(f.uploads[playlist], v.Id)
			f.videos[v.Id] = v
		}
	}
	f.channels[id] = ch
}

func rawVideo(id string, views, likes, comments uint64, publishedAt string) *youtube.Video {
	return &youtube.Video{
		Id:      id,
		Snippet: &youtube.VideoSnippet{Title: "video " + id, PublishedAt: publishedAt},
		Statistics: &youtube.VideoStatistics{
			ViewCount:    views,
			LikeCount:    likes,
			CommentCount: comments,
		},
	}
}
