package repository

import (
	"context"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/youtube/v3"
)

const (
	// PageSize is the playlistItems page size (upstream maximum).
	PageSize = 50
	// BatchSize is the maximum number of video IDs per videos.list call.
	BatchSize = 50
	// DefaultUploadsLimit caps how many upload IDs are enumerated per channel.
	DefaultUploadsLimit = 1000
)

var videoDetailParts = []string{"snippet", "statistics"}

type VideoRepo struct {
	client      *Client
	concurrency int
}

// NewVideoRepo creates a VideoRepo. concurrency bounds how many videos.list
// batches run at once; 1 (or less) fetches them strictly one after another.
func NewVideoRepo(client *Client, concurrency int) *VideoRepo {
	return &VideoRepo{client: client, concurrency: max(concurrency, 1)}
}

// ListUploadVideoIDs walks the uploads playlist page by page and returns at
// most limit video IDs in playlist order. Once the limit is reached the rest
// of the current page is dropped and no further page is requested.
func (r *VideoRepo) ListUploadVideoIDs(ctx context.Context, playlistID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultUploadsLimit
	}

	ids := make([]string, 0, min(limit, PageSize))
	pageToken := ""
	for {
		resp, err := call(ctx, r.client, EndpointPlaylistItems, func(ctx context.Context) (*youtube.PlaylistItemListResponse, error) {
			req := r.client.yt.PlaylistItems.List([]string{"contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(PageSize)
			if pageToken != "" {
				req = req.PageToken(pageToken)
			}
			return req.Context(ctx).Do()
		})
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			if item == nil || item.ContentDetails == nil || item.ContentDetails.VideoId == "" {
				continue
			}
			ids = append(ids, item.ContentDetails.VideoId)
			if len(ids) >= limit {
				return ids, nil
			}
		}

		if resp.NextPageToken == "" {
			return ids, nil
		}
		pageToken = resp.NextPageToken
	}
}

// FindByVideoIDs fetches snippet and statistics for the given IDs in batches
// of BatchSize. Batches are concatenated in batch order; the order of videos
// inside a batch is whatever upstream returns.
func (r *VideoRepo) FindByVideoIDs(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	batches := ChunkIDs(ids, BatchSize)
	results := make([][]*youtube.Video, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			videos, err := r.fetchBatch(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, res := range results {
		total += len(res)
	}
	videos := make([]*youtube.Video, 0, total)
	for _, res := range results {
		videos = append(videos, res...)
	}
	return videos, nil
}

func (r *VideoRepo) fetchBatch(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	resp, err := call(ctx, r.client, EndpointVideos, func(ctx context.Context) (*youtube.VideoListResponse, error) {
		return r.client.yt.Videos.List(videoDetailParts).
			Id(ids...).
			MaxResults(BatchSize).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}

	videos := make([]*youtube.Video, 0, len(resp.Items))
	for _, v := range resp.Items {
		if v == nil {
			continue
		}
		if v.Snippet == nil {
			return nil, malformed(EndpointVideos, "video %s missing snippet", v.Id)
		}
		videos = append(videos, v)
	}
	return videos, nil
}

// ChunkIDs splits ids into consecutive slices of at most size elements.
func ChunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = BatchSize
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
