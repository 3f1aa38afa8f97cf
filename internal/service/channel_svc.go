package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
	"google.golang.org/api/youtube/v3"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
	"github.com/Raman0101/YT-ANALYSIS/internal/repository"
)

// fetchedAtLayout renders timestamps like JavaScript's Date.toISOString.
const fetchedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// ChannelFinder resolves channel names and loads channel details.
type ChannelFinder interface {
	ResolveChannelID(ctx context.Context, name string) (string, error)
	FindByChannelID(ctx context.Context, channelID string) (*youtube.Channel, error)
}

// VideoFinder enumerates uploads and loads per-video statistics.
type VideoFinder interface {
	ListUploadVideoIDs(ctx context.Context, playlistID string, limit int) ([]string, error)
	FindByVideoIDs(ctx context.Context, ids []string) ([]*youtube.Video, error)
}

// ChannelServiceOptions tunes a ChannelService. Zero values select defaults.
type ChannelServiceOptions struct {
	// UploadsLimit caps enumerated upload IDs (default repository.DefaultUploadsLimit).
	UploadsLimit int
	// Now is the clock used for ranking and fetchedAt (default time.Now).
	Now func() time.Time
	// OnAnalyzed is called after every successful upstream analysis.
	OnAnalyzed func(elapsed time.Duration, quotaUsed int)
}

type ChannelService struct {
	channels     ChannelFinder
	videos       VideoFinder
	cache        *CacheService[model.AnalysisResult]
	uploadsLimit int
	now          func() time.Time
	onAnalyzed   func(time.Duration, int)
	inflight     singleflight.Group
}

func NewChannelService(channels ChannelFinder, videos VideoFinder, cache *CacheService[model.AnalysisResult], opts ChannelServiceOptions) *ChannelService {
	if opts.UploadsLimit <= 0 {
		opts.UploadsLimit = repository.DefaultUploadsLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ChannelService{
		channels:     channels,
		videos:       videos,
		cache:        cache,
		uploadsLimit: opts.UploadsLimit,
		now:          opts.Now,
		onAnalyzed:   opts.OnAnalyzed,
	}
}

// AnalysisCacheKey is the cache key of a channel name; lookups are case-insensitive.
func AnalysisCacheKey(channelName string) string {
	return MakeKey("analyze", strings.ToLower(channelName))
}

// AnalyzeChannel returns the analysis of a channel name.
// Uses cache-aside: a cached result is returned as-is with no upstream calls;
// otherwise the full pipeline runs and a successful result is cached.
// Concurrent misses for the same key share a single pipeline run.
//
// Errors are model.ErrChannelNotFound or *model.UpstreamError. A channel
// without an uploads playlist is not an error; it is reported in Errors.
func (s *ChannelService) AnalyzeChannel(ctx context.Context, channelName string) (*model.AnalysisResult, error) {
	key := AnalysisCacheKey(channelName)
	if cached, ok := s.cache.Get(key); ok {
		return cached.Clone(), nil
	}

	return s.load(ctx, key, channelName, true)
}

// Refresh runs the pipeline regardless of any cached entry and replaces it.
// It never joins an in-flight AnalyzeChannel, which may answer from cache.
func (s *ChannelService) Refresh(ctx context.Context, channelName string) (*model.AnalysisResult, error) {
	return s.load(ctx, AnalysisCacheKey(channelName), channelName, false)
}

func (s *ChannelService) load(ctx context.Context, key, channelName string, useCache bool) (*model.AnalysisResult, error) {
	// The shared run must not be cut short by whichever caller started it.
	runCtx := context.WithoutCancel(ctx)
	flightKey := key
	if !useCache {
		flightKey = MakeKey(key, "refresh")
	}
	v, err, _ := s.inflight.Do(flightKey, func() (any, error) {
		if useCache {
			// Another caller may have filled the entry while we waited.
			if cached, ok := s.cache.Peek(key); ok {
				return &cached, nil
			}
		}
		result, err := s.analyze(runCtx, channelName)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, *result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	// Callers sharing a run each get their own copy.
	return v.(*model.AnalysisResult).Clone(), nil
}

func (s *ChannelService) analyze(ctx context.Context, channelName string) (*model.AnalysisResult, error) {
	start := time.Now()

	channelID, err := s.channels.ResolveChannelID(ctx, channelName)
	if err != nil {
		return nil, err
	}

	raw, err := s.channels.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	channel, stats := NormalizeChannel(raw)
	if channel.ID == "" {
		channel.ID = channelID
	}

	warnings := []string{}
	var videoIDs []string
	if channel.UploadsPlaylistID == "" {
		warnings = append(warnings, model.WarnUploadsPlaylistNotFound)
		log.Info().Str("channel_id", channelID).Msg("analyze: channel has no uploads playlist")
	} else {
		videoIDs, err = s.videos.ListUploadVideoIDs(ctx, channel.UploadsPlaylistID, s.uploadsLimit)
		if err != nil {
			return nil, err
		}
	}

	videos := []model.VideoRecord{}
	if len(videoIDs) > 0 {
		rawVideos, err := s.videos.FindByVideoIDs(ctx, videoIDs)
		if err != nil {
			return nil, err
		}
		videos = make([]model.VideoRecord, 0, len(rawVideos))
		for _, v := range rawVideos {
			videos = append(videos, NormalizeVideo(v))
		}
	}

	now := s.now()
	quota := QuotaEstimate(len(videoIDs))
	result := &model.AnalysisResult{
		Channel:               channel,
		Statistics:            stats,
		RecentSummary:         model.RecentSummary{},
		TopVideos:             TopByViews(videos, TopN),
		TopVideosByEngagement: TopByEngagement(videos, now, TopN),
		Errors:                warnings,
		Meta: model.AnalysisMeta{
			FetchedAt:         now.UTC().Format(fetchedAtLayout),
			QuotaUsedEstimate: quota,
		},
	}

	elapsed := time.Since(start)
	if s.onAnalyzed != nil {
		s.onAnalyzed(elapsed, quota)
	}
	log.Info().
		Str("channel_id", channelID).
		Int("video_ids", len(videoIDs)).
		Int("videos", len(videos)).
		Int("quota_estimate", quota).
		Dur("duration_ms", elapsed).
		Msg("analyze: complete")

	return result, nil
}

// QuotaEstimate approximates the quota units spent on one analysis of a
// channel with n enumerated uploads: one resolution and one details call,
// plus one playlist page and one videos batch per 50 uploads.
func QuotaEstimate(n int) int {
	pages := (n + repository.PageSize - 1) / repository.PageSize
	return 2 + 2*pages
}
