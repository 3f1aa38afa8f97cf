package model

import "slices"

// WarnUploadsPlaylistNotFound is recorded when a channel exposes no uploads playlist.
const WarnUploadsPlaylistNotFound = "Uploads playlist not found"

// RecentSummary is reserved for rolling 30-day metrics. Both fields are always null.
type RecentSummary struct {
	Last30DaysViews       *int64 `json:"last30daysViews"`
	Last30DaysSubscribers *int64 `json:"last30daysSubscribers"`
}

// AnalysisMeta carries bookkeeping about how a result was produced.
type AnalysisMeta struct {
	FetchedAt         string `json:"fetchedAt"`
	QuotaUsedEstimate int    `json:"quotaUsedEstimate"`
}

// AnalysisResult is the API response for GET /api/analyze and the unit stored in cache.
type AnalysisResult struct {
	Channel               Channel           `json:"channel"`
	Statistics            ChannelStatistics `json:"statistics"`
	RecentSummary         RecentSummary     `json:"recentSummary"`
	TopVideos             []VideoRecord     `json:"topVideos"`
	TopVideosByEngagement []VideoRecord     `json:"topVideosByEngagement"`
	Errors                []string          `json:"errors"`
	Meta                  AnalysisMeta      `json:"meta"`
}

// Clone returns a deep copy, so a caller can modify it without affecting the
// cached entry it came from.
func (r AnalysisResult) Clone() *AnalysisResult {
	out := r
	out.Channel.ThumbnailURL = clonePtr(r.Channel.ThumbnailURL)
	out.Statistics.SubscriberCount = clonePtr(r.Statistics.SubscriberCount)
	out.TopVideos = cloneVideos(r.TopVideos)
	out.TopVideosByEngagement = cloneVideos(r.TopVideosByEngagement)
	out.Errors = slices.Clone(r.Errors)
	return &out
}

func cloneVideos(videos []VideoRecord) []VideoRecord {
	out := slices.Clone(videos)
	for i := range out {
		out[i].Thumbnail = clonePtr(out[i].Thumbnail)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ErrorResponse is the envelope returned for every non-2xx API response.
type ErrorResponse struct {
	Errors []string          `json:"errors"`
	Meta   ErrorResponseMeta `json:"meta"`
}

type ErrorResponseMeta struct {
	Status int `json:"status"`
}
