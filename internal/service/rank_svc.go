package service

import (
	"cmp"
	"slices"
	"time"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

// TopN is the length of each ranked video list.
const TopN = 10

const day = 24 * time.Hour

// TopByViews returns the n most viewed videos, highest first. Videos with
// equal view counts keep their input order.
func TopByViews(videos []model.VideoRecord, n int) []model.VideoRecord {
	sorted := make([]model.VideoRecord, len(videos))
	copy(sorted, videos)
	slices.SortStableFunc(sorted, func(a, b model.VideoRecord) int {
		return cmp.Compare(b.ViewCount, a.ViewCount)
	})
	return sorted[:min(n, len(sorted))]
}

// TopByEngagement returns the n videos with the highest engagement score as
// of now, highest first. Ties keep their input order.
func TopByEngagement(videos []model.VideoRecord, now time.Time, n int) []model.VideoRecord {
	type scored struct {
		rec   model.VideoRecord
		score float64
	}

	ranked := make([]scored, len(videos))
	for i, v := range videos {
		ranked[i] = scored{rec: v, score: EngagementScore(v, now)}
	}
	slices.SortStableFunc(ranked, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	top := make([]model.VideoRecord, 0, min(n, len(ranked)))
	for _, s := range ranked[:min(n, len(ranked))] {
		top = append(top, s.rec)
	}
	return top
}

// EngagementScore is (views + likes + comments) / AgeDays.
func EngagementScore(v model.VideoRecord, now time.Time) float64 {
	total := float64(v.ViewCount) + float64(v.LikeCount) + float64(v.CommentCount)
	return total / float64(AgeDays(v.PublishedAt, now))
}

// AgeDays is the number of whole days between publishedAt and now, never
// less than 1. An unparseable timestamp counts as 1 day.
func AgeDays(publishedAt string, now time.Time) int64 {
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return 1
	}
	return max(int64(now.Sub(published)/day), 1)
}
