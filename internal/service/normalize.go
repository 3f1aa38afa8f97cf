package service

import (
	"google.golang.org/api/youtube/v3"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

// NormalizeChannel maps a raw channels.list item to its metadata and statistics.
// A hidden subscriber count is reported as nil whatever value upstream sent.
func NormalizeChannel(ch *youtube.Channel) (model.Channel, model.ChannelStatistics) {
	channel := model.Channel{ID: ch.Id}
	if sn := ch.Snippet; sn != nil {
		channel.Title = sn.Title
		channel.Description = sn.Description
		channel.PublishedAt = sn.PublishedAt
		channel.ThumbnailURL = PickThumbnail(sn.Thumbnails)
		channel.Country = sn.Country
	}
	if cd := ch.ContentDetails; cd != nil && cd.RelatedPlaylists != nil {
		channel.UploadsPlaylistID = cd.RelatedPlaylists.Uploads
	}

	var stats model.ChannelStatistics
	if st := ch.Statistics; st != nil {
		stats.ViewCount = st.ViewCount
		stats.VideoCount = st.VideoCount
		stats.HiddenSubscriberCount = st.HiddenSubscriberCount
		if !st.HiddenSubscriberCount {
			subs := st.SubscriberCount
			stats.SubscriberCount = &subs
		}
	}
	return channel, stats
}

// NormalizeVideo maps a raw videos.list item to a VideoRecord. Missing
// counters are reported as 0.
func NormalizeVideo(v *youtube.Video) model.VideoRecord {
	rec := model.VideoRecord{VideoID: v.Id}
	if sn := v.Snippet; sn != nil {
		rec.Title = sn.Title
		rec.PublishedAt = sn.PublishedAt
		rec.Thumbnail = PickThumbnail(sn.Thumbnails)
	}
	if st := v.Statistics; st != nil {
		rec.ViewCount = st.ViewCount
		rec.LikeCount = st.LikeCount
		rec.CommentCount = st.CommentCount
	}
	return rec
}

// PickThumbnail returns the URL of the largest available thumbnail, in the
// order maxres, standard, high, medium, default. Nil when none is present.
func PickThumbnail(t *youtube.ThumbnailDetails) *string {
	if t == nil {
		return nil
	}
	for _, th := range []*youtube.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			url := th.Url
			return &url
		}
	}
	return nil
}
