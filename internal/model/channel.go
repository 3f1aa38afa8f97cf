package model

// Channel is the public metadata of a YouTube channel, captured once per analysis.
type Channel struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	PublishedAt       string  `json:"publishedAt"`
	ThumbnailURL      *string `json:"thumbnailUrl"`
	Country           string  `json:"country,omitempty"`
	UploadsPlaylistID string  `json:"uploadsPlaylistId,omitempty"`
}

// ChannelStatistics holds the aggregate counters of a channel.
// SubscriberCount is nil whenever HiddenSubscriberCount is true.
type ChannelStatistics struct {
	SubscriberCount       *uint64 `json:"subscriberCount"`
	ViewCount             uint64  `json:"viewCount"`
	VideoCount            uint64  `json:"videoCount"`
	HiddenSubscriberCount bool    `json:"hiddenSubscriberCount"`
}
