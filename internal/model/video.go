package model

// VideoRecord is the normalized form of a single uploaded video.
// Ranked lists use the same type; ranking keys are never part of it.
type VideoRecord struct {
	VideoID      string  `json:"videoId"`
	Title        string  `json:"title"`
	PublishedAt  string  `json:"publishedAt"`
	ViewCount    uint64  `json:"viewCount"`
	LikeCount    uint64  `json:"likeCount"`
	CommentCount uint64  `json:"commentCount"`
	Thumbnail    *string `json:"thumbnail"`
}
