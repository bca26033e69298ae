package model

// Like target kinds. A like row points at exactly one of video, comment or
// tweet; the kind keeps the toggle queries on a single table.
const (
	LikeTargetVideo   = "video"
	LikeTargetComment = "comment"
	LikeTargetTweet   = "tweet"
)

type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
}

type ToggleSubscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}
