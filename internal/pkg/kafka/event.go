package kafka

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	EventView    = "view"
	EventLike    = "like"
	EventUnlike  = "unlike"
	EventComment = "comment"
)

// EngagementEvent 互动事件
type EngagementEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	PostID string    `json:"post_id"`
	At     time.Time `json:"at"`
}

func NewEngagementEvent(eventType string, userID, postID primitive.ObjectID) *EngagementEvent {
	return &EngagementEvent{
		Type:   eventType,
		UserID: userID.Hex(),
		PostID: postID.Hex(),
		At:     time.Now().UTC(),
	}
}
