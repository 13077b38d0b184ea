package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Like 点赞记录，(user_id, post_id) 唯一
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	PostID    primitive.ObjectID `bson:"post_id" json:"postId"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

func (Like) CollectionName() string {
	return "likes"
}
