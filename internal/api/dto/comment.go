package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CommentView 帖子详情中的评论
type CommentView struct {
	ID        primitive.ObjectID `json:"_id"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"createdAt"`
	User      *UserBrief         `json:"userId"`
}

type CommentCreateDTO struct {
	PostID  string `json:"postId" validate:"required"`
	Content string `json:"content" validate:"required,max=2000"`
}

type CommentUpdateDTO struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type CommentQuery struct {
	Page   string `form:"page"`
	Limit  string `form:"limit"`
	PostID string `form:"postId"`
}
