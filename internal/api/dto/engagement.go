package dto

import (
	"Blogstone/internal/model"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToggleLikeResult 点赞切换结果，Liked 为 false 时 Like 为空
type ToggleLikeResult struct {
	Liked bool
	Like  *model.Like
}

// PostLikes 帖子点赞列表
type PostLikes struct {
	Post  *model.Post
	Likes []*model.Like
}

// PostComments 帖子评论列表
type PostComments struct {
	Post     *model.Post
	Comments []*model.Comment
}

// ViewItem 当前用户的浏览记录，帖子已删除时 Post 为 null
type ViewItem struct {
	ID        primitive.ObjectID `json:"id"`
	Post      *PostBrief         `json:"post"`
	CreatedAt time.Time          `json:"created_at"`
}
