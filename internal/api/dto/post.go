package dto

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostView 帖子响应视图，派生字段仅存在于本次响应
type PostView struct {
	ID            primitive.ObjectID `json:"_id"`
	Title         string             `json:"title"`
	Content       string             `json:"content"`
	Image         string             `json:"image"`
	Slug          string             `json:"slug"`
	Status        string             `json:"status"`
	PublishedDate *time.Time         `json:"published_date"`
	Category      *CategoryDTO       `json:"category,omitempty"`
	Author        *UserBrief         `json:"author"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`

	CommentCount int64          `json:"comment_count"`
	Comments     []*CommentView `json:"comments"`
	LikeCount    int64          `json:"like_count"`
	Likes        []string       `json:"likes"`
	// HasLiked / IsOwner 匿名访问时为 null
	HasLiked  *bool `json:"has_liked"`
	IsOwner   *bool `json:"is_owner"`
	ViewCount int64 `json:"view_count"`
}

// PostQuery 帖子列表查询参数
type PostQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Author   string `form:"author"`
	Status   string `form:"status"`
	Sort     string `form:"sort"`
}

// PostCreateDTO 新建帖子，支持 multipart 与 JSON
type PostCreateDTO struct {
	Title      string `json:"title" form:"title" validate:"required,max=50"`
	Content    string `json:"content" form:"content" validate:"required"`
	Status     string `json:"status" form:"status" validate:"omitempty,oneof=published unpublished"`
	CategoryID string `json:"categoryId" form:"categoryId"`
	// 表单中 image 字段为文件，图片地址走 imageUrl
	Image      string `json:"image" form:"imageUrl" validate:"omitempty,max=512"`
}

// PostUpdateDTO 修改帖子，未提供的字段保持不变
type PostUpdateDTO struct {
	Title      *string `json:"title" form:"title" validate:"omitempty,min=1,max=50"`
	Content    *string `json:"content" form:"content" validate:"omitempty,min=1"`
	Status     *string `json:"status" form:"status" validate:"omitempty,oneof=published unpublished"`
	CategoryID *string `json:"categoryId" form:"categoryId"`
	Image      *string `json:"image" form:"imageUrl" validate:"omitempty,max=512"`
}

// PostBrief 浏览记录中引用的帖子
type PostBrief struct {
	ID    primitive.ObjectID `json:"id"`
	Title string             `json:"title"`
}
