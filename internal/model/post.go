package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PostStatusPublished   = "published"
	PostStatusUnpublished = "unpublished"
)

type Post struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title         string              `bson:"title" json:"title"`
	Content       string              `bson:"content" json:"content"`
	Image         string              `bson:"image,omitempty" json:"image"` // 完整 URL 或相对路径，空表示默认图
	Slug          string              `bson:"slug" json:"slug"`             // 仅创建时生成
	Status        string              `bson:"status" json:"status"`
	PublishedDate *time.Time          `bson:"published_date,omitempty" json:"published_date"`
	CategoryID    *primitive.ObjectID `bson:"category,omitempty" json:"category"`
	AuthorID      primitive.ObjectID  `bson:"author" json:"author"` // 创建后不可变
	CreatedAt     time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updatedAt"`
}

func (Post) CollectionName() string {
	return "posts"
}

// IsPublished 是否已发布
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
