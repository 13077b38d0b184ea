package service

import (
	"Blogstone/internal/model"
	"Blogstone/internal/repository"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor 当前请求的身份，ID 为零值表示匿名
type Actor struct {
	ID    primitive.ObjectID
	Roles []string
}

func (a Actor) IsAnonymous() bool {
	return a.ID.IsZero()
}

func (a Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == model.RoleAdmin || r == model.RoleSuperAdmin {
			return true
		}
	}
	return false
}

// CanModify 资源所有者或管理员
func (a Actor) CanModify(ownerID primitive.ObjectID) bool {
	return !a.IsAnonymous() && (a.ID == ownerID || a.IsAdmin())
}

// CanView 未发布的帖子只对作者可见
func (a Actor) CanView(post *model.Post) bool {
	return post.IsPublished() || (!a.IsAnonymous() && post.AuthorID == a.ID)
}

// BlobStore 图片存储，Put 返回可直接访问的绝对地址
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType, ext string) (string, error)
	KeyFromURL(url string) (string, bool)
}

// ParseObjectID 解析路径参数中的 id
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrParamInvalid
	}
	return id, nil
}

// notFound 将 ErrNoDocuments 转换为实体对应的错误
func notFound(err error, target error, op string) error {
	if repository.IsNotFound(err) {
		return target
	}
	return fmt.Errorf("%s: %w", op, err)
}
