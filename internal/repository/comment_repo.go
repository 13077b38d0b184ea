package repository

import (
	"Blogstone/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CommentRepo interface {
	EngagementSweeper
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	ListComments(ctx context.Context, postID *primitive.ObjectID, page, limit int64) ([]*model.Comment, int64, error)
	ListByPostID(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error)
	CountByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error)
	CountByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
}

type commentRepoImpl struct {
	col *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) CommentRepo {
	return &commentRepoImpl{
		col: db.Collection(model.Comment{}.CollectionName()),
	}
}

// 评论按创建时间倒序，_id 保证同一时刻的稳定顺序
var commentSort = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

func (s *commentRepoImpl) CreateComment(ctx context.Context, comment *model.Comment) error {
	res, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return translateWriteErr(err)
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *commentRepoImpl) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *commentRepoImpl) UpdateComment(ctx context.Context, id primitive.ObjectID, content string) (*model.Comment, error) {
	update := bson.M{"$set": bson.M{"content": content, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment model.Comment
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *commentRepoImpl) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *commentRepoImpl) ListComments(ctx context.Context, postID *primitive.ObjectID, page, limit int64) ([]*model.Comment, int64, error) {
	filter := bson.M{}
	if postID != nil {
		filter["post_id"] = *postID
	}

	total, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	list, err := findAll[model.Comment](ctx, s.col, filter, pageOptions(page, limit).SetSort(commentSort))
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *commentRepoImpl) ListByPostID(ctx context.Context, postID primitive.ObjectID) ([]*model.Comment, error) {
	return findAll[model.Comment](ctx, s.col, bson.M{"post_id": postID}, options.Find().SetSort(commentSort))
}

func (s *commentRepoImpl) CountByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"post_id": postID})
}

func (s *commentRepoImpl) CountByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	return countByPostIDs(ctx, s.col, postIDs)
}

func (s *commentRepoImpl) DistinctPostIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinctPostIDs(ctx, s.col)
}

func (s *commentRepoImpl) DeleteByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (int64, error) {
	return deleteByPostIDs(ctx, s.col, postIDs)
}
