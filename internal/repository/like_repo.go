package repository

import (
	"Blogstone/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LikeRepo interface {
	EngagementSweeper
	FindLike(ctx context.Context, userID, postID primitive.ObjectID) (*model.Like, error)
	CreateLike(ctx context.Context, like *model.Like) error
	// DeleteLike 删除 (user, post) 对应的点赞，返回被删除的记录；不存在时返回 mongo.ErrNoDocuments
	DeleteLike(ctx context.Context, userID, postID primitive.ObjectID) (*model.Like, error)
	GetLikeByID(ctx context.Context, id primitive.ObjectID) (*model.Like, error)
	DeleteLikeByID(ctx context.Context, id primitive.ObjectID) error
	ListByPostID(ctx context.Context, postID primitive.ObjectID) ([]*model.Like, error)
	ListByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]*model.Like, error)
}

type likeRepoImpl struct {
	col *mongo.Collection
}

func NewLikeRepo(db *mongo.Database) LikeRepo {
	return &likeRepoImpl{
		col: db.Collection(model.Like{}.CollectionName()),
	}
}

func (s *likeRepoImpl) FindLike(ctx context.Context, userID, postID primitive.ObjectID) (*model.Like, error) {
	var like model.Like
	if err := s.col.FindOne(ctx, bson.M{"user_id": userID, "post_id": postID}).Decode(&like); err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *likeRepoImpl) CreateLike(ctx context.Context, like *model.Like) error {
	res, err := s.col.InsertOne(ctx, like)
	if err != nil {
		return translateWriteErr(err)
	}
	like.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *likeRepoImpl) DeleteLike(ctx context.Context, userID, postID primitive.ObjectID) (*model.Like, error) {
	var like model.Like
	err := s.col.FindOneAndDelete(ctx, bson.M{"user_id": userID, "post_id": postID}).Decode(&like)
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *likeRepoImpl) GetLikeByID(ctx context.Context, id primitive.ObjectID) (*model.Like, error) {
	var like model.Like
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&like); err != nil {
		return nil, err
	}
	return &like, nil
}

func (s *likeRepoImpl) DeleteLikeByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *likeRepoImpl) ListByPostID(ctx context.Context, postID primitive.ObjectID) ([]*model.Like, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[model.Like](ctx, s.col, bson.M{"post_id": postID}, opts)
}

func (s *likeRepoImpl) ListByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) ([]*model.Like, error) {
	if len(postIDs) == 0 {
		return []*model.Like{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[model.Like](ctx, s.col, bson.M{"post_id": bson.M{"$in": postIDs}}, opts)
}

func (s *likeRepoImpl) DistinctPostIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinctPostIDs(ctx, s.col)
}

func (s *likeRepoImpl) DeleteByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (int64, error) {
	return deleteByPostIDs(ctx, s.col, postIDs)
}
