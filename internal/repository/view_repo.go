package repository

import (
	"Blogstone/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ViewRepo interface {
	EngagementSweeper
	CheckViewExists(ctx context.Context, userID, postID primitive.ObjectID) (bool, error)
	CreateView(ctx context.Context, view *model.View) error
	CountByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error)
	CountByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.View, error)
}

type viewRepoImpl struct {
	col *mongo.Collection
}

func NewViewRepo(db *mongo.Database) ViewRepo {
	return &viewRepoImpl{
		col: db.Collection(model.View{}.CollectionName()),
	}
}

func (s *viewRepoImpl) CheckViewExists(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"user_id": userID, "post_id": postID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CreateView 插入浏览记录，重复时返回 ErrDuplicate
func (s *viewRepoImpl) CreateView(ctx context.Context, view *model.View) error {
	res, err := s.col.InsertOne(ctx, view)
	if err != nil {
		return translateWriteErr(err)
	}
	view.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *viewRepoImpl) CountByPostID(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	return s.col.CountDocuments(ctx, bson.M{"post_id": postID})
}

func (s *viewRepoImpl) CountByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	return countByPostIDs(ctx, s.col, postIDs)
}

func (s *viewRepoImpl) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]*model.View, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return findAll[model.View](ctx, s.col, bson.M{"user_id": userID}, opts)
}

func (s *viewRepoImpl) DistinctPostIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	return distinctPostIDs(ctx, s.col)
}

func (s *viewRepoImpl) DeleteByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (int64, error) {
	return deleteByPostIDs(ctx, s.col, postIDs)
}
