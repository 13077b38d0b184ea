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

type CategoryRepo interface {
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategoryByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	GetCategoriesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type categoryRepoImpl struct {
	col *mongo.Collection
}

func NewCategoryRepo(db *mongo.Database) CategoryRepo {
	return &categoryRepoImpl{
		col: db.Collection(model.Category{}.CollectionName()),
	}
}

func (s *categoryRepoImpl) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return findAll[model.Category](ctx, s.col, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (s *categoryRepoImpl) GetCategoryByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	var category model.Category
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *categoryRepoImpl) GetCategoriesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Category, error) {
	if len(ids) == 0 {
		return []*model.Category{}, nil
	}
	return findAll[model.Category](ctx, s.col, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *categoryRepoImpl) CreateCategory(ctx context.Context, category *model.Category) error {
	res, err := s.col.InsertOne(ctx, category)
	if err != nil {
		return translateWriteErr(err)
	}
	category.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *categoryRepoImpl) UpdateCategory(ctx context.Context, id primitive.ObjectID, name string) (*model.Category, error) {
	update := bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}}
	var category model.Category
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&category)
	if err != nil {
		return nil, translateWriteErr(err)
	}
	return &category, nil
}

// DeleteCategory 删除分类，不级联帖子
func (s *categoryRepoImpl) DeleteCategory(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
