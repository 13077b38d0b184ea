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

type UserRepo interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error)
	GetUserByEmailWithPassword(ctx context.Context, email string) (*model.User, error)
	GetUserByIDWithPassword(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	UpdateUserDetails(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

type userRepoImpl struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepo {
	return &userRepoImpl{
		col: db.Collection(model.User{}.CollectionName()),
	}
}

// withoutPassword 默认查询排除密码字段
var withoutPassword = bson.M{"password": 0}

func (s *userRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	res, err := s.col.InsertOne(ctx, user)
	if err != nil {
		return translateWriteErr(err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *userRepoImpl) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(withoutPassword)).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs 批量获取用户基础信息
func (s *userRepoImpl) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return findAll[model.User](ctx, s.col,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(withoutPassword),
	)
}

func (s *userRepoImpl) GetUserByEmailWithPassword(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.col.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) GetUserByIDWithPassword(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userRepoImpl) UpdateUserDetails(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*model.User, error) {
	update := bson.M{"$set": bson.M{
		"first_name": firstName,
		"last_name":  lastName,
		"email":      email,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutPassword)

	var user model.User
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user); err != nil {
		return nil, translateWriteErr(err)
	}
	return &user, nil
}

func (s *userRepoImpl) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":   hash,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
