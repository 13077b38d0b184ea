package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicate 唯一索引冲突
var ErrDuplicate = errors.New("duplicate key")

// translateWriteErr 将唯一索引冲突统一为 ErrDuplicate
func translateWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// IsNotFound 是否为未找到文档
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// EngagementSweeper 用于清理已删除帖子遗留的互动记录
type EngagementSweeper interface {
	DistinctPostIDs(ctx context.Context) ([]primitive.ObjectID, error)
	DeleteByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (int64, error)
}

func pageOptions(page, limit int64) *options.FindOptions {
	return options.Find().SetSkip((page - 1) * limit).SetLimit(limit)
}

// countByPostIDs 按 post_id 分组计数，未出现的帖子不在结果中
func countByPostIDs(ctx context.Context, col *mongo.Collection, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	res := make(map[primitive.ObjectID]int64, len(postIDs))
	if len(postIDs) == 0 {
		return res, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post_id": bson.M{"$in": postIDs}}}},
		{{Key: "$group", Value: bson.M{"_id": "$post_id", "n": bson.M{"$sum": 1}}}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []struct {
		PostID primitive.ObjectID `bson:"_id"`
		N      int64              `bson:"n"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		res[row.PostID] = row.N
	}
	return res, nil
}

func distinctPostIDs(ctx context.Context, col *mongo.Collection) ([]primitive.ObjectID, error) {
	values, err := col.Distinct(ctx, "post_id", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func deleteByPostIDs(ctx context.Context, col *mongo.Collection, postIDs []primitive.ObjectID) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	res, err := col.DeleteMany(ctx, bson.M{"post_id": bson.M{"$in": postIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// findAll 执行查询并解码全部结果
func findAll[T any](ctx context.Context, col *mongo.Collection, filter any, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	list := make([]*T, 0)
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}
