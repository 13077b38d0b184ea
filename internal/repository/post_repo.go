package repository

import (
	"Blogstone/internal/model"
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PostFilter 帖子列表查询条件
type PostFilter struct {
	Search     string
	CategoryID *primitive.ObjectID
	AuthorID   *primitive.ObjectID
	Status     string
	// ViewerID 非零时，未发布帖子仅对作者本人可见
	ViewerID primitive.ObjectID
	Sort     string
}

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*model.Post, error)
	GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Post, error)
	ListPosts(ctx context.Context, filter *PostFilter, page, limit int64) ([]*model.Post, int64, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	ExistingPostIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error)
}

type postRepoImpl struct {
	col *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepoImpl{
		col: db.Collection(model.Post{}.CollectionName()),
	}
}

var postSortFields = map[string]struct{}{
	"title":          {},
	"published_date": {},
	"created_at":     {},
}

func (s *postRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return translateWriteErr(err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *postRepoImpl) GetPostByID(ctx context.Context, id primitive.ObjectID) (*model.Post, error) {
	var post model.Post
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) GetPostBySlug(ctx context.Context, slug string) (*model.Post, error) {
	var post model.Post
	if err := s.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *postRepoImpl) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Post, error) {
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}
	return findAll[model.Post](ctx, s.col, bson.M{"_id": bson.M{"$in": ids}})
}

// ListPosts 分页查询帖子并返回总数
func (s *postRepoImpl) ListPosts(ctx context.Context, filter *PostFilter, page, limit int64) ([]*model.Post, int64, error) {
	query := BuildPostQuery(filter)

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := pageOptions(page, limit).SetSort(BuildPostSort(filter.Sort))
	posts, err := findAll[model.Post](ctx, s.col, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *postRepoImpl) UpdatePost(ctx context.Context, post *model.Post) error {
	set := bson.M{
		"title":      post.Title,
		"content":    post.Content,
		"image":      post.Image,
		"status":     post.Status,
		"updated_at": post.UpdatedAt,
	}
	update := bson.M{"$set": set}
	unset := bson.M{}
	if post.PublishedDate != nil {
		set["published_date"] = post.PublishedDate
	}
	if post.CategoryID != nil {
		set["category"] = post.CategoryID
	} else {
		unset["category"] = ""
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeletePost 仅删除帖子本身，互动记录保留
func (s *postRepoImpl) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *postRepoImpl) ExistingPostIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	res := make(map[primitive.ObjectID]struct{}, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	values, err := s.col.Distinct(ctx, "_id", bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if id, ok := v.(primitive.ObjectID); ok {
			res[id] = struct{}{}
		}
	}
	return res, nil
}

// BuildPostQuery 将查询条件转换为 Mongo 过滤器
func BuildPostQuery(filter *PostFilter) bson.M {
	query := bson.M{}
	if filter == nil {
		return bson.M{"status": model.PostStatusPublished}
	}

	if kw := strings.TrimSpace(filter.Search); kw != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(kw), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
		}
	}
	if filter.CategoryID != nil {
		query["category"] = *filter.CategoryID
	}
	if filter.AuthorID != nil {
		query["author"] = *filter.AuthorID
	}

	// 未发布的帖子只对作者可见
	switch {
	case filter.Status == model.PostStatusUnpublished && !filter.ViewerID.IsZero() &&
		(filter.AuthorID == nil || *filter.AuthorID == filter.ViewerID):
		query["status"] = model.PostStatusUnpublished
		query["author"] = filter.ViewerID
	case filter.Status == model.PostStatusUnpublished:
		// 匿名或查看他人的草稿，不匹配任何记录
		query["status"] = model.PostStatusUnpublished
		query["_id"] = bson.M{"$exists": false}
	case filter.Status == model.PostStatusPublished || filter.ViewerID.IsZero():
		query["status"] = model.PostStatusPublished
	default:
		visibility := bson.A{
			bson.M{"status": model.PostStatusPublished},
			bson.M{"author": filter.ViewerID},
		}
		if or, ok := query["$or"]; ok {
			delete(query, "$or")
			query["$and"] = bson.A{bson.M{"$or": or}, bson.M{"$or": visibility}}
		} else {
			query["$or"] = visibility
		}
	}
	return query
}

// BuildPostSort 解析排序参数，如 "-published_date"，默认按发布时间倒序
func BuildPostSort(sort string) bson.D {
	sort = strings.TrimSpace(sort)
	order := 1
	if strings.HasPrefix(sort, "-") {
		order = -1
		sort = sort[1:]
	}
	if _, ok := postSortFields[sort]; !ok {
		return bson.D{{Key: "published_date", Value: -1}, {Key: "_id", Value: -1}}
	}
	return bson.D{{Key: sort, Value: order}, {Key: "_id", Value: -1}}
}
