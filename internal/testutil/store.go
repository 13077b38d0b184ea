// Package testutil 提供测试共享的内存仓储，唯一性约束与 Mongo 索引一致
package testutil

import (
	"Blogstone/internal/model"
	"Blogstone/internal/repository"
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInjected 用于模拟存储故障
var ErrInjected = errors.New("injected store failure")

// Store 聚合全部内存仓储
type Store struct {
	Users      *UserRepo
	Categories *CategoryRepo
	Posts      *PostRepo
	Views      *ViewRepo
	Likes      *LikeRepo
	Comments   *CommentRepo
}

func NewStore() *Store {
	return &Store{
		Users:      &UserRepo{rows: map[primitive.ObjectID]*model.User{}},
		Categories: &CategoryRepo{rows: map[primitive.ObjectID]*model.Category{}},
		Posts:      &PostRepo{rows: map[primitive.ObjectID]*model.Post{}},
		Views:      &ViewRepo{},
		Likes:      &LikeRepo{},
		Comments:   &CommentRepo{},
	}
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// ---------------- users ----------------

type UserRepo struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]*model.User
}

func (r *UserRepo) CreateUser(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.rows[user.ID] = clone(user)
	return nil
}

func (r *UserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := clone(u)
	c.Password = ""
	return c, nil
}

func (r *UserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.User, error) {
	list := make([]*model.User, 0, len(ids))
	for _, id := range ids {
		if u, err := r.GetUserByID(ctx, id); err == nil {
			list = append(list, u)
		}
	}
	return list, nil
}

func (r *UserRepo) GetUserByEmailWithPassword(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *UserRepo) GetUserByIDWithPassword(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return clone(u), nil
}

func (r *UserRepo) UpdateUserDetails(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*model.User, error) {
	r.mu.Lock()
	u, ok := r.rows[id]
	if !ok {
		r.mu.Unlock()
		return nil, mongo.ErrNoDocuments
	}
	for oid, other := range r.rows {
		if oid != id && other.Email == email {
			r.mu.Unlock()
			return nil, repository.ErrDuplicate
		}
	}
	u.FirstName, u.LastName, u.Email, u.UpdatedAt = firstName, lastName, email, time.Now()
	r.mu.Unlock()
	return r.GetUserByID(ctx, id)
}

func (r *UserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	u.Password = hash
	return nil
}

// ---------------- categories ----------------

type CategoryRepo struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]*model.Category
}

func (r *CategoryRepo) ListCategories(_ context.Context) ([]*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]*model.Category, 0, len(r.rows))
	for _, c := range r.rows {
		list = append(list, clone(c))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *CategoryRepo) GetCategoryByID(_ context.Context, id primitive.ObjectID) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return clone(c), nil
}

func (r *CategoryRepo) GetCategoriesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Category, error) {
	list := make([]*model.Category, 0, len(ids))
	for _, id := range ids {
		if c, err := r.GetCategoryByID(ctx, id); err == nil {
			list = append(list, c)
		}
	}
	return list, nil
}

func (r *CategoryRepo) CreateCategory(_ context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.Name == category.Name {
			return repository.ErrDuplicate
		}
	}
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	r.rows[category.ID] = clone(category)
	return nil
}

func (r *CategoryRepo) UpdateCategory(_ context.Context, id primitive.ObjectID, name string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for oid, other := range r.rows {
		if oid != id && other.Name == name {
			return nil, repository.ErrDuplicate
		}
	}
	c.Name, c.UpdatedAt = name, time.Now()
	return clone(c), nil
}

func (r *CategoryRepo) DeleteCategory(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.rows, id)
	return nil
}

// ---------------- posts ----------------

type PostRepo struct {
	mu   sync.Mutex
	rows map[primitive.ObjectID]*model.Post
	// FailWrites 非空时所有写操作返回该错误
	FailWrites error
}

func (r *PostRepo) CreatePost(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return r.FailWrites
	}
	for _, p := range r.rows {
		if p.Slug == post.Slug {
			return repository.ErrDuplicate
		}
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	r.rows[post.ID] = clone(post)
	return nil
}

func (r *PostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return clone(p), nil
}

func (r *PostRepo) GetPostBySlug(_ context.Context, slug string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Slug == slug {
			return clone(p), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *PostRepo) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*model.Post, error) {
	list := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		if p, err := r.GetPostByID(ctx, id); err == nil {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *PostRepo) ListPosts(_ context.Context, filter *repository.PostFilter, page, limit int64) ([]*model.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if filter == nil {
		filter = &repository.PostFilter{}
	}

	matched := make([]*model.Post, 0)
	for _, p := range r.rows {
		if matchPost(p, filter) {
			matched = append(matched, clone(p))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return comparePosts(matched[i], matched[j], filter.Sort)
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= total {
		return []*model.Post{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func matchPost(p *model.Post, f *repository.PostFilter) bool {
	if kw := strings.ToLower(strings.TrimSpace(f.Search)); kw != "" &&
		!strings.Contains(strings.ToLower(p.Title), kw) && !strings.Contains(strings.ToLower(p.Content), kw) {
		return false
	}
	if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
		return false
	}
	if f.AuthorID != nil && p.AuthorID != *f.AuthorID {
		return false
	}
	switch {
	case f.Status == model.PostStatusUnpublished:
		return p.Status == model.PostStatusUnpublished && !f.ViewerID.IsZero() && p.AuthorID == f.ViewerID
	case f.Status == model.PostStatusPublished || f.ViewerID.IsZero():
		return p.Status == model.PostStatusPublished
	default:
		return p.Status == model.PostStatusPublished || p.AuthorID == f.ViewerID
	}
}

func comparePosts(a, b *model.Post, sortBy string) bool {
	desc := strings.HasPrefix(sortBy, "-")
	field := strings.TrimPrefix(sortBy, "-")
	var less, equal bool
	switch field {
	case "title":
		less, equal = a.Title < b.Title, a.Title == b.Title
	case "created_at":
		less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
	case "published_date":
		less, equal = timeOf(a.PublishedDate).Before(timeOf(b.PublishedDate)), timeOf(a.PublishedDate).Equal(timeOf(b.PublishedDate))
	default:
		desc = true
		less, equal = timeOf(a.PublishedDate).Before(timeOf(b.PublishedDate)), timeOf(a.PublishedDate).Equal(timeOf(b.PublishedDate))
	}
	if equal {
		return a.ID.Hex() > b.ID.Hex()
	}
	if desc {
		return !less
	}
	return less
}

func timeOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func (r *PostRepo) UpdatePost(_ context.Context, post *model.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWrites != nil {
		return r.FailWrites
	}
	if _, ok := r.rows[post.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	r.rows[post.ID] = clone(post)
	return nil
}

func (r *PostRepo) DeletePost(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.rows, id)
	return nil
}

func (r *PostRepo) ExistingPostIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.rows[id]; ok {
			res[id] = struct{}{}
		}
	}
	return res, nil
}

// Count 当前帖子数
func (r *PostRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
