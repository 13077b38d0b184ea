package testutil

import (
	"Blogstone/internal/model"
	"Blogstone/internal/repository"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type pairKey struct {
	user primitive.ObjectID
	post primitive.ObjectID
}

// engagementRows 按 post_id 存储的互动记录公共部分
type engagementRows[T any] struct {
	mu   sync.Mutex
	rows []*T
	// FailReads 非空时所有读操作返回该错误
	FailReads error
}

func (e *engagementRows[T]) filter(match func(*T) bool) []*T {
	list := make([]*T, 0)
	for _, row := range e.rows {
		if match(row) {
			list = append(list, clone(row))
		}
	}
	return list
}

func (e *engagementRows[T]) remove(match func(*T) bool) int64 {
	kept := e.rows[:0]
	var n int64
	for _, row := range e.rows {
		if match(row) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	e.rows = kept
	return n
}

func distinct(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := map[primitive.ObjectID]struct{}{}
	res := make([]primitive.ObjectID, 0)
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			res = append(res, id)
		}
	}
	return res
}

func inSet(ids []primitive.ObjectID) map[primitive.ObjectID]struct{} {
	set := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// ---------------- views ----------------

type ViewRepo struct {
	engagementRows[model.View]
}

func (r *ViewRepo) CheckViewExists(_ context.Context, userID, postID primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return false, r.FailReads
	}
	return len(r.filter(func(v *model.View) bool { return v.UserID == userID && v.PostID == postID })) > 0, nil
}

func (r *ViewRepo) CreateView(_ context.Context, view *model.View) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.rows {
		if (pairKey{v.UserID, v.PostID}) == (pairKey{view.UserID, view.PostID}) {
			return repository.ErrDuplicate
		}
	}
	view.ID = primitive.NewObjectID()
	r.rows = append(r.rows, clone(view))
	return nil
}

func (r *ViewRepo) CountByPostID(_ context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return 0, r.FailReads
	}
	return int64(len(r.filter(func(v *model.View) bool { return v.PostID == postID }))), nil
}

func (r *ViewRepo) CountByPostIDs(_ context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return nil, r.FailReads
	}
	set := inSet(postIDs)
	res := map[primitive.ObjectID]int64{}
	for _, v := range r.rows {
		if _, ok := set[v.PostID]; ok {
			res[v.PostID]++
		}
	}
	return res, nil
}

func (r *ViewRepo) ListByUserID(_ context.Context, userID primitive.ObjectID) ([]*model.View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return nil, r.FailReads
	}
	list := r.filter(func(v *model.View) bool { return v.UserID == userID })
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r *ViewRepo) DistinctPostIDs(_ context.Context) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(r.rows))
	for _, v := range r.rows {
		ids = append(ids, v.PostID)
	}
	return distinct(ids), nil
}

func (r *ViewRepo) DeleteByPostIDs(_ context.Context, postIDs []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := inSet(postIDs)
	return r.remove(func(v *model.View) bool { _, ok := set[v.PostID]; return ok }), nil
}

// CountPair (user, post) 的浏览记录数
func (r *ViewRepo) CountPair(userID, postID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(func(v *model.View) bool { return v.UserID == userID && v.PostID == postID }))
}

// ---------------- likes ----------------

type LikeRepo struct {
	engagementRows[model.Like]
}

func (r *LikeRepo) FindLike(_ context.Context, userID, postID primitive.ObjectID) (*model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return nil, r.FailReads
	}
	list := r.filter(func(l *model.Like) bool { return l.UserID == userID && l.PostID == postID })
	if len(list) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return list[0], nil
}

func (r *LikeRepo) CreateLike(_ context.Context, like *model.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.rows {
		if l.UserID == like.UserID && l.PostID == like.PostID {
			return repository.ErrDuplicate
		}
	}
	like.ID = primitive.NewObjectID()
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, clone(like))
	return nil
}

func (r *LikeRepo) DeleteLike(_ context.Context, userID, postID primitive.ObjectID) (*model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted *model.Like
	r.remove(func(l *model.Like) bool {
		if deleted == nil && l.UserID == userID && l.PostID == postID {
			deleted = clone(l)
			return true
		}
		return false
	})
	if deleted == nil {
		return nil, mongo.ErrNoDocuments
	}
	return deleted, nil
}

func (r *LikeRepo) GetLikeByID(_ context.Context, id primitive.ObjectID) (*model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.filter(func(l *model.Like) bool { return l.ID == id })
	if len(list) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return list[0], nil
}

func (r *LikeRepo) DeleteLikeByID(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.remove(func(l *model.Like) bool { return l.ID == id }) == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *LikeRepo) ListByPostID(_ context.Context, postID primitive.ObjectID) ([]*model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return nil, r.FailReads
	}
	return r.filter(func(l *model.Like) bool { return l.PostID == postID }), nil
}

func (r *LikeRepo) ListByPostIDs(_ context.Context, postIDs []primitive.ObjectID) ([]*model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return nil, r.FailReads
	}
	set := inSet(postIDs)
	return r.filter(func(l *model.Like) bool { _, ok := set[l.PostID]; return ok }), nil
}

func (r *LikeRepo) DistinctPostIDs(_ context.Context) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(r.rows))
	for _, l := range r.rows {
		ids = append(ids, l.PostID)
	}
	return distinct(ids), nil
}

func (r *LikeRepo) DeleteByPostIDs(_ context.Context, postIDs []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := inSet(postIDs)
	return r.remove(func(l *model.Like) bool { _, ok := set[l.PostID]; return ok }), nil
}

// CountPair (user, post) 的点赞记录数
func (r *LikeRepo) CountPair(userID, postID primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(func(l *model.Like) bool { return l.UserID == userID && l.PostID == postID }))
}

// ---------------- comments ----------------

type CommentRepo struct {
	engagementRows[model.Comment]
}

func sortComments(list []*model.Comment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID.Hex() > list[j].ID.Hex()
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

func (r *CommentRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	r.rows = append(r.rows, clone(comment))
	return nil
}

func (r *CommentRepo) GetCommentByID(_ context.Context, id primitive.ObjectID) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.filter(func(c *model.Comment) bool { return c.ID == id })
	if len(list) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return list[0], nil
}

func (r *CommentRepo) UpdateComment(_ context.Context, id primitive.ObjectID, content string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			c.Content, c.UpdatedAt = content, time.Now()
			return clone(c), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *CommentRepo) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.remove(func(c *model.Comment) bool { return c.ID == id }) == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *CommentRepo) ListComments(_ context.Context, postID *primitive.ObjectID, page, limit int64) ([]*model.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.filter(func(c *model.Comment) bool { return postID == nil || c.PostID == *postID })
	sortComments(list)
	total := int64(len(list))
	start := (page - 1) * limit
	if start >= total {
		return []*model.Comment{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return list[start:end], total, nil
}

func (r *CommentRepo) ListByPostID(_ context.Context, postID primitive.ObjectID) ([]*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return nil, r.FailReads
	}
	list := r.filter(func(c *model.Comment) bool { return c.PostID == postID })
	sortComments(list)
	return list, nil
}

func (r *CommentRepo) CountByPostID(_ context.Context, postID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return 0, r.FailReads
	}
	return int64(len(r.filter(func(c *model.Comment) bool { return c.PostID == postID }))), nil
}

func (r *CommentRepo) CountByPostIDs(_ context.Context, postIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailReads != nil {
		return nil, r.FailReads
	}
	set := inSet(postIDs)
	res := map[primitive.ObjectID]int64{}
	for _, c := range r.rows {
		if _, ok := set[c.PostID]; ok {
			res[c.PostID]++
		}
	}
	return res, nil
}

func (r *CommentRepo) DistinctPostIDs(_ context.Context) ([]primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, 0, len(r.rows))
	for _, c := range r.rows {
		ids = append(ids, c.PostID)
	}
	return distinct(ids), nil
}

func (r *CommentRepo) DeleteByPostIDs(_ context.Context, postIDs []primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := inSet(postIDs)
	return r.remove(func(c *model.Comment) bool { _, ok := set[c.PostID]; return ok }), nil
}

// Len 评论总数
func (r *CommentRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
