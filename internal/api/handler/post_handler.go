package handler

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/api/middleware"
	"Blogstone/internal/pkg/response"
	"Blogstone/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc        service.PostService
	maxUploadBytes int64
}

func NewPostHandler(postSvc service.PostService, maxUploadMB int) *PostHandler {
	return &PostHandler{
		postSvc:        postSvc,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

func (s *PostHandler) ListPosts(c *gin.Context) {
	var query dto.PostQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	posts, details, err := s.postSvc.ListPosts(c.Request.Context(), &query, middleware.CurrentActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, posts, details)
}

// GetPost 登录用户访问详情会记录一次浏览
func (s *PostHandler) GetPost(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.GetPostDetail(c.Request.Context(), postID, middleware.CurrentActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	var req dto.PostCreateDTO
	if err := bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	image, err := readUpload(c, "image", s.maxUploadBytes)
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.CreatePost(c.Request.Context(), middleware.CurrentActor(c), &req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

func (s *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PostUpdateDTO
	if err = bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	image, err := readUpload(c, "image", s.maxUploadBytes)
	if err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.postSvc.UpdatePost(c.Request.Context(), middleware.CurrentActor(c), postID, &req, image)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, post)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.postSvc.DeletePost(c.Request.Context(), middleware.CurrentActor(c), postID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
