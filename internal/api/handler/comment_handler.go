package handler

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/api/middleware"
	"Blogstone/internal/pkg/response"
	"Blogstone/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentSvc service.CommentService
}

func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentSvc: commentSvc,
	}
}

func (s *CommentHandler) ListComments(c *gin.Context) {
	var query dto.CommentQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}
	list, details, err := s.commentSvc.ListComments(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, list, details)
}

func (s *CommentHandler) GetComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.commentSvc.GetComment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, comment)
}

func (s *CommentHandler) CreateComment(c *gin.Context) {
	var req dto.CommentCreateDTO
	if err := bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.commentSvc.CreateComment(c.Request.Context(), middleware.CurrentActor(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

func (s *CommentHandler) UpdateComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CommentUpdateDTO
	if err = bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	comment, err := s.commentSvc.UpdateComment(c.Request.Context(), middleware.CurrentActor(c), id, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, comment)
}

func (s *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = s.commentSvc.DeleteComment(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (s *CommentHandler) GetPostComments(c *gin.Context) {
	// 与 /:id 共用路由段
	postID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.commentSvc.GetPostComments(c.Request.Context(), postID, middleware.CurrentActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"post": out.Post, "comments": out.Comments})
}
