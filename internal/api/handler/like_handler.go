package handler

import (
	"Blogstone/internal/api/middleware"
	"Blogstone/internal/pkg/response"
	"Blogstone/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeSvc service.LikeService
}

func NewLikeHandler(likeSvc service.LikeService) *LikeHandler {
	return &LikeHandler{
		likeSvc: likeSvc,
	}
}

func (s *LikeHandler) ToggleLike(c *gin.Context) {
	res, err := s.likeSvc.ToggleLike(c.Request.Context(), middleware.CurrentActor(c), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !res.Liked {
		response.Message(c, "Post unliked")
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Post liked", "data": res.Like})
}

func (s *LikeHandler) DeleteLike(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = s.likeSvc.DeleteLike(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (s *LikeHandler) GetPostLikes(c *gin.Context) {
	postID, err := pathID(c, "postId")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := s.likeSvc.GetPostLikes(c.Request.Context(), postID, middleware.CurrentActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"post": out.Post, "likes": out.Likes, "count": len(out.Likes)})
}
