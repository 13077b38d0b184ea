package handler

import (
	"Blogstone/internal/api/middleware"
	"Blogstone/internal/pkg/response"
	"Blogstone/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ViewHandler struct {
	viewSvc service.ViewService
}

func NewViewHandler(viewSvc service.ViewService) *ViewHandler {
	return &ViewHandler{
		viewSvc: viewSvc,
	}
}

// ListViews 当前用户的浏览历史
func (s *ViewHandler) ListViews(c *gin.Context) {
	items, err := s.viewSvc.ListUserViews(c.Request.Context(), middleware.CurrentActor(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"views": len(items), "data": items})
}
