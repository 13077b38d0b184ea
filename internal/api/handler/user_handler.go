package handler

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/api/middleware"
	"Blogstone/internal/pkg/response"
	"Blogstone/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{
		userSvc: userSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterDTO
	if err := bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.userSvc.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"user":    res.User,
		"message": "User registered successfully",
		"token":   res.Token,
	})
}

func (s *UserHandler) Login(c *gin.Context) {
	var req dto.LoginDTO
	if err := bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.userSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"user":    res.User,
		"message": "Logged in successfully",
		"token":   res.Token,
		"refresh": res.Refresh,
	})
}

// Logout 未携带令牌也视为成功
func (s *UserHandler) Logout(c *gin.Context) {
	if err := s.userSvc.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Logged out successfully")
}

func (s *UserHandler) GetMe(c *gin.Context) {
	user, err := s.userSvc.GetUserInfo(c.Request.Context(), middleware.CurrentActor(c).ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdateDetails(c *gin.Context) {
	var req dto.UpdateDetailsDTO
	if err := bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	user, err := s.userSvc.UpdateDetails(c.Request.Context(), middleware.CurrentActor(c).ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

func (s *UserHandler) UpdatePassword(c *gin.Context) {
	var req dto.ChangePasswordDTO
	if err := bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.userSvc.UpdatePassword(c.Request.Context(), middleware.CurrentActor(c).ID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Password updated successfully")
}

func (s *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshDTO
	if err := bind(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.userSvc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"key":     res.Token,
		"refresh": res.Refresh,
	})
}
