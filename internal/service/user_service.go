package service

import (
	"Blogstone/internal/api/dto"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/consts"
	"Blogstone/internal/pkg/redis"
	"Blogstone/internal/pkg/security"
	"Blogstone/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.AuthResult, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.AuthResult, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id primitive.ObjectID) (*dto.UserDTO, error)
	UpdateDetails(ctx context.Context, id primitive.ObjectID, req *dto.UpdateDetailsDTO) (*dto.UserDTO, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, req *dto.ChangePasswordDTO) error
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResult, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.AuthResult, error) {
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &model.User{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     normalizeEmail(req.Email),
		Username:  strings.TrimSpace(req.Username),
		Password:  hash,
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExist
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.InfoContext(ctx, "user registered", "user_id", user.ID.Hex())
	return s.issueTokens(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.AuthResult, error) {
	user, err := s.userRepo.GetUserByEmailWithPassword(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err = security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Logout 将令牌签名加入黑名单直到其过期，无效令牌直接忽略
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return nil
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return nil
	}

	ttl := security.TTL(claims)
	if ttl <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, "1", ttl)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id primitive.ObjectID) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "get user")
	}
	return toUserDTO(user), nil
}

func (s *UserServiceImpl) UpdateDetails(ctx context.Context, id primitive.ObjectID, req *dto.UpdateDetailsDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.UpdateUserDetails(ctx, id,
		strings.TrimSpace(req.FirstName),
		strings.TrimSpace(req.LastName),
		normalizeEmail(req.Email),
	)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, ErrUserExist
	}
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "update user")
	}
	return toUserDTO(user), nil
}

func (s *UserServiceImpl) UpdatePassword(ctx context.Context, id primitive.ObjectID, req *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserByIDWithPassword(ctx, id)
	if err != nil {
		return notFound(err, ErrUserNotFound, "get user")
	}
	if err = security.CheckPasswordHash(req.CurrentPassword, user.Password); err != nil {
		return ErrPasswordIncorrect
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err = s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return notFound(err, ErrUserNotFound, "update password")
	}
	return nil
}

// Refresh 校验刷新令牌中的密码指纹，改密后旧刷新令牌失效
func (s *UserServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResult, error) {
	claims, err := security.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.GetUserByIDWithPassword(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if security.Fingerprint(user.Password) != claims.Fingerprint {
		return nil, ErrTokenInvalid
	}
	return s.issueTokens(user)
}

func (s *UserServiceImpl) issueTokens(user *model.User) (*dto.AuthResult, error) {
	token, err := security.GenerateToken(user.ID.Hex(), []string{user.Role})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	refresh, err := security.GenerateRefreshToken(user.ID.Hex(), user.Password)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.AuthResult{User: toUserDTO(user), Token: token, Refresh: refresh}, nil
}

func toUserDTO(user *model.User) *dto.UserDTO {
	out := &dto.UserDTO{}
	_ = copier.Copy(out, user)
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
