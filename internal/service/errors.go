package service

import (
	"Blogstone/internal/pkg/security"
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	Conflict            = 409
	InternalServerError = 500
	BadGateway          = 502
)

var (
	ErrParamInvalid       = errors.New("Invalid parameters")
	ErrUserNotFound       = errors.New("User not found")
	ErrUserExist          = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrPasswordIncorrect  = errors.New("Current password is incorrect")
	ErrTokenInvalid       = errors.New("Invalid or expired token")
	ErrPostNotFound       = errors.New("Post not found")
	ErrCategoryNotFound   = errors.New("Category not found")
	ErrCategoryExist      = errors.New("Category already exists")
	ErrCommentNotFound    = errors.New("Comment not found")
	ErrLikeNotFound       = errors.New("Like not found")
	ErrFileNotSupported   = errors.New("Unsupported file type")
	ErrFileTooLarge       = errors.New("File too large")
	ErrUpstream           = errors.New("Upstream service failed")
	ErrActionBusy         = errors.New("Action in progress, please retry")
	UnauthorizedError     = errors.New("Not authorized")
	UnExpectedError       = errors.New("Internal server error")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:             BadRequest,
	ErrUserNotFound:             NotFound,
	ErrUserExist:                BadRequest,
	security.ErrPasswordTooLong: BadRequest,
	ErrInvalidCredentials:       Unauthorized,
	ErrPasswordIncorrect:        Unauthorized,
	ErrTokenInvalid:             Unauthorized,
	ErrPostNotFound:             NotFound,
	ErrCategoryNotFound:         NotFound,
	ErrCategoryExist:            BadRequest,
	ErrCommentNotFound:          NotFound,
	ErrLikeNotFound:             NotFound,
	ErrFileNotSupported:         BadRequest,
	ErrFileTooLarge:             BadRequest,
	ErrUpstream:                 BadGateway,
	ErrActionBusy:               Conflict,
	UnauthorizedError:           Unauthorized,
	UnExpectedError:             InternalServerError,
}

// Classify 返回错误对应的 HTTP 状态码与对外暴露的错误
func Classify(err error) (int, error) {
	if code, ok := ErrorMap[err]; ok {
		return code, err
	}
	for target, code := range ErrorMap {
		if errors.Is(err, target) {
			return code, target
		}
	}
	return InternalServerError, UnExpectedError
}
