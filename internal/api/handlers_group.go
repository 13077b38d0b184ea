package api

import "Blogstone/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler     *handler.UserHandler
	PostHandler     *handler.PostHandler
	CategoryHandler *handler.CategoryHandler
	CommentHandler  *handler.CommentHandler
	LikeHandler     *handler.LikeHandler
	ViewHandler     *handler.ViewHandler
}
