package api

import (
	"Blogstone/internal/api/middleware"
	"Blogstone/internal/model"
	"Blogstone/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterOptions 路由层配置
type RouterOptions struct {
	// StaticDir 非空时挂载到 /public
	StaticDir   string
	CORSOrigins []string

	// TrustedProxies 为空时只信任本机
	TrustedProxies []string
}

var localProxies = []string{"127.0.0.1", "::1"}

func SetupRouter(group *HandlersGroup, opts RouterOptions) *gin.Engine {
	r := gin.New()
	proxies := opts.TrustedProxies
	if len(proxies) == 0 {
		proxies = localProxies
	}
	_ = r.SetTrustedProxies(proxies)

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	r.Use(middleware.CommonMiddleware(proxies))
	logger.SetupGin(r)

	if opts.StaticDir != "" {
		r.Static("/public", opts.StaticDir)
	}

	adminOnly := middleware.CheckRoles(model.RoleAdmin, model.RoleSuperAdmin)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "pong"})
		})

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", group.UserHandler.Register)
			authGroup.POST("/login", group.UserHandler.Login)
			authGroup.POST("/logout", group.UserHandler.Logout)
			authGroup.GET("/logout", group.UserHandler.Logout)
			authGroup.POST("/refresh", group.UserHandler.Refresh)

			loggedIn := authGroup.Group("")
			loggedIn.Use(middleware.AuthMiddleware())
			{
				loggedIn.GET("/me", group.UserHandler.GetMe)
				loggedIn.PUT("/details", group.UserHandler.UpdateDetails)
				loggedIn.PUT("/password", group.UserHandler.UpdatePassword)
			}
		}

		categoryGroup := apiGroup.Group("/categories")
		{
			categoryGroup.GET("", group.CategoryHandler.ListCategories)
			categoryGroup.GET("/:id", group.CategoryHandler.GetCategory)

			adminGroup := categoryGroup.Group("")
			adminGroup.Use(middleware.AuthMiddleware(), adminOnly)
			{
				adminGroup.POST("", group.CategoryHandler.CreateCategory)
				adminGroup.PUT("/:id", group.CategoryHandler.UpdateCategory)
				adminGroup.DELETE("/:id", group.CategoryHandler.DeleteCategory)
			}
		}

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.ListPosts)
				authOptGroup.GET("/:id", group.PostHandler.GetPost)
			}

			loggedIn := postGroup.Group("")
			loggedIn.Use(middleware.AuthMiddleware())
			{
				loggedIn.POST("", group.PostHandler.CreatePost)
				loggedIn.PUT("/:id", group.PostHandler.UpdatePost)
				loggedIn.DELETE("/:id", group.PostHandler.DeletePost)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("", group.CommentHandler.ListComments)
			commentGroup.GET("/:id", group.CommentHandler.GetComment)
			commentGroup.GET("/:id/post", middleware.AuthOptionalMiddleware(), group.CommentHandler.GetPostComments)

			loggedIn := commentGroup.Group("")
			loggedIn.Use(middleware.AuthMiddleware())
			{
				loggedIn.POST("", group.CommentHandler.CreateComment)
				loggedIn.PUT("/:id", group.CommentHandler.UpdateComment)
				loggedIn.DELETE("/:id", group.CommentHandler.DeleteComment)
			}
		}

		likeGroup := apiGroup.Group("/like")
		{
			likeGroup.GET("/:postId/post", middleware.AuthOptionalMiddleware(), group.LikeHandler.GetPostLikes)

			loggedIn := likeGroup.Group("")
			loggedIn.Use(middleware.AuthMiddleware())
			{
				loggedIn.POST("/:slug", group.LikeHandler.ToggleLike)
				loggedIn.DELETE("/:id", group.LikeHandler.DeleteLike)
			}
		}

		viewGroup := apiGroup.Group("/views")
		viewGroup.Use(middleware.AuthMiddleware())
		{
			viewGroup.GET("", group.ViewHandler.ListViews)
		}
	}

	return r
}
