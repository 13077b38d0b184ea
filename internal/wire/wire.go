package wire

import (
	"Blogstone/internal/api"
	"Blogstone/internal/api/config"
	"Blogstone/internal/api/handler"
	"Blogstone/internal/job"
	"Blogstone/internal/pkg/cron"
	"Blogstone/internal/pkg/kafka"
	"Blogstone/internal/repository"
	"Blogstone/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// BlobStore 图片存储在服务层与定时任务中的全部能力
type BlobStore interface {
	service.BlobStore
	job.BlobDeleter
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router   *gin.Engine
	DB       *mongo.Database
	CronMgr  *cron.Manager
	Producer kafka.Producer
}

func BuildApplication(db *mongo.Database, cfg *config.Config, producer kafka.Producer, blobs BlobStore) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	postRepo := repository.NewPostRepo(db)
	viewRepo := repository.NewViewRepo(db)
	likeRepo := repository.NewLikeRepo(db)
	commentRepo := repository.NewCommentRepo(db)

	aggregationService := service.NewAggregationService(userRepo, categoryRepo, viewRepo, likeRepo, commentRepo, producer,
		service.ImageOptions{BaseURL: cfg.Server.BaseURL, DefaultImage: cfg.Server.DefaultImage})
	userService := service.NewUserService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	postService := service.NewPostService(postRepo, categoryRepo, aggregationService, blobs, cfg.Server.ImageMaxWidth)
	commentService := service.NewCommentService(commentRepo, postRepo, producer)
	likeService := service.NewLikeService(likeRepo, postRepo, producer)
	viewService := service.NewViewService(viewRepo, postRepo)

	handlers := &api.HandlersGroup{
		UserHandler:     handler.NewUserHandler(userService),
		PostHandler:     handler.NewPostHandler(postService, cfg.Server.MaxUploadMB),
		CategoryHandler: handler.NewCategoryHandler(categoryService),
		CommentHandler:  handler.NewCommentHandler(commentService),
		LikeHandler:     handler.NewLikeHandler(likeService),
		ViewHandler:     handler.NewViewHandler(viewService),
	}

	router := api.SetupRouter(handlers, api.RouterOptions{
		StaticDir:      cfg.Server.StaticDir,
		CORSOrigins:    cfg.Server.CORSOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
	})

	cronMgr := cron.NewCronManager(cfg.Jobs,
		job.NewMediaCleanupJob(blobs),
		job.NewOrphanSweepJob(postRepo, viewRepo, likeRepo, commentRepo),
	)

	return &ApplicationContainer{
		Router:   router,
		DB:       db,
		CronMgr:  cronMgr,
		Producer: producer,
	}, nil
}
