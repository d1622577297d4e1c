package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/workhub/collab-api/internal/api/handler"
	"github.com/workhub/collab-api/internal/api/middleware"
	"github.com/workhub/collab-api/internal/core/domain"
	"github.com/workhub/collab-api/internal/core/ports"
	"github.com/workhub/collab-api/internal/core/service"
	mongodb "github.com/workhub/collab-api/internal/infrastructure/db/mongo"
	redisdb "github.com/workhub/collab-api/internal/infrastructure/db/redis"
	"github.com/workhub/collab-api/internal/infrastructure/http/handlers"
	"github.com/workhub/collab-api/internal/infrastructure/storage"
)

// maxImageSize caps image uploads at the transport boundary; oversized
// requests never reach the post service.
const maxImageSize = "5M"

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, which disables login throttling.
func NewRouter(db *mongo.Database, rdb *redis.Client, creds *service.Credentials, files *storage.LocalStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("collab"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	postRepo := mongodb.NewPostRepository(db)
	categoryRepo := mongodb.NewCategoryRepository(db)

	var limiter ports.LoginLimiter
	if rdb != nil {
		limiter = redisdb.NewLoginLimiter(rdb, 0, 0)
	}

	authService := service.NewAuthService(userRepo, creds, limiter, log)
	taskService := service.NewTaskService(taskRepo, log)
	postService := service.NewPostService(postRepo, categoryRepo, files, log)
	categoryService := service.NewCategoryService(categoryRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	postHandler := handler.NewPostHandler(postService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	authenticate := middleware.Authenticate(creds)
	requireAuth := middleware.RequireAuth()
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	imageLimit := echomiddleware.BodyLimit(maxImageSize)

	e.Use(authenticate)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- User administration ---
	e.GET("/users", authHandler.ListUsers, adminOnly)
	e.PATCH("/users/:id/role", authHandler.UpdateRole, adminOnly)

	// --- Categories: public reads, admin-only creation ---
	e.GET("/categories", categoryHandler.List)
	e.GET("/categories/:id", categoryHandler.Get)
	e.POST("/categories", categoryHandler.Create, adminOnly)

	// --- Posts: public reads, owner-scoped mutation ---
	e.GET("/posts", postHandler.List)
	e.GET("/posts/:id", postHandler.Get)
	e.POST("/posts", postHandler.Create, requireAuth, imageLimit)
	e.PUT("/posts/:id", postHandler.Update, requireAuth, imageLimit)
	e.DELETE("/posts/:id", postHandler.Delete, requireAuth)
	e.POST("/posts/:id/comments", postHandler.AddComment, requireAuth)

	// --- Tasks: authenticated, owner-scoped throughout ---
	tasks := e.Group("/tasks", requireAuth)
	tasks.GET("", taskHandler.List)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	// --- Uploaded images ---
	e.Static("/uploads", files.BaseDir())

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
