package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/jobboard/internal/config"
	"anoa.com/jobboard/internal/entity"
	"anoa.com/jobboard/internal/middleware"
	"anoa.com/jobboard/internal/workflow"
	"anoa.com/jobboard/pkg/apperror"
	"anoa.com/jobboard/pkg/logger"
	"anoa.com/jobboard/pkg/ratelimiter"
	"anoa.com/jobboard/pkg/response"
	"anoa.com/jobboard/pkg/storage"

	applicationHttp "anoa.com/jobboard/internal/modules/application/delivery/http"
	applicationRepo "anoa.com/jobboard/internal/modules/application/repository"
	applicationService "anoa.com/jobboard/internal/modules/application/service"

	authHttp "anoa.com/jobboard/internal/modules/auth/delivery/http"
	authService "anoa.com/jobboard/internal/modules/auth/service"

	jobHttp "anoa.com/jobboard/internal/modules/job/delivery/http"
	jobRepo "anoa.com/jobboard/internal/modules/job/repository"
	jobService "anoa.com/jobboard/internal/modules/job/service"

	searchService "anoa.com/jobboard/internal/modules/search/service"

	userHttp "anoa.com/jobboard/internal/modules/user/delivery/http"
	userRepo "anoa.com/jobboard/internal/modules/user/repository"
	userService "anoa.com/jobboard/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the backends the server is built on. Only DB and Config are required;
// a nil Redis disables rate limiting, a nil JobIndex falls back to database search and
// a nil Storage refuses résumé uploads.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	JobIndex searchService.JobIndex
	Storage  storage.FileStorage
	Config   *config.Config
}

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	httpServer  *http.Server
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	jobIndex := deps.JobIndex
	if jobIndex == nil {
		jobIndex = searchService.NoopIndex{}
	}

	engine := workflow.NewEngine(workflow.NewGormStore(deps.DB))
	limiter := ratelimiter.New(deps.Redis)

	userRepository := userRepo.NewUserRepository(deps.DB)
	jobRepository := jobRepo.NewJobRepository(deps.DB)
	applicationRepository := applicationRepo.NewApplicationRepository(deps.DB)

	authSvc := authService.NewAuthService(userRepository, authService.Options{
		RequirePrivilegedPassword: cfg.AdminRequirePassword,
		BcryptCost:                cfg.BcryptCost,
	})
	authHandler := authHttp.NewAuthHandler(authSvc)

	userSvc := userService.NewUserService(userRepository, engine, jobIndex, deps.Storage, userService.Options{
		BcryptCost:   cfg.BcryptCost,
		ResumeFolder: cfg.CloudinaryUploadFolder,
	})
	userHandler := userHttp.NewUserHandler(userSvc)

	jobSvc := jobService.NewJobService(jobRepository, engine, jobIndex)
	jobHandler := jobHttp.NewJobHandler(jobSvc)

	var applyThrottle applicationService.Throttle
	if limiter.Enabled() {
		applyThrottle = limiter
	}
	applicationSvc := applicationService.NewApplicationService(applicationRepository, jobRepository, engine, applicationService.Options{
		Throttle:    applyThrottle,
		ApplyWindow: cfg.RateLimitApply,
	})
	applicationHandler := applicationHttp.NewApplicationHandler(applicationSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("request_id", middleware.RequestID(c)).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		response.ResponseError(c, apperror.ErrInternal)
		c.Abort()
	}))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.DeleteFormBody())

	router.NoRoute(func(c *gin.Context) {
		response.ResponseError(c, apperror.Wrap(apperror.ErrNotFound, "Not Found"))
	})

	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	requireCredentials := authMiddleware.RequireCredentials()
	requireAdmin := authMiddleware.RequireAdmin()
	requireRecruiter := authMiddleware.RequireRole(entity.RoleRecruiter)
	requireApproved := authMiddleware.RequireApproved()

	router.POST("/login", authHandler.Login)

	users := router.Group("/users")
	{
		users.POST("",
			middleware.RateLimit(limiter, "register", cfg.RateLimitRegister, middleware.ByClientIP),
			userHandler.Register)
		users.GET("", requireAdmin, userHandler.ListUsers)
		users.GET("/:id", requireCredentials, userHandler.GetUser)
		users.PUT("/:id", requireCredentials, userHandler.UpdateUser)
		users.DELETE("/:id", requireAdmin, userHandler.DeleteUser)
		users.PUT("/:id/approve", requireAdmin, userHandler.ApproveUser)
		users.PUT("/:id/role", requireAdmin, userHandler.ChangeRole)
		users.PUT("/:id/resume", requireCredentials, userHandler.UploadResume)
	}

	jobs := router.Group("/jobs")
	{
		// Public listing
		jobs.GET("", jobHandler.ListJobs)
		jobs.GET("/:id", jobHandler.GetJob)

		// Recruiter routes
		jobs.POST("", requireCredentials, requireRecruiter, jobHandler.CreateJob)
		jobs.PUT("/:id", requireCredentials, requireRecruiter, jobHandler.UpdateJob)
		jobs.DELETE("/:id", requireCredentials, requireRecruiter, jobHandler.DeleteJob)
		jobs.GET("/:id/applications",
			middleware.RejectChunked(), requireCredentials, requireRecruiter,
			applicationHandler.ListForJob)

		// Admin moderation
		jobs.PUT("/:id/approve", requireAdmin, jobHandler.ApproveJob)

		jobs.POST("/:id/apply",
			middleware.RejectChunked(), requireCredentials, requireApproved,
			applicationHandler.Apply)
	}

	applications := router.Group("/applications")
	{
		applications.GET("", requireCredentials, requireApproved, applicationHandler.ListForUser)
		applications.PUT("/:id/approve", requireCredentials, requireRecruiter, applicationHandler.Approve)
	}

	return &Server{
		engine:      router,
		db:          deps.DB,
		redisClient: deps.Redis,
		httpServer:  &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called or the listener fails.
func (s *Server) Run(addr string) error {
	s.httpServer.Addr = addr

	logger.Info().Str("addr", addr).Msg("http server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
